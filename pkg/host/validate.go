package host

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"zapush/interpreter-go/pkg/runtime"
)

// Validate checks that every type a registered class refers to (supertypes,
// parameter, return and field types) is itself registered. All problems are
// reported together.
func (r *Registry) Validate() error {
	var result *multierror.Error
	for _, name := range r.Names() {
		c, ok := r.Lookup(name)
		if !ok || c.IsPrimitive() {
			continue
		}
		check := func(what, typ string) {
			if typ == "" {
				return
			}
			if _, ok := r.Lookup(typ); !ok {
				result = multierror.Append(result, fmt.Errorf("%s: %s refers to unknown type %s", c.Name(), what, typ))
			}
		}
		check("superclass", c.super)
		for _, iface := range c.interfaces {
			check("interface", iface)
		}
		for _, m := range c.methods {
			for idx, param := range m.Params {
				check(fmt.Sprintf("method %s parameter %d", m.Signature(), idx+1), param)
			}
			check(fmt.Sprintf("method %s return", m.Signature()), m.Returns)
			if m.Impl == nil {
				result = multierror.Append(result, fmt.Errorf("%s: method %s has no implementation", c.Name(), m.Signature()))
			}
		}
		for _, ctor := range c.constructors {
			for idx, param := range ctor.Params {
				check(fmt.Sprintf("constructor parameter %d", idx+1), param)
			}
			if ctor.Impl == nil {
				result = multierror.Append(result, fmt.Errorf("%s: constructor %s has no implementation", c.Name(), ctor))
			}
		}
		for _, f := range c.fields {
			check("field "+f.Name, f.Type)
		}
	}
	return result.ErrorOrNil()
}

// TypeOf returns the dynamic type of a value. Null has no type.
func (r *Registry) TypeOf(v runtime.Value) (*Class, bool) {
	switch val := v.(type) {
	case runtime.StringValue:
		return r.Lookup(StringClass)
	case runtime.IntegerValue:
		return r.Lookup(IntType)
	case runtime.BoolValue:
		return r.Lookup(BooleanType)
	case *runtime.ObjectValue:
		if val == nil || val.Type == nil {
			return nil, false
		}
		return r.Lookup(val.Type.TypeName())
	case runtime.TypeValue:
		if val.Type == nil {
			return nil, false
		}
		return r.Lookup(val.Type.TypeName())
	default:
		return nil, false
	}
}
