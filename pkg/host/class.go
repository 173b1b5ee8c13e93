package host

import (
	"fmt"
	"strings"

	"zapush/interpreter-go/pkg/runtime"
)

// Func is the invocation thunk behind every host method and constructor.
type Func func(call *Call) (runtime.Value, error)

// Method is one callable member of a host class.
type Method struct {
	Owner   *Class
	Name    string
	Params  []string
	Returns string
	Static  bool
	Impl    Func
}

// Signature renders `name(p1, p2)`.
func (m *Method) Signature() string {
	return fmt.Sprintf("%s(%s)", m.Name, strings.Join(m.Params, ", "))
}

func (m *Method) String() string {
	owner := "?"
	if m.Owner != nil {
		owner = m.Owner.Name()
	}
	return owner + "." + m.Signature()
}

func (m *Method) key() string {
	return m.Name + "(" + strings.Join(m.Params, ",") + ")"
}

// Constructor creates instances of its owner.
type Constructor struct {
	Owner  *Class
	Params []string
	Impl   Func
}

func (c *Constructor) String() string {
	owner := "?"
	if c.Owner != nil {
		owner = c.Owner.Name()
	}
	return fmt.Sprintf("new %s(%s)", owner, strings.Join(c.Params, ", "))
}

// Field is a readable member. Static fields carry a constant Value or a
// Getter; instance fields are catalogued but not readable through the
// interpreter.
type Field struct {
	Owner  *Class
	Name   string
	Type   string
	Static bool
	Value  runtime.Value
	Getter Func
}

// Class describes one host type: its supertypes and its public members.
// Build it with NewClass and the chaining helpers, then Register it; a
// registered class must not be modified.
type Class struct {
	name        string
	super       string
	interfaces  []string
	isInterface bool
	primitive   bool

	methods      []*Method
	constructors []*Constructor
	fields       []*Field

	registry *Registry
}

// NewClass starts the description of a class named by its fully-qualified
// name.
func NewClass(name string) *Class {
	return &Class{name: name}
}

// NewInterface starts the description of an interface.
func NewInterface(name string) *Class {
	return &Class{name: name, isInterface: true}
}

func newPrimitive(name string) *Class {
	return &Class{name: name, primitive: true}
}

// Extends sets the superclass.
func (c *Class) Extends(super string) *Class {
	c.super = super
	return c
}

// Implements adds implemented (or, for interfaces, extended) interfaces.
func (c *Class) Implements(names ...string) *Class {
	c.interfaces = append(c.interfaces, names...)
	return c
}

// Method adds an instance method.
func (c *Class) Method(name string, params []string, returns string, impl Func) *Class {
	c.methods = append(c.methods, &Method{Owner: c, Name: name, Params: params, Returns: returns, Impl: impl})
	return c
}

// StaticMethod adds a static method.
func (c *Class) StaticMethod(name string, params []string, returns string, impl Func) *Class {
	c.methods = append(c.methods, &Method{Owner: c, Name: name, Params: params, Returns: returns, Static: true, Impl: impl})
	return c
}

// Constructor adds a constructor.
func (c *Class) Constructor(params []string, impl Func) *Class {
	c.constructors = append(c.constructors, &Constructor{Owner: c, Params: params, Impl: impl})
	return c
}

// StaticField adds a constant static field.
func (c *Class) StaticField(name, typ string, value runtime.Value) *Class {
	c.fields = append(c.fields, &Field{Owner: c, Name: name, Type: typ, Static: true, Value: value})
	return c
}

// StaticGetter adds a static field whose value is produced on each read.
func (c *Class) StaticGetter(name, typ string, getter Func) *Class {
	c.fields = append(c.fields, &Field{Owner: c, Name: name, Type: typ, Static: true, Getter: getter})
	return c
}

// InstanceField catalogues a non-static field.
func (c *Class) InstanceField(name, typ string) *Class {
	c.fields = append(c.fields, &Field{Owner: c, Name: name, Type: typ})
	return c
}

// Name is the fully-qualified name.
func (c *Class) Name() string {
	if c == nil {
		return "<nil>"
	}
	return c.name
}

// TypeName satisfies runtime.Type.
func (c *Class) TypeName() string {
	return c.Name()
}

// SimpleName drops the package prefix.
func (c *Class) SimpleName() string {
	name := c.Name()
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func (c *Class) IsInterface() bool { return c != nil && c.isInterface }
func (c *Class) IsPrimitive() bool { return c != nil && c.primitive }

// Superclass resolves the declared superclass. java.lang.Object is the
// implicit superclass of every other non-primitive class.
func (c *Class) Superclass() *Class {
	if c == nil || c.registry == nil || c.primitive || c.name == ObjectClass {
		return nil
	}
	name := c.super
	if name == "" {
		name = ObjectClass
	}
	super, _ := c.registry.Lookup(name)
	return super
}

// Interfaces resolves the directly implemented interfaces.
func (c *Class) Interfaces() []*Class {
	if c == nil || c.registry == nil {
		return nil
	}
	out := make([]*Class, 0, len(c.interfaces))
	for _, name := range c.interfaces {
		if iface, ok := c.registry.Lookup(name); ok {
			out = append(out, iface)
		}
	}
	return out
}

// supertypes lists c followed by every transitive supertype, nearest first,
// without duplicates.
func (c *Class) supertypes() []*Class {
	if c == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []*Class
	queue := []*Class{c}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		if _, ok := seen[next.name]; ok {
			continue
		}
		seen[next.name] = struct{}{}
		out = append(out, next)
		if super := next.Superclass(); super != nil {
			queue = append(queue, super)
		}
		queue = append(queue, next.Interfaces()...)
	}
	return out
}

// IsAssignableFrom reports whether a value of type other may be passed where
// c is expected. Primitives are only assignable from themselves.
func (c *Class) IsAssignableFrom(other *Class) bool {
	if c == nil || other == nil {
		return false
	}
	if c.name == other.name {
		return true
	}
	if c.primitive || other.primitive {
		return false
	}
	if c.name == ObjectClass {
		return true
	}
	for _, super := range other.supertypes() {
		if super.name == c.name {
			return true
		}
	}
	return false
}

// Methods returns own and inherited methods. A method overridden lower in the
// hierarchy hides the inherited one with the same parameter list.
func (c *Class) Methods() []*Method {
	var out []*Method
	seen := map[string]struct{}{}
	for _, typ := range c.supertypes() {
		for _, m := range typ.methods {
			key := m.key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// MethodsNamed filters Methods by name.
func (c *Class) MethodsNamed(name string) []*Method {
	var out []*Method
	for _, m := range c.Methods() {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// Constructors returns the class's own constructors.
func (c *Class) Constructors() []*Constructor {
	if c == nil {
		return nil
	}
	out := make([]*Constructor, len(c.constructors))
	copy(out, c.constructors)
	return out
}

// Fields returns own and inherited fields, nearest declaration first.
func (c *Class) Fields() []*Field {
	var out []*Field
	seen := map[string]struct{}{}
	for _, typ := range c.supertypes() {
		for _, f := range typ.fields {
			if _, ok := seen[f.Name]; ok {
				continue
			}
			seen[f.Name] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

// LookupField finds a field by name, searching supertypes.
func (c *Class) LookupField(name string) (*Field, bool) {
	for _, f := range c.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// MemberNames lists distinct method and field names, for suggestions.
func (c *Class) MemberNames() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range c.Methods() {
		if _, ok := seen[m.Name]; !ok {
			seen[m.Name] = struct{}{}
			out = append(out, m.Name)
		}
	}
	for _, f := range c.Fields() {
		if _, ok := seen[f.Name]; !ok {
			seen[f.Name] = struct{}{}
			out = append(out, f.Name)
		}
	}
	return out
}

func (c *Class) String() string {
	return c.Name()
}
