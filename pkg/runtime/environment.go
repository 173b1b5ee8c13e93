package runtime

import "fmt"

// Variable is one binding. Value is nil while a declaration has no usable
// initializer. Type is the declared (static) type and may be nil.
type Variable struct {
	Name  string
	Value Value
	Type  Type
}

// IsSet reports whether the variable holds a value.
func (v *Variable) IsSet() bool {
	return v != nil && v.Value != nil
}

// UnboundNameError is returned when a name has no binding.
type UnboundNameError struct {
	Name string
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'", e.Name)
}

// Environment is a single flat frame of bindings. Inner blocks share the
// frame; nothing is nested. It is owned by one execution and is not safe for
// concurrent use.
type Environment struct {
	values map[string]*Variable
	order  []string
}

// NewEnvironment creates an empty frame.
func NewEnvironment() *Environment {
	return &Environment{
		values: make(map[string]*Variable),
	}
}

// Define inserts a binding, or overwrites an existing one in place.
func (e *Environment) Define(name string, value Value, typ Type) *Variable {
	if v, ok := e.values[name]; ok {
		v.Value = value
		v.Type = typ
		return v
	}
	v := &Variable{Name: name, Value: value, Type: typ}
	e.values[name] = v
	e.order = append(e.order, name)
	return v
}

// Assign updates an existing binding's value, keeping its declared type.
func (e *Environment) Assign(name string, value Value) error {
	v, ok := e.values[name]
	if !ok {
		return &UnboundNameError{Name: name}
	}
	v.Value = value
	return nil
}

// Lookup retrieves a binding.
func (e *Environment) Lookup(name string) (*Variable, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	return nil, &UnboundNameError{Name: name}
}

// Has reports whether name is bound.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Names returns the bound names in definition order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Len is the number of bindings.
func (e *Environment) Len() int {
	return len(e.order)
}

// Snapshot returns a copy of the current values.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v.Value
	}
	return out
}
