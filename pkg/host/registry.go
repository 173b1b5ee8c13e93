package host

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

const (
	ObjectClass       = "java.lang.Object"
	StringClass       = "java.lang.String"
	CharSequenceClass = "java.lang.CharSequence"
	IntType           = "int"
	BooleanType       = "boolean"
	VoidType          = "void"
)

// Provider registers classes on demand. Provide is called when a lookup
// misses and reports whether it registered anything; Lookup checks the
// catalog again either way.
type Provider interface {
	Provide(r *Registry, name string) bool
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(r *Registry, name string) bool

func (f ProviderFunc) Provide(r *Registry, name string) bool {
	return f(r, name)
}

// Registry is the catalog of host types keyed by fully-qualified name. It is
// safe for concurrent lookups; classes are immutable once registered.
type Registry struct {
	mu        sync.RWMutex
	classes   map[string]*Class
	order     []string
	aliases   map[string]string
	providers []Provider

	parent *Registry
	allow  func(name string) bool
}

// NewRegistry returns a registry holding the primitive types int, boolean and
// void and the built-in aliases for the implicitly imported java.lang names.
func NewRegistry() *Registry {
	r := &Registry{
		classes: make(map[string]*Class),
		aliases: map[string]string{
			"Object":       ObjectClass,
			"String":       StringClass,
			"CharSequence": CharSequenceClass,
			"Integer":      "java.lang.Integer",
			"Boolean":      "java.lang.Boolean",
		},
	}
	for _, name := range []string{IntType, BooleanType, VoidType} {
		p := newPrimitive(name)
		p.registry = r
		r.classes[name] = p
		r.order = append(r.order, name)
	}
	return r
}

// Register adds fully described classes.
func (r *Registry) Register(classes ...*Class) error {
	if r.parent != nil {
		return fmt.Errorf("registry: restricted view is read-only")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range classes {
		if c == nil || c.name == "" {
			return fmt.Errorf("registry: class name is empty")
		}
		if _, exists := r.classes[c.name]; exists {
			return fmt.Errorf("registry: class %s already registered", c.name)
		}
		c.registry = r
		r.classes[c.name] = c
		r.order = append(r.order, c.name)
	}
	return nil
}

// MustRegister is Register for static setup code.
func (r *Registry) MustRegister(classes ...*Class) {
	if err := r.Register(classes...); err != nil {
		panic(err)
	}
}

// Alias maps a simple name to a fully-qualified one for type resolution
// without an import.
func (r *Registry) Alias(simple, fqn string) {
	if r.parent != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[simple] = fqn
}

// AddProvider installs a lazy provider consulted on lookup misses.
func (r *Registry) AddProvider(p Provider) {
	if r.parent != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// Lookup finds a class by fully-qualified name, asking providers on a miss.
func (r *Registry) Lookup(name string) (*Class, bool) {
	if r == nil || name == "" {
		return nil, false
	}
	if r.parent != nil {
		if !r.allows(name) {
			return nil, false
		}
		return r.parent.Lookup(name)
	}
	r.mu.RLock()
	c, ok := r.classes[name]
	providers := r.providers
	r.mu.RUnlock()
	if ok {
		return c, true
	}
	// A provider racing another lookup may find the class already registered
	// and report false, so the catalog is consulted after every call.
	for _, p := range providers {
		p.Provide(r, name)
		r.mu.RLock()
		c, ok = r.classes[name]
		r.mu.RUnlock()
		if ok {
			return c, true
		}
	}
	return nil, false
}

// ResolveBuiltin resolves a simple name without an import: explicit aliases
// first, then the implicit java.lang package.
func (r *Registry) ResolveBuiltin(simple string) (*Class, bool) {
	if r == nil || simple == "" || strings.Contains(simple, ".") {
		return nil, false
	}
	root := r.root()
	root.mu.RLock()
	fqn, ok := root.aliases[simple]
	root.mu.RUnlock()
	if ok {
		if c, found := r.Lookup(fqn); found {
			return c, true
		}
	}
	if c, found := r.Lookup(simple); found && c.IsPrimitive() {
		return c, true
	}
	return r.Lookup("java.lang." + simple)
}

// Names lists every visible class in registration order.
func (r *Registry) Names() []string {
	root := r.root()
	root.mu.RLock()
	names := make([]string, 0, len(root.order))
	for _, name := range root.order {
		if r.allows(name) {
			names = append(names, name)
		}
	}
	root.mu.RUnlock()
	return names
}

// SortedNames lists every visible class alphabetically.
func (r *Registry) SortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}

// Restrict returns a read-only view exposing only the classes allow accepts.
// Primitive types stay visible.
func (r *Registry) Restrict(allow func(name string) bool) *Registry {
	return &Registry{parent: r, allow: allow}
}

func (r *Registry) allows(name string) bool {
	if r.parent == nil {
		return true
	}
	switch name {
	case IntType, BooleanType, VoidType:
		return true
	}
	if r.allow != nil && !r.allow(name) {
		return false
	}
	return r.parent.allows(name)
}

func (r *Registry) root() *Registry {
	for r.parent != nil {
		r = r.parent
	}
	return r
}
