package interpreter

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/runtime"
)

// resolveType maps a source type name to a registered class. Lookup order:
// single-type imports, wildcard imports, the implicit java.lang names and
// primitives, the unit's own package, then the name as written when it is
// already fully qualified. Anything else fails closed.
func (e *execution) resolveType(name string, node ast.Node) (*host.Class, error) {
	if cached, ok := e.types[name]; ok {
		return cached, nil
	}
	typ, err := e.lookupType(name, node)
	if err != nil {
		return nil, err
	}
	e.types[name] = typ
	return typ, nil
}

func (e *execution) lookupType(name string, node ast.Node) (*host.Class, error) {
	if name == "" {
		return nil, newError(KindUnresolvedType, node, "missing type name")
	}
	if strings.HasSuffix(name, "]") {
		return nil, newError(KindUnresolvedType, node, "array type %s is not supported", name)
	}

	simple, rest, qualified := strings.Cut(name, ".")
	for _, imp := range e.unit.Imports {
		if imp.Static || imp.Wildcard || imp.SimpleName() != simple {
			continue
		}
		fqn := imp.Path
		if qualified {
			fqn += "." + rest
		}
		if typ, ok := e.registry.Lookup(fqn); ok {
			return typ, nil
		}
		return nil, newError(KindUnresolvedType, node, "type %s is imported but not available", fqn)
	}
	if !qualified {
		for _, imp := range e.unit.Imports {
			if imp.Static || !imp.Wildcard {
				continue
			}
			if typ, ok := e.registry.Lookup(imp.Path + "." + name); ok {
				return typ, nil
			}
		}
		if typ, ok := e.registry.ResolveBuiltin(name); ok {
			return typ, nil
		}
		if e.unit.Package != "" {
			if typ, ok := e.registry.Lookup(e.unit.Package + "." + name); ok {
				return typ, nil
			}
		}
	} else if typ, ok := e.registry.Lookup(name); ok {
		return typ, nil
	}

	return nil, newError(KindUnresolvedType, node, "cannot resolve type %s", name).
		suggest(name, e.visibleTypeNames(qualified))
}

func (e *execution) visibleTypeNames(qualified bool) []string {
	names := e.registry.Names()
	if qualified {
		return names
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
			name = name[idx+1:]
		}
		out = append(out, name)
	}
	return out
}

// typeByName looks up a type named in the host catalog (parameter, return and
// field types), which is always fully qualified.
func (e *execution) typeByName(name string) *host.Class {
	typ, _ := e.registry.Lookup(name)
	return typ
}

func (e *execution) argumentTypes(args []ast.Expression) ([]*host.Class, error) {
	types := make([]*host.Class, len(args))
	for idx, arg := range args {
		typ, err := e.classOf(arg)
		if err != nil {
			return nil, err
		}
		types[idx] = typ
	}
	return types, nil
}

// matches reports whether params accept arguments of the given types. A nil
// argument type is unknown and matches any parameter.
func (e *execution) matches(params []string, argTypes []*host.Class) bool {
	if len(params) != len(argTypes) {
		return false
	}
	for idx, param := range params {
		argType := argTypes[idx]
		if argType == nil {
			continue
		}
		paramType := e.typeByName(param)
		if paramType == nil {
			return false
		}
		if paramType.Name() == argType.Name() || paramType.IsAssignableFrom(argType) {
			continue
		}
		return false
	}
	return true
}

// resolveMethod picks the method named name on target for the argument
// expressions. A single method with that name is returned as is; several are
// narrowed by arity and parameter assignability and must leave exactly one.
func (e *execution) resolveMethod(target *host.Class, name string, args []ast.Expression, node ast.Node) (*host.Method, error) {
	argTypes, err := e.argumentTypes(args)
	if err != nil {
		return nil, err
	}
	candidates := target.MethodsNamed(name)
	switch len(candidates) {
	case 0:
		return nil, newError(KindMemberNotFound, node, "no method %s on %s", name, target.Name()).
			suggest(name, target.MemberNames())
	case 1:
		return candidates[0], nil
	}

	var narrowed []*host.Method
	for _, candidate := range candidates {
		if e.matches(candidate.Params, argTypes) {
			narrowed = append(narrowed, candidate)
		}
	}
	if glog.V(7) {
		glog.Infof("overloads %s.%s(%s): %d of %d candidates match", target.Name(), name, typeList(argTypes), len(narrowed), len(candidates))
	}
	if len(narrowed) != 1 {
		return nil, overloadError(node, fmt.Sprintf("%s.%s", target.Name(), name), argTypes, len(narrowed), methodSignatures(candidates))
	}
	return narrowed[0], nil
}

// resolveConstructor applies the same narrowing to target's constructors.
func (e *execution) resolveConstructor(target *host.Class, args []ast.Expression, node ast.Node) (*host.Constructor, error) {
	argTypes, err := e.argumentTypes(args)
	if err != nil {
		return nil, err
	}
	candidates := target.Constructors()
	switch len(candidates) {
	case 0:
		return nil, newError(KindMemberNotFound, node, "%s has no public constructor", target.Name())
	case 1:
		return candidates[0], nil
	}

	var narrowed []*host.Constructor
	for _, candidate := range candidates {
		if e.matches(candidate.Params, argTypes) {
			narrowed = append(narrowed, candidate)
		}
	}
	if glog.V(7) {
		glog.Infof("constructors new %s(%s): %d of %d candidates match", target.Name(), typeList(argTypes), len(narrowed), len(candidates))
	}
	if len(narrowed) != 1 {
		signatures := make([]string, len(candidates))
		for idx, c := range candidates {
			signatures[idx] = c.String()
		}
		return nil, overloadError(node, "new "+target.Name(), argTypes, len(narrowed), signatures)
	}
	return narrowed[0], nil
}

func overloadError(node ast.Node, what string, argTypes []*host.Class, matched int, candidates []string) error {
	problem := "no overload matches"
	if matched > 1 {
		problem = fmt.Sprintf("%d overloads match", matched)
	}
	return newError(KindAmbiguousOrMissingOverload, node, "%s(%s): %s; candidates: %s",
		what, typeList(argTypes), problem, strings.Join(candidates, ", "))
}

func (e *execution) invokeMethod(method *host.Method, receiver runtime.Value, args []runtime.Value, node ast.Node) (runtime.Value, error) {
	if method.Static {
		receiver = nil
	}
	if glog.V(5) {
		glog.Infof("invoke %s receiver=%s args=%s", method, runtime.Describe(receiver), valueList(args))
	}
	e.observe(host.EventInvoke, method.String(), method.Static, args)
	result, err := method.Invoke(e.ctx, receiver, args)
	if err != nil {
		return nil, wrapError(KindInvocation, node, err, "%s failed", method)
	}
	return result, nil
}

func (e *execution) construct(ctor *host.Constructor, args []runtime.Value, node ast.Node) (runtime.Value, error) {
	if glog.V(5) {
		glog.Infof("construct %s args=%s", ctor, valueList(args))
	}
	e.observe(host.EventConstruct, ctor.String(), true, args)
	result, err := ctor.Construct(e.ctx, args)
	if err != nil {
		return nil, wrapError(KindInvocation, node, err, "%s failed", ctor)
	}
	return result, nil
}

func (e *execution) readField(field *host.Field, node ast.Node) (runtime.Value, error) {
	target := field.Owner.Name() + "." + field.Name
	if glog.V(5) {
		glog.Infof("read %s", target)
	}
	e.observe(host.EventReadField, target, true, nil)
	value, err := field.Read(e.ctx)
	if err != nil {
		return nil, wrapError(KindInvocation, node, err, "reading %s failed", target)
	}
	return value, nil
}

func methodSignatures(methods []*host.Method) []string {
	out := make([]string, len(methods))
	for idx, m := range methods {
		out[idx] = m.Signature()
	}
	return out
}

func typeList(types []*host.Class) string {
	parts := make([]string, len(types))
	for idx, typ := range types {
		if typ == nil {
			parts[idx] = "?"
			continue
		}
		parts[idx] = typ.Name()
	}
	return strings.Join(parts, ", ")
}

func valueList(values []runtime.Value) string {
	parts := make([]string, len(values))
	for idx, v := range values {
		parts[idx] = runtime.Describe(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
