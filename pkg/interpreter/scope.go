package interpreter

import (
	"errors"
	"strings"

	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/runtime"
)

// memberScope is what sits left of a dot: either a type (static access) or
// a receiver value. typ is the catalog members are resolved against.
type memberScope struct {
	typ      *host.Class
	static   bool
	receiver runtime.Value
}

func (e *execution) lookup(n *ast.NameExpression) (*runtime.Variable, error) {
	v, err := e.env.Lookup(n.Name)
	if err != nil {
		rtErr := newError(KindUnboundName, n, "undefined variable '%s'", n.Name).suggest(n.Name, e.env.Names())
		rtErr.Err = err
		return nil, rtErr
	}
	return v, nil
}

// resolveScope classifies a member-access scope. A bare name is a variable
// when one is bound, otherwise a type; a dotted name chain whose head is not
// a variable is tried as a qualified type name first. With evaluate unset no
// host code runs and the receiver stays nil.
func (e *execution) resolveScope(expr ast.Expression, evaluate bool) (memberScope, error) {
	switch n := expr.(type) {
	case *ast.NameExpression:
		if v, err := e.env.Lookup(n.Name); err == nil {
			sc := memberScope{typ: e.variableType(v)}
			if evaluate {
				sc.receiver = valueOf(v)
			}
			return sc, nil
		}
		typ, err := e.resolveType(n.Name, n)
		if err != nil {
			// a misspelled variable used as a scope is suggested from the
			// environment when no type name comes close
			var rtErr *RuntimeError
			if errors.As(err, &rtErr) && rtErr.Kind == KindUnresolvedType && rtErr.Suggestion == "" {
				rtErr.suggest(n.Name, e.env.Names())
			}
			return memberScope{}, err
		}
		return memberScope{typ: typ, static: true}, nil
	case *ast.FieldAccessExpression:
		if name, ok := qualifiedName(n); ok && !e.env.Has(strings.SplitN(name, ".", 2)[0]) {
			if typ, err := e.resolveType(name, n); err == nil {
				return memberScope{typ: typ, static: true}, nil
			}
		}
	}

	typ, err := e.classOf(expr)
	if err != nil {
		return memberScope{}, err
	}
	sc := memberScope{typ: typ}
	if evaluate {
		receiver, err := e.evaluate(expr)
		if err != nil {
			return memberScope{}, err
		}
		sc.receiver = receiver
		if sc.typ == nil {
			sc.typ, _ = e.registry.TypeOf(receiver)
		}
	}
	return sc, nil
}

// qualifiedName renders a.b.C for a chain of simple names.
func qualifiedName(expr ast.Expression) (string, bool) {
	switch n := expr.(type) {
	case *ast.NameExpression:
		return n.Name, true
	case *ast.FieldAccessExpression:
		prefix, ok := qualifiedName(n.Scope)
		if !ok {
			return "", false
		}
		return prefix + "." + n.Name, true
	default:
		return "", false
	}
}

// resolveField finds the static field a field access names.
func (e *execution) resolveField(n *ast.FieldAccessExpression) (*host.Field, error) {
	sc, err := e.resolveScope(n.Scope, false)
	if err != nil {
		return nil, err
	}
	if !sc.static {
		return nil, newError(KindUnsupportedAccess, n, "instance field access .%s is not supported", n.Name)
	}
	field, ok := sc.typ.LookupField(n.Name)
	if !ok {
		names := make([]string, 0)
		for _, f := range sc.typ.Fields() {
			names = append(names, f.Name)
		}
		return nil, newError(KindFieldNotFound, n, "no field %s on %s", n.Name, sc.typ.Name()).suggest(n.Name, names)
	}
	if !field.Static {
		return nil, newError(KindUnsupportedAccess, n, "field %s.%s is not static", sc.typ.Name(), n.Name)
	}
	return field, nil
}

// resolveCallOn resolves the method a call names against an already
// resolved scope.
func (e *execution) resolveCallOn(sc memberScope, n *ast.MethodCallExpression) (*host.Method, error) {
	if sc.typ == nil {
		return nil, newError(KindUnresolvedType, n, "cannot determine the type that declares %s()", n.Name)
	}
	method, err := e.resolveMethod(sc.typ, n.Name, n.Arguments, n)
	if err != nil {
		return nil, err
	}
	if sc.static && !method.Static {
		return nil, newError(KindUnsupportedAccess, n, "instance method %s called on type %s", method.Signature(), sc.typ.Name())
	}
	return method, nil
}

func (e *execution) resolveCall(n *ast.MethodCallExpression) (*host.Method, memberScope, error) {
	if n.Scope == nil {
		return nil, memberScope{}, newError(KindUnsupportedAccess, n, "unqualified call %s() is not supported", n.Name)
	}
	sc, err := e.resolveScope(n.Scope, false)
	if err != nil {
		return nil, memberScope{}, err
	}
	method, err := e.resolveCallOn(sc, n)
	return method, sc, err
}

func valueOf(v *runtime.Variable) runtime.Value {
	if !v.IsSet() {
		return runtime.NullValue{}
	}
	return v.Value
}

var errNullReceiver = errors.New("NullPointerException")
