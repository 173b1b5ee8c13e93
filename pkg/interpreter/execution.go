package interpreter

import (
	"context"

	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/runtime"
)

// execution is the state of one Execute call. It is discarded when the call
// returns, successfully or not.
type execution struct {
	interp   *Interpreter
	ctx      context.Context
	unit     *ast.CompilationUnit
	registry *host.Registry
	env      *runtime.Environment
	types    map[string]*host.Class
}

func newExecution(i *Interpreter, ctx context.Context, unit *ast.CompilationUnit) *execution {
	return &execution{
		interp:   i,
		ctx:      ctx,
		unit:     unit,
		registry: i.registry,
		env:      runtime.NewEnvironment(),
		types:    make(map[string]*host.Class),
	}
}

func (e *execution) observe(kind host.EventKind, target string, static bool, args []runtime.Value) {
	if e.interp.observer == nil {
		return
	}
	e.interp.observer.Observe(host.Event{Kind: kind, Target: target, Static: static, Args: args})
}

// boxes maps a wrapper class to the primitive it boxes.
var boxes = map[string]string{
	"java.lang.Integer": host.IntType,
	"java.lang.Boolean": host.BooleanType,
}

// compatible reports whether value may be stored where typ is declared.
// Unknown types on either side are accepted; null fits any reference type;
// java.lang.Object accepts everything; a wrapper accepts its primitive.
func compatible(typ *host.Class, value runtime.Value, dynamic *host.Class) bool {
	if typ == nil {
		return true
	}
	if runtime.IsNull(value) {
		return !typ.IsPrimitive()
	}
	if dynamic == nil || typ.Name() == host.ObjectClass {
		return true
	}
	if primitive, ok := boxes[typ.Name()]; ok && dynamic.Name() == primitive {
		return true
	}
	return typ.IsAssignableFrom(dynamic)
}

func (e *execution) checkAssignable(typ *host.Class, value runtime.Value, node ast.Node, name string) error {
	dynamic, _ := e.registry.TypeOf(value)
	if compatible(typ, value, dynamic) {
		return nil
	}
	actual := runtime.Describe(value)
	if dynamic != nil {
		actual = dynamic.Name()
	}
	return newError(KindTypeMismatch, node, "cannot assign %s to %s of type %s", actual, name, typ.Name())
}

// asType keeps a missing class from becoming a non-nil runtime.Type.
func asType(c *host.Class) runtime.Type {
	if c == nil {
		return nil
	}
	return c
}
