package interpreter

import (
	"context"
	"errors"
	"sort"

	"github.com/golang/glog"

	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/parser"
	"zapush/interpreter-go/pkg/runtime"
)

// Binding is one initial variable handed to Execute. TypeHint, when set, is
// a type name resolved through the unit's imports and becomes the variable's
// static type.
type Binding struct {
	Value    runtime.Value
	TypeHint string
}

// Bind is shorthand for an unhinted binding.
func Bind(v runtime.Value) Binding {
	return Binding{Value: v}
}

// Interpreter executes method bodies of parsed compilation units against a
// host registry. It holds no per-call state, so one Interpreter may serve
// concurrent Execute calls.
type Interpreter struct {
	registry          *host.Registry
	observer          host.Observer
	fieldInitializers bool
}

type Option func(*Interpreter)

// WithObserver reports every host invocation, construction and static field
// read to o before it happens.
func WithObserver(o host.Observer) Option {
	return func(i *Interpreter) { i.observer = o }
}

// WithFieldInitializers controls whether the target type's field
// declarations are executed into the environment before the method body.
// Enabled by default.
func WithFieldInitializers(enabled bool) Option {
	return func(i *Interpreter) { i.fieldInitializers = enabled }
}

// New creates an interpreter over registry.
func New(registry *host.Registry, opts ...Option) *Interpreter {
	if registry == nil {
		registry = host.NewRegistry()
	}
	i := &Interpreter{registry: registry, fieldInitializers: true}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Registry returns the capability surface the interpreter resolves against.
func (i *Interpreter) Registry() *host.Registry {
	return i.registry
}

// Execute runs memberName of typeName in unit. The method body executes in a
// fresh environment seeded with bindings. Effects are observable only through
// the host surface; a successful run yields runtime.VoidValue.
func (i *Interpreter) Execute(ctx context.Context, unit *ast.CompilationUnit, typeName, memberName string, bindings map[string]Binding) (runtime.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if unit == nil || !unit.Parsed {
		return nil, newError(KindSourceUnparsable, nil, "source unit was not parsed")
	}
	decl := unit.FindType(typeName)
	if decl == nil {
		return nil, newError(KindTypeNotFound, unit, "type %s is not declared in the source", typeName).
			suggest(typeName, declaredTypeNames(unit))
	}
	method := decl.FindMethod(memberName)
	if method == nil || method.Body == nil {
		return nil, newError(KindMemberNotFound, decl, "method %s is not declared on %s", memberName, typeName).
			suggest(memberName, declaredMethodNames(decl))
	}

	if glog.V(3) {
		glog.Infof("execute %s.%s with %d bindings", typeName, memberName, len(bindings))
	}

	exec := newExecution(i, ctx, unit)
	if err := exec.seed(method, bindings); err != nil {
		return nil, err
	}
	if i.fieldInitializers {
		for _, field := range decl.Fields {
			for _, declarator := range field.Declarators {
				if err := exec.declare(field.Type, declarator); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := exec.execBlock(method.Body); err != nil {
		if glog.V(3) {
			glog.Infof("execute %s.%s failed: %v", typeName, memberName, err)
		}
		return nil, err
	}

	if glog.V(3) {
		glog.Infof("execute %s.%s done", typeName, memberName)
	}
	return runtime.VoidValue{}, nil
}

// ExecuteSource parses source and executes memberName of typeName. Parse
// failures are reported as SourceUnparsableError wrapping the parser's
// error.
func (i *Interpreter) ExecuteSource(ctx context.Context, source []byte, typeName, memberName string, bindings map[string]Binding) (runtime.Value, error) {
	unit, err := parser.ParseSource(source)
	if err != nil {
		rtErr := wrapError(KindSourceUnparsable, nil, err, "source could not be parsed")
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			rtErr.Span = ast.Span{
				Start: ast.Position{Line: parseErr.Location.Line, Column: parseErr.Location.Column},
				End:   ast.Position{Line: parseErr.Location.EndLine, Column: parseErr.Location.EndColumn},
			}
		}
		return nil, rtErr
	}
	return i.Execute(ctx, unit, typeName, memberName, bindings)
}

// seed defines the initial bindings. Names that are parameters of the target
// method come first in parameter order, the rest alphabetically, so the
// environment's order never depends on map iteration.
func (e *execution) seed(method *ast.MethodDeclaration, bindings map[string]Binding) error {
	names := make([]string, 0, len(bindings))
	seen := make(map[string]struct{}, len(bindings))
	for _, param := range method.Params {
		if _, ok := bindings[param.Name]; ok {
			names = append(names, param.Name)
			seen[param.Name] = struct{}{}
		}
	}
	var rest []string
	for name := range bindings {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	for _, name := range names {
		binding := bindings[name]
		value := binding.Value
		if value == nil {
			value = runtime.NullValue{}
		}
		typ, err := e.bindingType(name, method, binding)
		if err != nil {
			return err
		}
		if err := e.checkAssignable(typ, value, method, name); err != nil {
			return err
		}
		e.env.Define(name, value, asType(typ))
	}
	return nil
}

func (e *execution) bindingType(name string, method *ast.MethodDeclaration, binding Binding) (*host.Class, error) {
	if binding.TypeHint != "" {
		return e.resolveType(binding.TypeHint, method)
	}
	if param := method.Param(name); param != nil && param.Type != nil && !param.Type.IsInferred() {
		return e.resolveType(param.Type.Name, param)
	}
	typ, _ := e.registry.TypeOf(binding.Value)
	return typ, nil
}

func declaredTypeNames(unit *ast.CompilationUnit) []string {
	names := make([]string, 0, len(unit.Types))
	for _, decl := range unit.Types {
		names = append(names, decl.Name)
	}
	return names
}

func declaredMethodNames(decl *ast.TypeDeclaration) []string {
	names := make([]string, 0, len(decl.Methods))
	for _, method := range decl.Methods {
		names = append(names, method.Name)
	}
	return names
}
