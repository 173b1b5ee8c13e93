package interpreter

import (
	"fmt"

	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/runtime"
)

func (e *execution) evaluate(expr ast.Expression) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.NullLiteral:
		return runtime.NullValue{}, nil
	case *ast.NameExpression:
		v, err := e.lookup(n)
		if err != nil {
			return nil, err
		}
		return valueOf(v), nil
	case *ast.EnclosedExpression:
		return e.evaluate(n.Inner)
	case *ast.BinaryExpression:
		return e.evaluateBinary(n)
	case *ast.UnaryExpression:
		return e.evaluateUnary(n)
	case *ast.UpdateExpression:
		return e.evaluateUpdate(n)
	case *ast.AssignmentExpression:
		return e.evaluateAssignment(n)
	case *ast.FieldAccessExpression:
		field, err := e.resolveField(n)
		if err != nil {
			return nil, err
		}
		return e.readField(field, n)
	case *ast.MethodCallExpression:
		return e.evaluateMethodCall(n)
	case *ast.ObjectCreationExpression:
		return e.evaluateObjectCreation(n)
	case *ast.UnsupportedExpression:
		return nil, newError(KindUnsupportedSyntax, n, "unsupported expression %s: %s", n.Kind, n.Text)
	default:
		return nil, newError(KindUnsupportedSyntax, expr, "unsupported expression %T", expr)
	}
}

func (e *execution) evaluateArguments(args []ast.Expression) ([]runtime.Value, error) {
	values := make([]runtime.Value, len(args))
	for idx, arg := range args {
		v, err := e.evaluate(arg)
		if err != nil {
			return nil, err
		}
		values[idx] = v
	}
	return values, nil
}

func (e *execution) evaluateMethodCall(n *ast.MethodCallExpression) (runtime.Value, error) {
	if n.Scope == nil {
		return nil, newError(KindUnsupportedAccess, n, "unqualified call %s() is not supported", n.Name)
	}
	sc, err := e.resolveScope(n.Scope, true)
	if err != nil {
		return nil, err
	}
	method, err := e.resolveCallOn(sc, n)
	if err != nil {
		return nil, err
	}
	if !method.Static && runtime.IsNull(sc.receiver) {
		return nil, wrapError(KindInvocation, n, errNullReceiver, "cannot invoke %s on null", method)
	}
	args, err := e.evaluateArguments(n.Arguments)
	if err != nil {
		return nil, err
	}
	return e.invokeMethod(method, sc.receiver, args, n)
}

func (e *execution) evaluateObjectCreation(n *ast.ObjectCreationExpression) (runtime.Value, error) {
	if n.Type == nil {
		return nil, newError(KindUnresolvedType, n, "object creation without a type")
	}
	typ, err := e.resolveType(n.Type.Name, n.Type)
	if err != nil {
		return nil, err
	}
	if typ.IsInterface() || typ.IsPrimitive() {
		return nil, newError(KindUnsupportedAccess, n, "%s cannot be instantiated", typ.Name())
	}
	ctor, err := e.resolveConstructor(typ, n.Arguments, n)
	if err != nil {
		return nil, err
	}
	args, err := e.evaluateArguments(n.Arguments)
	if err != nil {
		return nil, err
	}
	return e.construct(ctor, args, n)
}

func (e *execution) evaluateBinary(n *ast.BinaryExpression) (runtime.Value, error) {
	if n.Operator == ast.BinaryAnd || n.Operator == ast.BinaryOr {
		left, err := e.evaluateBool(n.Left, n)
		if err != nil {
			return nil, err
		}
		if n.Operator == ast.BinaryAnd && !left {
			return runtime.BoolValue{Val: false}, nil
		}
		if n.Operator == ast.BinaryOr && left {
			return runtime.BoolValue{Val: true}, nil
		}
		right, err := e.evaluateBool(n.Right, n)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: right}, nil
	}

	left, err := e.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluate(n.Right)
	if err != nil {
		return nil, err
	}
	return applyBinary(n.Operator, left, right, n)
}

func (e *execution) evaluateBool(expr ast.Expression, op ast.Node) (bool, error) {
	v, err := e.evaluate(expr)
	if err != nil {
		return false, err
	}
	b, ok := v.(runtime.BoolValue)
	if !ok {
		return false, newError(KindTypeMismatch, op, "expected boolean, got %s", kindName(v))
	}
	return b.Val, nil
}

// applyBinary implements the non-short-circuit operators on evaluated
// operands.
func applyBinary(op ast.BinaryOperator, left, right runtime.Value, node ast.Node) (runtime.Value, error) {
	li, lInt := left.(runtime.IntegerValue)
	ri, rInt := right.(runtime.IntegerValue)

	switch op {
	case ast.BinaryPlus:
		if lInt && rInt {
			return runtime.IntegerValue{Val: li.Val + ri.Val}, nil
		}
		return runtime.StringValue{Val: runtime.Stringify(left) + runtime.Stringify(right)}, nil
	case ast.BinaryEquals, ast.BinaryNotEquals:
		if !equatable(left, right) {
			return nil, newError(KindTypeMismatch, node, "cannot compare %s %s %s", kindName(left), op, kindName(right))
		}
		same := runtime.Identical(left, right)
		if op == ast.BinaryNotEquals {
			same = !same
		}
		return runtime.BoolValue{Val: same}, nil
	}

	if !lInt || !rInt {
		return nil, newError(KindTypeMismatch, node, "operator %s expects int operands, got %s and %s", op, kindName(left), kindName(right))
	}
	a, b := li.Val, ri.Val
	switch op {
	case ast.BinaryLess:
		return runtime.BoolValue{Val: a < b}, nil
	case ast.BinaryLessEquals:
		return runtime.BoolValue{Val: a <= b}, nil
	case ast.BinaryGreater:
		return runtime.BoolValue{Val: a > b}, nil
	case ast.BinaryGreaterEquals:
		return runtime.BoolValue{Val: a >= b}, nil
	case ast.BinaryMinus:
		return runtime.IntegerValue{Val: a - b}, nil
	case ast.BinaryMultiply:
		return runtime.IntegerValue{Val: a * b}, nil
	case ast.BinaryDivide, ast.BinaryRemainder:
		if b == 0 {
			return nil, newError(KindDivisionByZero, node, "division by zero")
		}
		if op == ast.BinaryDivide {
			return runtime.IntegerValue{Val: a / b}, nil
		}
		return runtime.IntegerValue{Val: a % b}, nil
	default:
		return nil, newError(KindUnsupportedSyntax, node, "unsupported operator %s", op)
	}
}

// equatable allows == between values of the same kind, and between null and
// any reference.
func equatable(left, right runtime.Value) bool {
	if runtime.IsNull(left) || runtime.IsNull(right) {
		_, lPrim := left.(runtime.IntegerValue)
		_, rPrim := right.(runtime.IntegerValue)
		_, lBool := left.(runtime.BoolValue)
		_, rBool := right.(runtime.BoolValue)
		return !lPrim && !rPrim && !lBool && !rBool
	}
	return left.Kind() == right.Kind()
}

func (e *execution) evaluateUnary(n *ast.UnaryExpression) (runtime.Value, error) {
	switch n.Operator {
	case ast.UnaryNot:
		b, err := e.evaluateBool(n.Operand, n)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: !b}, nil
	case ast.UnaryNegate:
		v, err := e.evaluate(n.Operand)
		if err != nil {
			return nil, err
		}
		i, ok := v.(runtime.IntegerValue)
		if !ok {
			return nil, newError(KindTypeMismatch, n, "operator - expects int, got %s", kindName(v))
		}
		return runtime.IntegerValue{Val: -i.Val}, nil
	default:
		return nil, newError(KindUnsupportedSyntax, n, "unsupported unary operator %s", n.Operator)
	}
}

// assignTarget returns the variable an assignment or update writes to. Only
// local names are writable.
func (e *execution) assignTarget(target ast.Expression, node ast.Node) (*runtime.Variable, error) {
	name, ok := target.(*ast.NameExpression)
	if !ok {
		return nil, newError(KindUnsupportedAccess, node, "only local variables can be assigned")
	}
	return e.lookup(name)
}

func (e *execution) evaluateUpdate(n *ast.UpdateExpression) (runtime.Value, error) {
	v, err := e.assignTarget(n.Operand, n)
	if err != nil {
		return nil, err
	}
	current, ok := valueOf(v).(runtime.IntegerValue)
	if !ok {
		return nil, newError(KindTypeMismatch, n, "operator %s expects int, %s holds %s", n.Operator, v.Name, kindName(valueOf(v)))
	}
	delta := int64(1)
	if n.Operator == ast.UpdateDecrement {
		delta = -1
	}
	next := runtime.IntegerValue{Val: current.Val + delta}
	v.Value = next
	if n.Prefix {
		return next, nil
	}
	return current, nil
}

func (e *execution) evaluateAssignment(n *ast.AssignmentExpression) (runtime.Value, error) {
	v, err := e.assignTarget(n.Target, n)
	if err != nil {
		return nil, err
	}
	value, err := e.evaluate(n.Value)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case ast.AssignmentPlus:
		value, err = applyBinary(ast.BinaryPlus, valueOf(v), value, n)
	case ast.AssignmentMinus:
		value, err = applyBinary(ast.BinaryMinus, valueOf(v), value, n)
	}
	if err != nil {
		return nil, err
	}
	declared, _ := v.Type.(*host.Class)
	if err := e.checkAssignable(declared, value, n, v.Name); err != nil {
		return nil, err
	}
	v.Value = value
	return value, nil
}

func kindName(v runtime.Value) string {
	if v == nil {
		return "unset"
	}
	return fmt.Sprint(v.Kind())
}
