package interpreter

import (
	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/runtime"
)

// classOf computes the static type of expr without evaluating it or invoking
// anything on the host. A nil class means the type is unknown.
func (e *execution) classOf(expr ast.Expression) (*host.Class, error) {
	switch n := expr.(type) {
	case *ast.StringLiteral:
		return e.typeByName(host.StringClass), nil
	case *ast.BooleanLiteral:
		return e.typeByName(host.BooleanType), nil
	case *ast.IntegerLiteral:
		return e.typeByName(host.IntType), nil
	case *ast.NullLiteral, *ast.UnsupportedExpression:
		return nil, nil
	case *ast.NameExpression:
		v, err := e.lookup(n)
		if err != nil {
			return nil, err
		}
		return e.variableType(v), nil
	case *ast.EnclosedExpression:
		return e.classOf(n.Inner)
	case *ast.BinaryExpression:
		return e.classOfBinary(n)
	case *ast.UnaryExpression:
		if n.Operator == ast.UnaryNot {
			return e.typeByName(host.BooleanType), nil
		}
		return e.typeByName(host.IntType), nil
	case *ast.UpdateExpression:
		return e.typeByName(host.IntType), nil
	case *ast.AssignmentExpression:
		return e.classOf(n.Target)
	case *ast.FieldAccessExpression:
		field, err := e.resolveField(n)
		if err != nil {
			return nil, err
		}
		return e.typeByName(field.Type), nil
	case *ast.MethodCallExpression:
		method, _, err := e.resolveCall(n)
		if err != nil {
			return nil, err
		}
		return e.typeByName(method.Returns), nil
	case *ast.ObjectCreationExpression:
		if n.Type == nil {
			return nil, newError(KindUnresolvedType, n, "object creation without a type")
		}
		return e.resolveType(n.Type.Name, n.Type)
	default:
		return nil, newError(KindUnsupportedSyntax, expr, "unsupported expression %T", expr)
	}
}

func (e *execution) classOfBinary(n *ast.BinaryExpression) (*host.Class, error) {
	switch n.Operator {
	case ast.BinaryPlus:
		left, err := e.classOf(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.classOf(n.Right)
		if err != nil {
			return nil, err
		}
		if left != nil && right != nil && left.Name() == host.IntType && right.Name() == host.IntType {
			return left, nil
		}
		if left == nil && right == nil {
			return nil, nil
		}
		return e.typeByName(host.StringClass), nil
	case ast.BinaryMinus, ast.BinaryMultiply, ast.BinaryDivide, ast.BinaryRemainder:
		return e.typeByName(host.IntType), nil
	default:
		return e.typeByName(host.BooleanType), nil
	}
}

// variableType is the declared type of v, or the dynamic type of its value
// when none was declared.
func (e *execution) variableType(v *runtime.Variable) *host.Class {
	if typ, ok := v.Type.(*host.Class); ok && typ != nil {
		// a boxed primitive takes part in overloads as the primitive
		if _, boxed := boxes[typ.Name()]; boxed && v.IsSet() && !runtime.IsNull(v.Value) {
			if dynamic, found := e.registry.TypeOf(v.Value); found {
				return dynamic
			}
		}
		return typ
	}
	if !v.IsSet() {
		return nil
	}
	typ, _ := e.registry.TypeOf(v.Value)
	return typ
}
