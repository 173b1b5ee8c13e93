package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"zapush/interpreter-go/pkg/ast"
)

var binaryOperators = map[string]ast.BinaryOperator{
	"||": ast.BinaryOr,
	"&&": ast.BinaryAnd,
	"<":  ast.BinaryLess,
	"<=": ast.BinaryLessEquals,
	">":  ast.BinaryGreater,
	">=": ast.BinaryGreaterEquals,
	"==": ast.BinaryEquals,
	"!=": ast.BinaryNotEquals,
	"+":  ast.BinaryPlus,
	"-":  ast.BinaryMinus,
	"*":  ast.BinaryMultiply,
	"/":  ast.BinaryDivide,
	"%":  ast.BinaryRemainder,
}

var assignmentOperators = map[string]ast.AssignmentOperator{
	"=":  ast.AssignmentAssign,
	"+=": ast.AssignmentPlus,
	"-=": ast.AssignmentMinus,
}

func (ctx *parseContext) parseExpression(node *sitter.Node) (ast.Expression, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: nil expression")
	}

	switch node.Kind() {
	case "identifier":
		return annotateExpression(ast.NewNameExpression(ctx.text(node)), node), nil
	case "string_literal":
		return ctx.parseStringLiteral(node)
	case "true":
		return annotateExpression(ast.NewBooleanLiteral(true), node), nil
	case "false":
		return annotateExpression(ast.NewBooleanLiteral(false), node), nil
	case "null_literal":
		return annotateExpression(ast.NewNullLiteral(), node), nil
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		return ctx.parseIntegerLiteral(node)
	case "parenthesized_expression":
		inner, err := ctx.parseExpression(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return annotateExpression(ast.NewEnclosedExpression(inner), node), nil
	case "binary_expression":
		return ctx.parseBinaryExpression(node)
	case "unary_expression":
		return ctx.parseUnaryExpression(node)
	case "update_expression":
		return ctx.parseUpdateExpression(node)
	case "assignment_expression":
		return ctx.parseAssignmentExpression(node)
	case "field_access":
		return ctx.parseFieldAccess(node)
	case "method_invocation":
		return ctx.parseMethodInvocation(node)
	case "object_creation_expression":
		return ctx.parseObjectCreation(node)
	default:
		return ctx.unsupported(node), nil
	}
}

func (ctx *parseContext) unsupported(node *sitter.Node) ast.Expression {
	return annotateExpression(ast.NewUnsupportedExpression(node.Kind(), ctx.text(node)), node)
}

func (ctx *parseContext) parseArguments(node *sitter.Node) ([]ast.Expression, error) {
	children := namedChildren(node)
	args := make([]ast.Expression, 0, len(children))
	for _, child := range children {
		expr, err := ctx.parseExpression(child)
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
	}
	return args, nil
}

func (ctx *parseContext) parseBinaryExpression(node *sitter.Node) (ast.Expression, error) {
	op, ok := binaryOperators[ctx.text(node.ChildByFieldName("operator"))]
	if !ok {
		return ctx.unsupported(node), nil
	}
	left, err := ctx.parseExpression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := ctx.parseExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewBinaryExpression(op, left, right), node), nil
}

func (ctx *parseContext) parseUnaryExpression(node *sitter.Node) (ast.Expression, error) {
	var op ast.UnaryOperator
	switch ctx.text(node.ChildByFieldName("operator")) {
	case "!":
		op = ast.UnaryNot
	case "-":
		op = ast.UnaryNegate
	default:
		return ctx.unsupported(node), nil
	}
	operand, err := ctx.parseExpression(node.ChildByFieldName("operand"))
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewUnaryExpression(op, operand), node), nil
}

func (ctx *parseContext) parseUpdateExpression(node *sitter.Node) (ast.Expression, error) {
	var (
		op      ast.UpdateOperator
		prefix  bool
		operand *sitter.Node
	)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "++", "--":
			op = ast.UpdateOperator(child.Kind())
			prefix = operand == nil
		default:
			if child.IsNamed() && !isIgnorableNode(child) {
				operand = child
			}
		}
	}
	if op == "" || operand == nil {
		return nil, fmt.Errorf("parser: malformed update expression")
	}
	target, err := ctx.parseExpression(operand)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewUpdateExpression(op, prefix, target), node), nil
}

func (ctx *parseContext) parseAssignmentExpression(node *sitter.Node) (ast.Expression, error) {
	op, ok := assignmentOperators[ctx.text(node.ChildByFieldName("operator"))]
	if !ok {
		return ctx.unsupported(node), nil
	}
	target, err := ctx.parseExpression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	value, err := ctx.parseExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewAssignmentExpression(op, target, value), node), nil
}

func (ctx *parseContext) parseFieldAccess(node *sitter.Node) (ast.Expression, error) {
	objectNode := node.ChildByFieldName("object")
	fieldNode := node.ChildByFieldName("field")
	if objectNode == nil || fieldNode == nil || objectNode.Kind() == "super" || fieldNode.Kind() != "identifier" {
		return ctx.unsupported(node), nil
	}
	scope, err := ctx.parseExpression(objectNode)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewFieldAccessExpression(scope, ctx.text(fieldNode)), node), nil
}

func (ctx *parseContext) parseMethodInvocation(node *sitter.Node) (ast.Expression, error) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil, fmt.Errorf("parser: method invocation missing name")
	}
	var scope ast.Expression
	if objectNode := node.ChildByFieldName("object"); objectNode != nil {
		if objectNode.Kind() == "super" {
			return ctx.unsupported(node), nil
		}
		expr, err := ctx.parseExpression(objectNode)
		if err != nil {
			return nil, err
		}
		scope = expr
	}
	args, err := ctx.parseArguments(node.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewMethodCallExpression(scope, ctx.text(nameNode), args), node), nil
}

// parseObjectCreation handles `new T(args)`. Qualified inner-class creation
// and anonymous class bodies are not modelled.
func (ctx *parseContext) parseObjectCreation(node *sitter.Node) (ast.Expression, error) {
	if first := node.Child(0); first == nil || first.Kind() != "new" {
		return ctx.unsupported(node), nil
	}
	for _, child := range namedChildren(node) {
		if child.Kind() == "class_body" {
			return ctx.unsupported(node), nil
		}
	}
	args, err := ctx.parseArguments(node.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	expr := ast.NewObjectCreationExpression(ctx.parseType(node.ChildByFieldName("type")), args)
	return annotateExpression(expr, node), nil
}

func (ctx *parseContext) parseIntegerLiteral(node *sitter.Node) (ast.Expression, error) {
	raw := ctx.text(node)
	digits := strings.ReplaceAll(raw, "_", "")
	digits = strings.TrimRight(digits, "lL")
	if len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '7' {
		digits = "0o" + digits[1:]
	}
	value, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		return nil, wrapParseError(node, fmt.Errorf("parser: invalid integer literal %s", raw))
	}
	return annotateExpression(ast.NewIntegerLiteral(int64(value)), node), nil
}

func (ctx *parseContext) parseStringLiteral(node *sitter.Node) (ast.Expression, error) {
	raw := ctx.text(node)
	if strings.HasPrefix(raw, `"""`) {
		return ctx.unsupported(node), nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return nil, wrapParseError(node, fmt.Errorf("parser: malformed string literal"))
	}
	value, err := unescapeJava(raw[1 : len(raw)-1])
	if err != nil {
		return nil, wrapParseError(node, err)
	}
	return annotateExpression(ast.NewStringLiteral(value), node), nil
}

func unescapeJava(raw string) (string, error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	var b strings.Builder
	for i := 0; i < len(raw); {
		ch := raw[i]
		if ch != '\\' {
			r, size := utf8.DecodeRuneInString(raw[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		if i+1 >= len(raw) {
			return "", fmt.Errorf("parser: dangling escape in string literal")
		}
		next := raw[i+1]
		switch next {
		case 'b':
			b.WriteByte('\b')
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'f':
			b.WriteByte('\f')
		case 'r':
			b.WriteByte('\r')
		case 's':
			b.WriteByte(' ')
		case '"', '\'', '\\':
			b.WriteByte(next)
		case 'u':
			j := i + 1
			for j < len(raw) && raw[j] == 'u' {
				j++
			}
			if j+4 > len(raw) {
				return "", fmt.Errorf("parser: invalid unicode escape")
			}
			code, err := strconv.ParseUint(raw[j:j+4], 16, 16)
			if err != nil {
				return "", fmt.Errorf("parser: invalid unicode escape %q", raw[i:j+4])
			}
			b.WriteRune(rune(code))
			i = j + 4
			continue
		default:
			if next < '0' || next > '7' {
				return "", fmt.Errorf("parser: invalid escape \\%c", next)
			}
			j := i + 1
			limit := j + 2
			if next <= '3' {
				limit = j + 3
			}
			for j < len(raw) && j < limit && raw[j] >= '0' && raw[j] <= '7' {
				j++
			}
			code, _ := strconv.ParseUint(raw[i+1:j], 8, 8)
			b.WriteRune(rune(code))
			i = j
			continue
		}
		i += 2
	}
	return b.String(), nil
}
