package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"zapush/interpreter-go/pkg/ast"
)

func (ctx *parseContext) parseBlock(node *sitter.Node) (*ast.Block, error) {
	if node == nil || node.Kind() != "block" {
		return nil, fmt.Errorf("parser: expected block")
	}
	statements := make([]ast.Statement, 0, node.NamedChildCount())
	for _, child := range namedChildren(node) {
		stmt, err := ctx.parseStatement(child)
		if err != nil {
			return nil, wrapParseError(child, err)
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	block := ast.NewBlock(statements)
	annotateSpan(block, node)
	return block, nil
}

// parseStatement lowers one statement. The empty statement yields nil.
func (ctx *parseContext) parseStatement(node *sitter.Node) (ast.Statement, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: nil statement")
	}
	if !node.IsNamed() {
		if node.Kind() == ";" {
			return nil, nil
		}
		return nil, fmt.Errorf("parser: unexpected token %q", node.Kind())
	}

	switch node.Kind() {
	case "block":
		return ctx.parseBlock(node)
	case "expression_statement":
		inner := firstNamedChild(node)
		if inner == nil {
			return nil, fmt.Errorf("parser: empty expression statement")
		}
		expr, err := ctx.parseExpression(inner)
		if err != nil {
			return nil, err
		}
		return annotateStatement(ast.NewExpressionStatement(expr), node), nil
	case "local_variable_declaration":
		return ctx.parseLocalVariableDeclaration(node)
	case "if_statement":
		return ctx.parseIfStatement(node)
	case "for_statement":
		return ctx.parseForStatement(node)
	default:
		return nil, fmt.Errorf("parser: unsupported statement %s", strings.ReplaceAll(node.Kind(), "_", " "))
	}
}

func (ctx *parseContext) parseLocalVariableDeclaration(node *sitter.Node) (*ast.VariableDeclaration, error) {
	declarators, err := ctx.parseDeclarators(node)
	if err != nil {
		return nil, err
	}
	decl := ast.NewVariableDeclaration(ctx.parseType(node.ChildByFieldName("type")), declarators)
	annotateSpan(decl, node)
	return decl, nil
}

func (ctx *parseContext) parseIfStatement(node *sitter.Node) (*ast.IfStatement, error) {
	condition, err := ctx.parseExpression(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	thenNode := node.ChildByFieldName("consequence")
	then, err := ctx.parseStatement(thenNode)
	if err != nil {
		return nil, wrapParseError(thenNode, err)
	}
	var elseStmt ast.Statement
	if elseNode := node.ChildByFieldName("alternative"); elseNode != nil {
		elseStmt, err = ctx.parseStatement(elseNode)
		if err != nil {
			return nil, wrapParseError(elseNode, err)
		}
	}
	stmt := ast.NewIfStatement(unwrapCondition(condition), emptyIfNil(then), elseStmt)
	annotateSpan(stmt, node)
	return stmt, nil
}

func (ctx *parseContext) parseForStatement(node *sitter.Node) (*ast.ForStatement, error) {
	var inits []ast.Statement
	for _, initNode := range childrenByField(node, "init") {
		if initNode.Kind() == "local_variable_declaration" {
			decl, err := ctx.parseLocalVariableDeclaration(initNode)
			if err != nil {
				return nil, wrapParseError(initNode, err)
			}
			inits = append(inits, decl)
			continue
		}
		expr, err := ctx.parseExpression(initNode)
		if err != nil {
			return nil, err
		}
		inits = append(inits, annotateStatement(ast.NewExpressionStatement(expr), initNode))
	}

	var condition ast.Expression
	if condNode := node.ChildByFieldName("condition"); condNode != nil {
		expr, err := ctx.parseExpression(condNode)
		if err != nil {
			return nil, err
		}
		condition = expr
	}

	var updates []ast.Expression
	for _, updateNode := range childrenByField(node, "update") {
		expr, err := ctx.parseExpression(updateNode)
		if err != nil {
			return nil, err
		}
		updates = append(updates, expr)
	}

	bodyNode := node.ChildByFieldName("body")
	body, err := ctx.parseStatement(bodyNode)
	if err != nil {
		return nil, wrapParseError(bodyNode, err)
	}

	stmt := ast.NewForStatement(inits, condition, updates, emptyIfNil(body))
	annotateSpan(stmt, node)
	return stmt, nil
}

// unwrapCondition drops the parentheses the grammar makes part of an if
// condition.
func unwrapCondition(expr ast.Expression) ast.Expression {
	if enclosed, ok := expr.(*ast.EnclosedExpression); ok && enclosed.Inner != nil {
		return enclosed.Inner
	}
	return expr
}

func emptyIfNil(stmt ast.Statement) ast.Statement {
	if stmt == nil {
		return ast.NewBlock(nil)
	}
	return stmt
}
