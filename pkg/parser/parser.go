package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/parser/language"
)

// UnitParser wraps a tree-sitter parser configured for Java compilation
// units. A UnitParser is not safe for concurrent use; create one per
// goroutine.
type UnitParser struct {
	parser *sitter.Parser
}

// NewUnitParser constructs a parser with the Java language loaded.
func NewUnitParser() (*UnitParser, error) {
	lang := language.Java()
	if lang == nil {
		return nil, fmt.Errorf("parser: java language not available")
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	return &UnitParser{parser: p}, nil
}

// Close releases parser resources.
func (p *UnitParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// ParseUnit parses Java source into a CompilationUnit.
func (p *UnitParser) ParseUnit(source []byte) (*ast.CompilationUnit, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}

	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: parse aborted")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "program" {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, syntaxError(root)
	}

	ctx := newParseContext(source)

	var (
		pkg     string
		imports = make([]*ast.ImportDeclaration, 0)
		types   = make([]*ast.TypeDeclaration, 0)
	)

	for _, node := range namedChildren(root) {
		switch node.Kind() {
		case "package_declaration":
			pkg = ctx.qualifiedName(node)
		case "import_declaration":
			imports = append(imports, ctx.parseImport(node))
		case "class_declaration", "interface_declaration":
			decl, err := ctx.parseTypeDeclaration(node)
			if err != nil {
				return nil, wrapParseError(node, err)
			}
			types = append(types, decl)
		default:
			// enums, records and annotations are not interpretable targets
		}
	}

	unit := ast.NewCompilationUnit(pkg, imports, types)
	annotateSpan(unit, root)
	return unit, nil
}

// ParseSource is a convenience wrapper that builds a parser for a single
// parse.
func ParseSource(source []byte) (*ast.CompilationUnit, error) {
	p, err := NewUnitParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ParseUnit(source)
}

func (ctx *parseContext) qualifiedName(node *sitter.Node) string {
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "identifier", "scoped_identifier":
			return ctx.text(child)
		}
	}
	return ""
}

func (ctx *parseContext) parseImport(node *sitter.Node) *ast.ImportDeclaration {
	var static, wildcard bool
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "static":
			static = true
		case "asterisk":
			wildcard = true
		}
	}
	decl := ast.NewImportDeclaration(ctx.qualifiedName(node), static, wildcard)
	annotateSpan(decl, node)
	return decl
}

func (ctx *parseContext) parseTypeDeclaration(node *sitter.Node) (*ast.TypeDeclaration, error) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil, fmt.Errorf("parser: type declaration missing name")
	}
	kind := ast.TypeKindClass
	if node.Kind() == "interface_declaration" {
		kind = ast.TypeKindInterface
	}

	var (
		fields  []*ast.FieldDeclaration
		methods []*ast.MethodDeclaration
	)
	for _, member := range namedChildren(node.ChildByFieldName("body")) {
		switch member.Kind() {
		case "field_declaration", "constant_declaration":
			field, err := ctx.parseFieldDeclaration(member, kind == ast.TypeKindInterface)
			if err != nil {
				return nil, wrapParseError(member, err)
			}
			fields = append(fields, field)
		case "method_declaration":
			method, err := ctx.parseMethodDeclaration(member)
			if err != nil {
				return nil, wrapParseError(member, err)
			}
			methods = append(methods, method)
		}
	}

	decl := ast.NewTypeDeclaration(ctx.text(nameNode), kind, fields, methods)
	annotateSpan(decl, node)
	return decl, nil
}

func (ctx *parseContext) parseFieldDeclaration(node *sitter.Node, implicitStatic bool) (*ast.FieldDeclaration, error) {
	fieldType := ctx.parseType(node.ChildByFieldName("type"))
	declarators, err := ctx.parseDeclarators(node)
	if err != nil {
		return nil, err
	}
	field := ast.NewFieldDeclaration(fieldType, declarators, implicitStatic || hasModifier(node, "static"))
	annotateSpan(field, node)
	return field, nil
}

func (ctx *parseContext) parseMethodDeclaration(node *sitter.Node) (*ast.MethodDeclaration, error) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil, fmt.Errorf("parser: method declaration missing name")
	}

	var params []*ast.Parameter
	for _, paramNode := range namedChildren(node.ChildByFieldName("parameters")) {
		switch paramNode.Kind() {
		case "formal_parameter":
			param := ast.NewParameter(ctx.text(paramNode.ChildByFieldName("name")), ctx.parseType(paramNode.ChildByFieldName("type")))
			annotateSpan(param, paramNode)
			params = append(params, param)
		case "spread_parameter":
			return nil, wrapParseError(paramNode, fmt.Errorf("parser: varargs parameters are not supported"))
		}
	}

	var body *ast.Block
	if bodyNode := node.ChildByFieldName("body"); bodyNode != nil {
		block, err := ctx.parseBlock(bodyNode)
		if err != nil {
			return nil, err
		}
		body = block
	}

	method := ast.NewMethodDeclaration(ctx.text(nameNode), params, ctx.parseType(node.ChildByFieldName("type")), body, hasModifier(node, "static"))
	annotateSpan(method, node)
	return method, nil
}

func (ctx *parseContext) parseDeclarators(node *sitter.Node) ([]*ast.VariableDeclarator, error) {
	var out []*ast.VariableDeclarator
	for _, declNode := range childrenByField(node, "declarator") {
		nameNode := declNode.ChildByFieldName("name")
		if nameNode == nil {
			return nil, wrapParseError(declNode, fmt.Errorf("parser: declarator missing name"))
		}
		var init ast.Expression
		if valueNode := declNode.ChildByFieldName("value"); valueNode != nil {
			expr, err := ctx.parseExpression(valueNode)
			if err != nil {
				return nil, err
			}
			init = expr
		}
		decl := ast.NewVariableDeclarator(ctx.text(nameNode), init)
		annotateSpan(decl, declNode)
		out = append(out, decl)
	}
	return out, nil
}

// parseType reduces a type node to the name the resolver looks up: type
// arguments and annotations are dropped, arrays keep their brackets.
func (ctx *parseContext) parseType(node *sitter.Node) *ast.TypeReference {
	if node == nil {
		return nil
	}
	ref := ast.NewTypeReference(ctx.typeName(node))
	annotateSpan(ref, node)
	return ref
}

func (ctx *parseContext) typeName(node *sitter.Node) string {
	switch node.Kind() {
	case "generic_type":
		if base := firstNamedChild(node); base != nil {
			return ctx.typeName(base)
		}
	case "scoped_type_identifier":
		var parts []string
		for _, child := range namedChildren(node) {
			switch child.Kind() {
			case "type_identifier", "scoped_type_identifier", "generic_type":
				parts = append(parts, ctx.typeName(child))
			}
		}
		return strings.Join(parts, ".")
	case "annotated_type":
		children := namedChildren(node)
		if len(children) > 0 {
			return ctx.typeName(children[len(children)-1])
		}
	case "array_type":
		return ctx.typeName(node.ChildByFieldName("element")) + ctx.text(node.ChildByFieldName("dimensions"))
	}
	return strings.TrimSpace(ctx.text(node))
}
