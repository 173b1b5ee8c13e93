package ast

type NodeType string

const (
	NodeCompilationUnit          NodeType = "CompilationUnit"
	NodeImportDeclaration        NodeType = "ImportDeclaration"
	NodeTypeDeclaration          NodeType = "TypeDeclaration"
	NodeFieldDeclaration         NodeType = "FieldDeclaration"
	NodeMethodDeclaration        NodeType = "MethodDeclaration"
	NodeParameter                NodeType = "Parameter"
	NodeTypeReference            NodeType = "TypeReference"
	NodeVariableDeclarator       NodeType = "VariableDeclarator"
	NodeBlock                    NodeType = "Block"
	NodeExpressionStatement      NodeType = "ExpressionStatement"
	NodeVariableDeclaration      NodeType = "VariableDeclaration"
	NodeIfStatement              NodeType = "IfStatement"
	NodeForStatement             NodeType = "ForStatement"
	NodeStringLiteral            NodeType = "StringLiteral"
	NodeBooleanLiteral           NodeType = "BooleanLiteral"
	NodeIntegerLiteral           NodeType = "IntegerLiteral"
	NodeNullLiteral              NodeType = "NullLiteral"
	NodeNameExpression           NodeType = "NameExpression"
	NodeBinaryExpression         NodeType = "BinaryExpression"
	NodeUnaryExpression          NodeType = "UnaryExpression"
	NodeUpdateExpression         NodeType = "UpdateExpression"
	NodeAssignmentExpression     NodeType = "AssignmentExpression"
	NodeFieldAccessExpression    NodeType = "FieldAccessExpression"
	NodeMethodCallExpression     NodeType = "MethodCallExpression"
	NodeObjectCreationExpression NodeType = "ObjectCreationExpression"
	NodeEnclosedExpression       NodeType = "EnclosedExpression"
	NodeUnsupportedExpression    NodeType = "UnsupportedExpression"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Declarations

// CompilationUnit is one parsed source file. Parsed is only true when the
// front end consumed the whole file without syntax errors.
type CompilationUnit struct {
	nodeImpl

	Package string               `json:"package,omitempty"`
	Imports []*ImportDeclaration `json:"imports"`
	Types   []*TypeDeclaration   `json:"types"`
	Parsed  bool                 `json:"parsed"`
}

func NewCompilationUnit(pkg string, imports []*ImportDeclaration, types []*TypeDeclaration) *CompilationUnit {
	return &CompilationUnit{
		nodeImpl: newNodeImpl(NodeCompilationUnit),
		Package:  pkg,
		Imports:  imports,
		Types:    types,
		Parsed:   true,
	}
}

// FindType returns the top-level type declared with the given simple name.
func (u *CompilationUnit) FindType(name string) *TypeDeclaration {
	if u == nil {
		return nil
	}
	for _, decl := range u.Types {
		if decl != nil && decl.Name == name {
			return decl
		}
	}
	return nil
}

type ImportDeclaration struct {
	nodeImpl

	Path     string `json:"path"`
	Static   bool   `json:"static,omitempty"`
	Wildcard bool   `json:"wildcard,omitempty"`
}

func NewImportDeclaration(path string, static, wildcard bool) *ImportDeclaration {
	return &ImportDeclaration{nodeImpl: newNodeImpl(NodeImportDeclaration), Path: path, Static: static, Wildcard: wildcard}
}

// SimpleName is the last segment of the imported path ("Toast" for
// android.widget.Toast). Wildcard imports have no simple name.
func (d *ImportDeclaration) SimpleName() string {
	if d == nil || d.Wildcard {
		return ""
	}
	for idx := len(d.Path) - 1; idx >= 0; idx-- {
		if d.Path[idx] == '.' {
			return d.Path[idx+1:]
		}
	}
	return d.Path
}

type TypeKind string

const (
	TypeKindClass     TypeKind = "class"
	TypeKindInterface TypeKind = "interface"
)

type TypeDeclaration struct {
	nodeImpl

	Name    string               `json:"name"`
	Kind    TypeKind             `json:"kind"`
	Fields  []*FieldDeclaration  `json:"fields"`
	Methods []*MethodDeclaration `json:"methods"`
}

func NewTypeDeclaration(name string, kind TypeKind, fields []*FieldDeclaration, methods []*MethodDeclaration) *TypeDeclaration {
	return &TypeDeclaration{nodeImpl: newNodeImpl(NodeTypeDeclaration), Name: name, Kind: kind, Fields: fields, Methods: methods}
}

// FindMethod returns the first declared method with the given name.
func (d *TypeDeclaration) FindMethod(name string) *MethodDeclaration {
	if d == nil {
		return nil
	}
	for _, method := range d.Methods {
		if method != nil && method.Name == name {
			return method
		}
	}
	return nil
}

type FieldDeclaration struct {
	nodeImpl

	Type        *TypeReference        `json:"fieldType"`
	Declarators []*VariableDeclarator `json:"declarators"`
	Static      bool                  `json:"static,omitempty"`
}

func NewFieldDeclaration(fieldType *TypeReference, declarators []*VariableDeclarator, static bool) *FieldDeclaration {
	return &FieldDeclaration{nodeImpl: newNodeImpl(NodeFieldDeclaration), Type: fieldType, Declarators: declarators, Static: static}
}

type MethodDeclaration struct {
	nodeImpl

	Name       string         `json:"name"`
	Params     []*Parameter   `json:"params"`
	ReturnType *TypeReference `json:"returnType"`
	Body       *Block         `json:"body,omitempty"`
	Static     bool           `json:"static,omitempty"`
}

func NewMethodDeclaration(name string, params []*Parameter, returnType *TypeReference, body *Block, static bool) *MethodDeclaration {
	return &MethodDeclaration{nodeImpl: newNodeImpl(NodeMethodDeclaration), Name: name, Params: params, ReturnType: returnType, Body: body, Static: static}
}

// Param looks up a declared parameter by name.
func (d *MethodDeclaration) Param(name string) *Parameter {
	if d == nil {
		return nil
	}
	for _, param := range d.Params {
		if param != nil && param.Name == name {
			return param
		}
	}
	return nil
}

type Parameter struct {
	nodeImpl

	Name string         `json:"name"`
	Type *TypeReference `json:"paramType"`
}

func NewParameter(name string, paramType *TypeReference) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, Type: paramType}
}

// TypeReference is a type as written in source: a simple name ("Toast"),
// a qualified name ("android.widget.Toast"), a primitive ("int"), or "var".
// Type arguments are dropped by the front end.
type TypeReference struct {
	nodeImpl

	Name string `json:"name"`
}

func NewTypeReference(name string) *TypeReference {
	return &TypeReference{nodeImpl: newNodeImpl(NodeTypeReference), Name: name}
}

// IsInferred reports a local `var` declaration.
func (t *TypeReference) IsInferred() bool {
	return t != nil && t.Name == "var"
}

type VariableDeclarator struct {
	nodeImpl

	Name        string     `json:"name"`
	Initializer Expression `json:"initializer,omitempty"`
}

func NewVariableDeclarator(name string, initializer Expression) *VariableDeclarator {
	return &VariableDeclarator{nodeImpl: newNodeImpl(NodeVariableDeclarator), Name: name, Initializer: initializer}
}

// Statements

type Block struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlock(statements []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Statements: statements}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type VariableDeclaration struct {
	nodeImpl
	statementMarker

	Type        *TypeReference        `json:"varType"`
	Declarators []*VariableDeclarator `json:"declarators"`
}

func NewVariableDeclaration(varType *TypeReference, declarators []*VariableDeclarator) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Type: varType, Declarators: declarators}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then Statement, elseStmt Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: elseStmt}
}

// ForStatement is the classic three-clause loop. Init holds either a single
// VariableDeclaration or a list of ExpressionStatements.
type ForStatement struct {
	nodeImpl
	statementMarker

	Init      []Statement  `json:"init"`
	Condition Expression   `json:"condition,omitempty"`
	Update    []Expression `json:"update"`
	Body      Statement    `json:"body"`
}

func NewForStatement(init []Statement, condition Expression, update []Expression, body Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Init: init, Condition: condition, Update: update, Body: body}
}

// Literals

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

// Expressions

type NameExpression struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewNameExpression(name string) *NameExpression {
	return &NameExpression{nodeImpl: newNodeImpl(NodeNameExpression), Name: name}
}

type BinaryOperator string

const (
	BinaryOr            BinaryOperator = "||"
	BinaryAnd           BinaryOperator = "&&"
	BinaryLess          BinaryOperator = "<"
	BinaryLessEquals    BinaryOperator = "<="
	BinaryGreater       BinaryOperator = ">"
	BinaryGreaterEquals BinaryOperator = ">="
	BinaryEquals        BinaryOperator = "=="
	BinaryNotEquals     BinaryOperator = "!="
	BinaryPlus          BinaryOperator = "+"
	BinaryMinus         BinaryOperator = "-"
	BinaryMultiply      BinaryOperator = "*"
	BinaryDivide        BinaryOperator = "/"
	BinaryRemainder     BinaryOperator = "%"
)

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type UnaryOperator string

const (
	UnaryNot    UnaryOperator = "!"
	UnaryNegate UnaryOperator = "-"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type UpdateOperator string

const (
	UpdateIncrement UpdateOperator = "++"
	UpdateDecrement UpdateOperator = "--"
)

// UpdateExpression is `i++`, `i--`, `++i` or `--i`.
type UpdateExpression struct {
	nodeImpl
	expressionMarker

	Operator UpdateOperator `json:"operator"`
	Prefix   bool           `json:"prefix"`
	Operand  Expression     `json:"operand"`
}

func NewUpdateExpression(operator UpdateOperator, prefix bool, operand Expression) *UpdateExpression {
	return &UpdateExpression{nodeImpl: newNodeImpl(NodeUpdateExpression), Operator: operator, Prefix: prefix, Operand: operand}
}

type AssignmentOperator string

const (
	AssignmentAssign AssignmentOperator = "="
	AssignmentPlus   AssignmentOperator = "+="
	AssignmentMinus  AssignmentOperator = "-="
)

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Operator AssignmentOperator `json:"operator"`
	Target   Expression         `json:"target"`
	Value    Expression         `json:"value"`
}

func NewAssignmentExpression(operator AssignmentOperator, target, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Target: target, Value: value}
}

type FieldAccessExpression struct {
	nodeImpl
	expressionMarker

	Scope Expression `json:"scope"`
	Name  string     `json:"name"`
}

func NewFieldAccessExpression(scope Expression, name string) *FieldAccessExpression {
	return &FieldAccessExpression{nodeImpl: newNodeImpl(NodeFieldAccessExpression), Scope: scope, Name: name}
}

// MethodCallExpression has a nil Scope for unqualified calls.
type MethodCallExpression struct {
	nodeImpl
	expressionMarker

	Scope     Expression   `json:"scope,omitempty"`
	Name      string       `json:"name"`
	Arguments []Expression `json:"arguments"`
}

func NewMethodCallExpression(scope Expression, name string, args []Expression) *MethodCallExpression {
	return &MethodCallExpression{nodeImpl: newNodeImpl(NodeMethodCallExpression), Scope: scope, Name: name, Arguments: args}
}

type ObjectCreationExpression struct {
	nodeImpl
	expressionMarker

	Type      *TypeReference `json:"objectType"`
	Arguments []Expression   `json:"arguments"`
}

func NewObjectCreationExpression(objectType *TypeReference, args []Expression) *ObjectCreationExpression {
	return &ObjectCreationExpression{nodeImpl: newNodeImpl(NodeObjectCreationExpression), Type: objectType, Arguments: args}
}

type EnclosedExpression struct {
	nodeImpl
	expressionMarker

	Inner Expression `json:"inner"`
}

func NewEnclosedExpression(inner Expression) *EnclosedExpression {
	return &EnclosedExpression{nodeImpl: newNodeImpl(NodeEnclosedExpression), Inner: inner}
}

// UnsupportedExpression stands in for syntax the interpreter does not model
// (lambdas, casts, array creation, ternaries...). Kind is the grammar node kind.
type UnsupportedExpression struct {
	nodeImpl
	expressionMarker

	Kind string `json:"kind"`
	Text string `json:"text"`
}

func NewUnsupportedExpression(kind, text string) *UnsupportedExpression {
	return &UnsupportedExpression{nodeImpl: newNodeImpl(NodeUnsupportedExpression), Kind: kind, Text: text}
}
