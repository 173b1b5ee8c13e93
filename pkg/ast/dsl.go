package ast

// Literal and name helpers.

func Name(name string) *NameExpression {
	return NewNameExpression(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Null() *NullLiteral {
	return NewNullLiteral()
}

func Ty(name string) *TypeReference {
	return NewTypeReference(name)
}

// Expression helpers.

func Bin(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Not(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryNot, operand)
}

func Paren(inner Expression) *EnclosedExpression {
	return NewEnclosedExpression(inner)
}

func Call(scope Expression, name string, args ...Expression) *MethodCallExpression {
	return NewMethodCallExpression(scope, name, args)
}

func Field(scope Expression, name string) *FieldAccessExpression {
	return NewFieldAccessExpression(scope, name)
}

func New(typeName string, args ...Expression) *ObjectCreationExpression {
	return NewObjectCreationExpression(Ty(typeName), args)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(AssignmentAssign, Name(name), value)
}

func PostInc(name string) *UpdateExpression {
	return NewUpdateExpression(UpdateIncrement, false, Name(name))
}

func PreInc(name string) *UpdateExpression {
	return NewUpdateExpression(UpdateIncrement, true, Name(name))
}

func PostDec(name string) *UpdateExpression {
	return NewUpdateExpression(UpdateDecrement, false, Name(name))
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Decl(typeName, name string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(Ty(typeName), []*VariableDeclarator{NewVariableDeclarator(name, initializer)})
}

func Blk(statements ...Statement) *Block {
	return NewBlock(statements)
}

func If(condition Expression, then Statement, elseStmt Statement) *IfStatement {
	return NewIfStatement(condition, then, elseStmt)
}

func For(init Statement, condition Expression, update Expression, body Statement) *ForStatement {
	var inits []Statement
	if init != nil {
		inits = []Statement{init}
	}
	var updates []Expression
	if update != nil {
		updates = []Expression{update}
	}
	return NewForStatement(inits, condition, updates, body)
}

// Declaration helpers.

func Param(typeName, name string) *Parameter {
	return NewParameter(name, Ty(typeName))
}

func Method(name string, params []*Parameter, body ...Statement) *MethodDeclaration {
	return NewMethodDeclaration(name, params, Ty("void"), NewBlock(body), false)
}

func FieldDecl(typeName, name string, initializer Expression) *FieldDeclaration {
	return NewFieldDeclaration(Ty(typeName), []*VariableDeclarator{NewVariableDeclarator(name, initializer)}, false)
}

func Class(name string, fields []*FieldDeclaration, methods ...*MethodDeclaration) *TypeDeclaration {
	return NewTypeDeclaration(name, TypeKindClass, fields, methods)
}

func Import(path string) *ImportDeclaration {
	return NewImportDeclaration(path, false, false)
}

func Unit(imports []*ImportDeclaration, types ...*TypeDeclaration) *CompilationUnit {
	return NewCompilationUnit("", imports, types)
}
