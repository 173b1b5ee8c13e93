package interpreter

import (
	"github.com/golang/glog"

	"zapush/interpreter-go/pkg/ast"
	"zapush/interpreter-go/pkg/host"
	"zapush/interpreter-go/pkg/runtime"
)

func (e *execution) execBlock(block *ast.Block) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		if err := e.execStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// execStatement runs one statement. A cancelled context stops execution
// before the next statement and surfaces the context's error unchanged.
func (e *execution) execStatement(stmt ast.Statement) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ast.Block:
		return e.execBlock(s)
	case *ast.ExpressionStatement:
		_, err := e.evaluate(s.Expression)
		return err
	case *ast.VariableDeclaration:
		for _, declarator := range s.Declarators {
			if err := e.declare(s.Type, declarator); err != nil {
				return err
			}
		}
		return nil
	case *ast.IfStatement:
		return e.execIf(s)
	case *ast.ForStatement:
		return e.execFor(s)
	default:
		return newError(KindUnsupportedSyntax, stmt, "unsupported statement %s", stmt.NodeType())
	}
}

// declare defines one declarator in the environment. Without a usable
// initializer the variable exists but holds no value. A `var` declaration
// takes the initializer's type.
func (e *execution) declare(typeRef *ast.TypeReference, declarator *ast.VariableDeclarator) error {
	var declared *host.Class
	if typeRef != nil && !typeRef.IsInferred() {
		typ, err := e.resolveType(typeRef.Name, typeRef)
		if err != nil {
			return err
		}
		declared = typ
	}

	var value runtime.Value
	switch initializer := declarator.Initializer.(type) {
	case nil:
	case *ast.UnsupportedExpression:
		if glog.V(3) {
			glog.Infof("%s: initializer of %s is not interpretable (%s), left unset", initializer.Span(), declarator.Name, initializer.Kind)
		}
	default:
		v, err := e.evaluate(initializer)
		if err != nil {
			return err
		}
		if err := e.checkAssignable(declared, v, declarator, declarator.Name); err != nil {
			return err
		}
		value = v
	}

	if typeRef.IsInferred() && value != nil {
		declared, _ = e.registry.TypeOf(value)
	}
	e.env.Define(declarator.Name, value, asType(declared))
	return nil
}

func (e *execution) execIf(s *ast.IfStatement) error {
	cond, err := e.evaluate(s.Condition)
	if err != nil {
		return err
	}
	b, ok := cond.(runtime.BoolValue)
	if !ok {
		return newError(KindTypeMismatch, s.Condition, "if condition must be boolean, got %s", kindName(cond))
	}
	if b.Val {
		return e.execStatement(s.Then)
	}
	return e.execStatement(s.Else)
}

type loopState int

const (
	loopInit loopState = iota
	loopCheck
	loopBody
	loopUpdate
	loopDone
)

// execFor drives the loop through Init, Check, Body and Update until the
// condition fails. A missing condition is true. Only the first update clause
// runs.
func (e *execution) execFor(s *ast.ForStatement) error {
	if len(s.Update) > 1 && glog.V(3) {
		glog.Infof("%s: for loop has %d update clauses, only the first runs", s.Span(), len(s.Update))
	}
	state := loopInit
	for state != loopDone {
		switch state {
		case loopInit:
			for _, stmt := range s.Init {
				if err := e.execStatement(stmt); err != nil {
					return err
				}
			}
			state = loopCheck
		case loopCheck:
			state = loopBody
			if s.Condition == nil {
				continue
			}
			cond, err := e.evaluate(s.Condition)
			if err != nil {
				return err
			}
			b, ok := cond.(runtime.BoolValue)
			if !ok {
				return newError(KindTypeMismatch, s.Condition, "for condition must be boolean, got %s", kindName(cond))
			}
			if !b.Val {
				state = loopDone
			}
		case loopBody:
			if err := e.execStatement(s.Body); err != nil {
				return err
			}
			state = loopUpdate
		case loopUpdate:
			if len(s.Update) > 0 {
				if _, err := e.evaluate(s.Update[0]); err != nil {
					return err
				}
			}
			state = loopCheck
		}
	}
	return nil
}
