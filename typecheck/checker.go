package typecheck

import (
	"fmt"

	"github.com/onelang/onec/ast"
	"github.com/onelang/onec/errors"
	"github.com/onelang/onec/types"
)

// Checker is a best-effort advisory pass, not a soundness gate: unresolved
// types degrade to Integer instead of failing, and the only recorded
// diagnostic is an identifier with no binding in any enclosing scope. The
// tree itself is never mutated.
type Checker struct {
	global  *Environment
	current *Environment
	Errors  []errors.TypeCheckError
}

func NewChecker() *Checker {
	c := &Checker{global: NewEnvironment(nil)}
	c.current = c.global

	for name, t := range Builtins {
		c.global.Define(name, t)
	}

	return c
}

// Check runs the checker over a program. The boolean is false when any
// diagnostic was recorded; callers decide whether that is fatal.
func Check(program *ast.Program) (bool, []errors.TypeCheckError) {
	c := NewChecker()
	ok := c.CheckProgram(program)
	return ok, c.Errors
}

func (c *Checker) error(message string, location types.SourceLocation) {
	c.Errors = append(c.Errors, errors.TypeCheckError{Message: message, Location: location})
}

func (c *Checker) resolveTypeAnnotation(annotation *ast.TypeAnnotation) Type {
	if annotation == nil {
		return VoidType
	}

	switch annotation.Name {
	case "Integer":
		return IntegerType
	case "Float":
		return FloatType
	case "String":
		return StringType
	case "Boolean":
		return BooleanType
	case "List":
		if len(annotation.TypeArgs) > 0 {
			return List{Element: c.resolveTypeAnnotation(annotation.TypeArgs[0])}
		}
		return List{Element: IntegerType}
	default:
		// Unknown type names degrade to Integer.
		return IntegerType
	}
}

func (c *Checker) CheckProgram(program *ast.Program) bool {
	c.Errors = nil

	// Pass 1: register every signature so forward references resolve.
	for _, decl := range program.Declarations {
		fn, ok := decl.(*ast.Function)
		if !ok {
			continue
		}

		var params []Type
		for _, param := range fn.Inputs {
			params = append(params, c.resolveTypeAnnotation(param.TypeAnnotation))
		}

		var ret Type = VoidType
		if len(fn.Outputs) > 0 {
			ret = c.resolveTypeAnnotation(fn.Outputs[0].TypeAnnotation)
		}

		c.global.Define(fn.Name, Function{Params: params, Return: ret})
	}

	// Pass 2: check bodies.
	for _, decl := range program.Declarations {
		if fn, ok := decl.(*ast.Function); ok {
			c.checkFunction(fn)
		}
	}

	return len(c.Errors) == 0
}

func (c *Checker) checkFunction(fn *ast.Function) {
	c.current = c.global.Child()

	for _, param := range fn.Inputs {
		c.current.Define(param.Name, c.resolveTypeAnnotation(param.TypeAnnotation))
	}

	if fn.Body != nil {
		c.checkBlock(fn.Body)
	}

	c.current = c.global
}

func (c *Checker) checkBlock(block *ast.Block) Type {
	var last Type = VoidType

	for _, stmt := range block.Statements {
		last = c.checkStatement(stmt)
	}

	return last
}

func (c *Checker) checkStatement(stmt ast.Statement) Type {
	switch s := stmt.(type) {
	case *ast.Return:
		if s.Value != nil {
			return c.checkExpression(s.Value)
		}
		return VoidType
	case *ast.If:
		return c.checkIf(s)
	case *ast.While:
		return c.checkWhile(s)
	case *ast.Ensure:
		return c.checkEnsure(s)
	case *ast.Assignment:
		return c.checkAssignment(s)
	case *ast.Break, *ast.Continue:
		return VoidType
	case ast.Expression:
		return c.checkExpression(s)
	default:
		return VoidType
	}
}

func (c *Checker) checkIf(stmt *ast.If) Type {
	c.checkExpression(stmt.Condition)

	// Lenient: the condition is not required to be Boolean.

	c.current = c.current.Child()
	c.checkBlock(stmt.ThenBlock)
	c.current = c.current.parent

	if stmt.ElseBlock != nil {
		c.current = c.current.Child()
		c.checkBlock(stmt.ElseBlock)
		c.current = c.current.parent
	}

	return VoidType
}

func (c *Checker) checkWhile(stmt *ast.While) Type {
	c.checkExpression(stmt.Condition)

	c.current = c.current.Child()
	c.checkBlock(stmt.Body)
	c.current = c.current.parent

	return VoidType
}

func (c *Checker) checkEnsure(stmt *ast.Ensure) Type {
	c.checkExpression(stmt.Condition)

	c.current = c.current.Child()
	c.checkBlock(stmt.ThenBlock)
	c.current = c.current.parent

	if stmt.ElseBlock != nil {
		c.current = c.current.Child()
		c.checkBlock(stmt.ElseBlock)
		c.current = c.current.parent
	}

	return VoidType
}

// checkAssignment also (re)defines identifier targets in the current scope;
// there is no separate declaration form, so scoping is block-local by
// construction.
func (c *Checker) checkAssignment(assign *ast.Assignment) Type {
	valueType := c.checkExpression(assign.Value)

	if target, ok := assign.Target.(*ast.Identifier); ok {
		c.current.Define(target.Name, valueType)
	}

	return valueType
}

func (c *Checker) checkExpression(expr ast.Expression) Type {
	switch e := expr.(type) {
	case *ast.Literal:
		return c.checkLiteral(e)
	case *ast.Identifier:
		return c.checkIdentifier(e)
	case *ast.BinaryOp:
		return c.checkBinaryOp(e)
	case *ast.UnaryOp:
		return c.checkUnaryOp(e)
	case *ast.Call:
		return c.checkCall(e)
	case *ast.Member:
		c.checkExpression(e.Object)
		return IntegerType
	case *ast.Index:
		return c.checkIndex(e)
	case *ast.ListLiteral:
		return c.checkListLiteral(e)
	default:
		return IntegerType
	}
}

func (c *Checker) checkLiteral(lit *ast.Literal) Type {
	switch lit.Value.(type) {
	case bool:
		return BooleanType
	case int64:
		return IntegerType
	case float64:
		return FloatType
	case string:
		return StringType
	default:
		return VoidType
	}
}

func (c *Checker) checkIdentifier(ident *ast.Identifier) Type {
	t, ok := c.current.Lookup(ident.Name)
	if !ok {
		c.error(fmt.Sprintf("Undefined variable: %s", ident.Name), ident.Location)
		return IntegerType
	}
	return t
}

func isNumeric(t Type) bool {
	p, ok := t.(Primitive)
	return ok && (p.Name == "Integer" || p.Name == "Float")
}

func (c *Checker) checkBinaryOp(binop *ast.BinaryOp) Type {
	left := c.checkExpression(binop.Left)
	right := c.checkExpression(binop.Right)

	switch binop.Operator {
	case "+", "-", "*", "/", "%", "**":
		if isNumeric(left) && isNumeric(right) {
			if Equal(left, FloatType) || Equal(right, FloatType) {
				return FloatType
			}
			return IntegerType
		}
		return IntegerType
	case "<", ">", "<=", ">=", "==", "!=":
		return BooleanType
	case "and", "or":
		return BooleanType
	default:
		return IntegerType
	}
}

func (c *Checker) checkUnaryOp(unop *ast.UnaryOp) Type {
	operand := c.checkExpression(unop.Operand)

	switch unop.Operator {
	case "-":
		return operand
	case "not":
		return BooleanType
	default:
		return IntegerType
	}
}

func (c *Checker) checkCall(call *ast.Call) Type {
	fnType := c.checkExpression(call.Function)

	for _, arg := range call.Arguments {
		c.checkExpression(arg)
	}

	if fn, ok := fnType.(Function); ok {
		return fn.Return
	}

	return VoidType
}

func (c *Checker) checkIndex(index *ast.Index) Type {
	objectType := c.checkExpression(index.Object)
	c.checkExpression(index.Index)

	if list, ok := objectType.(List); ok {
		return list.Element
	}

	return IntegerType
}

func (c *Checker) checkListLiteral(list *ast.ListLiteral) Type {
	if len(list.Elements) == 0 {
		return List{Element: IntegerType}
	}

	// The first element decides; the rest are checked but not unified.
	first := c.checkExpression(list.Elements[0])
	for _, elem := range list.Elements[1:] {
		c.checkExpression(elem)
	}

	return List{Element: first}
}
