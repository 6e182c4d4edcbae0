package codegen

import (
	"fmt"

	"github.com/ztrue/tracerr"

	"github.com/onelang/onec/ast"
	"github.com/onelang/onec/errors"
)

type loopContext struct {
	breakLabel  string
	continuePos int
}

type Generator struct {
	module       *Module
	current      *Function
	labelCounter int
	loopStack    []loopContext
}

func NewGenerator() *Generator {
	return &Generator{module: NewModule()}
}

// Generate walks a checked program and emits its bytecode module. It fails
// only on structural impossibilities: break/continue outside a loop, an
// unrecognized operator spelling, or a call/assignment target that is not
// a simple name. The returned error is a wrapped errors.GenError.
func Generate(program *ast.Program) (module *Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	g := NewGenerator()
	for _, decl := range program.Declarations {
		if fn, ok := decl.(*ast.Function); ok {
			g.generateFunction(fn)
		}
	}

	return g.module, nil
}

func (g *Generator) fail(message string, node ast.Node) {
	panic(errors.GenError{Message: message, Location: node.Loc()})
}

func (g *Generator) emit(opcode Opcode, operand interface{}) {
	g.current.Instructions = append(g.current.Instructions, Instruction{
		Opcode:  opcode,
		Operand: operand,
	})
}

func (g *Generator) newLabel() string {
	label := fmt.Sprintf("L%d", g.labelCounter)
	g.labelCounter++
	return label
}

// patchLabel rewrites every jump whose operand is this label to the next
// instruction index. Labels are only referenced by jumps emitted before the
// patch, and each label is patched exactly once.
func (g *Generator) patchLabel(label string) {
	pos := len(g.current.Instructions)

	for i := range g.current.Instructions {
		inst := &g.current.Instructions[i]
		switch inst.Opcode {
		case JUMP, JUMP_IF_FALSE, JUMP_IF_TRUE:
			if l, ok := inst.Operand.(string); ok && l == label {
				inst.Operand = pos
			}
		}
	}
}

func (g *Generator) generateFunction(fn *ast.Function) {
	var paramNames []string
	for _, param := range fn.Inputs {
		paramNames = append(paramNames, param.Name)
	}

	g.current = &Function{
		Name:       fn.Name,
		ParamCount: len(fn.Inputs),
		ParamNames: paramNames,
	}

	if fn.Body != nil {
		g.generateBlock(fn.Body)
	}

	// Implicit return: push void and return when the body does not end in
	// an explicit return.
	n := len(g.current.Instructions)
	if n == 0 || g.current.Instructions[n-1].Opcode != RETURN {
		g.emit(LOAD_CONST, nil)
		g.emit(RETURN, nil)
	}

	// Last definition wins when names collide.
	g.module.Functions[fn.Name] = g.current
	g.current = nil
}

func (g *Generator) generateBlock(block *ast.Block) {
	for _, stmt := range block.Statements {
		g.generateStatement(stmt)
	}
}

func (g *Generator) generateStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Return:
		g.generateReturn(s)
	case *ast.If:
		g.generateConditional(s.Condition, s.ThenBlock, s.ElseBlock)
	case *ast.Ensure:
		// ensure/otherwise lowers exactly like if/else.
		g.generateConditional(s.Condition, s.ThenBlock, s.ElseBlock)
	case *ast.While:
		g.generateWhile(s)
	case *ast.Assignment:
		g.generateAssignment(s)
	case *ast.Break:
		if len(g.loopStack) == 0 {
			g.fail("break outside of loop", s)
		}
		g.emit(JUMP, g.loopStack[len(g.loopStack)-1].breakLabel)
	case *ast.Continue:
		if len(g.loopStack) == 0 {
			g.fail("continue outside of loop", s)
		}
		g.emit(JUMP, g.loopStack[len(g.loopStack)-1].continuePos)
	case ast.Expression:
		g.generateExpression(s)
		g.emit(POP, nil)
	}
}

func (g *Generator) generateReturn(ret *ast.Return) {
	if ret.Value != nil {
		g.generateExpression(ret.Value)
	} else {
		g.emit(LOAD_CONST, nil)
	}

	g.emit(RETURN, nil)
}

func (g *Generator) generateConditional(condition ast.Expression, thenBlock, elseBlock *ast.Block) {
	g.generateExpression(condition)

	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(JUMP_IF_FALSE, elseLabel)

	g.generateBlock(thenBlock)
	g.emit(JUMP, endLabel)

	g.patchLabel(elseLabel)
	if elseBlock != nil {
		g.generateBlock(elseBlock)
	}

	g.patchLabel(endLabel)
}

func (g *Generator) generateWhile(stmt *ast.While) {
	endLabel := g.newLabel()

	// The condition re-evaluation point precedes the body, so continue can
	// target the instruction index directly; only break needs a label.
	startPos := len(g.current.Instructions)
	g.loopStack = append(g.loopStack, loopContext{breakLabel: endLabel, continuePos: startPos})

	g.generateExpression(stmt.Condition)
	g.emit(JUMP_IF_FALSE, endLabel)

	g.generateBlock(stmt.Body)

	g.emit(JUMP, startPos)

	g.patchLabel(endLabel)

	g.loopStack = g.loopStack[:len(g.loopStack)-1]
}

func (g *Generator) generateAssignment(assign *ast.Assignment) {
	g.generateExpression(assign.Value)

	target, ok := assign.Target.(*ast.Identifier)
	if !ok {
		if assign.Operator != "=" {
			g.fail("compound assignment target must be an identifier", assign)
		}
		g.fail("assignment target must be an identifier", assign)
	}

	if assign.Operator != "=" {
		g.emit(LOAD_VAR, target.Name)

		switch assign.Operator {
		case "+=":
			g.emit(ADD, nil)
		case "-=":
			g.emit(SUB, nil)
		case "*=":
			g.emit(MUL, nil)
		case "/=":
			g.emit(DIV, nil)
		default:
			g.fail(fmt.Sprintf("Unknown assignment operator: %s", assign.Operator), assign)
		}
	}

	g.emit(STORE_VAR, target.Name)
}

func (g *Generator) generateExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Literal:
		g.emit(LOAD_CONST, e.Value)
	case *ast.Identifier:
		g.emit(LOAD_VAR, e.Name)
	case *ast.BinaryOp:
		g.generateBinaryOp(e)
	case *ast.UnaryOp:
		g.generateUnaryOp(e)
	case *ast.Call:
		g.generateCall(e)
	case *ast.Index:
		g.generateExpression(e.Object)
		g.generateExpression(e.Index)
		g.emit(INDEX, nil)
	case *ast.ListLiteral:
		for _, elem := range e.Elements {
			g.generateExpression(elem)
		}
		g.emit(BUILD_LIST, len(e.Elements))
	case *ast.Member:
		// No member opcode exists in the bootstrap set; lowers to null.
		g.emit(LOAD_CONST, nil)
	default:
		g.fail(fmt.Sprintf("internal: unhandled expression node %T", expr), expr)
	}
}

var binaryOpcodes = map[string]Opcode{
	"+":   ADD,
	"-":   SUB,
	"*":   MUL,
	"/":   DIV,
	"%":   MOD,
	"**":  POW,
	"==":  EQ,
	"!=":  NE,
	"<":   LT,
	">":   GT,
	"<=":  LE,
	">=":  GE,
	"and": AND,
	"or":  OR,
}

func (g *Generator) generateBinaryOp(binop *ast.BinaryOp) {
	g.generateExpression(binop.Left)
	g.generateExpression(binop.Right)

	opcode, ok := binaryOpcodes[binop.Operator]
	if !ok {
		g.fail(fmt.Sprintf("Unknown binary operator: %s", binop.Operator), binop)
	}

	g.emit(opcode, nil)
}

func (g *Generator) generateUnaryOp(unop *ast.UnaryOp) {
	g.generateExpression(unop.Operand)

	switch unop.Operator {
	case "-":
		g.emit(NEG, nil)
	case "not":
		g.emit(NOT, nil)
	default:
		g.fail(fmt.Sprintf("Unknown unary operator: %s", unop.Operator), unop)
	}
}

func (g *Generator) generateCall(call *ast.Call) {
	// Arguments are evaluated left to right and pushed before the call.
	for _, arg := range call.Arguments {
		g.generateExpression(arg)
	}

	fn, ok := call.Function.(*ast.Identifier)
	if !ok {
		g.fail("Only simple function calls are supported", call)
	}

	switch fn.Name {
	case "print":
		g.emit(PRINT, nil)
	case "println":
		g.emit(PRINTLN, nil)
	default:
		g.emit(CALL, CallTarget{Name: fn.Name, Argc: len(call.Arguments)})
	}
}
