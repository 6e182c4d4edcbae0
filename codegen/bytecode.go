package codegen

import (
	"fmt"

	"github.com/onelang/onec/types"
)

type Opcode int

const (
	// Stack operations
	LOAD_CONST Opcode = iota
	LOAD_VAR
	STORE_VAR
	POP

	// Arithmetic operations
	ADD
	SUB
	MUL
	DIV
	MOD
	POW
	NEG

	// Comparison operations
	EQ
	NE
	LT
	GT
	LE
	GE

	// Logical operations
	AND
	OR
	NOT

	// Control flow; jump operands are absolute instruction indices
	JUMP
	JUMP_IF_FALSE
	JUMP_IF_TRUE

	// Function operations
	CALL
	RETURN
	HALT

	// List operations
	BUILD_LIST
	INDEX

	// Print intrinsics
	PRINT
	PRINTLN
)

var opcodeNames = map[Opcode]string{
	LOAD_CONST:    "LOAD_CONST",
	LOAD_VAR:      "LOAD_VAR",
	STORE_VAR:     "STORE_VAR",
	POP:           "POP",
	ADD:           "ADD",
	SUB:           "SUB",
	MUL:           "MUL",
	DIV:           "DIV",
	MOD:           "MOD",
	POW:           "POW",
	NEG:           "NEG",
	EQ:            "EQ",
	NE:            "NE",
	LT:            "LT",
	GT:            "GT",
	LE:            "LE",
	GE:            "GE",
	AND:           "AND",
	OR:            "OR",
	NOT:           "NOT",
	JUMP:          "JUMP",
	JUMP_IF_FALSE: "JUMP_IF_FALSE",
	JUMP_IF_TRUE:  "JUMP_IF_TRUE",
	CALL:          "CALL",
	RETURN:        "RETURN",
	HALT:          "HALT",
	BUILD_LIST:    "BUILD_LIST",
	INDEX:         "INDEX",
	PRINT:         "PRINT",
	PRINTLN:       "PRINTLN",
}

var opcodesByName = func() map[string]Opcode {
	m := map[string]Opcode{}
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

func (o Opcode) String() string {
	return opcodeNames[o]
}

// CallTarget is the operand of a CALL instruction: the callee's name and
// how many arguments were pushed.
type CallTarget struct {
	Name string
	Argc int
}

func (c CallTarget) String() string {
	return fmt.Sprintf("%s/%d", c.Name, c.Argc)
}

// Instruction is one bytecode instruction. The operand shape depends on
// the opcode: a constant value, a variable name, an instruction-index jump
// target, or a CallTarget. Jump operands hold a symbolic label string only
// while generation of the owning function is in flight.
type Instruction struct {
	Opcode   Opcode
	Operand  interface{}
	Location types.SourceLocation
}

func (i Instruction) String() string {
	if i.Operand != nil {
		return fmt.Sprintf("%s %v", i.Opcode, i.Operand)
	}
	return i.Opcode.String()
}

// Function is one compiled function: named parameter slots plus a flat,
// append-only instruction sequence.
type Function struct {
	Name         string
	ParamCount   int
	ParamNames   []string
	Instructions []Instruction
	Constants    []interface{}
}

// Module is the terminal artifact of the pipeline and the sole input the
// execution engine accepts.
type Module struct {
	Functions  map[string]*Function
	Constants  []interface{}
	EntryPoint string
}

func NewModule() *Module {
	return &Module{
		Functions:  map[string]*Function{},
		EntryPoint: "main",
	}
}
