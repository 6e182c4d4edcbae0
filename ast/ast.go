package ast

import (
	"github.com/onelang/onec/types"
)

// NodeInfo is what every node carries: its source location and an open
// metadata slot reserved for diagnostics and tooling. Locations are used
// only for error reporting, never for semantics.
type NodeInfo struct {
	Location types.SourceLocation
	Metadata map[string]interface{}
}

func (n NodeInfo) Loc() types.SourceLocation { return n.Location }

func At(location types.SourceLocation) NodeInfo {
	return NodeInfo{Location: location}
}

type Node interface {
	Loc() types.SourceLocation
}

type Declaration interface {
	Node
	is_Declaration()
}

type Statement interface {
	Node
	is_Statement()
}

// Expression is also a Statement: a bare expression is a valid statement.
type Expression interface {
	Statement
	is_Expression()
}

type Program struct {
	NodeInfo
	Declarations []Declaration
}

type Function struct {
	NodeInfo
	Name         string
	Inputs       []*Parameter
	Outputs      []*Parameter
	Requirements []*Requirement
	Body         *Block
}

func (v *Function) is_Declaration() {}

type Parameter struct {
	NodeInfo
	Name           string
	TypeAnnotation *TypeAnnotation
}

type TypeAnnotation struct {
	NodeInfo
	Name     string
	TypeArgs []*TypeAnnotation
}

// Requirement is a free-text annotation on a function; parsed, never checked.
type Requirement struct {
	NodeInfo
	Description string
}

type Block struct {
	NodeInfo
	Statements []Statement
}

type Return struct {
	NodeInfo
	Value Expression
}

func (v *Return) is_Statement() {}

type If struct {
	NodeInfo
	Condition Expression
	ThenBlock *Block
	ElseBlock *Block
}

func (v *If) is_Statement() {}

type While struct {
	NodeInfo
	Condition Expression
	Body      *Block
}

func (v *While) is_Statement() {}

// Ensure is the ensure/otherwise spelling of conditional branching. It is
// semantically identical to If.
type Ensure struct {
	NodeInfo
	Condition Expression
	ThenBlock *Block
	ElseBlock *Block
}

func (v *Ensure) is_Statement() {}

type Assignment struct {
	NodeInfo
	Target   Expression
	Value    Expression
	Operator string
}

func (v *Assignment) is_Statement() {}

type Break struct {
	NodeInfo
}

func (v *Break) is_Statement() {}

type Continue struct {
	NodeInfo
}

func (v *Continue) is_Statement() {}

type BinaryOp struct {
	NodeInfo
	Left     Expression
	Operator string
	Right    Expression
}

func (v *BinaryOp) is_Statement()  {}
func (v *BinaryOp) is_Expression() {}

type UnaryOp struct {
	NodeInfo
	Operator string
	Operand  Expression
}

func (v *UnaryOp) is_Statement()  {}
func (v *UnaryOp) is_Expression() {}

type Call struct {
	NodeInfo
	Function  Expression
	Arguments []Expression
}

func (v *Call) is_Statement()  {}
func (v *Call) is_Expression() {}

type Member struct {
	NodeInfo
	Object Expression
	Member string
}

func (v *Member) is_Statement()  {}
func (v *Member) is_Expression() {}

type Index struct {
	NodeInfo
	Object Expression
	Index  Expression
}

func (v *Index) is_Statement()  {}
func (v *Index) is_Expression() {}

type Literal struct {
	NodeInfo
	Value interface{}
}

func (v *Literal) is_Statement()  {}
func (v *Literal) is_Expression() {}

type Identifier struct {
	NodeInfo
	Name string
}

func (v *Identifier) is_Statement()  {}
func (v *Identifier) is_Expression() {}

type ListLiteral struct {
	NodeInfo
	Elements []Expression
}

func (v *ListLiteral) is_Statement()  {}
func (v *ListLiteral) is_Expression() {}
