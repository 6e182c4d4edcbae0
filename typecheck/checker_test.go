package typecheck

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/onelang/onec/ast"
	"github.com/onelang/onec/lexer"
	"github.com/onelang/onec/parser"
)

func parseSource(t *testing.T, source string) *ast.Program {
	t.Helper()

	tokens, err := lexer.Tokenize(source, "test.one")
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	return program
}

func TestCheckCleanProgram(t *testing.T) {
	program := parseSource(t, `function add:
inputs:
a: Integer
b: Integer
outputs:
result: Integer
implementation:
return a + b
`)

	ok, diagnostics := Check(program)
	if !ok {
		t.Errorf("Check() = false, diagnostics: %v", diagnostics)
	}
	if len(diagnostics) != 0 {
		t.Errorf("got %d diagnostics, want 0", len(diagnostics))
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	program := parseSource(t, `function f:
inputs:
x: Integer
implementation:
return x + y
`)

	ok, diagnostics := Check(program)
	if ok {
		t.Fatal("Check() = true, want false")
	}
	if len(diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diagnostics))
	}
	if diagnostics[0].Message != "Undefined variable: y" {
		t.Errorf("message = %q", diagnostics[0].Message)
	}
	if diagnostics[0].Location.Line != 5 {
		t.Errorf("line = %d, want 5", diagnostics[0].Location.Line)
	}
}

func TestCheckForwardReference(t *testing.T) {
	program := parseSource(t, `function caller:
implementation:
return callee()

function callee:
outputs:
result: Integer
implementation:
return 1
`)

	ok, diagnostics := Check(program)
	if !ok {
		t.Errorf("forward reference should resolve, got diagnostics: %v", diagnostics)
	}
}

func TestCheckBuiltinsAreVisible(t *testing.T) {
	program := parseSource(t, `function greet:
inputs:
name: String
implementation:
println(str_concat("hello ", name))
`)

	ok, diagnostics := Check(program)
	if !ok {
		t.Errorf("builtins should resolve, got diagnostics: %v", diagnostics)
	}
}

func TestCheckBranchScopeIsDiscarded(t *testing.T) {
	program := parseSource(t, `function f:
inputs:
c: Boolean
implementation:
if c: {
tmp = 1
} else: {
tmp = 2
}
return tmp
`)

	ok, diagnostics := Check(program)
	if ok {
		t.Fatal("bindings made inside a branch must not escape it")
	}
	if len(diagnostics) != 1 || diagnostics[0].Message != "Undefined variable: tmp" {
		t.Errorf("diagnostics = %v", diagnostics)
	}
}

func TestCheckAssignmentDefinesInCurrentScope(t *testing.T) {
	program := parseSource(t, `function f:
implementation:
x = 1
return x
`)

	ok, diagnostics := Check(program)
	if !ok {
		t.Errorf("assignment should define x, got diagnostics: %v", diagnostics)
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	program := parseSource(t, `function f:
implementation:
a = b + c
return d
`)

	_, first := Check(program)
	_, second := Check(program)

	if len(first) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(first))
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated checks disagree (-first +second):\n%s", diff)
	}
}

func TestResolveTypeAnnotation(t *testing.T) {
	c := NewChecker()

	tests := []struct {
		name       string
		annotation *ast.TypeAnnotation
		expected   Type
	}{
		{"Nil", nil, VoidType},
		{"Integer", &ast.TypeAnnotation{Name: "Integer"}, IntegerType},
		{"Float", &ast.TypeAnnotation{Name: "Float"}, FloatType},
		{"String", &ast.TypeAnnotation{Name: "String"}, StringType},
		{"Boolean", &ast.TypeAnnotation{Name: "Boolean"}, BooleanType},
		{"UnknownDegradesToInteger", &ast.TypeAnnotation{Name: "Widget"}, IntegerType},
		{"BareListDefaultsToInteger", &ast.TypeAnnotation{Name: "List"}, List{Element: IntegerType}},
		{
			"ListOfString",
			&ast.TypeAnnotation{Name: "List", TypeArgs: []*ast.TypeAnnotation{{Name: "String"}}},
			List{Element: StringType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.resolveTypeAnnotation(tt.annotation)
			if !Equal(got, tt.expected) {
				t.Errorf("resolveTypeAnnotation() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCheckBinaryOpWidening(t *testing.T) {
	c := NewChecker()
	c.current.Define("i", IntegerType)
	c.current.Define("f", FloatType)
	c.current.Define("s", StringType)

	tests := []struct {
		name     string
		left     string
		operator string
		right    string
		expected Type
	}{
		{"IntInt", "i", "+", "i", IntegerType},
		{"IntFloat", "i", "+", "f", FloatType},
		{"FloatInt", "f", "*", "i", FloatType},
		{"NonNumericArithmetic", "s", "+", "s", IntegerType},
		{"Comparison", "f", "<", "i", BooleanType},
		{"Equality", "s", "==", "s", BooleanType},
		{"Logical", "i", "and", "i", BooleanType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.checkBinaryOp(&ast.BinaryOp{
				Left:     &ast.Identifier{Name: tt.left},
				Operator: tt.operator,
				Right:    &ast.Identifier{Name: tt.right},
			})
			if !Equal(got, tt.expected) {
				t.Errorf("checkBinaryOp() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCheckExpressionTypes(t *testing.T) {
	c := NewChecker()
	c.current.Define("xs", List{Element: StringType})

	tests := []struct {
		name     string
		expr     ast.Expression
		expected Type
	}{
		{"BoolLiteral", &ast.Literal{Value: true}, BooleanType},
		{"IntLiteral", &ast.Literal{Value: int64(1)}, IntegerType},
		{"FloatLiteral", &ast.Literal{Value: 1.5}, FloatType},
		{"StringLiteral", &ast.Literal{Value: "s"}, StringType},
		{"NullLiteral", &ast.Literal{Value: nil}, VoidType},
		{
			"IndexIntoList",
			&ast.Index{Object: &ast.Identifier{Name: "xs"}, Index: &ast.Literal{Value: int64(0)}},
			StringType,
		},
		{
			"ListLiteralTakesFirstElement",
			&ast.ListLiteral{Elements: []ast.Expression{
				&ast.Literal{Value: "a"},
				&ast.Literal{Value: int64(1)},
			}},
			List{Element: StringType},
		},
		{
			"EmptyListLiteral",
			&ast.ListLiteral{},
			List{Element: IntegerType},
		},
		{
			"BuiltinCallReturn",
			&ast.Call{
				Function:  &ast.Identifier{Name: "str_to_int"},
				Arguments: []ast.Expression{&ast.Literal{Value: "42"}},
			},
			IntegerType,
		},
		{
			"NegationKeepsType",
			&ast.UnaryOp{Operator: "-", Operand: &ast.Literal{Value: 1.5}},
			FloatType,
		},
		{
			"NotIsBoolean",
			&ast.UnaryOp{Operator: "not", Operand: &ast.Literal{Value: int64(1)}},
			BooleanType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.checkExpression(tt.expr)
			if !Equal(got, tt.expected) {
				t.Errorf("checkExpression() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("x", IntegerType)

	inner := outer.Child()
	inner.Define("x", StringType)

	if got, _ := inner.Lookup("x"); !Equal(got, StringType) {
		t.Errorf("inner x = %s, want String", got)
	}
	if got, _ := outer.Lookup("x"); !Equal(got, IntegerType) {
		t.Errorf("outer x = %s, want Integer", got)
	}
	if _, ok := inner.Lookup("missing"); ok {
		t.Error("missing binding should not resolve")
	}
}
