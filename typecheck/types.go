package typecheck

import (
	"fmt"
	"strings"
)

type Type interface {
	is_Type()
	String() string
}

type Primitive struct {
	Name string
}

func (t Primitive) is_Type() {}

func (t Primitive) String() string {
	return t.Name
}

type Function struct {
	Params []Type
	Return Type
}

func (t Function) is_Type() {}

func (t Function) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Return)
}

type List struct {
	Element Type
}

func (t List) is_Type() {}

func (t List) String() string {
	return fmt.Sprintf("List<%s>", t.Element)
}

type Void struct{}

func (t Void) is_Type() {}

func (t Void) String() string {
	return "Void"
}

// Equal reports structural equality: same variant, same fields.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case Primitive:
		bt, ok := b.(Primitive)
		return ok && at.Name == bt.Name
	case Function:
		bt, ok := b.(Function)
		if !ok || len(at.Params) != len(bt.Params) || !Equal(at.Return, bt.Return) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return true
	case List:
		bt, ok := b.(List)
		return ok && Equal(at.Element, bt.Element)
	case Void:
		_, ok := b.(Void)
		return ok
	}
	return false
}

var (
	IntegerType = Primitive{Name: "Integer"}
	FloatType   = Primitive{Name: "Float"}
	StringType  = Primitive{Name: "String"}
	BooleanType = Primitive{Name: "Boolean"}
	VoidType    = Void{}
)

// Builtins holds the signatures of the functions the execution engine
// resolves by name at run time. The table is never mutated after
// construction. List-taking builtins are typed as Integer for bootstrap.
var Builtins = map[string]Type{
	"print":   Function{Params: []Type{StringType}, Return: VoidType},
	"println": Function{Params: []Type{StringType}, Return: VoidType},

	"len":        Function{Params: []Type{StringType}, Return: IntegerType},
	"substr":     Function{Params: []Type{StringType, IntegerType, IntegerType}, Return: StringType},
	"char_at":    Function{Params: []Type{StringType, IntegerType}, Return: StringType},
	"str_concat": Function{Params: []Type{StringType, StringType}, Return: StringType},
	"str_eq":     Function{Params: []Type{StringType, StringType}, Return: BooleanType},
	"str_to_int": Function{Params: []Type{StringType}, Return: IntegerType},
	"int_to_str": Function{Params: []Type{IntegerType}, Return: StringType},
	"is_digit":   Function{Params: []Type{StringType}, Return: BooleanType},
	"is_alpha":   Function{Params: []Type{StringType}, Return: BooleanType},
	"is_alnum":   Function{Params: []Type{StringType}, Return: BooleanType},

	"list_append": Function{Params: []Type{IntegerType, IntegerType}, Return: IntegerType},
	"list_get":    Function{Params: []Type{IntegerType, IntegerType}, Return: IntegerType},
	"list_set":    Function{Params: []Type{IntegerType, IntegerType, IntegerType}, Return: IntegerType},

	"exit": Function{Params: []Type{IntegerType}, Return: VoidType},
}
