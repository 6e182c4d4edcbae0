package codegen

import (
	"encoding/json"
	"fmt"

	"github.com/onelang/onec/types"
)

// The module is a closed, acyclic value graph, so it round-trips through a
// tagged JSON form: every operand is written with an explicit kind so that
// int64 constants, variable names, jump targets and call targets decode
// back to the exact values the generator produced.

type operandJSON struct {
	Kind  string   `json:"kind"`
	Int   *int64   `json:"int,omitempty"`
	Float *float64 `json:"float,omitempty"`
	Str   *string  `json:"string,omitempty"`
	Bool  *bool    `json:"bool,omitempty"`
	Index *int     `json:"index,omitempty"`
	Name  *string  `json:"name,omitempty"`
	Argc  *int     `json:"argc,omitempty"`
}

type locationJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

type instructionJSON struct {
	Op       string        `json:"op"`
	Operand  *operandJSON  `json:"operand,omitempty"`
	Location *locationJSON `json:"location,omitempty"`
}

func (i Instruction) MarshalJSON() ([]byte, error) {
	out := instructionJSON{Op: i.Opcode.String()}

	switch v := i.Operand.(type) {
	case nil:
		if i.Opcode == LOAD_CONST {
			out.Operand = &operandJSON{Kind: "null"}
		}
	case int64:
		out.Operand = &operandJSON{Kind: "int", Int: &v}
	case float64:
		out.Operand = &operandJSON{Kind: "float", Float: &v}
	case string:
		out.Operand = &operandJSON{Kind: "string", Str: &v}
	case bool:
		out.Operand = &operandJSON{Kind: "bool", Bool: &v}
	case int:
		out.Operand = &operandJSON{Kind: "index", Index: &v}
	case CallTarget:
		out.Operand = &operandJSON{Kind: "call", Name: &v.Name, Argc: &v.Argc}
	default:
		return nil, fmt.Errorf("unserializable operand %T", i.Operand)
	}

	if i.Location != (types.SourceLocation{}) {
		out.Location = &locationJSON{
			Filename: i.Location.Filename,
			Line:     i.Location.Line,
			Column:   i.Location.Column,
		}
	}

	return json.Marshal(out)
}

func (i *Instruction) UnmarshalJSON(data []byte) error {
	var in instructionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	opcode, ok := opcodesByName[in.Op]
	if !ok {
		return fmt.Errorf("unknown opcode %q", in.Op)
	}
	i.Opcode = opcode

	i.Operand = nil
	if in.Operand != nil {
		switch in.Operand.Kind {
		case "null":
			i.Operand = nil
		case "int":
			i.Operand = *in.Operand.Int
		case "float":
			i.Operand = *in.Operand.Float
		case "string":
			i.Operand = *in.Operand.Str
		case "bool":
			i.Operand = *in.Operand.Bool
		case "index":
			i.Operand = *in.Operand.Index
		case "call":
			i.Operand = CallTarget{Name: *in.Operand.Name, Argc: *in.Operand.Argc}
		default:
			return fmt.Errorf("unknown operand kind %q", in.Operand.Kind)
		}
	}

	i.Location = types.SourceLocation{}
	if in.Location != nil {
		i.Location = types.SourceLocation{
			Filename: in.Location.Filename,
			Line:     in.Location.Line,
			Column:   in.Location.Column,
		}
	}

	return nil
}

type functionJSON struct {
	Name         string        `json:"name"`
	ParamCount   int           `json:"param_count"`
	ParamNames   []string      `json:"param_names,omitempty"`
	Instructions []Instruction `json:"instructions"`
}

type moduleJSON struct {
	EntryPoint string                   `json:"entry_point"`
	Functions  map[string]*functionJSON `json:"functions"`
}

// EncodeModule serializes a module for persistence by the CLI layer.
func EncodeModule(m *Module) ([]byte, error) {
	out := moduleJSON{
		EntryPoint: m.EntryPoint,
		Functions:  map[string]*functionJSON{},
	}

	for name, fn := range m.Functions {
		out.Functions[name] = &functionJSON{
			Name:         fn.Name,
			ParamCount:   fn.ParamCount,
			ParamNames:   fn.ParamNames,
			Instructions: fn.Instructions,
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

func DecodeModule(data []byte) (*Module, error) {
	var in moduleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}

	m := NewModule()
	if in.EntryPoint != "" {
		m.EntryPoint = in.EntryPoint
	}

	for name, fn := range in.Functions {
		m.Functions[name] = &Function{
			Name:         fn.Name,
			ParamCount:   fn.ParamCount,
			ParamNames:   fn.ParamNames,
			Instructions: fn.Instructions,
		}
	}

	return m, nil
}
