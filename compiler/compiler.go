package compiler

import (
	"fmt"
	"io/ioutil"

	"github.com/alecthomas/repr"

	"github.com/onelang/onec/codegen"
	"github.com/onelang/onec/errors"
	"github.com/onelang/onec/lexer"
	"github.com/onelang/onec/parser"
	"github.com/onelang/onec/typecheck"
)

// Compiler runs the four stages in order, fail-fast: a stage either returns
// a complete artifact or its error aborts the pipeline before the next
// stage runs. Every compilation constructs fresh stage state.
type Compiler struct {
	Verbose bool
	Debug   bool
}

func (c *Compiler) CompileFile(filename string) (*codegen.Module, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return c.CompileString(string(data), filename)
}

func (c *Compiler) CompileString(source string, filename string) (*codegen.Module, error) {
	if c.Verbose {
		fmt.Printf("Compiling %s...\n", filename)
		fmt.Println("  Stage 1: Lexical analysis...")
	}

	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, err
	}

	if c.Debug {
		fmt.Println("\n=== Tokens ===")
		for i, token := range tokens {
			if i == 20 {
				fmt.Printf("  ... and %d more\n", len(tokens)-20)
				break
			}
			fmt.Printf("  %s\n", token)
		}
		fmt.Println()
	}

	if c.Verbose {
		fmt.Println("  Stage 2: Parsing...")
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}

	if c.Debug {
		fmt.Println("\n=== AST ===")
		repr.Println(program)
		fmt.Println()
	}

	if c.Verbose {
		fmt.Println("  Stage 3: Type checking...")
	}

	ok, diagnostics := typecheck.Check(program)
	if !ok {
		return nil, errors.TypeCheckFailure{Diagnostics: diagnostics}
	}

	if c.Verbose {
		fmt.Println("  Stage 4: Code generation...")
	}

	module, err := codegen.Generate(program)
	if err != nil {
		return nil, err
	}

	if c.Debug {
		fmt.Println("\n=== Bytecode ===")
		fmt.Println(codegen.DisassembleModule(module))
	}

	if c.Verbose {
		fmt.Println("  Compilation successful!")
	}

	return module, nil
}
