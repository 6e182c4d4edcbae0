package codegen

import (
	"fmt"
	"sort"
	"strings"
)

func DisassembleFunction(f *Function) string {
	lines := []string{fmt.Sprintf("Function %s (%d params):", f.Name, f.ParamCount)}

	for i, inst := range f.Instructions {
		lines = append(lines, fmt.Sprintf("  %4d: %s", i, inst))
	}

	return strings.Join(lines, "\n")
}

func DisassembleModule(m *Module) string {
	lines := []string{
		"Bytecode Module:",
		fmt.Sprintf("Entry point: %s", m.EntryPoint),
		"",
	}

	names := make([]string, 0, len(m.Functions))
	for name := range m.Functions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lines = append(lines, DisassembleFunction(m.Functions[name]), "")
	}

	return strings.Join(lines, "\n")
}
