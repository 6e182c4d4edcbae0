package errors

import (
	"fmt"
	"strings"
)

// TypeCheckFailure aggregates the checker's diagnostics. The checker never
// aborts mid-pass; the pipeline decides that any diagnostic is fatal.
type TypeCheckFailure struct {
	Diagnostics []TypeCheckError
}

func (e TypeCheckFailure) Error() string {
	lines := make([]string, 0, len(e.Diagnostics)+1)
	lines = append(lines, fmt.Sprintf("type checking failed with %d error(s):", len(e.Diagnostics)))
	for _, d := range e.Diagnostics {
		lines = append(lines, "  "+d.Error())
	}
	return strings.Join(lines, "\n")
}
