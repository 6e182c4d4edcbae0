package errors

import (
	"fmt"

	"github.com/onelang/onec/types"
)

type LexError struct {
	Message  string
	Location types.SourceLocation
}

func (e LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

type ParseError struct {
	Message  string
	Location types.SourceLocation
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

type TypeCheckError struct {
	Message  string
	Location types.SourceLocation
}

func (e TypeCheckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

type GenError struct {
	Message  string
	Location types.SourceLocation
}

func (e GenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}
