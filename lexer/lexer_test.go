package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ztrue/tracerr"

	onecerrors "github.com/onelang/onec/errors"
	"github.com/onelang/onec/types"
)

func loc(line, column int) types.SourceLocation {
	return types.SourceLocation{Filename: "test.one", Line: line, Column: column}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []types.Token
	}{
		{
			name:  "Empty",
			input: "",
			expected: []types.Token{
				{Kind: types.EOF, Lexeme: "", Location: loc(1, 1)},
			},
		},
		{
			name:  "IdentPlusIdent",
			input: "a+b",
			expected: []types.Token{
				{Kind: types.IDENTIFIER, Lexeme: "a", Location: loc(1, 1)},
				{Kind: types.PLUS, Lexeme: "+", Location: loc(1, 2)},
				{Kind: types.IDENTIFIER, Lexeme: "b", Location: loc(1, 3)},
				{Kind: types.EOF, Lexeme: "", Location: loc(1, 4)},
			},
		},
		{
			name:  "TwoCharOperatorsAreGreedy",
			input: "== != <= >= << >> += -= *= /= -> => **",
			expected: []types.Token{
				{Kind: types.EQ, Lexeme: "==", Location: loc(1, 1)},
				{Kind: types.NE, Lexeme: "!=", Location: loc(1, 4)},
				{Kind: types.LE, Lexeme: "<=", Location: loc(1, 7)},
				{Kind: types.GE, Lexeme: ">=", Location: loc(1, 10)},
				{Kind: types.LSHIFT, Lexeme: "<<", Location: loc(1, 13)},
				{Kind: types.RSHIFT, Lexeme: ">>", Location: loc(1, 16)},
				{Kind: types.PLUS_ASSIGN, Lexeme: "+=", Location: loc(1, 19)},
				{Kind: types.MINUS_ASSIGN, Lexeme: "-=", Location: loc(1, 22)},
				{Kind: types.STAR_ASSIGN, Lexeme: "*=", Location: loc(1, 25)},
				{Kind: types.SLASH_ASSIGN, Lexeme: "/=", Location: loc(1, 28)},
				{Kind: types.ARROW, Lexeme: "->", Location: loc(1, 31)},
				{Kind: types.FATARROW, Lexeme: "=>", Location: loc(1, 34)},
				{Kind: types.POWER, Lexeme: "**", Location: loc(1, 37)},
				{Kind: types.EOF, Lexeme: "", Location: loc(1, 39)},
			},
		},
		{
			name:  "KeywordsAndIdentifiers",
			input: "function ensure otherwise while foo _bar",
			expected: []types.Token{
				{Kind: types.FUNCTION, Lexeme: "function", Location: loc(1, 1)},
				{Kind: types.ENSURE, Lexeme: "ensure", Location: loc(1, 10)},
				{Kind: types.OTHERWISE, Lexeme: "otherwise", Location: loc(1, 17)},
				{Kind: types.WHILE, Lexeme: "while", Location: loc(1, 27)},
				{Kind: types.IDENTIFIER, Lexeme: "foo", Location: loc(1, 33)},
				{Kind: types.IDENTIFIER, Lexeme: "_bar", Location: loc(1, 37)},
				{Kind: types.EOF, Lexeme: "", Location: loc(1, 41)},
			},
		},
		{
			name:  "BooleanAndNullLiterals",
			input: "true false null",
			expected: []types.Token{
				{Kind: types.TRUE, Lexeme: "true", Location: loc(1, 1), Literal: true},
				{Kind: types.FALSE, Lexeme: "false", Location: loc(1, 6), Literal: false},
				{Kind: types.NULL, Lexeme: "null", Location: loc(1, 12)},
				{Kind: types.EOF, Lexeme: "", Location: loc(1, 16)},
			},
		},
		{
			name:  "Numbers",
			input: "42 3.14 7.",
			expected: []types.Token{
				{Kind: types.INTEGER, Lexeme: "42", Location: loc(1, 1), Literal: int64(42)},
				{Kind: types.FLOAT, Lexeme: "3.14", Location: loc(1, 4), Literal: float64(3.14)},
				{Kind: types.INTEGER, Lexeme: "7", Location: loc(1, 9), Literal: int64(7)},
				{Kind: types.DOT, Lexeme: ".", Location: loc(1, 10)},
				{Kind: types.EOF, Lexeme: "", Location: loc(1, 11)},
			},
		},
		{
			name:  "StringWithEscapes",
			input: `"a\nb"`,
			expected: []types.Token{
				{Kind: types.STRING, Lexeme: `"a\nb"`, Location: loc(1, 1), Literal: "a\nb"},
				{Kind: types.EOF, Lexeme: "", Location: loc(1, 7)},
			},
		},
		{
			name:  "NewlineIsSignificant",
			input: "a\nb",
			expected: []types.Token{
				{Kind: types.IDENTIFIER, Lexeme: "a", Location: loc(1, 1)},
				{Kind: types.NEWLINE, Lexeme: `\n`, Location: loc(1, 2)},
				{Kind: types.IDENTIFIER, Lexeme: "b", Location: loc(2, 1)},
				{Kind: types.EOF, Lexeme: "", Location: loc(2, 2)},
			},
		},
		{
			name:  "LineCommentRunsToEndOfLine",
			input: "a // comment\nb",
			expected: []types.Token{
				{Kind: types.IDENTIFIER, Lexeme: "a", Location: loc(1, 1)},
				{Kind: types.NEWLINE, Lexeme: `\n`, Location: loc(1, 13)},
				{Kind: types.IDENTIFIER, Lexeme: "b", Location: loc(2, 1)},
				{Kind: types.EOF, Lexeme: "", Location: loc(2, 2)},
			},
		},
		{
			name:  "BlockCommentIsSkipped",
			input: "a /* x\ny */ b",
			expected: []types.Token{
				{Kind: types.IDENTIFIER, Lexeme: "a", Location: loc(1, 1)},
				{Kind: types.IDENTIFIER, Lexeme: "b", Location: loc(2, 6)},
				{Kind: types.EOF, Lexeme: "", Location: loc(2, 7)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input, "test.one")
			if err != nil {
				t.Fatalf("Tokenize() error: %v", err)
			}

			if diff := cmp.Diff(tt.expected, tokens); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		message  string
		location types.SourceLocation
	}{
		{
			name:     "UnterminatedStringReportsOpeningQuote",
			input:    "x = \"abc",
			message:  "Unterminated string literal",
			location: loc(1, 5),
		},
		{
			name:     "UnterminatedBlockComment",
			input:    "/* never closed",
			message:  "Unterminated block comment",
			location: loc(1, 16),
		},
		{
			name:     "UnknownEscape",
			input:    `"a\qb"`,
			message:  `Unknown escape sequence: \q`,
			location: loc(1, 4),
		},
		{
			name:     "UnknownCharacter",
			input:    "a # b",
			message:  "Unexpected character: '#'",
			location: loc(1, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input, "test.one")
			if err == nil {
				t.Fatal("expected an error")
			}

			lexErr, ok := tracerr.Unwrap(err).(onecerrors.LexError)
			if !ok {
				t.Fatalf("expected a LexError, got %T", tracerr.Unwrap(err))
			}
			if lexErr.Message != tt.message {
				t.Errorf("message = %q, want %q", lexErr.Message, tt.message)
			}
			if lexErr.Location != tt.location {
				t.Errorf("location = %s, want %s", lexErr.Location, tt.location)
			}
		})
	}
}

func TestTokenizeEndsWithSingleEOF(t *testing.T) {
	tokens, err := Tokenize("function main:\nimplementation:\nreturn\n", "test.one")
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	count := 0
	for _, token := range tokens {
		if token.Kind == types.EOF {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d EOF tokens, want 1", count)
	}
	if tokens[len(tokens)-1].Kind != types.EOF {
		t.Errorf("last token is %s, want EOF", tokens[len(tokens)-1].Kind)
	}
}
