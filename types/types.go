package types

import (
	"fmt"
)

type SourceLocation struct {
	Filename string
	Line     int
	Column   int
}

func (l SourceLocation) String() string {
	if l.Filename == "" {
		l.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
}

type TokenKind int

const (
	EOF TokenKind = iota
	NEWLINE

	FUNCTION
	TYPE
	MODULE
	IMPORT
	EXPORT
	INPUTS
	OUTPUTS
	REQUIREMENTS
	IMPLEMENTATION
	WHERE
	INVARIANT
	ENSURE
	OTHERWISE
	MATCH
	IF
	ELSE
	LOOP
	WHILE
	FOR
	IN
	RETURN
	BREAK
	CONTINUE
	CONST
	LET
	VAR
	TRUE
	FALSE
	NULL
	AND
	OR
	NOT
	SYNTAX
	WITH_SYNTAX
	USE_SYNTAX

	IDENTIFIER
	INTEGER
	FLOAT
	STRING

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	POWER
	EQ
	NE
	LT
	GT
	LE
	GE
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	AMPERSAND
	PIPE
	CARET
	TILDE
	LSHIFT
	RSHIFT
	ARROW
	FATARROW

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	SEMICOLON
	DOT
	QUESTION
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:            "EOF",
		NEWLINE:        "NEWLINE",
		FUNCTION:       "FUNCTION",
		TYPE:           "TYPE",
		MODULE:         "MODULE",
		IMPORT:         "IMPORT",
		EXPORT:         "EXPORT",
		INPUTS:         "INPUTS",
		OUTPUTS:        "OUTPUTS",
		REQUIREMENTS:   "REQUIREMENTS",
		IMPLEMENTATION: "IMPLEMENTATION",
		WHERE:          "WHERE",
		INVARIANT:      "INVARIANT",
		ENSURE:         "ENSURE",
		OTHERWISE:      "OTHERWISE",
		MATCH:          "MATCH",
		IF:             "IF",
		ELSE:           "ELSE",
		LOOP:           "LOOP",
		WHILE:          "WHILE",
		FOR:            "FOR",
		IN:             "IN",
		RETURN:         "RETURN",
		BREAK:          "BREAK",
		CONTINUE:       "CONTINUE",
		CONST:          "CONST",
		LET:            "LET",
		VAR:            "VAR",
		TRUE:           "TRUE",
		FALSE:          "FALSE",
		NULL:           "NULL",
		AND:            "AND",
		OR:             "OR",
		NOT:            "NOT",
		SYNTAX:         "SYNTAX",
		WITH_SYNTAX:    "WITH_SYNTAX",
		USE_SYNTAX:     "USE_SYNTAX",
		IDENTIFIER:     "IDENTIFIER",
		INTEGER:        "INTEGER",
		FLOAT:          "FLOAT",
		STRING:         "STRING",
		PLUS:           "PLUS",
		MINUS:          "MINUS",
		STAR:           "STAR",
		SLASH:          "SLASH",
		PERCENT:        "PERCENT",
		POWER:          "POWER",
		EQ:             "EQ",
		NE:             "NE",
		LT:             "LT",
		GT:             "GT",
		LE:             "LE",
		GE:             "GE",
		ASSIGN:         "ASSIGN",
		PLUS_ASSIGN:    "PLUS_ASSIGN",
		MINUS_ASSIGN:   "MINUS_ASSIGN",
		STAR_ASSIGN:    "STAR_ASSIGN",
		SLASH_ASSIGN:   "SLASH_ASSIGN",
		AMPERSAND:      "AMPERSAND",
		PIPE:           "PIPE",
		CARET:          "CARET",
		TILDE:          "TILDE",
		LSHIFT:         "LSHIFT",
		RSHIFT:         "RSHIFT",
		ARROW:          "ARROW",
		FATARROW:       "FATARROW",
		LPAREN:         "LPAREN",
		RPAREN:         "RPAREN",
		LBRACE:         "LBRACE",
		RBRACE:         "RBRACE",
		LBRACKET:       "LBRACKET",
		RBRACKET:       "RBRACKET",
		COMMA:          "COMMA",
		COLON:          "COLON",
		SEMICOLON:      "SEMICOLON",
		DOT:            "DOT",
		QUESTION:       "QUESTION",
	}
	return data[t]
}

// Keywords is the fixed reserved-word table. It is never mutated after
// initialization and is shared by every compilation.
var Keywords = map[string]TokenKind{
	"function":       FUNCTION,
	"type":           TYPE,
	"module":         MODULE,
	"import":         IMPORT,
	"export":         EXPORT,
	"inputs":         INPUTS,
	"outputs":        OUTPUTS,
	"requirements":   REQUIREMENTS,
	"implementation": IMPLEMENTATION,
	"where":          WHERE,
	"invariant":      INVARIANT,
	"ensure":         ENSURE,
	"otherwise":      OTHERWISE,
	"match":          MATCH,
	"if":             IF,
	"else":           ELSE,
	"loop":           LOOP,
	"while":          WHILE,
	"for":            FOR,
	"in":             IN,
	"return":         RETURN,
	"break":          BREAK,
	"continue":       CONTINUE,
	"const":          CONST,
	"let":            LET,
	"var":            VAR,
	"true":           TRUE,
	"false":          FALSE,
	"null":           NULL,
	"and":            AND,
	"or":             OR,
	"not":            NOT,
	"syntax":         SYNTAX,
	"with_syntax":    WITH_SYNTAX,
	"use_syntax":     USE_SYNTAX,
}

type Token struct {
	Kind     TokenKind
	Lexeme   string
	Location SourceLocation
	Literal  interface{}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s) at %s", t.Kind, t.Lexeme, t.Location)
}
