package lexer

import (
	"fmt"
	"strconv"

	"github.com/ztrue/tracerr"

	"github.com/onelang/onec/errors"
	"github.com/onelang/onec/types"
)

type Lexer struct {
	source   []rune
	filename string
	pos      int
	line     int
	column   int
	tokens   []types.Token
}

func NewLexer(source string, filename string) *Lexer {
	return &Lexer{
		source:   []rune(source),
		filename: filename,
		line:     1,
		column:   1,
	}
}

// Tokenize converts source text into the full token sequence, ending in
// exactly one EOF token. The returned error is a wrapped errors.LexError.
func Tokenize(source string, filename string) (tokens []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	l := NewLexer(source, filename)
	return l.lex(), nil
}

func (l *Lexer) currentLocation() types.SourceLocation {
	return types.SourceLocation{Filename: l.filename, Line: l.line, Column: l.column}
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos >= len(l.source) {
		return 0
	}
	return l.source[pos]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}

	char := l.source[l.pos]
	l.pos++

	if char == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	return char
}

func (l *Lexer) fail(message string, location types.SourceLocation) {
	panic(errors.LexError{Message: message, Location: location})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek(0) {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for !l.isAtEnd() && l.peek(0) != '\n' {
		l.advance()
	}
}

// skipBlockComment is entered past the opening "/", with "*" current.
// Nesting is not supported: the first */ closes the comment.
func (l *Lexer) skipBlockComment() {
	l.advance()

	for !l.isAtEnd() {
		if l.peek(0) == '*' && l.peek(1) == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}

	l.fail("Unterminated block comment", l.currentLocation())
}

func (l *Lexer) lexString() types.Token {
	location := l.currentLocation()
	start := l.pos
	l.advance()

	var value []rune
	for !l.isAtEnd() && l.peek(0) != '"' {
		if l.peek(0) == '\\' {
			l.advance()
			switch l.peek(0) {
			case 'n':
				value = append(value, '\n')
			case 't':
				value = append(value, '\t')
			case 'r':
				value = append(value, '\r')
			case '\\':
				value = append(value, '\\')
			case '"':
				value = append(value, '"')
			default:
				l.fail(fmt.Sprintf("Unknown escape sequence: \\%c", l.peek(0)), l.currentLocation())
			}
			l.advance()
		} else {
			value = append(value, l.advance())
		}
	}

	if l.isAtEnd() {
		l.fail("Unterminated string literal", location)
	}

	l.advance()

	return types.Token{
		Kind:     types.STRING,
		Lexeme:   string(l.source[start:l.pos]),
		Location: location,
		Literal:  string(value),
	}
}

func (l *Lexer) lexNumber() types.Token {
	location := l.currentLocation()
	var lexeme []rune

	for !l.isAtEnd() && isDigit(l.peek(0)) {
		lexeme = append(lexeme, l.advance())
	}

	if !l.isAtEnd() && l.peek(0) == '.' && isDigit(l.peek(1)) {
		lexeme = append(lexeme, l.advance())

		for !l.isAtEnd() && isDigit(l.peek(0)) {
			lexeme = append(lexeme, l.advance())
		}

		value, err := strconv.ParseFloat(string(lexeme), 64)
		if err != nil {
			l.fail(fmt.Sprintf("Invalid float literal: %s", string(lexeme)), location)
		}
		return types.Token{Kind: types.FLOAT, Lexeme: string(lexeme), Location: location, Literal: value}
	}

	value, err := strconv.ParseInt(string(lexeme), 10, 64)
	if err != nil {
		l.fail(fmt.Sprintf("Invalid integer literal: %s", string(lexeme)), location)
	}
	return types.Token{Kind: types.INTEGER, Lexeme: string(lexeme), Location: location, Literal: value}
}

func (l *Lexer) lexIdentifier() types.Token {
	location := l.currentLocation()
	var lexeme []rune

	for !l.isAtEnd() && (isAlpha(l.peek(0)) || isDigit(l.peek(0))) {
		lexeme = append(lexeme, l.advance())
	}

	kind, ok := types.Keywords[string(lexeme)]
	if !ok {
		kind = types.IDENTIFIER
	}

	var literal interface{}
	switch kind {
	case types.TRUE:
		literal = true
	case types.FALSE:
		literal = false
	case types.NULL:
		literal = nil
	}

	return types.Token{Kind: kind, Lexeme: string(lexeme), Location: location, Literal: literal}
}

var twoCharOperators = []struct {
	first  rune
	second rune
	kind   types.TokenKind
	lexeme string
}{
	{'=', '=', types.EQ, "=="},
	{'!', '=', types.NE, "!="},
	{'<', '=', types.LE, "<="},
	{'>', '=', types.GE, ">="},
	{'<', '<', types.LSHIFT, "<<"},
	{'>', '>', types.RSHIFT, ">>"},
	{'+', '=', types.PLUS_ASSIGN, "+="},
	{'-', '=', types.MINUS_ASSIGN, "-="},
	{'*', '=', types.STAR_ASSIGN, "*="},
	{'/', '=', types.SLASH_ASSIGN, "/="},
	{'-', '>', types.ARROW, "->"},
	{'=', '>', types.FATARROW, "=>"},
	{'*', '*', types.POWER, "**"},
}

var singleCharTokens = map[rune]types.TokenKind{
	'+': types.PLUS,
	'-': types.MINUS,
	'*': types.STAR,
	'/': types.SLASH,
	'%': types.PERCENT,
	'<': types.LT,
	'>': types.GT,
	'=': types.ASSIGN,
	'&': types.AMPERSAND,
	'|': types.PIPE,
	'^': types.CARET,
	'~': types.TILDE,
	'(': types.LPAREN,
	')': types.RPAREN,
	'{': types.LBRACE,
	'}': types.RBRACE,
	'[': types.LBRACKET,
	']': types.RBRACKET,
	',': types.COMMA,
	':': types.COLON,
	';': types.SEMICOLON,
	'.': types.DOT,
	'?': types.QUESTION,
}

func (l *Lexer) lex() []types.Token {
	for !l.isAtEnd() {
		l.skipWhitespace()

		if l.isAtEnd() {
			break
		}

		location := l.currentLocation()
		char := l.peek(0)

		if char == '/' && l.peek(1) == '/' {
			l.skipLineComment()
			continue
		}

		if char == '/' && l.peek(1) == '*' {
			l.advance()
			l.skipBlockComment()
			continue
		}

		// Newlines are significant: the grammar uses them as the
		// statement and parameter separator.
		if char == '\n' {
			l.advance()
			l.tokens = append(l.tokens, types.Token{Kind: types.NEWLINE, Lexeme: `\n`, Location: location})
			continue
		}

		if char == '"' {
			l.tokens = append(l.tokens, l.lexString())
			continue
		}

		if isDigit(char) {
			l.tokens = append(l.tokens, l.lexNumber())
			continue
		}

		if isAlpha(char) {
			l.tokens = append(l.tokens, l.lexIdentifier())
			continue
		}

		matched := false
		for _, op := range twoCharOperators {
			if char == op.first && l.peek(1) == op.second {
				l.advance()
				l.advance()
				l.tokens = append(l.tokens, types.Token{Kind: op.kind, Lexeme: op.lexeme, Location: location})
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if kind, ok := singleCharTokens[char]; ok {
			l.advance()
			l.tokens = append(l.tokens, types.Token{Kind: kind, Lexeme: string(char), Location: location})
			continue
		}

		l.fail(fmt.Sprintf("Unexpected character: '%c'", char), location)
	}

	l.tokens = append(l.tokens, types.Token{Kind: types.EOF, Lexeme: "", Location: l.currentLocation()})

	return l.tokens
}
