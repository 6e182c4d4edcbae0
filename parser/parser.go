package parser

import (
	"fmt"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/onelang/onec/ast"
	"github.com/onelang/onec/errors"
	"github.com/onelang/onec/types"
)

type Parser struct {
	tokens  []types.Token
	current int
}

func NewParser(tokens []types.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the token sequence and produces the Program tree. The
// first ungrammatical token aborts parsing; the returned error is a
// wrapped errors.ParseError.
func Parse(tokens []types.Token) (program *ast.Program, err error) {
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

	p := NewParser(tokens)
	return p.parse(), nil
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == types.EOF
}

func (p *Parser) peek() types.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) previous() types.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() types.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind types.TokenKind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...types.TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind types.TokenKind, message string) types.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(errors.ParseError{Message: message, Location: p.peek().Location})
}

func (p *Parser) skipNewlines() {
	for p.match(types.NEWLINE) {
	}
}

func (p *Parser) fail(message string) {
	panic(errors.ParseError{Message: message, Location: p.peek().Location})
}

func (p *Parser) parse() *ast.Program {
	program := &ast.Program{
		NodeInfo: ast.At(types.SourceLocation{Filename: "<program>", Line: 1, Column: 1}),
	}

	p.skipNewlines()

	for !p.isAtEnd() {
		program.Declarations = append(program.Declarations, p.declaration())
		p.skipNewlines()
	}

	return program
}

func (p *Parser) declaration() ast.Declaration {
	if p.match(types.FUNCTION) {
		return p.functionDeclaration()
	}

	// Only function declarations are supported at top level.
	p.fail(fmt.Sprintf("Unexpected token: %s", p.peek().Lexeme))
	return nil
}

func (p *Parser) functionDeclaration() *ast.Function {
	location := p.previous().Location

	name := p.consume(types.IDENTIFIER, "Expected function name")
	function := &ast.Function{NodeInfo: ast.At(location), Name: name.Lexeme}

	p.consume(types.COLON, "Expected ':' after function name")
	p.skipNewlines()

	if p.match(types.INPUTS) {
		p.consume(types.COLON, "Expected ':' after 'inputs'")
		p.skipNewlines()
		function.Inputs = p.parameterList()
		p.skipNewlines()
	}

	if p.match(types.OUTPUTS) {
		p.consume(types.COLON, "Expected ':' after 'outputs'")
		p.skipNewlines()
		function.Outputs = p.parameterList()
		p.skipNewlines()
	}

	if p.match(types.REQUIREMENTS) {
		p.consume(types.COLON, "Expected ':' after 'requirements'")
		p.skipNewlines()
		function.Requirements = p.requirementList()
		p.skipNewlines()
	}

	p.consume(types.IMPLEMENTATION, "Expected 'implementation'")
	p.consume(types.COLON, "Expected ':' after 'implementation'")
	p.skipNewlines()

	function.Body = p.block()

	return function
}

func (p *Parser) parameterList() []*ast.Parameter {
	var params []*ast.Parameter

	for !p.check(types.OUTPUTS) && !p.check(types.REQUIREMENTS) &&
		!p.check(types.IMPLEMENTATION) && !p.isAtEnd() {

		if p.check(types.NEWLINE) {
			p.skipNewlines()
			if !p.check(types.IDENTIFIER) {
				break
			}
		}

		params = append(params, p.parameter())

		if !p.match(types.NEWLINE) {
			break
		}
	}

	return params
}

func (p *Parser) parameter() *ast.Parameter {
	name := p.consume(types.IDENTIFIER, "Expected parameter name")
	param := &ast.Parameter{NodeInfo: ast.At(name.Location), Name: name.Lexeme}

	if p.match(types.COLON) {
		param.TypeAnnotation = p.typeAnnotation()
	}

	return param
}

func (p *Parser) typeAnnotation() *ast.TypeAnnotation {
	name := p.consume(types.IDENTIFIER, "Expected type name")
	annotation := &ast.TypeAnnotation{NodeInfo: ast.At(name.Location), Name: name.Lexeme}

	if p.match(types.LT) {
		for {
			annotation.TypeArgs = append(annotation.TypeArgs, p.typeAnnotation())
			if !p.match(types.COMMA) {
				break
			}
		}
		p.consume(types.GT, "Expected '>' after type arguments")
	}

	// A where clause is recognized but its constraints are not kept in
	// the tree; the rest of the line is discarded.
	if p.match(types.WHERE) {
		for !p.check(types.NEWLINE) && !p.isAtEnd() {
			p.advance()
		}
	}

	return annotation
}

func (p *Parser) requirementList() []*ast.Requirement {
	var requirements []*ast.Requirement

	for !p.check(types.IMPLEMENTATION) && !p.isAtEnd() {
		if p.check(types.NEWLINE) {
			p.skipNewlines()
			if !p.check(types.MINUS) {
				break
			}
		}

		if p.match(types.MINUS) {
			var desc []string
			for !p.check(types.NEWLINE) && !p.isAtEnd() {
				desc = append(desc, p.advance().Lexeme)
			}

			requirements = append(requirements, &ast.Requirement{
				NodeInfo:    ast.At(p.previous().Location),
				Description: strings.Join(desc, " "),
			})
		}
	}

	return requirements
}

// block parses either form of a block and must disambiguate on its first
// token: brace-delimited runs to the matching '}', while the implied form
// runs until a top-level 'function' or an 'else'/'otherwise' that belongs
// to the enclosing conditional.
func (p *Parser) block() *ast.Block {
	block := &ast.Block{NodeInfo: ast.At(p.peek().Location)}

	if p.match(types.LBRACE) {
		for !p.isAtEnd() {
			p.skipNewlines()

			if p.check(types.RBRACE) {
				break
			}

			block.Statements = append(block.Statements, p.statement())
		}

		p.consume(types.RBRACE, "Expected '}' after block")
		return block
	}

	for !p.isAtEnd() {
		p.skipNewlines()

		if p.isAtEnd() {
			break
		}

		if p.check(types.FUNCTION) {
			break
		}

		if p.check(types.ELSE) || p.check(types.OTHERWISE) {
			break
		}

		block.Statements = append(block.Statements, p.statement())
	}

	return block
}

func (p *Parser) statement() ast.Statement {
	p.skipNewlines()

	if p.match(types.RETURN) {
		return p.returnStatement()
	}

	if p.match(types.IF) {
		return p.ifStatement()
	}

	if p.match(types.WHILE) {
		return p.whileStatement()
	}

	if p.match(types.ENSURE) {
		return p.ensureStatement()
	}

	if p.match(types.BREAK) {
		return &ast.Break{NodeInfo: ast.At(p.previous().Location)}
	}

	if p.match(types.CONTINUE) {
		return &ast.Continue{NodeInfo: ast.At(p.previous().Location)}
	}

	return p.assignmentOrExpression()
}

func (p *Parser) returnStatement() *ast.Return {
	ret := &ast.Return{NodeInfo: ast.At(p.previous().Location)}

	if !p.check(types.NEWLINE) && !p.isAtEnd() {
		ret.Value = p.expression()
	}

	return ret
}

func (p *Parser) ifStatement() *ast.If {
	location := p.previous().Location

	condition := p.expression()
	p.consume(types.COLON, "Expected ':' after if condition")
	p.skipNewlines()

	stmt := &ast.If{NodeInfo: ast.At(location), Condition: condition, ThenBlock: p.block()}

	if p.match(types.ELSE) {
		p.consume(types.COLON, "Expected ':' after else")
		p.skipNewlines()
		stmt.ElseBlock = p.block()
	}

	return stmt
}

func (p *Parser) whileStatement() *ast.While {
	location := p.previous().Location

	condition := p.expression()
	p.consume(types.COLON, "Expected ':' after while condition")
	p.skipNewlines()

	return &ast.While{NodeInfo: ast.At(location), Condition: condition, Body: p.block()}
}

func (p *Parser) ensureStatement() *ast.Ensure {
	location := p.previous().Location

	condition := p.expression()
	p.consume(types.COLON, "Expected ':' after ensure condition")
	p.skipNewlines()

	stmt := &ast.Ensure{NodeInfo: ast.At(location), Condition: condition, ThenBlock: p.block()}

	p.skipNewlines()
	if p.match(types.OTHERWISE) {
		p.consume(types.COLON, "Expected ':' after otherwise")
		p.skipNewlines()
		stmt.ElseBlock = p.block()
	}

	return stmt
}

func (p *Parser) assignmentOrExpression() ast.Statement {
	expr := p.expression()

	if p.match(types.ASSIGN, types.PLUS_ASSIGN, types.MINUS_ASSIGN,
		types.STAR_ASSIGN, types.SLASH_ASSIGN) {
		operator := p.previous().Lexeme
		value := p.expression()
		return &ast.Assignment{
			NodeInfo: ast.At(expr.Loc()),
			Target:   expr,
			Value:    value,
			Operator: operator,
		}
	}

	return expr
}

func (p *Parser) expression() ast.Expression {
	return p.orExpression()
}

func (p *Parser) orExpression() ast.Expression {
	left := p.andExpression()

	for p.match(types.OR) {
		operator := p.previous().Lexeme
		right := p.andExpression()
		left = &ast.BinaryOp{NodeInfo: ast.At(left.Loc()), Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *Parser) andExpression() ast.Expression {
	left := p.equality()

	for p.match(types.AND) {
		operator := p.previous().Lexeme
		right := p.equality()
		left = &ast.BinaryOp{NodeInfo: ast.At(left.Loc()), Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *Parser) equality() ast.Expression {
	left := p.comparison()

	for p.match(types.EQ, types.NE) {
		operator := p.previous().Lexeme
		right := p.comparison()
		left = &ast.BinaryOp{NodeInfo: ast.At(left.Loc()), Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *Parser) comparison() ast.Expression {
	left := p.addition()

	for p.match(types.LT, types.GT, types.LE, types.GE) {
		operator := p.previous().Lexeme
		right := p.addition()
		left = &ast.BinaryOp{NodeInfo: ast.At(left.Loc()), Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *Parser) addition() ast.Expression {
	left := p.multiplication()

	for p.match(types.PLUS, types.MINUS) {
		operator := p.previous().Lexeme
		right := p.multiplication()
		left = &ast.BinaryOp{NodeInfo: ast.At(left.Loc()), Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *Parser) multiplication() ast.Expression {
	left := p.unary()

	for p.match(types.STAR, types.SLASH, types.PERCENT) {
		operator := p.previous().Lexeme
		right := p.unary()
		left = &ast.BinaryOp{NodeInfo: ast.At(left.Loc()), Left: left, Operator: operator, Right: right}
	}

	return left
}

func (p *Parser) unary() ast.Expression {
	if p.match(types.MINUS, types.NOT, types.TILDE) {
		operator := p.previous()
		operand := p.unary()
		return &ast.UnaryOp{NodeInfo: ast.At(operator.Location), Operator: operator.Lexeme, Operand: operand}
	}

	return p.postfix()
}

func (p *Parser) postfix() ast.Expression {
	expr := p.primary()

	for {
		if p.match(types.LPAREN) {
			call := &ast.Call{NodeInfo: ast.At(expr.Loc()), Function: expr}

			if !p.check(types.RPAREN) {
				for {
					call.Arguments = append(call.Arguments, p.expression())
					if !p.match(types.COMMA) {
						break
					}
				}
			}

			p.consume(types.RPAREN, "Expected ')' after arguments")
			expr = call
		} else if p.match(types.DOT) {
			member := p.consume(types.IDENTIFIER, "Expected member name")
			expr = &ast.Member{NodeInfo: ast.At(expr.Loc()), Object: expr, Member: member.Lexeme}
		} else if p.match(types.LBRACKET) {
			index := p.expression()
			p.consume(types.RBRACKET, "Expected ']' after index")
			expr = &ast.Index{NodeInfo: ast.At(expr.Loc()), Object: expr, Index: index}
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) primary() ast.Expression {
	if p.match(types.TRUE, types.FALSE, types.NULL) {
		return &ast.Literal{NodeInfo: ast.At(p.previous().Location), Value: p.previous().Literal}
	}

	if p.match(types.INTEGER, types.FLOAT) {
		return &ast.Literal{NodeInfo: ast.At(p.previous().Location), Value: p.previous().Literal}
	}

	if p.match(types.STRING) {
		return &ast.Literal{NodeInfo: ast.At(p.previous().Location), Value: p.previous().Literal}
	}

	if p.match(types.IDENTIFIER) {
		return &ast.Identifier{NodeInfo: ast.At(p.previous().Location), Name: p.previous().Lexeme}
	}

	if p.match(types.LPAREN) {
		expr := p.expression()
		p.consume(types.RPAREN, "Expected ')' after expression")
		return expr
	}

	if p.match(types.LBRACKET) {
		list := &ast.ListLiteral{NodeInfo: ast.At(p.previous().Location)}

		if !p.check(types.RBRACKET) {
			for {
				list.Elements = append(list.Elements, p.expression())
				if !p.match(types.COMMA) {
					break
				}
			}
		}

		p.consume(types.RBRACKET, "Expected ']' after list elements")
		return list
	}

	p.fail(fmt.Sprintf("Unexpected token: %s", p.peek().Lexeme))
	return nil
}
