// Package parser implements a recursive-descent, single-token-lookahead
// parser producing the statement tree consumed by the evaluator
// (spec.md §4.2).
package parser

import (
	"fmt"

	"github.com/oscript-lang/oscript/internal/ast"
	"github.com/oscript-lang/oscript/internal/token"
)

const maxArgs = 255

// ParseError reports a grammar violation, carrying the offending token.
type ParseError struct {
	Line    int
	Lexeme  string
	Message string
}

func (e *ParseError) Error() string {
	if e.Lexeme == "" {
		return fmt.Sprintf("[line %d] ParseError at end: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] ParseError at '%s': %s", e.Line, e.Lexeme, e.Message)
}

// Parser consumes a fixed token stream and produces a *ast.Program. It does
// not attempt error recovery: the first parse error aborts the parse.
type Parser struct {
	tokens  []token.Token
	current int
}

// New creates a Parser over a complete, EOF-terminated token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole token stream into a Program, or returns the first
// ParseError encountered.
func Parse(tokens []token.Token) (prog *ast.Program, err error) {
	p := New(tokens)
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()
	prog = &ast.Program{}
	for !p.isAtEnd() {
		prog.Statements = append(prog.Statements, p.declaration())
	}
	return prog, nil
}

// --- token stream helpers ---

func (p *Parser) peek() token.Token     { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) isAtEnd() bool { return p.peek().Type == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return t == token.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.Type, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(p.peek(), message)
	panic("unreachable")
}

func (p *Parser) fail(tok token.Token, message string) {
	lexeme := tok.Lexeme
	if tok.Type == token.EOF {
		lexeme = ""
	}
	panic(&ParseError{Line: tok.Line, Lexeme: lexeme, Message: message})
}

// --- statements ---

func (p *Parser) declaration() ast.Statement {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Statement {
	tok := p.previous()
	name := p.consume(token.IDENT, "Expect class name.")
	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	var methods []*ast.FunctionStatement
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		p.consume(token.FUN, "Expect 'fun' before method declaration.")
		methods = append(methods, p.function("method").(*ast.FunctionStatement))
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return &ast.ClassStatement{Token: tok, Name: name, Methods: methods}
}

func (p *Parser) function(kind string) ast.Statement {
	tok := p.previous()
	name := p.consume(token.IDENT, "Expect "+kind+" name.")
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.fail(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.consume(token.IDENT, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.block()
	return &ast.FunctionStatement{Token: tok, Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Statement {
	tok := p.previous()
	name := p.consume(token.IDENT, "Expect variable name.")
	var initializer ast.Expression
	if p.match(token.ASSIGN) {
		initializer = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.VarStatement{Token: tok, Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.LEFT_BRACE):
		tok := p.previous()
		return &ast.BlockStatement{Token: tok, Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Statement {
	tok := p.previous()
	value := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.PrintStatement{Token: tok, Value: value}
}

func (p *Parser) ifStatement() ast.Statement {
	tok := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")
	thenBranch := p.statement()
	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.IfStatement{Token: tok, Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) whileStatement() ast.Statement {
	tok := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.WhileStatement{Token: tok, Condition: condition, Body: body}
}

func (p *Parser) returnStatement() ast.Statement {
	tok := p.previous()
	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.ReturnStatement{Token: tok, Value: value}
}

func (p *Parser) block() []ast.Statement {
	var statements []ast.Statement
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		statements = append(statements, p.declaration())
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return statements
}

func (p *Parser) expressionStatement() ast.Statement {
	tok := p.peek()
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// --- expressions, in precedence order (low -> high) ---

func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expression {
	expr := p.or()

	if p.match(token.ASSIGN) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.fail(equals, "Invalid assignment target.")
		}
	}
	return expr
}

func (p *Parser) or() ast.Expression {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expression {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expression {
	expr := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expression {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expression {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENT, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	var args []ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.fail(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Token: p.previous(), Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Token: p.previous(), Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Token: p.previous(), Value: nil}
	case p.match(token.NUMBER, token.STRING):
		tok := p.previous()
		return &ast.Literal{Token: tok, Value: tok.Literal}
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.NEW):
		name := p.consume(token.IDENT, "Expect class name after 'new'.")
		p.consume(token.LEFT_PAREN, "Expect '(' after class name.")
		var args []ast.Expression
		if !p.check(token.RIGHT_PAREN) {
			for {
				if len(args) >= maxArgs {
					p.fail(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
				}
				args = append(args, p.expression())
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
		return &ast.New{ClassName: name, Arguments: args}
	case p.match(token.IDENT):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LEFT_PAREN):
		tok := p.previous()
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Token: tok, Expression: expr}
	default:
		p.fail(p.peek(), "Expect expression.")
		panic("unreachable")
	}
}
