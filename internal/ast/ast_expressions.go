package ast

import "github.com/oscript-lang/oscript/internal/token"

// Literal is a literal false/true/nil/number/string (spec.md §4.2 Primaries).
type Literal struct {
	Token token.Token
	Value interface{} // nil, bool, float64, or string
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) GetLine() int         { return l.Token.Line }

// Grouping is a parenthesized expression.
type Grouping struct {
	Token      token.Token // the '(' token
	Expression Expression
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return g.Token.Lexeme }
func (g *Grouping) GetLine() int         { return g.Token.Line }

// Unary is a prefix `!` or `-` expression.
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Operator.Lexeme }
func (u *Unary) GetLine() int         { return u.Operator.Line }

// Binary is an arithmetic, comparison, or equality expression.
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Operator.Lexeme }
func (b *Binary) GetLine() int         { return b.Operator.Line }

// Logical is `and`/`or`, which short-circuit (spec.md §4.3).
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l *Logical) expressionNode()      {}
func (l *Logical) TokenLiteral() string { return l.Operator.Lexeme }
func (l *Logical) GetLine() int         { return l.Operator.Line }

// Variable is a read of a bound name.
type Variable struct {
	Name token.Token
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Name.Lexeme }
func (v *Variable) GetLine() int         { return v.Name.Line }

// Assign is `name = value`.
type Assign struct {
	Name  token.Token
	Value Expression
}

func (a *Assign) expressionNode()      {}
func (a *Assign) TokenLiteral() string { return a.Name.Lexeme }
func (a *Assign) GetLine() int         { return a.Name.Line }

// Get is `object.name`, a property read.
type Get struct {
	Object Expression
	Name   token.Token
}

func (g *Get) expressionNode()      {}
func (g *Get) TokenLiteral() string { return g.Name.Lexeme }
func (g *Get) GetLine() int         { return g.Name.Line }

// Set is `object.name = value`, a property write.
type Set struct {
	Object Expression
	Name   token.Token
	Value  Expression
}

func (s *Set) expressionNode()      {}
func (s *Set) TokenLiteral() string { return s.Name.Lexeme }
func (s *Set) GetLine() int         { return s.Name.Line }

// This is the `this` keyword inside a method body.
type This struct {
	Keyword token.Token
}

func (t *This) expressionNode()      {}
func (t *This) TokenLiteral() string { return t.Keyword.Lexeme }
func (t *This) GetLine() int         { return t.Keyword.Line }

// Call is a function/class/native call, `callee(args...)`.
type Call struct {
	Callee    Expression
	Paren     token.Token // the ')' token, for error reporting
	Arguments []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Paren.Lexeme }
func (c *Call) GetLine() int         { return c.Paren.Line }

// New is `new ClassName(args...)` construction.
type New struct {
	ClassName token.Token
	Arguments []Expression
}

func (n *New) expressionNode()      {}
func (n *New) TokenLiteral() string { return n.ClassName.Lexeme }
func (n *New) GetLine() int         { return n.ClassName.Line }
