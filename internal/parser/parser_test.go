package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oscript-lang/oscript/internal/ast"
	"github.com/oscript-lang/oscript/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.ScanTokens(src)
	require.NoError(t, err)
	prog, err := Parse(tokens)
	require.NoError(t, err)
	return prog
}

func TestParseClassWithInitAndMethod(t *testing.T) {
	prog := parse(t, `class Counter {
		fun init(v) { this.value = v; }
		fun inc() { this.value = this.value + 1; }
	}`)
	require.Len(t, prog.Statements, 1)
	class, ok := prog.Statements[0].(*ast.ClassStatement)
	require.True(t, ok)
	require.Equal(t, "Counter", class.Name.Lexeme)
	require.Len(t, class.Methods, 2)
	require.Equal(t, "init", class.Methods[0].Name.Lexeme)
	require.Equal(t, "inc", class.Methods[1].Name.Lexeme)
}

func TestParseNewAndPropertyAssignmentAndCall(t *testing.T) {
	prog := parse(t, `var c = new C(0); c.x = 1; c.undo();`)
	require.Len(t, prog.Statements, 3)

	varStmt, ok := prog.Statements[0].(*ast.VarStatement)
	require.True(t, ok)
	newExpr, ok := varStmt.Initializer.(*ast.New)
	require.True(t, ok)
	require.Equal(t, "C", newExpr.ClassName.Lexeme)
	require.Len(t, newExpr.Arguments, 1)

	exprStmt, ok := prog.Statements[1].(*ast.ExpressionStatement)
	require.True(t, ok)
	setExpr, ok := exprStmt.Expression.(*ast.Set)
	require.True(t, ok)
	require.Equal(t, "x", setExpr.Name.Lexeme)

	exprStmt2, ok := prog.Statements[2].(*ast.ExpressionStatement)
	require.True(t, ok)
	callExpr, ok := exprStmt2.Expression.(*ast.Call)
	require.True(t, ok)
	getExpr, ok := callExpr.Callee.(*ast.Get)
	require.True(t, ok)
	require.Equal(t, "undo", getExpr.Name.Lexeme)
}

func TestParseIfWhileReturn(t *testing.T) {
	prog := parse(t, `
	fun f(n) {
		if (n > 0) { while (n > 0) { n = n - 1; } return n; } else return nil;
	}`)
	require.Len(t, prog.Statements, 1)
	fn, ok := prog.Statements[0].(*ast.FunctionStatement)
	require.True(t, ok)
	require.Equal(t, "f", fn.Name.Lexeme)
	ifStmt, ok := fn.Body[0].(*ast.IfStatement)
	require.True(t, ok)
	require.NotNil(t, ifStmt.ElseBranch)
}

func TestParseInvalidAssignmentTargetFails(t *testing.T) {
	tokens, err := lexer.ScanTokens(`1 = 2;`)
	require.NoError(t, err)
	_, err = Parse(tokens)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Contains(t, pe.Message, "Invalid assignment target")
}

func TestParseMissingSemicolonFails(t *testing.T) {
	tokens, err := lexer.ScanTokens(`var x = 1`)
	require.NoError(t, err)
	_, err = Parse(tokens)
	require.Error(t, err)
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog := parse(t, `print 1 + 2 * 3;`)
	printStmt, ok := prog.Statements[0].(*ast.PrintStatement)
	require.True(t, ok)
	bin, ok := printStmt.Value.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "+", bin.Operator.Lexeme)
	right, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, "*", right.Operator.Lexeme)
}
