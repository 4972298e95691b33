package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oscript-lang/oscript/internal/token"
)

func TestScanTokensPunctuationAndKeywords(t *testing.T) {
	src := `class C { fun init(v) { this.x = v; } }
var c = new C(0);
c.x = 1;
print c.x;`

	tokens, err := ScanTokens(src)
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	require.Equal(t, token.EOF, tokens[len(tokens)-1].Type)

	var types []token.Type
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	require.Contains(t, types, token.CLASS)
	require.Contains(t, types, token.FUN)
	require.Contains(t, types, token.NEW)
	require.Contains(t, types, token.PRINT)
	require.Contains(t, types, token.THIS)
}

func TestScanNumberLiteral(t *testing.T) {
	tokens, err := ScanTokens("3.5;")
	require.NoError(t, err)
	require.Equal(t, token.NUMBER, tokens[0].Type)
	require.Equal(t, 3.5, tokens[0].Literal)
}

func TestScanIntegerValuedNumberHasNoFraction(t *testing.T) {
	tokens, err := ScanTokens("2;")
	require.NoError(t, err)
	require.Equal(t, 2.0, tokens[0].Literal)
}

func TestScanStringWithEmbeddedNewline(t *testing.T) {
	tokens, err := ScanTokens("\"hello\nworld\";")
	require.NoError(t, err)
	require.Equal(t, token.STRING, tokens[0].Type)
	require.Equal(t, "hello\nworld", tokens[0].Literal)
	// the semicolon after the string should be on line 2
	require.Equal(t, token.SEMICOLON, tokens[1].Type)
	require.Equal(t, 2, tokens[1].Line)
}

func TestScanLineComment(t *testing.T) {
	tokens, err := ScanTokens("1; // trailing comment\n2;")
	require.NoError(t, err)
	require.Equal(t, token.NUMBER, tokens[0].Type)
	require.Equal(t, token.SEMICOLON, tokens[1].Type)
	require.Equal(t, token.NUMBER, tokens[2].Type)
	require.Equal(t, 2, tokens[2].Line)
}

func TestScanUnterminatedStringFails(t *testing.T) {
	_, err := ScanTokens(`"unterminated`)
	require.Error(t, err)
	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
}

func TestScanUnexpectedCharacterFails(t *testing.T) {
	_, err := ScanTokens("var x = @;")
	require.Error(t, err)
}

func TestScanTwoCharOperators(t *testing.T) {
	tokens, err := ScanTokens("!= == <= >=")
	require.NoError(t, err)
	require.Equal(t, token.BANG_EQUAL, tokens[0].Type)
	require.Equal(t, token.EQUAL_EQUAL, tokens[1].Type)
	require.Equal(t, token.LESS_EQUAL, tokens[2].Type)
	require.Equal(t, token.GREATER_EQUAL, tokens[3].Type)
}
