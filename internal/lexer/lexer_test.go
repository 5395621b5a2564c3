package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/token"
)

func tokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens, err := Tokenize(source)
	require.NoError(t, err)
	return tokens
}

func TestTokenizeIdentifiersAndKeywords(t *testing.T) {
	tokens := tokenize(t, "LET x_1 DO")
	require.Len(t, tokens, 4) // + EOF
	assert.Equal(t, token.Identifier, tokens[0].Kind)
	assert.Equal(t, "LET", tokens[0].Literal)
	assert.Equal(t, "x_1", tokens[1].Literal)
	assert.Equal(t, token.EOF, tokens[3].Kind)
}

func TestTokenizeIntegerAndDecimal(t *testing.T) {
	tokens := tokenize(t, "0 42 -7 3.14 +2.0")
	want := []struct {
		kind    token.Kind
		literal string
	}{
		{token.Integer, "0"},
		{token.Integer, "42"},
		{token.Integer, "-7"},
		{token.Decimal, "3.14"},
		{token.Decimal, "+2.0"},
	}
	require.Len(t, tokens, len(want)+1)
	for i, w := range want {
		assert.Equal(t, w.kind, tokens[i].Kind, "token %d", i)
		assert.Equal(t, w.literal, tokens[i].Literal, "token %d", i)
	}
}

func TestTokenizeLeadingZeroIsIllegal(t *testing.T) {
	_, err := Tokenize("007")
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, diagnostics.ErrL001, diag.Code)
}

func TestTokenizeLeadingDotIsIllegal(t *testing.T) {
	_, err := Tokenize(".5")
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, diagnostics.ErrL001, diag.Code)
}

// A dangling dot with no following digit ("1.") is not a lexer failure: the
// fractional-part check only consumes '.' when a digit follows, so "1."
// lexes as Integer("1") then Operator("."), leaving "obj.method()"-style
// chaining on an integer literal to fail later, in the parser, instead.
func TestTokenizeTrailingDotIsTwoTokens(t *testing.T) {
	tokens := tokenize(t, "1.")
	require.Len(t, tokens, 3) // Integer, Operator, EOF
	assert.Equal(t, token.Integer, tokens[0].Kind)
	assert.Equal(t, "1", tokens[0].Literal)
	assert.Equal(t, token.Operator, tokens[1].Kind)
	assert.Equal(t, ".", tokens[1].Literal)
}

func TestTokenizeCharacterLiteral(t *testing.T) {
	tokens := tokenize(t, `'a' '\n' '\''`)
	require.Len(t, tokens, 4)
	assert.Equal(t, `'a'`, tokens[0].Literal)
	assert.Equal(t, `'\n'`, tokens[1].Literal)
	assert.Equal(t, `'\''`, tokens[2].Literal)
}

func TestTokenizeEmptyCharacterLiteralIsIllegal(t *testing.T) {
	_, err := Tokenize("''")
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, diagnostics.ErrL003, diag.Code)
}

func TestTokenizeStringLiteral(t *testing.T) {
	tokens := tokenize(t, `"hello\nworld"`)
	require.Len(t, tokens, 2)
	assert.Equal(t, token.String, tokens[0].Kind)
	assert.Equal(t, `"hello\nworld"`, tokens[0].Literal)
}

func TestTokenizeUnterminatedStringIsIllegal(t *testing.T) {
	_, err := Tokenize(`"hello`)
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, diagnostics.ErrL002, diag.Code)
}

func TestTokenizeTwoCharacterOperators(t *testing.T) {
	tokens := tokenize(t, "<= >= == != && ||")
	for i, want := range []string{"<=", ">=", "==", "!=", "&&", "||"} {
		assert.Equal(t, want, tokens[i].Literal)
		assert.Equal(t, token.Operator, tokens[i].Kind)
	}
}

func TestTokenizeSingleCharacterOperatorsNotGreedy(t *testing.T) {
	// "<" followed by something that isn't "=" must not be swallowed into a
	// two-character operator.
	tokens := tokenize(t, "< x")
	assert.Equal(t, "<", tokens[0].Literal)
}

func TestTokenizeOffsetsArePreciseAndStable(t *testing.T) {
	tokens := tokenize(t, "LET x = 5;")
	assert.Equal(t, 0, tokens[0].Start)  // LET
	assert.Equal(t, 4, tokens[1].Start)  // x
	assert.Equal(t, 6, tokens[2].Start)  // =
	assert.Equal(t, 8, tokens[3].Start)  // 5
	assert.Equal(t, 9, tokens[4].Start)  // ;
}

// Punctuation the grammar never uses (here '#') still lexes as a one-off
// Operator token; the lexer has no notion of "invalid punctuation" outside
// malformed numeric literals, so this is rejected later, in the parser.
func TestTokenizeUnknownPunctuationIsAnOperatorToken(t *testing.T) {
	tokens := tokenize(t, "#")
	require.Len(t, tokens, 2)
	assert.Equal(t, token.Operator, tokens[0].Kind)
	assert.Equal(t, "#", tokens[0].Literal)
}
