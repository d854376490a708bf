package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CFdefense/ClassQL/token"
)

func TestLex_SimplePredicate(t *testing.T) {
	tokens, diags := Lex(`prof contains Alan`)
	require.Empty(t, diags)

	kinds := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []token.Kind{token.PROF, token.CONTAINS, token.IDENTIFIER}, kinds)
}

func TestLex_SpanRoundTrip(t *testing.T) {
	source := `subject = CMPT and course = 424N`
	tokens, diags := Lex(source)
	require.Empty(t, diags)

	prevEnd := 0
	for _, tok := range tokens {
		assert.Equal(t, tok.Lexeme, tok.Span.Slice(source), "span must round-trip to lexeme")
		assert.GreaterOrEqual(t, tok.Span.Start, prevEnd, "spans must be monotonic and non-overlapping")
		assert.LessOrEqual(t, tok.Span.Start, tok.Span.End)
		prevEnd = tok.Span.End
	}
}

func TestLex_DayPrefixLongestMatch(t *testing.T) {
	tokens, diags := Lex(`monday`)
	require.Empty(t, diags)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.MONDAY, tokens[0].Kind)
	assert.Equal(t, "monday", tokens[0].Lexeme)
}

func TestLex_DayPrefixAbbreviation(t *testing.T) {
	tokens, diags := Lex(`mon tues`)
	require.Empty(t, diags)
	require.Len(t, tokens, 2)
	assert.Equal(t, token.MONDAY, tokens[0].Kind)
	assert.Equal(t, token.TUESDAY, tokens[1].Kind)
}

func TestLex_MultiWordKeyword(t *testing.T) {
	tokens, diags := Lex(`credit hours at least 3`)
	require.Empty(t, diags)
	require.Len(t, tokens, 3)
	assert.Equal(t, token.CREDIT_HOURS, tokens[0].Kind)
	assert.Equal(t, token.AT_LEAST, tokens[1].Kind)
	assert.Equal(t, token.INTEGER, tokens[2].Kind)
}

func TestLex_AlnumCourseNumberBeforeInteger(t *testing.T) {
	tokens, diags := Lex(`424N`)
	require.Empty(t, diags)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.IDENTIFIER, tokens[0].Kind)
	assert.Equal(t, "424N", tokens[0].Lexeme)
}

func TestLex_TimeLiteral(t *testing.T) {
	tokens, diags := Lex(`9am 2:30pm 12pm 12am`)
	require.Empty(t, diags)
	require.Len(t, tokens, 4)
	for _, tok := range tokens {
		assert.Equal(t, token.TIME, tok.Kind)
	}

	h, m, ok := ParseTimeLexeme("2:30pm")
	require.True(t, ok)
	assert.Equal(t, 14, h)
	assert.Equal(t, 30, m)

	h, m, ok = ParseTimeLexeme("12am")
	require.True(t, ok)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, m)
}

func TestLex_EmailIdentifier(t *testing.T) {
	tokens, diags := Lex(`prof = aturing@school.edu`)
	require.Empty(t, diags)
	require.Len(t, tokens, 3)
	assert.Equal(t, "aturing@school.edu", tokens[2].Lexeme)
}

func TestLex_UnterminatedStringTolerated(t *testing.T) {
	tokens, diags := Lex(`title contains "intro to`)
	require.Empty(t, diags)
	require.Len(t, tokens, 3)
	assert.Equal(t, token.STRING, tokens[2].Kind)
	assert.Equal(t, `"intro to`, tokens[2].Lexeme)
}

func TestLex_UnexpectedCharacterRecovered(t *testing.T) {
	tokens, diags := Lex(`prof = $alan`)
	require.Len(t, diags, 1)

	kinds := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []token.Kind{token.PROF, token.EQ, token.IDENTIFIER}, kinds)
}
