package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CFdefense/ClassQL/ast"
	"github.com/CFdefense/ClassQL/diagnostic"
	"github.com/CFdefense/ClassQL/lexer"
	"github.com/CFdefense/ClassQL/parser"
	"github.com/CFdefense/ClassQL/schema"
)

func mustAnalyze(t *testing.T, source string) ast.NormalizedNode {
	t.Helper()
	tokens, diags := lexer.Lex(source)
	require.Empty(t, diags)
	tree, diags := parser.Parse(tokens)
	require.Empty(t, diags)
	n, diags := Analyze(tree)
	require.Empty(t, diags, "source: %s", source)
	return n
}

func TestAnalyze_FieldSynonymFolding(t *testing.T) {
	n := mustAnalyze(t, `sub is CS`)
	pred, ok := n.(*ast.NPredicate)
	require.True(t, ok)
	assert.Equal(t, schema.Subject, pred.Field)
	require.NotNil(t, pred.Condition)
	assert.Equal(t, ast.CondEq, *pred.Condition)
	assert.Equal(t, "CS", pred.Value.Str)
}

func TestAnalyze_EnrollmentSynonyms(t *testing.T) {
	for _, source := range []string{"pop > 10", "size > 10", "enrollment > 10"} {
		n := mustAnalyze(t, source)
		pred, ok := n.(*ast.NPredicate)
		require.True(t, ok, source)
		assert.Equal(t, schema.Enrollment, pred.Field, source)
	}
	for _, source := range []string{"cap > 10", "enrollment cap > 10"} {
		n := mustAnalyze(t, source)
		pred, ok := n.(*ast.NPredicate)
		require.True(t, ok, source)
		assert.Equal(t, schema.MaxEnrollment, pred.Field, source)
	}
}

func TestAnalyze_BinOpSynonyms(t *testing.T) {
	cases := map[string]ast.BinOp{
		"credit hours less than 3":  ast.BinLt,
		"credit hours fewer than 3": ast.BinLt,
		"credit hours more than 3":  ast.BinGt,
		"credit hours at least 3":   ast.BinGe,
		"credit hours at most 3":    ast.BinLe,
	}
	for source, want := range cases {
		n := mustAnalyze(t, source)
		pred, ok := n.(*ast.NPredicate)
		require.True(t, ok, source)
		require.NotNil(t, pred.BinOp, source)
		assert.Equal(t, want, *pred.BinOp, source)
	}
}

func TestAnalyze_ConditionSynonyms(t *testing.T) {
	cases := map[string]ast.Condition{
		"prof equals Alan":     ast.CondEq,
		"prof is Alan":         ast.CondEq,
		"prof has Alan":        ast.CondContains,
		"prof not equals Alan": ast.CondNe,
	}
	for source, want := range cases {
		n := mustAnalyze(t, source)
		pred, ok := n.(*ast.NPredicate)
		require.True(t, ok, source)
		require.NotNil(t, pred.Condition, source)
		assert.Equal(t, want, *pred.Condition, source)
	}
}

func TestAnalyze_BareFullPredicate(t *testing.T) {
	n := mustAnalyze(t, `full`)
	pred, ok := n.(*ast.NPredicate)
	require.True(t, ok)
	assert.Equal(t, schema.Full, pred.Field)
	assert.Equal(t, int64(1), pred.Value.Int)
}

func TestAnalyze_BareDayAtom(t *testing.T) {
	n := mustAnalyze(t, `monday`)
	pred, ok := n.(*ast.NPredicate)
	require.True(t, ok)
	assert.Equal(t, schema.IsMonday, pred.Field)
	assert.Equal(t, int64(1), pred.Value.Int)
}

func TestAnalyze_NegatedDayAtom(t *testing.T) {
	n := mustAnalyze(t, `monday is false`)
	pred, ok := n.(*ast.NPredicate)
	require.True(t, ok)
	assert.Equal(t, int64(0), pred.Value.Int)
}

func TestAnalyze_TimeRangeExpandsToTwoPredicates(t *testing.T) {
	n := mustAnalyze(t, `start 9am to 11am`)
	and, ok := n.(*ast.NAnd)
	require.True(t, ok)
	left, ok := and.Left.(*ast.NPredicate)
	require.True(t, ok)
	right, ok := and.Right.(*ast.NPredicate)
	require.True(t, ok)
	assert.Equal(t, ast.BinGe, *left.BinOp)
	assert.Equal(t, 9*60, left.Value.Minutes)
	assert.Equal(t, ast.BinLe, *right.BinOp)
	assert.Equal(t, 11*60, right.Value.Minutes)
}

func TestAnalyze_RejectsContainsOnNumericField(t *testing.T) {
	tokens, diags := lexer.Lex(`credit hours contains 3`)
	require.Empty(t, diags)
	tree, diags := parser.Parse(tokens)
	require.Empty(t, diags)
	_, diags = Analyze(tree)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.Semantic, diags[0].Kind)
}

func TestAnalyze_RejectsTimeWhereIntegerRequired(t *testing.T) {
	tokens, diags := lexer.Lex(`credit hours > 9am`)
	require.Empty(t, diags)
	tree, diags := parser.Parse(tokens)
	require.Empty(t, diags)
	_, diags = Analyze(tree)
	require.Len(t, diags, 1)
}
