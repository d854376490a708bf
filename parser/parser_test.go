package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CFdefense/ClassQL/ast"
	"github.com/CFdefense/ClassQL/lexer"
)

func mustParse(t *testing.T, source string) ast.Expr {
	t.Helper()
	tokens, diags := lexer.Lex(source)
	require.Empty(t, diags)
	tree, diags := Parse(tokens)
	require.Empty(t, diags, "source: %s", source)
	return tree
}

func TestParse_EmptyInput(t *testing.T) {
	tree, diags := Parse(nil)
	require.Empty(t, diags)
	_, ok := tree.(*ast.Empty)
	assert.True(t, ok)
}

func TestParse_SimplePredicate(t *testing.T) {
	tree := mustParse(t, `prof contains Alan`)
	pred, ok := tree.(*ast.FieldPredicate)
	require.True(t, ok)
	require.NotNil(t, pred.Op)
	assert.Equal(t, "Alan", pred.Value.Ident)
}

func TestParse_ImplicitAndBetweenDays(t *testing.T) {
	tree := mustParse(t, `monday wednesday friday`)
	and2, ok := tree.(*ast.LogicalAnd)
	require.True(t, ok)
	and1, ok := and2.Left.(*ast.LogicalAnd)
	require.True(t, ok)
	_, ok = and1.Left.(*ast.DayAtom)
	assert.True(t, ok)
	_, ok = and1.Right.(*ast.DayAtom)
	assert.True(t, ok)
	_, ok = and2.Right.(*ast.DayAtom)
	assert.True(t, ok)
}

func TestParse_OrBindsLooserThanAnd(t *testing.T) {
	// "a or b and c" must parse as "a or (b and c)"
	tree := mustParse(t, `monday or tuesday wednesday`)
	or, ok := tree.(*ast.LogicalOr)
	require.True(t, ok)
	_, ok = or.Left.(*ast.DayAtom)
	assert.True(t, ok)
	_, ok = or.Right.(*ast.LogicalAnd)
	assert.True(t, ok, "right side of or must be the and-group, not just the first day")
}

func TestParse_NotBindsTighterThanAnd(t *testing.T) {
	// "not a and b" parses as "(not a) and b"
	tree := mustParse(t, `not monday tuesday`)
	and, ok := tree.(*ast.LogicalAnd)
	require.True(t, ok)
	not, ok := and.Left.(*ast.LogicalNot)
	require.True(t, ok)
	_, ok = not.Child.(*ast.DayAtom)
	assert.True(t, ok)
	_, ok = and.Right.(*ast.DayAtom)
	assert.True(t, ok)
}

func TestParse_ParenthesizedValueAlternation(t *testing.T) {
	tree := mustParse(t, `sub is (CS or MATH) and prof contains alan`)
	and, ok := tree.(*ast.LogicalAnd)
	require.True(t, ok)
	group, ok := and.Left.(*ast.Group)
	require.True(t, ok)
	or, ok := group.Child.(*ast.LogicalOr)
	require.True(t, ok)
	left, ok := or.Left.(*ast.FieldPredicate)
	require.True(t, ok)
	right, ok := or.Right.(*ast.FieldPredicate)
	require.True(t, ok)
	assert.Equal(t, "CS", left.Value.Ident)
	assert.Equal(t, "MATH", right.Value.Ident)
}

func TestParse_BareFullPredicate(t *testing.T) {
	tree := mustParse(t, `full`)
	pred, ok := tree.(*ast.FieldPredicate)
	require.True(t, ok)
	assert.Nil(t, pred.Op)
	assert.Nil(t, pred.Value)
}

func TestParse_TimeRange(t *testing.T) {
	tree := mustParse(t, `start 9am to 11am`)
	pred, ok := tree.(*ast.FieldPredicate)
	require.True(t, ok)
	require.NotNil(t, pred.Value)
	assert.Equal(t, ast.ValueTimeRange, pred.Value.Kind)
	assert.Equal(t, 9, pred.Value.RangeStart.Hour)
	assert.Equal(t, 11, pred.Value.RangeEnd.Hour)
}

func TestParse_TrailingTokenIsSyntaxError(t *testing.T) {
	tokens, diags := lexer.Lex(`prof contains Alan extra`)
	require.Empty(t, diags)
	_, diags = Parse(tokens)
	require.NotEmpty(t, diags)
}

func TestParse_UnknownOperatorWordIsSyntaxError(t *testing.T) {
	tokens, diags := lexer.Lex(`prof 42`)
	require.Empty(t, diags)
	_, diags = Parse(tokens)
	require.NotEmpty(t, diags)
}
