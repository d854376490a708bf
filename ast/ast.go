// Package ast defines the abstract syntax tree nodes produced by the
// parser (the "raw" AST) and consumed by the semantic analyzer, plus
// the normalized tree the analyzer produces and the code generator
// consumes.
package ast

import (
	"github.com/CFdefense/ClassQL/diagnostic"
	"github.com/CFdefense/ClassQL/token"
)

// Node is any AST node: every node carries its source span.
type Node interface {
	Span() diagnostic.Span
}

// Expr is a boolean-valued node: a logical connective, a group, a field
// predicate, or a day atom.
type Expr interface {
	Node
	exprNode()
}

// LogicalOr is Left OR Right.
type LogicalOr struct {
	Left, Right Expr
	SpanVal     diagnostic.Span
}

func (n *LogicalOr) Span() diagnostic.Span { return n.SpanVal }
func (*LogicalOr) exprNode()               {}

// LogicalAnd is Left AND Right (built both for explicit "and" and for
// implicit adjacency).
type LogicalAnd struct {
	Left, Right Expr
	SpanVal     diagnostic.Span
}

func (n *LogicalAnd) Span() diagnostic.Span { return n.SpanVal }
func (*LogicalAnd) exprNode()               {}

// LogicalNot is NOT Child.
type LogicalNot struct {
	Child   Expr
	SpanVal diagnostic.Span
}

func (n *LogicalNot) Span() diagnostic.Span { return n.SpanVal }
func (*LogicalNot) exprNode()               {}

// Group is a parenthesized subexpression. It is preserved in the raw
// AST purely for position tracking and is collapsed away during
// normalization; Group never appears as the immediate child of
// another Group (the parser never builds that shape).
type Group struct {
	Child   Expr
	SpanVal diagnostic.Span
}

func (n *Group) Span() diagnostic.Span { return n.SpanVal }
func (*Group) exprNode()               {}

// FieldPredicate is a leaf: a field compared against a value with a
// raw (pre-synonym-folding) operator token. FieldTok is the token Kind
// that introduced the predicate (e.g. token.SUBJECT, token.CAP); Op is
// the Condition or BinOp token actually used (e.g. token.CONTAINS,
// token.AT_LEAST); Value is the literal on the right-hand side. Op and
// Value are both nil only for the bare "full" shape, which mirrors
// DayAtom's bare form and is expanded by the semantic analyzer into
// "full = true". A "start"/"end" Time-to-Time range also leaves Op nil,
// with a ValueTimeRange Value.
type FieldPredicate struct {
	FieldTok token.Kind
	Op       *token.Token
	Value    *Value
	SpanVal  diagnostic.Span
}

func (n *FieldPredicate) Span() diagnostic.Span { return n.SpanVal }
func (*FieldPredicate) exprNode()               {}

// DayAtom is a bare day ("monday", meaning "meets on Monday = true") or
// a day with an explicit condition+value (e.g. "monday is true").
// Cond and Value are nil for the bare form.
type DayAtom struct {
	Day     token.Kind
	Cond    *token.Token
	Value   *Value
	SpanVal diagnostic.Span
}

func (n *DayAtom) Span() diagnostic.Span { return n.SpanVal }
func (*DayAtom) exprNode()               {}

// Empty is the sentinel "empty query" AST: legal, and produces a
// select-all query with no WHERE clause.
type Empty struct {
	SpanVal diagnostic.Span
}

func (n *Empty) Span() diagnostic.Span { return n.SpanVal }
func (*Empty) exprNode()               {}

// ValueKind tags the payload carried by a Value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInteger
	ValueTime
	ValueTimeRange
	ValueIdentifier
)

// TimeLiteral is an hour/minute pair parsed from a TIME token's lexeme,
// in 24-hour form (12am = hour 0, 12pm = hour 12), together with the
// original lexeme for diagnostics.
type TimeLiteral struct {
	Hour, Minute int
	Lexeme       string
}

// Value is the literal right-hand side of a FieldPredicate or DayAtom:
// one of String, Integer, Time, TimeRange, or Identifier.
type Value struct {
	Kind       ValueKind
	Str        string
	Int        int64
	Time       TimeLiteral
	RangeStart TimeLiteral
	RangeEnd   TimeLiteral
	Ident      string
	SpanVal    diagnostic.Span
}

func (v Value) Span() diagnostic.Span { return v.SpanVal }
