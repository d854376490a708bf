package ast

import (
	"github.com/CFdefense/ClassQL/diagnostic"
	"github.com/CFdefense/ClassQL/schema"
)

// Condition is a canonical string-domain operator: the
// only forms a Normalized tree may contain are "=", "!=", "contains",
// "starts_with", "ends_with".
type Condition string

const (
	CondEq          Condition = "="
	CondNe          Condition = "!="
	CondContains    Condition = "contains"
	CondStartsWith  Condition = "starts_with"
	CondEndsWith    Condition = "ends_with"
)

// BinOp is a canonical numeric/time-domain operator: the
// only forms a Normalized tree may contain are "=", "!=", "<", ">",
// "<=", ">=".
type BinOp string

const (
	BinEq BinOp = "="
	BinNe BinOp = "!="
	BinLt BinOp = "<"
	BinGt BinOp = ">"
	BinLe BinOp = "<="
	BinGe BinOp = ">="
)

// NormalizedValueKind tags the payload of a NormalizedValue.
type NormalizedValueKind int

const (
	NString NormalizedValueKind = iota
	NInteger
	NMinutes // time-of-day normalized to minutes-from-midnight, 0..1439
	NIdentifier
)

// NormalizedValue is a Value after semantic normalization: times are
// converted to minute-of-day integers while the original lexeme is
// kept for diagnostics. A "Time to Time" range is folded by the
// semantic analyzer into two ordinary predicates on the same field
// (field >= start AND field <= end) rather than carried here as a
// distinct value shape.
type NormalizedValue struct {
	Kind           NormalizedValueKind
	Str            string
	Int            int64
	Minutes        int
	Ident          string
	OriginalLexeme string
}

// NormalizedNode is any node of the normalized tree. Group is gone:
// associativity is encoded structurally by NAnd/NOr nesting alone.
type NormalizedNode interface {
	normalizedNode()
}

// NAnd is Left AND Right.
type NAnd struct {
	Left, Right NormalizedNode
}

func (*NAnd) normalizedNode() {}

// NOr is Left OR Right.
type NOr struct {
	Left, Right NormalizedNode
}

func (*NOr) normalizedNode() {}

// NNot is NOT Child.
type NNot struct {
	Child NormalizedNode
}

func (*NNot) normalizedNode() {}

// NPredicate is a leaf with a canonical field, a canonical operator
// (exactly one of Condition/BinOp is set, matching the field's
// category), and a normalized value.
type NPredicate struct {
	Field     schema.Field
	Condition *Condition
	BinOp     *BinOp
	Value     NormalizedValue
	Span      diagnostic.Span // retained for diagnostic context during codegen failures
}

func (*NPredicate) normalizedNode() {}

// NEmpty is the normalized form of Empty: a query with no filters.
type NEmpty struct{}

func (*NEmpty) normalizedNode() {}
