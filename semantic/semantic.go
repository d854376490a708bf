// Package semantic implements the ClassQL semantic analyzer: it
// validates a raw ast.Expr against each field's operator type domain
// and rewrites it into the normalized tree (synonym folding,
// day-atom expansion, and time-to-minutes normalization), or reports
// the first Semantic diagnostic it finds.
package semantic

import (
	"fmt"

	"github.com/CFdefense/ClassQL/ast"
	"github.com/CFdefense/ClassQL/diagnostic"
	"github.com/CFdefense/ClassQL/schema"
	"github.com/CFdefense/ClassQL/token"
)

// analyzer walks the raw tree once, bottom-up, using the same
// single-diagnostic-then-abort convention as the parser: semantic
// analysis is fail-fast, not multi-error-accumulating. Only the lexer
// accumulates multiple diagnostics per run.
type analyzer struct {
	diag *diagnostic.Diagnostic
}

// Analyze validates and normalizes a raw AST. On success it returns a
// NormalizedNode and a nil diagnostic slice; on the first violation of
// it returns nil and a single-element diagnostic slice.
func Analyze(expr ast.Expr) (ast.NormalizedNode, []diagnostic.Diagnostic) {
	a := &analyzer{}
	n := a.analyzeExpr(expr)
	if a.diag != nil {
		return nil, []diagnostic.Diagnostic{*a.diag}
	}
	return n, nil
}

func (a *analyzer) fail(span diagnostic.Span, format string, args ...any) {
	if a.diag != nil {
		return
	}
	d := diagnostic.Newf(diagnostic.Semantic, span, format, args...)
	a.diag = &d
}

func (a *analyzer) failed() bool { return a.diag != nil }

func (a *analyzer) analyzeExpr(expr ast.Expr) ast.NormalizedNode {
	if a.failed() {
		return nil
	}
	switch n := expr.(type) {
	case *ast.Empty:
		return &ast.NEmpty{}
	case *ast.Group:
		// Group collapses: associativity is already encoded structurally
		// by the tree shape.
		return a.analyzeExpr(n.Child)
	case *ast.LogicalAnd:
		left := a.analyzeExpr(n.Left)
		right := a.analyzeExpr(n.Right)
		if a.failed() {
			return nil
		}
		return &ast.NAnd{Left: left, Right: right}
	case *ast.LogicalOr:
		left := a.analyzeExpr(n.Left)
		right := a.analyzeExpr(n.Right)
		if a.failed() {
			return nil
		}
		return &ast.NOr{Left: left, Right: right}
	case *ast.LogicalNot:
		child := a.analyzeExpr(n.Child)
		if a.failed() {
			return nil
		}
		return &ast.NNot{Child: child}
	case *ast.DayAtom:
		return a.analyzeDayAtom(n)
	case *ast.FieldPredicate:
		return a.analyzeFieldPredicate(n)
	default:
		a.fail(expr.Span(), "unrecognized AST node")
		return nil
	}
}

// fieldForToken folds a field-introducing token kind to its canonical
// schema.Field, implementing's field-synonym table
// (sub->subject, pop/size->enrollment, cap->max_enrollment,
// type->meeting_type) plus the one-to-one tags that need no folding.
func fieldForToken(k token.Kind) (schema.Field, bool) {
	switch k {
	case token.TERM:
		return schema.Term, true
	case token.PROF:
		return schema.Prof, true
	case token.COURSE:
		return schema.Course, true
	case token.SUBJECT:
		return schema.Subject, true
	case token.TITLE:
		return schema.Title, true
	case token.DESCRIPTION:
		return schema.Description, true
	case token.METHOD:
		return schema.Method, true
	case token.CAMPUS:
		return schema.Campus, true
	case token.ENROLLMENT, token.SIZE, token.POP:
		return schema.Enrollment, true
	case token.ENROLLMENT_CAP, token.CAP:
		return schema.MaxEnrollment, true
	case token.CREDIT_HOURS:
		return schema.CreditHours, true
	case token.PREREQS:
		return schema.Prereqs, true
	case token.COREREQS:
		return schema.Corereqs, true
	case token.FULL:
		return schema.Full, true
	case token.START:
		return schema.Start, true
	case token.END:
		return schema.End, true
	case token.DATE:
		return schema.Date, true
	case token.TIME_KW:
		return schema.TimeOfDay, true
	case token.MEETING_TYPE, token.TYPE:
		return schema.MeetingType, true
	case token.SECTION:
		return schema.Section, true
	case token.BUILDING:
		return schema.Building, true
	case token.ADDRESS:
		return schema.Address, true
	case token.ROOM:
		return schema.Room, true
	case token.ACCESSIBILITY:
		return schema.Accessibility, true
	default:
		return "", false
	}
}

// conditionFor folds a Condition-domain operator token to its
// canonical ast.Condition.
func conditionFor(k token.Kind) (ast.Condition, bool) {
	switch k {
	case token.EQ, token.IS, token.EQUALS:
		return ast.CondEq, true
	case token.NE, token.NOT_EQUALS, token.DOES_NOT_EQUAL:
		return ast.CondNe, true
	case token.CONTAINS, token.HAS:
		return ast.CondContains, true
	case token.STARTS_WITH:
		return ast.CondStartsWith, true
	case token.ENDS_WITH:
		return ast.CondEndsWith, true
	default:
		return "", false
	}
}

// binOpFor folds a BinOp-domain operator token to its canonical
// ast.BinOp.
func binOpFor(k token.Kind) (ast.BinOp, bool) {
	switch k {
	case token.EQ:
		return ast.BinEq, true
	case token.NE:
		return ast.BinNe, true
	case token.LT, token.LESS_THAN, token.FEWER_THAN:
		return ast.BinLt, true
	case token.GT, token.GREATER_THAN, token.MORE_THAN:
		return ast.BinGt, true
	case token.LE, token.LESS_OR_EQUAL, token.AT_MOST:
		return ast.BinLe, true
	case token.GE, token.GREATER_OR_EQUAL, token.AT_LEAST:
		return ast.BinGe, true
	default:
		return "", false
	}
}

func (a *analyzer) analyzeFieldPredicate(n *ast.FieldPredicate) ast.NormalizedNode {
	field, ok := fieldForToken(n.FieldTok)
	if !ok {
		a.fail(n.SpanVal, "unrecognized field")
		return nil
	}
	info, ok := schema.Lookup(field)
	if !ok {
		a.fail(n.SpanVal, "field %q has no schema entry", field)
		return nil
	}

	// Bare "full": expand to "full = true". start/end range predicates
	// also leave Op nil (see parseRangeablePredicate), so this must
	// check the field token too, not just a nil Op, or a range
	// predicate like "start 9am to 11am" would be misread as bare full.
	if n.FieldTok == token.FULL && n.Op == nil {
		return &ast.NPredicate{
			Field:     field,
			Condition: conditionPtr(ast.CondEq),
			Value:     ast.NormalizedValue{Kind: ast.NInteger, Int: 1},
			Span:      n.SpanVal,
		}
	}

	switch info.Category {
	case schema.CategorySyntheticBoolean:
		return a.analyzeBooleanPredicate(field, n.Op, n.Value, n.SpanVal)
	case schema.CategoryString, schema.CategoryAggregateString:
		return a.analyzeConditionPredicate(field, n.Op, n.Value, n.SpanVal)
	case schema.CategoryNumeric:
		return a.analyzeBinOpPredicate(field, n.Op, n.Value, n.SpanVal)
	case schema.CategoryAggregateTime:
		return a.analyzeTimePredicate(field, n.Op, n.Value, n.SpanVal)
	default:
		a.fail(n.SpanVal, "field %q cannot appear as a predicate", field)
		return nil
	}
}

func conditionPtr(c ast.Condition) *ast.Condition { return &c }

func (a *analyzer) analyzeConditionPredicate(field schema.Field, op *token.Token, value *ast.Value, span diagnostic.Span) ast.NormalizedNode {
	cond, ok := conditionFor(op.Kind)
	if !ok {
		a.fail(op.Span, "operator %q not valid for string field %q", op.Lexeme, field)
		return nil
	}
	if value == nil {
		a.fail(span, "field %q requires a value", field)
		return nil
	}
	nv, ok := a.normalizeStringlikeValue(*value)
	if !ok {
		return nil
	}
	return &ast.NPredicate{Field: field, Condition: &cond, Value: nv, Span: span}
}

func (a *analyzer) analyzeBinOpPredicate(field schema.Field, op *token.Token, value *ast.Value, span diagnostic.Span) ast.NormalizedNode {
	bop, ok := binOpFor(op.Kind)
	if !ok {
		a.fail(op.Span, "operator %q not valid for numeric field %q", op.Lexeme, field)
		return nil
	}
	if value == nil {
		a.fail(span, "field %q requires a value", field)
		return nil
	}
	if value.Kind == ast.ValueTime || value.Kind == ast.ValueTimeRange {
		a.fail(value.SpanVal, "a time literal appears where field %q requires an integer", field)
		return nil
	}
	nv, ok := a.normalizeIntegerValue(*value)
	if !ok {
		return nil
	}
	return &ast.NPredicate{Field: field, BinOp: &bop, Value: nv, Span: span}
}

func (a *analyzer) analyzeTimePredicate(field schema.Field, op *token.Token, value *ast.Value, span diagnostic.Span) ast.NormalizedNode {
	if value == nil {
		a.fail(span, "field %q requires a value", field)
		return nil
	}

	if value.Kind == ast.ValueTimeRange {
		if op != nil {
			a.fail(op.Span, "field %q cannot take both a range and an explicit operator", field)
			return nil
		}
		startMin, ok := minutesOf(value.RangeStart)
		if !ok {
			a.fail(value.SpanVal, "malformed time literal %q", value.RangeStart.Lexeme)
			return nil
		}
		endMin, ok := minutesOf(value.RangeEnd)
		if !ok {
			a.fail(value.SpanVal, "malformed time literal %q", value.RangeEnd.Lexeme)
			return nil
		}
		ge := ast.BinGe
		le := ast.BinLe
		return &ast.NAnd{
			Left: &ast.NPredicate{
				Field: field, BinOp: &ge,
				Value: ast.NormalizedValue{Kind: ast.NMinutes, Minutes: startMin, OriginalLexeme: value.RangeStart.Lexeme},
				Span:  span,
			},
			Right: &ast.NPredicate{
				Field: field, BinOp: &le,
				Value: ast.NormalizedValue{Kind: ast.NMinutes, Minutes: endMin, OriginalLexeme: value.RangeEnd.Lexeme},
				Span:  span,
			},
		}
	}

	if op == nil {
		a.fail(span, "field %q requires an operator", field)
		return nil
	}
	bop, ok := binOpFor(op.Kind)
	if !ok {
		a.fail(op.Span, "operator %q not valid for time field %q", op.Lexeme, field)
		return nil
	}
	if value.Kind == ast.ValueInteger || value.Kind == ast.ValueString || value.Kind == ast.ValueIdentifier {
		a.fail(value.SpanVal, "an integer or identifier literal appears where field %q requires a time", field)
		return nil
	}
	min, ok := minutesOf(value.Time)
	if !ok {
		a.fail(value.SpanVal, "malformed time literal %q", value.Time.Lexeme)
		return nil
	}
	return &ast.NPredicate{
		Field: field, BinOp: &bop,
		Value: ast.NormalizedValue{Kind: ast.NMinutes, Minutes: min, OriginalLexeme: value.Time.Lexeme},
		Span:  span,
	}
}

// analyzeBooleanPredicate handles the synthetic "full" field, which
// accepts either a BinOp (=, !=) or a Condition (is, equals, not
// equals) against a recognized truth value.
func (a *analyzer) analyzeBooleanPredicate(field schema.Field, op *token.Token, value *ast.Value, span diagnostic.Span) ast.NormalizedNode {
	if value == nil {
		a.fail(span, "field %q requires a value", field)
		return nil
	}
	truth, ok := truthValueOf(*value)
	if !ok {
		a.fail(value.SpanVal, "field %q requires a true/false/1/0 value", field)
		return nil
	}

	negate := false
	if cond, ok := conditionFor(op.Kind); ok {
		negate = cond == ast.CondNe
	} else if bop, ok := binOpFor(op.Kind); ok {
		if bop != ast.BinEq && bop != ast.BinNe {
			a.fail(op.Span, "operator %q not valid for boolean field %q", op.Lexeme, field)
			return nil
		}
		negate = bop == ast.BinNe
	} else {
		a.fail(op.Span, "operator %q not valid for boolean field %q", op.Lexeme, field)
		return nil
	}

	want := truth
	if negate {
		want = !want
	}
	eq := ast.BinEq
	intVal := int64(0)
	if want {
		intVal = 1
	}
	return &ast.NPredicate{
		Field: field, BinOp: &eq,
		Value: ast.NormalizedValue{Kind: ast.NInteger, Int: intVal},
		Span:  span,
	}
}

func (a *analyzer) analyzeDayAtom(n *ast.DayAtom) ast.NormalizedNode {
	field, ok := schema.DayField(token.DayName(n.Day))
	if !ok {
		a.fail(n.SpanVal, "unrecognized day")
		return nil
	}

	// Bare day: "meets on Monday = true".
	if n.Cond == nil {
		eq := ast.BinEq
		return &ast.NPredicate{
			Field: field, BinOp: &eq,
			Value: ast.NormalizedValue{Kind: ast.NInteger, Int: 1},
			Span:  n.SpanVal,
		}
	}

	if n.Value == nil {
		a.fail(n.SpanVal, "day condition requires a value")
		return nil
	}
	truth, ok := truthValueOf(*n.Value)
	if !ok {
		a.fail(n.Value.SpanVal, "day atom has a value that is not true/false/1/0")
		return nil
	}

	negate := false
	if cond, ok := conditionFor(n.Cond.Kind); ok {
		negate = cond == ast.CondNe
	} else if bop, ok := binOpFor(n.Cond.Kind); ok {
		if bop != ast.BinEq && bop != ast.BinNe {
			a.fail(n.Cond.Span, "operator %q not valid for day field", n.Cond.Lexeme)
			return nil
		}
		negate = bop == ast.BinNe
	} else {
		a.fail(n.Cond.Span, "operator %q not valid for day field", n.Cond.Lexeme)
		return nil
	}

	want := truth
	if negate {
		want = !want
	}
	eq := ast.BinEq
	intVal := int64(0)
	if want {
		intVal = 1
	}
	return &ast.NPredicate{
		Field: field, BinOp: &eq,
		Value: ast.NormalizedValue{Kind: ast.NInteger, Int: intVal},
		Span:  n.SpanVal,
	}
}

// truthValueOf recognizes true/false/1/0
func truthValueOf(v ast.Value) (bool, bool) {
	switch v.Kind {
	case ast.ValueIdentifier:
		switch v.Ident {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	case ast.ValueInteger:
		switch v.Int {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	}
	return false, false
}

// normalizeStringlikeValue converts a String/Identifier/Integer value
// into its normalized string form for a Condition-domain predicate;
// integers are accepted (e.g. bare course numbers like "course = 101")
// and stringified, since the type-mismatch diagnostics only flag
// integer-vs-time mismatches, not string-vs-integer ones.
func (a *analyzer) normalizeStringlikeValue(v ast.Value) (ast.NormalizedValue, bool) {
	switch v.Kind {
	case ast.ValueString:
		return ast.NormalizedValue{Kind: ast.NString, Str: v.Str, OriginalLexeme: v.Str}, true
	case ast.ValueIdentifier:
		return ast.NormalizedValue{Kind: ast.NString, Str: v.Ident, OriginalLexeme: v.Ident}, true
	case ast.ValueInteger:
		return ast.NormalizedValue{Kind: ast.NString, Str: fmt.Sprintf("%d", v.Int), OriginalLexeme: fmt.Sprintf("%d", v.Int)}, true
	default:
		a.fail(v.SpanVal, "a time literal appears where a string or identifier is required")
		return ast.NormalizedValue{}, false
	}
}

func (a *analyzer) normalizeIntegerValue(v ast.Value) (ast.NormalizedValue, bool) {
	switch v.Kind {
	case ast.ValueInteger:
		return ast.NormalizedValue{Kind: ast.NInteger, Int: v.Int, OriginalLexeme: fmt.Sprintf("%d", v.Int)}, true
	default:
		a.fail(v.SpanVal, "an integer is required")
		return ast.NormalizedValue{}, false
	}
}

// minutesOf converts an hour/minute pair to minutes-from-midnight and
// asserts the result lies in [0, 1440).
func minutesOf(t ast.TimeLiteral) (int, bool) {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return 0, false
	}
	total := t.Hour*60 + t.Minute
	if total < 0 || total >= 1440 {
		return 0, false
	}
	return total, true
}
