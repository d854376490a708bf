// Package codegen implements the ClassQL SQL generator:
// it walks a normalized AST and emits one parameterized SQL statement
// plus an ordered parameter list, consulting schema.Registry for every
// field's column and category so it can never disagree with the
// semantic analyzer about a field's type domain.
package codegen

import (
	"fmt"
	"strings"

	"github.com/CFdefense/ClassQL/ast"
	"github.com/CFdefense/ClassQL/schema"
)

// ValueKind tags a bound parameter's payload.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInteger
)

// Value is a bound SQL parameter: String(text) or Integer(i64).
// Normalized times are bound as integer minutes; booleans as 0/1,
// except day flags and the synthetic "full" predicate, which are
// emitted as inline literals rather than bound parameters (see the
// genAggregateBoolean and genFull doc comments below).
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
}

// baseSelect is the fixed projection and JOIN shape of every generated
// query: sections is the anchor row; courses,
// professors, and term_collections are inner-joined since every
// section has exactly one of each; meeting_times is always
// left-joined so the projection's shape never depends on the WHERE
// clause. WHERE-clause predicates on meeting-time
// attributes never reference this join; they route through their own
// correlated EXISTS subqueries (genAggregate below) instead.
const baseSelect = `SELECT
  s.sequence, s.max_enrollment, s.instruction_method, s.campus, s.enrollment,
  c.subject_code, c.number, c.title, c.description, c.credit_hours, c.prerequisites, c.corequisites,
  p.name AS professor_name, p.email_address,
  tc.name AS term_name,
  mt.meeting_type, mt.start_minutes, mt.end_minutes, mt.building, mt.room
FROM sections s
INNER JOIN courses c ON c.school_id = s.school_id AND c.subject_code = s.subject_code AND c.number = s.course_number
INNER JOIN professors p ON p.id = s.primary_professor_id
INNER JOIN term_collections tc ON tc.id = s.term_collection_id
LEFT JOIN meeting_times mt ON mt.section_fk = s.sequence`

// generator accumulates bound parameters in left-to-right order of
// their appearance in the generated SQL text as it recursively walks
// the tree.
type generator struct {
	params []Value
}

// Generate translates a normalized AST into SQL text and its bound
// parameter list. An NEmpty root produces the base query with no
// WHERE clause.
func Generate(root ast.NormalizedNode) (string, []Value) {
	g := &generator{}
	where := g.genNode(root)
	if where == "" {
		return baseSelect, g.params
	}
	return baseSelect + "\nWHERE " + where, g.params
}

func (g *generator) bindString(s string) string {
	g.params = append(g.params, Value{Kind: ValueString, Str: s})
	return "?"
}

func (g *generator) bindInteger(n int64) string {
	g.params = append(g.params, Value{Kind: ValueInteger, Int: n})
	return "?"
}

func (g *generator) genNode(n ast.NormalizedNode) string {
	switch v := n.(type) {
	case *ast.NEmpty:
		return ""
	case nil:
		return ""
	case *ast.NAnd:
		left := g.genNode(v.Left)
		right := g.genNode(v.Right)
		return fmt.Sprintf("(%s) AND (%s)", left, right)
	case *ast.NOr:
		left := g.genNode(v.Left)
		right := g.genNode(v.Right)
		return fmt.Sprintf("(%s) OR (%s)", left, right)
	case *ast.NNot:
		child := g.genNode(v.Child)
		return fmt.Sprintf("NOT (%s)", child)
	case *ast.NPredicate:
		return g.genPredicate(v)
	default:
		panic(fmt.Sprintf("codegen: unrecognized normalized node %T", n))
	}
}

func (g *generator) genPredicate(p *ast.NPredicate) string {
	if p.Field == schema.Full {
		return g.genFull(p)
	}
	info, ok := schema.Lookup(p.Field)
	if !ok {
		panic(fmt.Sprintf("codegen: field %q has no schema entry", p.Field))
	}
	if info.Category == schema.CategoryAggregateBoolean {
		return g.genAggregateBoolean(info, p)
	}
	if info.Aggregate {
		col := "mt." + strings.TrimPrefix(info.Column, "meeting_times.")
		return fmt.Sprintf("EXISTS (SELECT 1 FROM meeting_times mt WHERE mt.section_fk = s.sequence AND %s)", g.genFragment(col, p))
	}
	return g.genFragment(qualify(info.Column), p)
}

// genFull renders the synthetic boolean "full" field: a
// computed comparison with no backing column and, like day flags, no
// bound parameter.
func (g *generator) genFull(p *ast.NPredicate) string {
	if p.Value.Int != 0 {
		return "s.enrollment >= s.max_enrollment"
	}
	return "s.enrollment < s.max_enrollment"
}

// genAggregateBoolean renders a day-flag predicate (is_monday..
// is_sunday) as an inline literal comparison inside its EXISTS
// subquery, e.g. "mt.is_monday = 1". Day flags are inlined rather
// than bound as placeholders: the worked scenarios (three day
// predicates, and a day-plus-time predicate) both show an empty
// parameter list apart from the time literal, so day flags carry no
// runtime-supplied value to bind.
func (g *generator) genAggregateBoolean(info schema.Info, p *ast.NPredicate) string {
	col := "mt." + strings.TrimPrefix(info.Column, "meeting_times.")
	lit := "0"
	if p.Value.Int != 0 {
		lit = "1"
	}
	inner := fmt.Sprintf("%s = %s", col, lit)
	return fmt.Sprintf("EXISTS (SELECT 1 FROM meeting_times mt WHERE mt.section_fk = s.sequence AND %s)", inner)
}

// genFragment renders one field/operator/value comparison against an
// already-qualified column name, dispatching on whether the predicate
// carries a Condition or a BinOp.
func (g *generator) genFragment(col string, p *ast.NPredicate) string {
	if p.Condition != nil {
		switch *p.Condition {
		case ast.CondContains:
			ph := g.bindString("%" + strings.ToLower(p.Value.Str) + "%")
			return fmt.Sprintf("LOWER(%s) LIKE %s", col, ph)
		case ast.CondStartsWith:
			ph := g.bindString(strings.ToLower(p.Value.Str) + "%")
			return fmt.Sprintf("LOWER(%s) LIKE %s", col, ph)
		case ast.CondEndsWith:
			ph := g.bindString("%" + strings.ToLower(p.Value.Str))
			return fmt.Sprintf("LOWER(%s) LIKE %s", col, ph)
		case ast.CondEq:
			ph := g.bindString(p.Value.Str)
			return fmt.Sprintf("LOWER(%s) = LOWER(%s)", col, ph)
		case ast.CondNe:
			ph := g.bindString(p.Value.Str)
			return fmt.Sprintf("LOWER(%s) <> LOWER(%s)", col, ph)
		default:
			panic(fmt.Sprintf("codegen: unrecognized condition %q", *p.Condition))
		}
	}
	if p.BinOp != nil {
		var ph string
		switch p.Value.Kind {
		case ast.NMinutes:
			ph = g.bindInteger(int64(p.Value.Minutes))
		default:
			ph = g.bindInteger(p.Value.Int)
		}
		return fmt.Sprintf("%s %s %s", col, string(*p.BinOp), ph)
	}
	panic("codegen: predicate has neither Condition nor BinOp")
}

// qualify rewrites a schema column's table prefix to the base query's
// short alias (sections -> s, courses -> c, professors -> p,
// term_collections -> tc); aggregate (meeting_times) columns never
// reach this function, since genPredicate routes them through
// genAggregateBoolean/the EXISTS branch with the "mt" alias instead.
func qualify(column string) string {
	switch {
	case strings.HasPrefix(column, "sections."):
		return "s." + strings.TrimPrefix(column, "sections.")
	case strings.HasPrefix(column, "courses."):
		return "c." + strings.TrimPrefix(column, "courses.")
	case strings.HasPrefix(column, "professors."):
		return "p." + strings.TrimPrefix(column, "professors.")
	case strings.HasPrefix(column, "term_collections."):
		return "tc." + strings.TrimPrefix(column, "term_collections.")
	default:
		return column
	}
}
