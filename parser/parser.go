// Package parser implements the ClassQL recursive-descent parser:
// tokens to a raw ast.Expr, or a syntactic diagnostic on the first
// unexpected token. There is no panic-mode recovery: a query either
// parses completely or parsing stops at its first error.
package parser

import (
	"fmt"

	"github.com/CFdefense/ClassQL/ast"
	"github.com/CFdefense/ClassQL/diagnostic"
	"github.com/CFdefense/ClassQL/lexer"
	"github.com/CFdefense/ClassQL/token"
)

// eof is a synthetic Kind used only inside this package for the
// lookahead past the last real token; it never escapes as a Kind the
// lexer could produce.
const eof token.Kind = -1

// Parser walks a fixed token slice with one token of lookahead, using
// a curToken/peekToken/nextToken cursor pair adapted from a streaming
// lexer to the fixed slice ClassQL's lexer already produces up front.
type Parser struct {
	tokens []token.Token

	pos       int
	curToken  token.Token
	peekToken token.Token

	diag *diagnostic.Diagnostic // first syntactic error, if any
}

// Parse parses a full token stream into a raw AST. An empty stream is
// a legal, successful parse: it produces ast.Empty.
func Parse(tokens []token.Token) (ast.Expr, []diagnostic.Diagnostic) {
	if len(tokens) == 0 {
		return &ast.Empty{SpanVal: diagnostic.Span{Start: 0, End: 0}}, nil
	}

	p := &Parser{tokens: tokens}
	p.curToken = tokens[0]
	if len(tokens) > 1 {
		p.peekToken = tokens[1]
	} else {
		p.peekToken = p.eofToken()
	}

	expr := p.parseOrExpr()
	if p.diag != nil {
		return nil, []diagnostic.Diagnostic{*p.diag}
	}
	if p.curToken.Kind != eof {
		p.errorf(p.curToken.Span, "end of input", p.curToken.Kind.String())
		return nil, []diagnostic.Diagnostic{*p.diag}
	}
	return expr, nil
}

func (p *Parser) eofToken() token.Token {
	end := 0
	if n := len(p.tokens); n > 0 {
		end = p.tokens[n-1].Span.End
	}
	return token.Token{Kind: eof, Span: diagnostic.Span{Start: end, End: end}}
}

func (p *Parser) nextToken() {
	p.pos++
	p.curToken = p.peekToken
	if p.pos+1 < len(p.tokens) {
		p.peekToken = p.tokens[p.pos+1]
	} else {
		p.peekToken = p.eofToken()
	}
}

func (p *Parser) failed() bool { return p.diag != nil }

func (p *Parser) errorf(span diagnostic.Span, expected, got string) {
	if p.diag != nil {
		return // first error wins; no panic-mode recovery
	}
	msg := fmt.Sprintf("expected %s, found %s", expected, got)
	d := diagnostic.New(diagnostic.Syntactic, msg, span)
	p.diag = &d
}

// expect consumes curToken if it matches kind, recording a syntactic
// error and leaving the cursor in place otherwise.
func (p *Parser) expect(kind token.Kind, expectedDesc string) (token.Token, bool) {
	if p.curToken.Kind != kind {
		p.errorf(p.curToken.Span, expectedDesc, p.curToken.Kind.String())
		return token.Token{}, false
	}
	tok := p.curToken
	p.nextToken()
	return tok, true
}

// --- grammar: OrExpr < AndExpr < NotExpr < Atom ---

func (p *Parser) parseOrExpr() ast.Expr {
	left := p.parseAndExpr()
	for !p.failed() && p.curToken.Kind == token.OR {
		start := left.Span()
		p.nextToken()
		right := p.parseAndExpr()
		if p.failed() {
			return left
		}
		left = &ast.LogicalOr{Left: left, Right: right, SpanVal: diagnostic.Span{Start: start.Start, End: right.Span().End}}
	}
	return left
}

func (p *Parser) parseAndExpr() ast.Expr {
	left := p.parseNotExpr()
	for !p.failed() {
		start := left.Span()
		if p.curToken.Kind == token.AND {
			p.nextToken()
			right := p.parseNotExpr()
			if p.failed() {
				return left
			}
			left = &ast.LogicalAnd{Left: left, Right: right, SpanVal: diagnostic.Span{Start: start.Start, End: right.Span().End}}
			continue
		}
		if token.BeginsAtom(p.curToken.Kind) {
			// Implicit AND via adjacency.
			right := p.parseNotExpr()
			if p.failed() {
				return left
			}
			left = &ast.LogicalAnd{Left: left, Right: right, SpanVal: diagnostic.Span{Start: start.Start, End: right.Span().End}}
			continue
		}
		break
	}
	return left
}

func (p *Parser) parseNotExpr() ast.Expr {
	if p.curToken.Kind == token.NOT {
		start := p.curToken.Span
		p.nextToken()
		child := p.parseNotExpr() // right-associative: "not not x" is legal, binds tighter than AND
		if p.failed() {
			return nil
		}
		return &ast.LogicalNot{Child: child, SpanVal: diagnostic.Span{Start: start.Start, End: child.Span().End}}
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() ast.Expr {
	switch {
	case p.curToken.Kind == token.LPAREN:
		start := p.curToken.Span
		p.nextToken()
		inner := p.parseOrExpr()
		if p.failed() {
			return nil
		}
		closeTok, ok := p.expect(token.RPAREN, "')'")
		if !ok {
			return nil
		}
		// Group never appears as the immediate child of another Group:
		// if inner already collapsed to one (e.g. "((monday))"), reuse
		// it rather than nesting.
		if g, isGroup := inner.(*ast.Group); isGroup {
			g.SpanVal = diagnostic.Span{Start: start.Start, End: closeTok.Span.End}
			return g
		}
		return &ast.Group{Child: inner, SpanVal: diagnostic.Span{Start: start.Start, End: closeTok.Span.End}}
	case token.IsDay(p.curToken.Kind):
		return p.parseDayAtom()
	case token.BeginsAtom(p.curToken.Kind):
		return p.parseFieldPredicate()
	default:
		p.errorf(p.curToken.Span, "a field, day name, '(', or 'not'", p.curToken.Kind.String())
		return nil
	}
}

// parseDayAtom parses a bare day ("monday") or a day with an explicit
// condition and value ("monday is true").
func (p *Parser) parseDayAtom() ast.Expr {
	dayTok := p.curToken
	p.nextToken()

	if !token.IsConditionOperator(p.curToken.Kind) {
		return &ast.DayAtom{Day: dayTok.Kind, SpanVal: dayTok.Span}
	}

	condTok := p.curToken
	p.nextToken()
	value := p.parseGeneralValue()
	if p.failed() {
		return nil
	}
	return &ast.DayAtom{
		Day:     dayTok.Kind,
		Cond:    &condTok,
		Value:   &value,
		SpanVal: diagnostic.Span{Start: dayTok.Span.Start, End: value.SpanVal.End},
	}
}

// parseFieldPredicate dispatches on the field-introducing token to one
// of the five predicate shapes.
func (p *Parser) parseFieldPredicate() ast.Expr {
	fieldTok := p.curToken
	p.nextToken()

	switch fieldTok.Kind {
	case token.FULL:
		return p.parseFullPredicate(fieldTok)
	case token.CREDIT_HOURS, token.ENROLLMENT, token.ENROLLMENT_CAP, token.CAP, token.SIZE, token.POP, token.SECTION:
		return p.parseBinOpPredicate(fieldTok, p.parseGeneralValue)
	case token.START, token.END:
		return p.parseRangeablePredicate(fieldTok)
	case token.TIME_KW:
		return p.parseBinOpPredicate(fieldTok, p.parseGeneralValue)
	default:
		// Condition-domain string-like fields: term, prof, course, subject,
		// title, description, method, campus, meeting type/type, prereqs,
		// corereqs, building, address, room, accessibility, date.
		return p.parseConditionPredicate(fieldTok)
	}
}

// parseConditionPredicate and parseBinOpPredicate both accept any
// operator token the grammar recognizes (Condition or BinOp), not just
// the ones that make sense for their own field's category: whether an
// operator is legal for a given field is a category question, and a
// mismatch like "credit hours contains 3" is expected to surface as a
// Semantic diagnostic, not a parse failure, so the parser stays
// permissive here and semantic.analyzeBinOpPredicate/
// analyzeConditionPredicate make the category check.
func (p *Parser) parseConditionPredicate(fieldTok token.Token) ast.Expr {
	if !isAnyOperator(p.curToken.Kind) {
		p.errorf(p.curToken.Span, "a condition (is, equals, contains, starts with, ends with, not equals, ...)", p.curToken.Kind.String())
		return nil
	}
	opTok := p.curToken
	p.nextToken()
	return p.parsePredicateRHS(fieldTok, opTok, p.parseGeneralValue)
}

func (p *Parser) parseBinOpPredicate(fieldTok token.Token, valueFn func() ast.Value) ast.Expr {
	if !isAnyOperator(p.curToken.Kind) {
		p.errorf(p.curToken.Span, "a comparison (=, !=, <, >, <=, >=, at least, at most, ...)", p.curToken.Kind.String())
		return nil
	}
	opTok := p.curToken
	p.nextToken()
	return p.parsePredicateRHS(fieldTok, opTok, valueFn)
}

func isAnyOperator(k token.Kind) bool {
	return token.IsConditionOperator(k) || token.IsBinOperator(k)
}

// parsePredicateRHS parses one field predicate's right-hand side: a
// single value, or a parenthesized "or"-separated list of values
// (e.g. "sub is (CS or MATH)"), which distributes the same field and
// operator over each alternative and builds a LogicalOr tree of
// single-value FieldPredicates, a grammar extension the base
// FieldPredicate rule doesn't spell out on its own, but that queries
// with a parenthesized alternation require.
func (p *Parser) parsePredicateRHS(fieldTok, opTok token.Token, valueFn func() ast.Value) ast.Expr {
	if p.curToken.Kind != token.LPAREN {
		value := valueFn()
		if p.failed() {
			return nil
		}
		return &ast.FieldPredicate{
			FieldTok: fieldTok.Kind,
			Op:       &opTok,
			Value:    &value,
			SpanVal:  diagnostic.Span{Start: fieldTok.Span.Start, End: value.SpanVal.End},
		}
	}

	start := p.curToken.Span
	p.nextToken()
	var alternatives ast.Expr
	for {
		value := valueFn()
		if p.failed() {
			return nil
		}
		pred := &ast.FieldPredicate{
			FieldTok: fieldTok.Kind,
			Op:       &opTok,
			Value:    &value,
			SpanVal:  diagnostic.Span{Start: fieldTok.Span.Start, End: value.SpanVal.End},
		}
		if alternatives == nil {
			alternatives = pred
		} else {
			alternatives = &ast.LogicalOr{Left: alternatives, Right: pred, SpanVal: diagnostic.Span{Start: alternatives.Span().Start, End: pred.Span().End}}
		}
		if p.curToken.Kind != token.OR {
			break
		}
		p.nextToken()
	}
	closeTok, ok := p.expect(token.RPAREN, "')'")
	if !ok {
		return nil
	}
	return &ast.Group{Child: alternatives, SpanVal: diagnostic.Span{Start: start.Start, End: closeTok.Span.End}}
}

// parseRangeablePredicate handles "start"/"end": either a BinOp
// followed by a value, or a Time-to-Time range.
func (p *Parser) parseRangeablePredicate(fieldTok token.Token) ast.Expr {
	if token.IsBinOperator(p.curToken.Kind) {
		return p.parseBinOpPredicate(fieldTok, p.parseGeneralValue)
	}

	rangeStart, ok := p.parseTimeLiteralStrict()
	if !ok {
		p.errorf(p.curToken.Span, "a comparison or a time value", p.curToken.Kind.String())
		return nil
	}
	if _, ok := p.expect(token.TO, "'to'"); !ok {
		return nil
	}
	rangeEnd, ok := p.parseTimeLiteralStrict()
	if !ok {
		p.errorf(p.curToken.Span, "a time value", p.curToken.Kind.String())
		return nil
	}
	value := ast.Value{
		Kind:       ast.ValueTimeRange,
		RangeStart: rangeStart.Time,
		RangeEnd:   rangeEnd.Time,
		SpanVal:    diagnostic.Span{Start: rangeStart.SpanVal.Start, End: rangeEnd.SpanVal.End},
	}
	return &ast.FieldPredicate{
		FieldTok: fieldTok.Kind,
		Value:    &value,
		SpanVal:  diagnostic.Span{Start: fieldTok.Span.Start, End: value.SpanVal.End},
	}
}

// parseFullPredicate handles the bare-or-conditioned "full" shape,
// structurally identical to DayAtom.
func (p *Parser) parseFullPredicate(fieldTok token.Token) ast.Expr {
	if !token.IsConditionOperator(p.curToken.Kind) && !token.IsBinOperator(p.curToken.Kind) {
		return &ast.FieldPredicate{FieldTok: fieldTok.Kind, SpanVal: fieldTok.Span}
	}
	opTok := p.curToken
	p.nextToken()
	value := p.parseGeneralValue()
	if p.failed() {
		return nil
	}
	return &ast.FieldPredicate{
		FieldTok: fieldTok.Kind,
		Op:       &opTok,
		Value:    &value,
		SpanVal:  diagnostic.Span{Start: fieldTok.Span.Start, End: value.SpanVal.End},
	}
}

// parseGeneralValue accepts any literal the lexer can produce as a
// predicate value (STRING, IDENTIFIER, INTEGER, TIME, TRUE, FALSE).
// Whether the literal's kind actually fits the field's type domain
// (e.g. a time where an integer is required) is a semantic concern,
// not a syntactic one. The parser only builds shape.
func (p *Parser) parseGeneralValue() ast.Value {
	tok := p.curToken
	switch tok.Kind {
	case token.STRING:
		p.nextToken()
		return ast.Value{Kind: ast.ValueString, Str: unquote(tok.Lexeme), SpanVal: tok.Span}
	case token.IDENTIFIER:
		p.nextToken()
		return ast.Value{Kind: ast.ValueIdentifier, Ident: tok.Lexeme, SpanVal: tok.Span}
	case token.INTEGER:
		p.nextToken()
		n := parseDecimal(tok.Lexeme)
		return ast.Value{Kind: ast.ValueInteger, Int: n, SpanVal: tok.Span}
	case token.TIME:
		v, _ := p.parseTimeLiteralStrict()
		return v
	case token.TRUE:
		p.nextToken()
		return ast.Value{Kind: ast.ValueIdentifier, Ident: "true", SpanVal: tok.Span}
	case token.FALSE:
		p.nextToken()
		return ast.Value{Kind: ast.ValueIdentifier, Ident: "false", SpanVal: tok.Span}
	default:
		p.errorf(tok.Span, "a value (string, identifier, number, time, true, or false)", tok.Kind.String())
		return ast.Value{SpanVal: tok.Span}
	}
}

// parseTimeLiteralStrict requires exactly a TIME token; used for the
// "start"/"end" range shape, which is only ever spelled with two
// literal time values around "to".
func (p *Parser) parseTimeLiteralStrict() (ast.Value, bool) {
	tok := p.curToken
	if tok.Kind != token.TIME {
		return ast.Value{}, false
	}
	p.nextToken()
	hour, minute, ok := lexer.ParseTimeLexeme(tok.Lexeme)
	if !ok {
		p.errorf(tok.Span, "a valid time literal", tok.Lexeme)
		return ast.Value{}, false
	}
	return ast.Value{
		Kind:    ast.ValueTime,
		Time:    ast.TimeLiteral{Hour: hour, Minute: minute, Lexeme: tok.Lexeme},
		SpanVal: tok.Span,
	}, true
}

func unquote(lexeme string) string {
	s := lexeme
	if len(s) >= 1 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) >= 1 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	return s
}

func parseDecimal(s string) int64 {
	var n int64
	for i := 0; i < len(s); i++ {
		n = n*10 + int64(s[i]-'0')
	}
	return n
}
