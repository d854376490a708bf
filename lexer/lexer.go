// Package lexer implements the ClassQL lexical scanner:
// a longest-match cursor over the source text, applying a fixed
// priority order of rules from the current position after skipping
// inter-token whitespace.
package lexer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/CFdefense/ClassQL/diagnostic"
	"github.com/CFdefense/ClassQL/token"
)

// Lexer scans a source string into a token stream, accumulating
// lexical diagnostics instead of stopping at the first one.
type Lexer struct {
	input string
	pos   int // current byte offset into input
	diags []diagnostic.Diagnostic
}

// New creates a Lexer over input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex tokenizes source in one call and returns the token stream plus
// any lexical diagnostics. If diagnostics is non-empty the caller
// must treat compilation as failed once lexing
// completes; Lex itself always runs to the end of input.
func Lex(source string) ([]token.Token, []diagnostic.Diagnostic) {
	l := New(source)
	var tokens []token.Token
	for {
		tok, ok := l.next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, l.diags
}

var multiWordByLength = sortedMultiWordKeywords()

func sortedMultiWordKeywords() []struct {
	Words []string
	Kind  token.Kind
} {
	entries := make([]struct {
		Words []string
		Kind  token.Kind
	}, len(token.MultiWordKeywords))
	copy(entries, token.MultiWordKeywords)
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Words) > len(entries[j].Words)
	})
	return entries
}

var (
	emailRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*@[A-Za-z0-9_]*\.[A-Za-z0-9_.]*`)
	timeRe  = regexp.MustCompile(`(?i)^([0-9]{1,2})(:([0-9]{2}))?[ \t]?(am|pm)\b`)
	alnumRe = regexp.MustCompile(`^[0-9]+[A-Za-z][A-Za-z0-9]*`)
)

// next returns the next token from the input, or ok=false once the
// input is exhausted. Unrecognized bytes are recorded as Lexical
// diagnostics and skipped one character at a time, never surfaced as tokens.
func (l *Lexer) next() (token.Token, bool) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			return token.Token{}, false
		}
		start := l.pos
		if tok, ok := l.scanOne(); ok {
			return tok, true
		}
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		l.diags = append(l.diags, diagnostic.Newf(
			diagnostic.Lexical,
			diagnostic.Span{Start: start, End: start + size},
			"unexpected character %q", r,
		))
		l.pos += size
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			break
		}
		l.pos += size
	}
}

// scanOne tries every lexical rule in priority order at
// the current position and returns the first match.
func (l *Lexer) scanOne() (token.Token, bool) {
	rest := l.input[l.pos:]
	r, _ := utf8.DecodeRuneInString(rest)

	switch {
	case r == '_' || unicode.IsLetter(r):
		if tok, ok := l.scanEmail(); ok {
			return tok, true
		}
		return l.scanWordLike()
	case unicode.IsDigit(r):
		if tok, ok := l.scanTime(); ok {
			return tok, true
		}
		if tok, ok := l.scanAlnumCourseNumber(); ok {
			return tok, true
		}
		return l.scanInteger()
	case r == '"':
		return l.scanString()
	default:
		return l.scanOperator()
	}
}

// scanEmail applies rule 1: an email-like identifier.
func (l *Lexer) scanEmail() (token.Token, bool) {
	loc := emailRe.FindStringIndex(l.input[l.pos:])
	if loc == nil {
		return token.Token{}, false
	}
	start := l.pos
	end := l.pos + loc[1]
	lexeme := l.input[start:end]
	l.pos = end
	return token.Token{Kind: token.IDENTIFIER, Lexeme: lexeme, Span: diagnostic.Span{Start: start, End: end}}, true
}

// isWordChar reports whether r can occur inside an
// [A-Za-z0-9_]-style identifier run.
func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanIdentRun returns the maximal run of [A-Za-z0-9_] starting at
// pos, or ok=false if pos is not the start of such a run.
func (l *Lexer) scanIdentRun(pos int) (word string, end int, ok bool) {
	if pos >= len(l.input) {
		return "", pos, false
	}
	first, _ := utf8.DecodeRuneInString(l.input[pos:])
	if first != '_' && !unicode.IsLetter(first) {
		return "", pos, false
	}
	end = pos
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if !isWordChar(r) {
			break
		}
		end += size
	}
	return l.input[pos:end], end, true
}

// skipInterWordSpace advances past one-or-more spaces/tabs (required
// between the component words of a multi-word keyword) and reports
// whether any whitespace was consumed.
func (l *Lexer) skipInterWordSpace(pos int) (end int, ok bool) {
	end = pos
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if r != ' ' && r != '\t' {
			break
		}
		end += size
	}
	return end, end > pos
}

// matchWordSequence checks whether, starting at pos, the input spells
// out words (case-insensitively, each its own maximal identifier run,
// separated by required inter-word space) and returns the end offset
// of the full match.
func (l *Lexer) matchWordSequence(pos int, words []string) (end int, ok bool) {
	cur := pos
	for i, w := range words {
		if i > 0 {
			next, spaced := l.skipInterWordSpace(cur)
			if !spaced {
				return 0, false
			}
			cur = next
		}
		run, next, ok2 := l.scanIdentRun(cur)
		if !ok2 || strings.ToLower(run) != w {
			return 0, false
		}
		cur = next
	}
	return cur, true
}

// scanWordLike applies rules 2, 3, 4, and 11: multi-word
// operators/keywords, single-word keywords, day-prefix abbreviations,
// and finally a general identifier.
func (l *Lexer) scanWordLike() (token.Token, bool) {
	start := l.pos

	for _, entry := range multiWordByLength {
		if end, ok := l.matchWordSequence(start, entry.Words); ok {
			lexeme := l.input[start:end]
			l.pos = end
			return token.Token{Kind: entry.Kind, Lexeme: lexeme, Span: diagnostic.Span{Start: start, End: end}}, true
		}
	}

	run, end, ok := l.scanIdentRun(start)
	if !ok {
		return token.Token{}, false
	}
	lower := strings.ToLower(run)

	if kind, ok := token.LookupKeyword(lower); ok {
		l.pos = end
		return token.Token{Kind: kind, Lexeme: run, Span: diagnostic.Span{Start: start, End: end}}, true
	}
	if kind, ok := token.LookupDayPrefix(lower); ok {
		l.pos = end
		return token.Token{Kind: kind, Lexeme: run, Span: diagnostic.Span{Start: start, End: end}}, true
	}

	l.pos = end
	return token.Token{Kind: token.IDENTIFIER, Lexeme: run, Span: diagnostic.Span{Start: start, End: end}}, true
}

// scanString applies rule 7. An unterminated string is tolerated: it
// consumes to end-of-input and is still emitted as STRING, to support
// incremental user input in a live-search UI.
func (l *Lexer) scanString() (token.Token, bool) {
	start := l.pos
	l.pos++ // consume opening quote
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if r == '"' {
			l.pos += size
			return token.Token{Kind: token.STRING, Lexeme: l.input[start:l.pos], Span: diagnostic.Span{Start: start, End: l.pos}}, true
		}
		l.pos += size
	}
	return token.Token{Kind: token.STRING, Lexeme: l.input[start:l.pos], Span: diagnostic.Span{Start: start, End: l.pos}}, true
}

// scanTime applies rule 8.
func (l *Lexer) scanTime() (token.Token, bool) {
	loc := timeRe.FindStringSubmatchIndex(l.input[l.pos:])
	if loc == nil {
		return token.Token{}, false
	}
	start := l.pos
	end := l.pos + loc[1]
	lexeme := l.input[start:end]
	l.pos = end
	return token.Token{Kind: token.TIME, Lexeme: lexeme, Span: diagnostic.Span{Start: start, End: end}}, true
}

// scanAlnumCourseNumber applies rule 9: must come before the plain
// integer rule to avoid splitting "424N" into "424" + "N".
func (l *Lexer) scanAlnumCourseNumber() (token.Token, bool) {
	loc := alnumRe.FindStringIndex(l.input[l.pos:])
	if loc == nil {
		return token.Token{}, false
	}
	start := l.pos
	end := l.pos + loc[1]
	lexeme := l.input[start:end]
	l.pos = end
	return token.Token{Kind: token.IDENTIFIER, Lexeme: lexeme, Span: diagnostic.Span{Start: start, End: end}}, true
}

// scanInteger applies rule 10.
func (l *Lexer) scanInteger() (token.Token, bool) {
	start := l.pos
	end := l.pos
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if !unicode.IsDigit(r) {
			break
		}
		end += size
	}
	if end == start {
		return token.Token{}, false
	}
	l.pos = end
	return token.Token{Kind: token.INTEGER, Lexeme: l.input[start:end], Span: diagnostic.Span{Start: start, End: end}}, true
}

// scanOperator applies rules 5 and 6: multi-character then
// single-character operators and delimiters.
func (l *Lexer) scanOperator() (token.Token, bool) {
	start := l.pos
	rest := l.input[l.pos:]

	twoChar := map[string]token.Kind{"!=": token.NE, "<=": token.LE, ">=": token.GE}
	if len(rest) >= 2 {
		if kind, ok := twoChar[rest[:2]]; ok {
			l.pos += 2
			return token.Token{Kind: kind, Lexeme: rest[:2], Span: diagnostic.Span{Start: start, End: l.pos}}, true
		}
	}

	oneChar := map[byte]token.Kind{
		'=': token.EQ, '<': token.LT, '>': token.GT, '!': token.BANG,
		'(': token.LPAREN, ')': token.RPAREN, ',': token.COMMA,
	}
	if len(rest) >= 1 {
		if kind, ok := oneChar[rest[0]]; ok {
			l.pos++
			return token.Token{Kind: kind, Lexeme: rest[:1], Span: diagnostic.Span{Start: start, End: l.pos}}, true
		}
	}

	return token.Token{}, false
}

// ParseTimeLexeme converts a TIME token's lexeme (e.g. "2:30pm", "9am")
// into an (hour, minute) pair in 24-hour form: 12am = hour 0, 12pm =
// hour 12. It is exported for the parser, which builds ast.TimeLiteral
// values from TIME tokens.
func ParseTimeLexeme(lexeme string) (hour, minute int, ok bool) {
	loc := timeRe.FindStringSubmatchIndex(lexeme)
	if loc == nil || loc[0] != 0 {
		return 0, 0, false
	}
	groups := timeRe.FindStringSubmatch(lexeme)
	h, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, 0, false
	}
	m := 0
	if groups[3] != "" {
		m, err = strconv.Atoi(groups[3])
		if err != nil {
			return 0, 0, false
		}
	}
	meridiem := strings.ToLower(groups[4])
	if h < 1 || h > 12 || m < 0 || m > 59 {
		return 0, 0, false
	}
	switch meridiem {
	case "am":
		if h == 12 {
			h = 0
		}
	case "pm":
		if h != 12 {
			h += 12
		}
	}
	return h, m, true
}
