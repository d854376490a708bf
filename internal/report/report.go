// Package report renders compiler diagnostics as caret-and-underline
// terminal output, colorizing by diagnostic.Kind.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/CFdefense/ClassQL/diagnostic"
)

var (
	lexSyntaxColor = color.New(color.FgRed, color.Bold)
	semanticColor  = color.New(color.FgYellow, color.Bold)
	caretColor     = color.New(color.FgRed, color.Bold)
	sourceColor    = color.New(color.Faint)
)

// colorFor picks the message color for a diagnostic.Kind: red for
// Lexical/Syntactic, yellow for Semantic.
func colorFor(kind diagnostic.Kind) *color.Color {
	if kind == diagnostic.Semantic {
		return semanticColor
	}
	return lexSyntaxColor
}

// Render writes one diagnostic against source to w: the message line,
// the offending source line, and a caret-and-underline marker under
// the diagnostic's span.
func Render(w io.Writer, source string, d diagnostic.Diagnostic) {
	c := colorFor(d.Kind)
	fmt.Fprintf(w, "%s: %s\n", c.Sprint(d.Kind.String()), d.Message)
	if d.Expected != "" {
		fmt.Fprintf(w, "  expected: %s\n", d.Expected)
	}

	lineStart, lineEnd, lineNo, col := locate(source, d.Span.Start)
	line := source[lineStart:lineEnd]
	fmt.Fprintf(w, "  %d | %s\n", lineNo, sourceColor.Sprint(line))

	width := d.Span.End - d.Span.Start
	if width < 1 {
		width = 1
	}
	gutter := fmt.Sprintf("  %d | ", lineNo)
	marker := strings.Repeat(" ", col) + strings.Repeat("^", width)
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", len(gutter)), caretColor.Sprint(marker))
}

// RenderAll renders every diagnostic in order, separated by a blank line.
func RenderAll(w io.Writer, source string, diags []diagnostic.Diagnostic) {
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		Render(w, source, d)
	}
}

// locate finds the 1-based line number, the byte offsets of that
// line's bounds, and the 0-based column of offset within source.
func locate(source string, offset int) (lineStart, lineEnd, lineNo, col int) {
	lineNo = 1
	lineStart = 0
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			lineNo++
			lineStart = i + 1
		}
	}
	col = offset - lineStart

	lineEnd = len(source)
	if idx := strings.IndexByte(source[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	return lineStart, lineEnd, lineNo, col
}
