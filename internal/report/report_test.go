package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CFdefense/ClassQL/diagnostic"
	"github.com/CFdefense/ClassQL/internal/report"
)

func TestRender_IncludesMessageAndSourceLine(t *testing.T) {
	source := `prof $ alan`
	d := diagnostic.Newf(diagnostic.Lexical, diagnostic.Span{Start: 5, End: 6}, "unexpected character %q", '$')

	var buf bytes.Buffer
	report.Render(&buf, source, d)

	out := buf.String()
	assert.Contains(t, out, "unexpected character")
	assert.Contains(t, out, source)
	assert.Contains(t, out, "^")
}

func TestRenderAll_SeparatesMultipleDiagnostics(t *testing.T) {
	source := "a b"
	diags := []diagnostic.Diagnostic{
		diagnostic.New(diagnostic.Lexical, "first", diagnostic.Span{Start: 0, End: 1}),
		diagnostic.New(diagnostic.Lexical, "second", diagnostic.Span{Start: 2, End: 3}),
	}

	var buf bytes.Buffer
	report.RenderAll(&buf, source, diags)

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
}
