// Package classql wires the four compiler stages (lexer, parser,
// semantic analyzer, and code generator) into a single entry point.
//
// Example usage:
//
//	result, diags := classql.Compile(`sub is cs and monday`, nil)
//	if len(diags) > 0 {
//	    // render diags against the source
//	}
//	// use result.SQL and result.Params
package classql

import (
	"time"

	"go.uber.org/zap"

	"github.com/CFdefense/ClassQL/ast"
	"github.com/CFdefense/ClassQL/codegen"
	"github.com/CFdefense/ClassQL/diagnostic"
	"github.com/CFdefense/ClassQL/lexer"
	"github.com/CFdefense/ClassQL/parser"
	"github.com/CFdefense/ClassQL/semantic"
	"github.com/CFdefense/ClassQL/token"
)

// Result is a compiled query: the generated SQL text and its ordered
// bound parameters.
type Result struct {
	SQL    string
	Params []codegen.Value
}

// Re-export types for convenience so callers rarely need to import the
// subpackages directly.
type (
	Token      = token.Token
	Expr       = ast.Expr
	Normalized = ast.NormalizedNode
	Value      = codegen.Value
)

// Compile runs the full pipeline over source: lexing, parsing, semantic
// analysis, and SQL generation, stopping at the first stage that
// reports a diagnostic. log is optional: a nil logger is a no-op, so
// callers outside cmd/classql never need to construct one.
func Compile(source string, log *zap.SugaredLogger) (Result, []diagnostic.Diagnostic) {
	start := time.Now()

	tokens, diags := lexer.Lex(source)
	logStage(log, "lex", len(source), len(tokens), time.Since(start))
	if len(diags) > 0 {
		return Result{}, diags
	}

	stageStart := time.Now()
	tree, diags := parser.Parse(tokens)
	logStage(log, "parse", len(tokens), 1, time.Since(stageStart))
	if len(diags) > 0 {
		return Result{}, diags
	}

	stageStart = time.Now()
	normalized, diags := semantic.Analyze(tree)
	logStage(log, "semantic", 1, 1, time.Since(stageStart))
	if len(diags) > 0 {
		return Result{}, diags
	}

	stageStart = time.Now()
	sql, params := codegen.Generate(normalized)
	logStage(log, "codegen", 1, len(params), time.Since(stageStart))

	return Result{SQL: sql, Params: params}, nil
}

// Tokenize exposes the lexer alone, for callers (cmd/classql's
// "tokenize" subcommand) that only want the raw token stream.
func Tokenize(source string) ([]token.Token, []diagnostic.Diagnostic) {
	return lexer.Lex(source)
}

// Explain runs the pipeline through the parser and semantic analyzer
// only, returning the normalized tree for callers (cmd/classql's
// "explain" subcommand) that want to inspect structure without
// generating SQL.
func Explain(source string) (ast.NormalizedNode, []diagnostic.Diagnostic) {
	tokens, diags := lexer.Lex(source)
	if len(diags) > 0 {
		return nil, diags
	}
	tree, diags := parser.Parse(tokens)
	if len(diags) > 0 {
		return nil, diags
	}
	return semantic.Analyze(tree)
}

func logStage(log *zap.SugaredLogger, stage string, inputSize, outputSize int, elapsed time.Duration) {
	if log == nil {
		return
	}
	log.Debugw("compiler stage",
		"stage", stage,
		"input_size", inputSize,
		"output_size", outputSize,
		"elapsed", elapsed,
	)
}
