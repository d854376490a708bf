package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CFdefense/ClassQL"
	"github.com/CFdefense/ClassQL/ast"
	"github.com/CFdefense/ClassQL/internal/report"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <query>",
		Short: "print the normalized AST as an indented tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			tree, diags := classql.Explain(source)
			if len(diags) > 0 {
				report.RenderAll(cmd.OutOrStderr(), source, diags)
				return fmt.Errorf("explain failed with %d diagnostic(s)", len(diags))
			}
			fmt.Fprint(cmd.OutOrStdout(), explainTree(tree, 0))
			return nil
		},
	}
}

// explainTree renders a normalized node and its children as an
// indented tree, two spaces per level.
func explainTree(n ast.NormalizedNode, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case nil:
		return indent + "<nil>\n"
	case *ast.NEmpty:
		return indent + "Empty\n"
	case *ast.NAnd:
		return indent + "And\n" + explainTree(v.Left, depth+1) + explainTree(v.Right, depth+1)
	case *ast.NOr:
		return indent + "Or\n" + explainTree(v.Left, depth+1) + explainTree(v.Right, depth+1)
	case *ast.NNot:
		return indent + "Not\n" + explainTree(v.Child, depth+1)
	case *ast.NPredicate:
		op := "?"
		if v.Condition != nil {
			op = string(*v.Condition)
		} else if v.BinOp != nil {
			op = string(*v.BinOp)
		}
		return fmt.Sprintf("%sPredicate %s %s %s\n", indent, v.Field, op, valueString(v.Value))
	default:
		return fmt.Sprintf("%s<unknown %T>\n", indent, n)
	}
}

func valueString(v ast.NormalizedValue) string {
	switch v.Kind {
	case ast.NString:
		return fmt.Sprintf("%q", v.Str)
	case ast.NInteger:
		return fmt.Sprintf("%d", v.Int)
	case ast.NMinutes:
		return fmt.Sprintf("%dmin(%s)", v.Minutes, v.OriginalLexeme)
	case ast.NIdentifier:
		return v.Ident
	default:
		return "?"
	}
}
