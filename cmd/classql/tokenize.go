package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CFdefense/ClassQL"
	"github.com/CFdefense/ClassQL/internal/report"
)

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <query>",
		Short: "print the raw token stream for a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			tokens, diags := classql.Tokenize(source)
			if len(diags) > 0 {
				report.RenderAll(cmd.OutOrStderr(), source, diags)
				return fmt.Errorf("tokenization failed with %d diagnostic(s)", len(diags))
			}

			if flagOutputFormat == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tokens)
			}

			for _, tok := range tokens {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-20q [%d:%d]\n", tok.Kind, tok.Lexeme, tok.Span.Start, tok.Span.End)
			}
			return nil
		},
	}
}
