package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CFdefense/ClassQL"
	"github.com/CFdefense/ClassQL/codegen"
	"github.com/CFdefense/ClassQL/internal/obslog"
	"github.com/CFdefense/ClassQL/internal/report"
)

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <query>",
		Short: "compile a query to parameterized SQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			log, err := obslog.New(flagVerbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			result, diags := classql.Compile(source, log)
			if len(diags) > 0 {
				report.RenderAll(cmd.OutOrStderr(), source, diags)
				return fmt.Errorf("compilation failed with %d diagnostic(s)", len(diags))
			}

			return printCompileResult(cmd, result)
		},
	}
}

func printCompileResult(cmd *cobra.Command, result classql.Result) error {
	if flagOutputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			SQL    string          `json:"sql"`
			Params []classql.Value `json:"params"`
		}{SQL: result.SQL, Params: result.Params})
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.SQL)
	if len(result.Params) == 0 {
		return nil
	}
	parts := make([]string, len(result.Params))
	for i, p := range result.Params {
		parts[i] = paramString(p)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "params: [%s]\n", strings.Join(parts, ", "))
	return nil
}

func paramString(v classql.Value) string {
	if v.Kind == codegen.ValueInteger {
		return fmt.Sprintf("%d", v.Int)
	}
	return fmt.Sprintf("%q", v.Str)
}
