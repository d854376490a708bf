// Command classql exercises the ClassQL compiler end to end: tokenize,
// explain, and compile subcommands over a query string, with an
// optional .classql.yaml for persistent defaults.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagOutputFormat string // "text" or "json"
	flagVerbose      bool
	flagConfig       string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "classql",
		Short:         "compile natural-language course-catalog queries to SQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default .classql.yaml in working dir or $HOME)")
	root.PersistentFlags().StringVar(&flagOutputFormat, "output", "text", "output format: text or json")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log one structured event per pipeline stage")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newExplainCmd())

	return root
}

// initConfig loads .classql.yaml (working directory, then $HOME),
// overridable by the flags already bound above. Absence of the file is
// not an error: classql runs fine on flags and defaults alone.
func initConfig() error {
	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
	} else {
		viper.SetConfigName(".classql")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}
	viper.SetEnvPrefix("CLASSQL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return nil
		}
		return errors.Wrap(err, "loading .classql.yaml")
	}

	if viper.IsSet("output") && flagOutputFormat == "text" {
		flagOutputFormat = viper.GetString("output")
	}
	if viper.IsSet("verbose") && !flagVerbose {
		flagVerbose = viper.GetBool("verbose")
	}
	return nil
}
