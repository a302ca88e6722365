// Package main is the entry point for fakecluster-fixtures, a small
// helper binary that lints a fixture directory through the same load path
// the test-time builder uses, so a malformed fixture fails a quick local
// command instead of the first test that seeds it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is injected at build time via -ldflags.
var version = "devel"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fakecluster-fixtures",
		Short:         "Lint fixture directories used to seed a fakecluster builder",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newLintCommand())
	return root
}

func newLintCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FAKECLUSTER_FIXTURES")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "lint <dir>",
		Short:   "Parse every fixture document in <dir>, reporting the first error",
		Args:    cobra.ExactArgs(1),
		Example: "fakecluster-fixtures lint ./testdata/fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")
			return runLint(cmd, args[0], quiet)
		},
	}

	cmd.Flags().Bool("quiet", false, "suppress the per-document summary and print only errors")
	if err := v.BindPFlag("quiet", cmd.Flags().Lookup("quiet")); err != nil {
		panic(err)
	}

	return cmd
}
