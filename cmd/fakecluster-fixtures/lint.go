package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otterscale/fakecluster/internal/fixtures"
)

// runLint loads every fixture document under dir, the same way
// Builder.LoadFixtures does, and reports a summary (or nothing, if quiet)
// on success. A load error is returned as-is so cobra prints it and the
// process exits non-zero.
func runLint(cmd *cobra.Command, dir string, quiet bool) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("fixtures lint: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("fixtures lint: %s is not a directory", dir)
	}

	docs, err := fixtures.LoadDir(os.DirFS(dir), ".")
	if err != nil {
		return err
	}

	if quiet {
		return nil
	}

	byKind := make(map[string]int)
	for _, doc := range docs {
		byKind[doc.Object.GetKind()]++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d fixture document(s) parsed from %s\n", len(docs), dir)
	for kind, count := range byKind {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-30s %d\n", kind, count)
	}
	return nil
}
