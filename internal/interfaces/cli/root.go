// Package cli implements the lexatlas command line tool.  The commands
// run the analysis engines locally over files on disk, without any
// backing services, which makes them useful for spot checks and scripted
// pipelines.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the lexatlas command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lexatlas",
		Short:         "Legal document analysis from the command line",
		Long:          "Analyze contracts and legal documents: risk scoring, section extraction, citation analysis, and document comparison.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAnalyzeCmd(),
		newSummaryCmd(),
		newCitationsCmd(),
		newGraphCmd(),
		newCompareCmd(),
		newClassifyCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lexatlas:", err)
		os.Exit(1)
	}
}

// readDocument loads one document argument from disk.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s is empty", path)
	}
	return string(data), nil
}

// printJSON renders a result as indented JSON on the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
