package cli

import (
	"github.com/spf13/cobra"

	"github.com/lexatlas/lexatlas/internal/intelligence/risk"
)

func newAnalyzeCmd() *cobra.Command {
	var withSuggestions bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run contract risk analysis over a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}

			result := risk.NewAnalyzer().Analyze(text)
			if !withSuggestions {
				return printJSON(cmd, result)
			}
			return printJSON(cmd, map[string]interface{}{
				"analysis":    result,
				"suggestions": risk.Suggest(result),
			})
		},
	}

	cmd.Flags().BoolVar(&withSuggestions, "suggestions", false, "include improvement suggestions")
	return cmd
}
