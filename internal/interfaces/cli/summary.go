package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexatlas/lexatlas/internal/intelligence/sections"
)

func newSummaryCmd() *cobra.Command {
	var sectionName string

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Summarize a document, or extract one named section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}

			extractor := sections.NewExtractor()
			if sectionName != "" {
				body, ok := extractor.Extract(text, sectionName)
				if !ok {
					return fmt.Errorf("section %q not found in %s", sectionName, args[0])
				}
				return printJSON(cmd, map[string]string{
					"section": sectionName,
					"text":    body,
				})
			}
			return printJSON(cmd, extractor.Summarize(text))
		},
	}

	cmd.Flags().StringVar(&sectionName, "section", "", "extract only the named section")
	return cmd
}
