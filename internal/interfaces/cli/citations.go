package cli

import (
	"github.com/spf13/cobra"

	"github.com/lexatlas/lexatlas/internal/domain/citation"
	"github.com/lexatlas/lexatlas/internal/intelligence/citex"
)

func newCitationsCmd() *cobra.Command {
	var (
		asReport bool
		asGraph  bool
	)

	cmd := &cobra.Command{
		Use:   "citations <file>...",
		Short: "Extract legal citations from documents",
		Long: `Extract case, statute, constitutional, and section citations.
With --graph and several files, builds the citation network linking
documents that cite the same authorities.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extractor := citex.NewExtractor()

			if asGraph {
				docs := make([]citation.DocumentInput, 0, len(args))
				for _, path := range args {
					text, err := readDocument(path)
					if err != nil {
						return err
					}
					docs = append(docs, citation.DocumentInput{ID: path, Text: text, Filename: path})
				}
				return printJSON(cmd, citex.NewGraphBuilder(extractor).Build(docs))
			}

			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if asReport {
				return printJSON(cmd, extractor.Report(text))
			}
			return printJSON(cmd, extractor.Extract(text))
		},
	}

	cmd.Flags().BoolVar(&asReport, "report", false, "summarize counts and top citations")
	cmd.Flags().BoolVar(&asGraph, "graph", false, "build a citation graph over the given files")
	return cmd
}
