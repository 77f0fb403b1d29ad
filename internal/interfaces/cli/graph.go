package cli

import (
	"github.com/spf13/cobra"

	"github.com/lexatlas/lexatlas/internal/domain/citation"
	"github.com/lexatlas/lexatlas/internal/intelligence/citex"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file>...",
		Short: "Build a citation graph over local documents",
		Long: `Build the citation network for the given files: a node per
document and per distinct citation, cites edges, and a co-citation edge
for every authority a pair of documents shares.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([]citation.DocumentInput, 0, len(args))
			for _, path := range args {
				text, err := readDocument(path)
				if err != nil {
					return err
				}
				docs = append(docs, citation.DocumentInput{ID: path, Text: text, Filename: path})
			}

			g := citex.NewGraphBuilder(citex.NewExtractor()).Build(docs)
			out := struct {
				Documents  int             `json:"documents"`
				Citations  int             `json:"citations"`
				Edges      int             `json:"edges"`
				CoCitation int             `json:"co_citation_edges"`
				Graph      *citation.Graph `json:"graph"`
			}{
				Documents:  g.NodeCount(citation.NodeDocument),
				Citations:  g.NodeCount(citation.NodeCitation),
				Edges:      len(g.Edges),
				CoCitation: len(g.CoCitationEdges()),
				Graph:      g,
			}
			return printJSON(cmd, out)
		},
	}
	return cmd
}
