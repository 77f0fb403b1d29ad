package citex

import (
	"github.com/lexatlas/lexatlas/internal/domain/citation"
)

// GraphBuilder assembles a citation network from a document collection.
type GraphBuilder struct {
	extractor *Extractor
}

// NewGraphBuilder returns a builder using the given extractor, or a
// default one when nil.
func NewGraphBuilder(extractor *Extractor) *GraphBuilder {
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &GraphBuilder{extractor: extractor}
}

// Build constructs the citation graph over docs.  Each document becomes a
// node named after its filename (falling back to its id), each distinct
// citation becomes a node keyed "category:text", and a cites edge links a
// document to every citation it contains.  Documents that share a citation
// are additionally linked by a co-citation edge per shared citation key,
// once per unordered pair, with the earlier document as the source.
func (b *GraphBuilder) Build(docs []citation.DocumentInput) *citation.Graph {
	g := &citation.Graph{}
	citationNodes := make(map[string]struct{})
	citingDocs := make(map[string][]string)
	var citationOrder []string

	for _, doc := range docs {
		name := doc.Name()
		g.Nodes = append(g.Nodes, citation.Node{Key: name, Type: citation.NodeDocument})

		extracted := b.extractor.Extract(doc.Text)
		for _, cat := range citation.Categories() {
			for _, text := range extracted[cat] {
				c := citation.Citation{Category: cat, Text: text}
				key := c.Key()
				if _, ok := citationNodes[key]; !ok {
					citationNodes[key] = struct{}{}
					citationOrder = append(citationOrder, key)
					g.Nodes = append(g.Nodes, citation.Node{Key: key, Type: citation.NodeCitation, Category: cat})
				}
				g.Edges = append(g.Edges, citation.Edge{From: name, To: key})
				citingDocs[key] = append(citingDocs[key], name)
			}
		}
	}

	for _, key := range citationOrder {
		names := citingDocs[key]
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				g.Edges = append(g.Edges, citation.Edge{From: names[i], To: names[j], SharedKey: key})
			}
		}
	}

	return g
}
