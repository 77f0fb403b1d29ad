package citation

import "context"

// GraphRepository persists citation graphs to the graph store and answers
// graph queries.  The neo4j implementation lives under
// internal/infrastructure/database/neo4j/repositories.
type GraphRepository interface {
	// SaveGraph merges the graph's nodes and edges into the store.
	// Saving is idempotent for nodes and cites edges; co-citation edges
	// are merged per (pair, shared key) so multiplicity survives reruns.
	SaveGraph(ctx context.Context, g *Graph) error

	// DocumentCitations returns the citation keys cited by one document.
	DocumentCitations(ctx context.Context, documentName string) ([]Citation, error)

	// CoCitedDocuments returns, for each document co-cited with the given
	// one, the number of distinct shared citation keys.
	CoCitedDocuments(ctx context.Context, documentName string) (map[string]int, error)

	// TopCited returns the most-cited citation keys across all documents,
	// limited to n entries.
	TopCited(ctx context.Context, n int) ([]RankedCitation, error)

	// Clear removes every node and edge.  Used by rebuild operations.
	Clear(ctx context.Context) error
}
