// Package citation defines the entities of the citation domain: structured
// legal references extracted from free text, the citation graph linking
// documents to the authorities they cite, and the per-document citation
// report.
package citation

// Category classifies a legal citation.
type Category string

const (
	CategoryCase           Category = "case_citations"
	CategoryStatute        Category = "statute_citations"
	CategoryConstitutional Category = "constitution_citations"
	CategorySection        Category = "section_citations"
)

// Categories lists all citation categories in their canonical order.  The
// extractor emits every category on every call, empty or not.
func Categories() []Category {
	return []Category{CategoryCase, CategoryStatute, CategoryConstitutional, CategorySection}
}

// Citation is a single structured legal reference.  Identity is the pair
// (Category, Text); Text is the matched string verbatim since downstream
// graph keys embed it.
type Citation struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Key returns the graph node key "category:text".
func (c Citation) Key() string {
	return string(c.Category) + ":" + c.Text
}

// NodeType distinguishes the two node kinds in a citation graph.
type NodeType string

const (
	NodeDocument NodeType = "document"
	NodeCitation NodeType = "citation"
)

// Node is a vertex in the citation graph.  Document nodes are keyed by
// filename (falling back to document ID); citation nodes by Citation.Key.
type Node struct {
	Key  string   `json:"key"`
	Type NodeType `json:"type"`

	// Category is set for citation nodes only.
	Category Category `json:"category,omitempty"`
}

// Edge is a directed edge in the citation graph.  A cites edge runs from a
// document node to a citation node with SharedKey empty.  A co-citation
// edge runs between two document nodes and carries the shared citation key
// that produced it; a pair sharing several citations carries one edge per
// shared key, so parallel edges are expected and preserved.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	SharedKey string `json:"shared,omitempty"`
}

// Graph is a directed citation graph over a batch of documents.  It is a
// plain value produced in a single pass and never mutated afterwards.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeCount returns the number of nodes of the given type.
func (g *Graph) NodeCount(t NodeType) int {
	n := 0
	for _, node := range g.Nodes {
		if node.Type == t {
			n++
		}
	}
	return n
}

// CoCitationEdges returns only the document-to-document edges.
func (g *Graph) CoCitationEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.SharedKey != "" {
			out = append(out, e)
		}
	}
	return out
}

// RankedCitation is a citation with its occurrence count across pattern
// matches, used in citation reports.
type RankedCitation struct {
	Citation Citation `json:"citation"`
	Count    int      `json:"count"`
}

// Report summarises the citations of a single document.
type Report struct {
	Counts       map[Category]int      `json:"citation_counts"`
	Total        int                   `json:"total_citations"`
	TopCitations []RankedCitation      `json:"top_citations"`
	All          map[Category][]string `json:"all_citations"`
}

// DocumentInput is the unit consumed by the graph builder: an identifier,
// the raw text, and loader-supplied metadata.  The builder never performs
// I/O itself.
type DocumentInput struct {
	ID       string
	Text     string
	Filename string
}

// Name returns the node key for the document: filename when present,
// otherwise the ID.
func (d DocumentInput) Name() string {
	if d.Filename != "" {
		return d.Filename
	}
	return d.ID
}
