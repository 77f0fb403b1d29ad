package neo4j

import (
	"context"

	"github.com/lexatlas/lexatlas/internal/domain/citation"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
)

type citationGraphRepo struct {
	driver *Driver
	log    logging.Logger
}

// NewCitationGraphRepo returns the Neo4j-backed citation graph store.
func NewCitationGraphRepo(d *Driver, log logging.Logger) citation.GraphRepository {
	return &citationGraphRepo{driver: d, log: log}
}

func (r *citationGraphRepo) SaveGraph(ctx context.Context, g *citation.Graph) error {
	var docNodes, citNodes []map[string]interface{}
	for _, n := range g.Nodes {
		switch n.Type {
		case citation.NodeDocument:
			docNodes = append(docNodes, map[string]interface{}{"key": n.Key})
		case citation.NodeCitation:
			citNodes = append(citNodes, map[string]interface{}{
				"key":      n.Key,
				"category": string(n.Category),
			})
		}
	}

	var cites, coCited []map[string]interface{}
	for _, e := range g.Edges {
		if e.SharedKey == "" {
			cites = append(cites, map[string]interface{}{"from": e.From, "to": e.To})
			continue
		}
		coCited = append(coCited, map[string]interface{}{
			"from":   e.From,
			"to":     e.To,
			"shared": e.SharedKey,
		})
	}

	_, err := r.driver.ExecuteWrite(ctx, func(tx Transaction) (interface{}, error) {
		if _, err := tx.Run(ctx, `
			UNWIND $nodes AS n
			MERGE (:Document {key: n.key})
		`, map[string]interface{}{"nodes": docNodes}); err != nil {
			return nil, err
		}

		if _, err := tx.Run(ctx, `
			UNWIND $nodes AS n
			MERGE (c:Citation {key: n.key})
			ON CREATE SET c.category = n.category
		`, map[string]interface{}{"nodes": citNodes}); err != nil {
			return nil, err
		}

		if _, err := tx.Run(ctx, `
			UNWIND $edges AS e
			MATCH (d:Document {key: e.from}), (c:Citation {key: e.to})
			MERGE (d)-[:CITES]->(c)
		`, map[string]interface{}{"edges": cites}); err != nil {
			return nil, err
		}

		// One CO_CITED relationship per (pair, shared key): reruns stay
		// idempotent while parallel edges for distinct keys survive.
		if _, err := tx.Run(ctx, `
			UNWIND $edges AS e
			MATCH (a:Document {key: e.from}), (b:Document {key: e.to})
			MERGE (a)-[:CO_CITED {shared: e.shared}]->(b)
		`, map[string]interface{}{"edges": coCited}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	r.log.Info("citation graph saved",
		logging.Int("documents", len(docNodes)),
		logging.Int("citations", len(citNodes)),
		logging.Int("cites_edges", len(cites)),
		logging.Int("co_citation_edges", len(coCited)),
	)
	return nil
}

func (r *citationGraphRepo) DocumentCitations(ctx context.Context, documentName string) ([]citation.Citation, error) {
	result, err := r.driver.ExecuteRead(ctx, func(tx Transaction) (interface{}, error) {
		res, err := tx.Run(ctx, `
			MATCH (:Document {key: $key})-[:CITES]->(c:Citation)
			RETURN c.key AS key, c.category AS category
			ORDER BY key
		`, map[string]interface{}{"key": documentName})
		if err != nil {
			return nil, err
		}

		var out []citation.Citation
		for res.Next(ctx) {
			record := res.Record()
			key, _ := record.Get("key")
			category, _ := record.Get("category")
			cat, _ := category.(string)
			full, _ := key.(string)
			out = append(out, citation.Citation{
				Category: citation.Category(cat),
				Text:     trimCategoryPrefix(full, cat),
			})
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]citation.Citation), nil
}

func (r *citationGraphRepo) CoCitedDocuments(ctx context.Context, documentName string) (map[string]int, error) {
	result, err := r.driver.ExecuteRead(ctx, func(tx Transaction) (interface{}, error) {
		res, err := tx.Run(ctx, `
			MATCH (d:Document {key: $key})-[e:CO_CITED]-(other:Document)
			RETURN other.key AS key, count(DISTINCT e.shared) AS shared
		`, map[string]interface{}{"key": documentName})
		if err != nil {
			return nil, err
		}

		out := map[string]int{}
		for res.Next(ctx) {
			record := res.Record()
			key, _ := record.Get("key")
			shared, _ := record.Get("shared")
			name, _ := key.(string)
			n, _ := shared.(int64)
			out[name] = int(n)
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]int), nil
}

func (r *citationGraphRepo) TopCited(ctx context.Context, n int) ([]citation.RankedCitation, error) {
	result, err := r.driver.ExecuteRead(ctx, func(tx Transaction) (interface{}, error) {
		res, err := tx.Run(ctx, `
			MATCH (:Document)-[:CITES]->(c:Citation)
			RETURN c.key AS key, c.category AS category, count(*) AS citing
			ORDER BY citing DESC, key
			LIMIT $limit
		`, map[string]interface{}{"limit": n})
		if err != nil {
			return nil, err
		}

		var out []citation.RankedCitation
		for res.Next(ctx) {
			record := res.Record()
			key, _ := record.Get("key")
			category, _ := record.Get("category")
			citing, _ := record.Get("citing")
			cat, _ := category.(string)
			full, _ := key.(string)
			count, _ := citing.(int64)
			out = append(out, citation.RankedCitation{
				Citation: citation.Citation{
					Category: citation.Category(cat),
					Text:     trimCategoryPrefix(full, cat),
				},
				Count: int(count),
			})
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]citation.RankedCitation), nil
}

func (r *citationGraphRepo) Clear(ctx context.Context) error {
	_, err := r.driver.ExecuteWrite(ctx, func(tx Transaction) (interface{}, error) {
		_, err := tx.Run(ctx, `MATCH (n) WHERE n:Document OR n:Citation DETACH DELETE n`, nil)
		return nil, err
	})
	return err
}

// trimCategoryPrefix strips the "category:" prefix from a citation node
// key, recovering the citation text.
func trimCategoryPrefix(key, category string) string {
	prefix := category + ":"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}
