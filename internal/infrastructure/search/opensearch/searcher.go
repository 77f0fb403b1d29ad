package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const defaultSearchSize = 10

// SearchRequest is a full-text query over indexed documents.
type SearchRequest struct {
	Query   string
	DocType string
	Size    int
}

// SearchHit is one matching document with highlighted fragments.
type SearchHit struct {
	DocumentID string   `json:"document_id"`
	Filename   string   `json:"filename"`
	DocType    string   `json:"doc_type"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// SearchResult carries the hits and the total match count.
type SearchResult struct {
	Total int64       `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// Searcher runs full-text queries against the document index.
type Searcher struct {
	client *Client
	logger logging.Logger
}

// NewSearcher creates a Searcher over an established client.
func NewSearcher(c *Client, log logging.Logger) *Searcher {
	return &Searcher{client: c, logger: log}
}

// buildQuery assembles a match query over content with optional doc_type
// filtering and highlight fragments for the UI.
func buildQuery(req SearchRequest) map[string]interface{} {
	size := req.Size
	if size <= 0 {
		size = defaultSearchSize
	}

	must := []interface{}{
		map[string]interface{}{
			"match": map[string]interface{}{
				"content": map[string]interface{}{
					"query":    req.Query,
					"operator": "or",
				},
			},
		},
	}
	boolQuery := map[string]interface{}{"must": must}
	if req.DocType != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"term": map[string]interface{}{"doc_type": req.DocType},
			},
		}
	}

	return map[string]interface{}{
		"size":    size,
		"_source": []string{"document_id", "filename", "doc_type"},
		"query":   map[string]interface{}{"bool": boolQuery},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"content": map[string]interface{}{
					"fragment_size":       150,
					"number_of_fragments": 3,
				},
			},
		},
	}
}

// searchResponse mirrors the subset of the OpenSearch response we consume.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Score     float64         `json:"_score"`
			Source    IndexedDocument `json:"_source"`
			Highlight struct {
				Content []string `json:"content"`
			} `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a full-text query.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New(errors.ErrCodeValidation, "search query must not be empty")
	}

	body, err := json.Marshal(buildQuery(req))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode search query")
	}

	res, err := opensearchapi.SearchRequest{
		Index: []string{s.client.IndexName()},
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client.os)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "search request failed")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.New(errors.ErrCodeSearchFailed, "search returned "+res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	result := &SearchResult{
		Total: parsed.Hits.Total.Value,
		Hits:  make([]SearchHit, 0, len(parsed.Hits.Hits)),
	}
	for _, h := range parsed.Hits.Hits {
		result.Hits = append(result.Hits, SearchHit{
			DocumentID: h.Source.DocumentID,
			Filename:   h.Source.Filename,
			DocType:    h.Source.DocType,
			Score:      h.Score,
			Highlights: h.Highlight.Content,
		})
	}

	s.logger.Debug("full-text search executed",
		logging.String("query", req.Query),
		logging.Int64("total", result.Total),
	)
	return result, nil
}
