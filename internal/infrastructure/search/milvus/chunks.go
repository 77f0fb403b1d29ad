package milvus

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// Field names of the chunk collection.
const (
	fieldChunkID    = "chunk_id"
	fieldDocumentID = "document_id"
	fieldSeq        = "seq"
	fieldContent    = "content"
	fieldSections   = "sections"
	fieldEmbedding  = "embedding"
)

const (
	chunkCollectionSuffix = "chunks"
	indexNList            = 1024
	searchNProbe          = 16
	maxContentLength      = 65535
	maxIDLength           = 64
	maxSectionsLength     = 2048
)

// ChunkVector is one embedded chunk ready for insertion.
type ChunkVector struct {
	ChunkID    string
	DocumentID string
	Seq        int64
	Content    string
	Sections   []string
	Embedding  []float32
}

// ChunkHit is one retrieved chunk with its similarity score.
type ChunkHit struct {
	ChunkID    string
	DocumentID string
	Seq        int64
	Content    string
	Sections   []string
	Score      float32
}

// ChunkStore manages the chunk collection.
type ChunkStore struct {
	client *Client
	logger logging.Logger
}

// NewChunkStore creates a ChunkStore over an established client.
func NewChunkStore(c *Client, log logging.Logger) *ChunkStore {
	return &ChunkStore{client: c, logger: log}
}

// CollectionName returns the prefixed chunk collection name.
func (s *ChunkStore) CollectionName() string {
	return s.client.cfg.CollectionPrefix + chunkCollectionSuffix
}

// EnsureCollection creates the chunk collection, its vector index, and
// loads it.  Safe to call on every startup.
func (s *ChunkStore) EnsureCollection(ctx context.Context) error {
	mc := s.client.Raw()
	name := s.CollectionName()

	has, err := mc.HasCollection(ctx, name)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to check collection")
	}
	if !has {
		schema := &entity.Schema{
			CollectionName: name,
			Description:    "embedded legal document chunks",
			Fields: []*entity.Field{
				{
					Name:       fieldChunkID,
					DataType:   entity.FieldTypeVarChar,
					PrimaryKey: true,
					TypeParams: map[string]string{"max_length": strconv.Itoa(maxIDLength)},
				},
				{
					Name:       fieldDocumentID,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": strconv.Itoa(maxIDLength)},
				},
				{
					Name:     fieldSeq,
					DataType: entity.FieldTypeInt64,
				},
				{
					Name:       fieldContent,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": strconv.Itoa(maxContentLength)},
				},
				{
					Name:       fieldSections,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": strconv.Itoa(maxSectionsLength)},
				},
				{
					Name:       fieldEmbedding,
					DataType:   entity.FieldTypeFloatVector,
					TypeParams: map[string]string{"dim": strconv.Itoa(s.client.cfg.EmbeddingDim)},
				},
			},
		}
		if err := mc.CreateCollection(ctx, schema, 2); err != nil {
			return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to create chunk collection")
		}

		idx, err := entity.NewIndexIvfFlat(entity.COSINE, indexNList)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to build index definition")
		}
		if err := mc.CreateIndex(ctx, name, fieldEmbedding, idx, false); err != nil {
			return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to create vector index")
		}
		s.logger.Info("chunk collection created", logging.String("collection", name))
	}

	if err := mc.LoadCollection(ctx, name, false); err != nil {
		return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to load chunk collection")
	}
	return nil
}

// Insert writes a batch of embedded chunks.
func (s *ChunkStore) Insert(ctx context.Context, vectors []ChunkVector) error {
	if len(vectors) == 0 {
		return nil
	}
	dim := s.client.cfg.EmbeddingDim
	for _, v := range vectors {
		if len(v.Embedding) != dim {
			return errors.New(errors.ErrCodeEmbeddingFailed,
				fmt.Sprintf("embedding dimension %d does not match collection dimension %d", len(v.Embedding), dim))
		}
	}

	ids := make([]string, len(vectors))
	docIDs := make([]string, len(vectors))
	seqs := make([]int64, len(vectors))
	contents := make([]string, len(vectors))
	sections := make([]string, len(vectors))
	embeddings := make([][]float32, len(vectors))
	for i, v := range vectors {
		ids[i] = v.ChunkID
		docIDs[i] = v.DocumentID
		seqs[i] = v.Seq
		contents[i] = truncateContent(v.Content)
		sections[i] = encodeSections(v.Sections)
		embeddings[i] = v.Embedding
	}

	mc := s.client.Raw()
	name := s.CollectionName()
	_, err := mc.Insert(ctx, name, "",
		entity.NewColumnVarChar(fieldChunkID, ids),
		entity.NewColumnVarChar(fieldDocumentID, docIDs),
		entity.NewColumnInt64(fieldSeq, seqs),
		entity.NewColumnVarChar(fieldContent, contents),
		entity.NewColumnVarChar(fieldSections, sections),
		entity.NewColumnFloatVector(fieldEmbedding, dim, embeddings),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to insert chunk vectors")
	}
	if err := mc.Flush(ctx, name, false); err != nil {
		return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to flush chunk collection")
	}

	s.logger.Debug("chunk vectors inserted", logging.Int("count", len(vectors)))
	return nil
}

// Search returns the topK chunks nearest to the question embedding.  The
// filter is a Milvus boolean expression; pass "" for no filter.
func (s *ChunkStore) Search(ctx context.Context, embedding []float32, topK int, filter string) ([]ChunkHit, error) {
	if len(embedding) != s.client.cfg.EmbeddingDim {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "query embedding has wrong dimension")
	}
	if topK <= 0 {
		topK = s.client.cfg.DefaultTopK
	}

	sp, err := entity.NewIndexIvfFlatSearchParam(searchNProbe)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to build search params")
	}

	results, err := s.client.Raw().Search(ctx,
		s.CollectionName(),
		nil,
		filter,
		[]string{fieldDocumentID, fieldSeq, fieldContent, fieldSections},
		[]entity.Vector{entity.FloatVector(embedding)},
		fieldEmbedding,
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "vector search failed")
	}

	hits := make([]ChunkHit, 0, topK)
	for _, res := range results {
		for i := 0; i < res.ResultCount; i++ {
			hit := ChunkHit{Score: res.Scores[i]}
			if id, err := res.IDs.GetAsString(i); err == nil {
				hit.ChunkID = id
			}
			for _, col := range res.Fields {
				switch col.Name() {
				case fieldDocumentID:
					hit.DocumentID, _ = col.GetAsString(i)
				case fieldSeq:
					hit.Seq, _ = col.GetAsInt64(i)
				case fieldContent:
					hit.Content, _ = col.GetAsString(i)
				case fieldSections:
					raw, _ := col.GetAsString(i)
					hit.Sections = decodeSections(raw)
				}
			}
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

// DocumentFilter returns the boolean expression restricting a search or
// delete to one document's chunks.
func DocumentFilter(documentID string) string {
	return fmt.Sprintf("%s == %q", fieldDocumentID, documentID)
}

// DeleteByDocument removes all chunk vectors of one document.
func (s *ChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	expr := DocumentFilter(documentID)
	if err := s.client.Raw().Delete(ctx, s.CollectionName(), "", expr); err != nil {
		return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to delete chunk vectors")
	}
	return nil
}

func truncateContent(s string) string {
	if len(s) <= maxContentLength {
		return s
	}
	return s[:maxContentLength]
}

// Sections are stored as a pipe-separated varchar because the collection
// predates array field support in the deployed Milvus version.
func encodeSections(sections []string) string {
	joined := strings.Join(sections, "|")
	if len(joined) > maxSectionsLength {
		joined = joined[:maxSectionsLength]
	}
	return joined
}

func decodeSections(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "|")
}
