package milvus

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

func newTestStore() *ChunkStore {
	c := &Client{cfg: config.MilvusConfig{
		CollectionPrefix: "lexatlas_",
		EmbeddingDim:     4,
		DefaultTopK:      5,
	}}
	return NewChunkStore(c, logging.NewNopLogger())
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "lexatlas_chunks", newTestStore().CollectionName())
}

func TestEncodeDecodeSections(t *testing.T) {
	sections := []string{"2", "7.1", "governing law"}
	encoded := encodeSections(sections)
	assert.Equal(t, "2|7.1|governing law", encoded)
	assert.Equal(t, sections, decodeSections(encoded))

	assert.Nil(t, decodeSections(""))
	assert.Empty(t, encodeSections(nil))
}

func TestEncodeSectionsCapsLength(t *testing.T) {
	long := []string{strings.Repeat("x", maxSectionsLength+100)}
	assert.Len(t, encodeSections(long), maxSectionsLength)
}

func TestInsertRejectsWrongDimension(t *testing.T) {
	s := newTestStore()
	err := s.Insert(context.Background(), []ChunkVector{{
		ChunkID:   "c1",
		Embedding: []float32{0.1, 0.2},
	}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmbeddingFailed))
}

func TestTruncateContent(t *testing.T) {
	short := "a short chunk"
	assert.Equal(t, short, truncateContent(short))
	assert.Len(t, truncateContent(strings.Repeat("y", maxContentLength+1)), maxContentLength)
}
