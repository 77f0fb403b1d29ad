package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.LLMConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "llama3-70b-8192",
		Timeout: 5 * time.Second,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c, srv
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "The notice period is 30 days (Section 7.1)."}},
			},
		})
	})

	answer, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "What is the notice period?"}})
	require.NoError(t, err)
	assert.Equal(t, "The notice period is 30 days (Section 7.1).", answer)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "llama3-70b-8192", gotReq.Model)
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "q"}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMRequestFailed))
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestCompleteRejectsEmptyMessages(t *testing.T) {
	c, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestEmbedPreservesInputOrder(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		// Return data out of order to verify index-based placement.
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{0.3, 0.4}},
				{"index": 0, "embedding": []float32{0.1, 0.2}},
			},
		})
	})

	out, err := c.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []float32{0.1, 0.2}, out[0])
	assert.Equal(t, []float32{0.3, 0.4}, out[1])
}

func TestEmbedCountMismatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{0.1}},
			},
		})
	})

	_, err := c.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmbeddingFailed))
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.LLMConfig{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}
