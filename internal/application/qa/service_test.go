package qa

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/redis"
	"github.com/lexatlas/lexatlas/internal/infrastructure/llm"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/milvus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/opensearch"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memCache) DeleteByPrefix(_ context.Context, _ string) (int64, error) { return 0, nil }

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeRetriever struct {
	hits       []milvus.ChunkHit
	lastTopK   int
	lastFilter string
}

func (f *fakeRetriever) Search(_ context.Context, _ []float32, topK int, filter string) ([]milvus.ChunkHit, error) {
	f.lastTopK = topK
	f.lastFilter = filter
	return f.hits, nil
}

type fakeCompleter struct {
	calls    int
	answer   string
	lastMsgs []llm.Message
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls++
	f.lastMsgs = messages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeSearcher struct {
	lastReq opensearch.SearchRequest
	result  *opensearch.SearchResult
}

func (f *fakeSearcher) Search(_ context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error) {
	f.lastReq = req
	return f.result, nil
}

type qaFixture struct {
	svc       Service
	embedder  *fakeEmbedder
	retriever *fakeRetriever
	completer *fakeCompleter
	searcher  *fakeSearcher
}

func newFixture(hits []milvus.ChunkHit) *qaFixture {
	f := &qaFixture{
		embedder:  &fakeEmbedder{},
		retriever: &fakeRetriever{hits: hits},
		completer: &fakeCompleter{answer: "Either party may terminate per Section 4."},
		searcher:  &fakeSearcher{result: &opensearch.SearchResult{Total: 1}},
	}
	cfg := config.LLMConfig{RetrievalK: 5}
	f.svc = NewService(f.embedder, f.retriever, f.completer, f.searcher, newMemCache(),
		cfg, 10*time.Minute, prometheus.NewMetrics(), logging.NewNopLogger())
	return f
}

func retrievedChunks() []milvus.ChunkHit {
	return []milvus.ChunkHit{
		{ChunkID: "c1", DocumentID: "d1", Seq: 0, Content: "SECTION 4. TERMINATION\neither party may terminate on notice.", Sections: []string{"4"}, Score: 0.92},
		{ChunkID: "c2", DocumentID: "d1", Seq: 3, Content: "Notice periods run from receipt.", Sections: []string{"4"}, Score: 0.81},
		{ChunkID: "c3", DocumentID: "d1", Seq: 7, Content: strings.Repeat("boilerplate ", 30), Sections: []string{"unknown"}, Score: 0.40},
	}
}

func TestAskAnswersWithCitationsAndSources(t *testing.T) {
	f := newFixture(retrievedChunks())

	ans, err := f.svc.Ask(context.Background(), AskInput{Question: "When can the contract be terminated?"})
	require.NoError(t, err)

	assert.Equal(t, "Either party may terminate per Section 4.", ans.Answer)
	assert.Equal(t, []string{"Section 4"}, ans.Citations)
	require.Len(t, ans.Sources, 3)
	assert.Equal(t, "d1", ans.Sources[0].DocumentID)
	assert.Equal(t, int64(3), ans.Sources[1].Seq)
	assert.LessOrEqual(t, len(ans.Sources[2].Excerpt), sourceExcerptLen)
	assert.False(t, ans.AnsweredAt.IsZero())

	assert.Equal(t, 5, f.retriever.lastTopK)
	assert.Empty(t, f.retriever.lastFilter)

	// The prompt carries the retrieved text and the question.
	require.Len(t, f.completer.lastMsgs, 2)
	assert.Equal(t, llm.RoleSystem, f.completer.lastMsgs[0].Role)
	assert.Contains(t, f.completer.lastMsgs[1].Content, "either party may terminate on notice.")
	assert.Contains(t, f.completer.lastMsgs[1].Content, "When can the contract be terminated?")
}

func TestAskScopedToDocumentFilters(t *testing.T) {
	f := newFixture(retrievedChunks())
	docID := uuid.New()

	_, err := f.svc.Ask(context.Background(), AskInput{Question: "What are the notice terms?", DocumentID: docID})
	require.NoError(t, err)

	assert.Equal(t, milvus.DocumentFilter(docID.String()), f.retriever.lastFilter)
}

func TestAskCachesAnswer(t *testing.T) {
	f := newFixture(retrievedChunks())
	in := AskInput{Question: "When can the contract be terminated?"}

	first, err := f.svc.Ask(context.Background(), in)
	require.NoError(t, err)
	second, err := f.svc.Ask(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, f.completer.calls)
	assert.Equal(t, 1, f.embedder.calls)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Citations, second.Citations)
}

func TestAskDistinctScopesDoNotShareCache(t *testing.T) {
	f := newFixture(retrievedChunks())
	question := "When can the contract be terminated?"

	_, err := f.svc.Ask(context.Background(), AskInput{Question: question})
	require.NoError(t, err)
	_, err = f.svc.Ask(context.Background(), AskInput{Question: question, DocumentID: uuid.New()})
	require.NoError(t, err)

	assert.Equal(t, 2, f.completer.calls)
}

func TestAskRequiresQuestion(t *testing.T) {
	f := newFixture(retrievedChunks())

	_, err := f.svc.Ask(context.Background(), AskInput{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Equal(t, 0, f.embedder.calls)
}

func TestAskNoPassages(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.Ask(context.Background(), AskInput{Question: "Anything about warranties?"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.Equal(t, 0, f.completer.calls)
}

func TestAskEmbeddingFailure(t *testing.T) {
	f := newFixture(retrievedChunks())
	f.embedder.err = errors.New(errors.ErrCodeEmbeddingFailed, "embedding backend unavailable")

	_, err := f.svc.Ask(context.Background(), AskInput{Question: "When can the contract be terminated?"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmbeddingFailed))
	assert.Equal(t, 0, f.completer.calls)
}

func TestAskLLMFailureNotCached(t *testing.T) {
	f := newFixture(retrievedChunks())
	f.completer.err = errors.New(errors.ErrCodeLLMRequestFailed, "model timed out")

	in := AskInput{Question: "When can the contract be terminated?"}
	_, err := f.svc.Ask(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMRequestFailed))

	f.completer.err = nil
	ans, err := f.svc.Ask(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, ans.Answer)
	assert.Equal(t, 2, f.completer.calls)
}

func TestSearchDelegates(t *testing.T) {
	f := newFixture(nil)

	res, err := f.svc.Search(context.Background(), opensearch.SearchRequest{Query: "termination", DocType: "nda"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, "termination", f.searcher.lastReq.Query)
	assert.Equal(t, "nda", f.searcher.lastReq.DocType)
}
