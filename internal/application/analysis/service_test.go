package analysis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/config"
	domainanalysis "github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/domain/document"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/redis"
	"github.com/lexatlas/lexatlas/internal/infrastructure/messaging/kafka"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
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

type fakeDocRepo struct {
	docs map[uuid.UUID]*document.Document
}

func (r *fakeDocRepo) Save(_ context.Context, doc *document.Document) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocRepo) FindByID(_ context.Context, id uuid.UUID) (*document.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document not found")
	}
	return doc, nil
}

func (r *fakeDocRepo) List(context.Context, int, int) ([]*document.Document, int64, error) {
	return nil, 0, nil
}

func (r *fakeDocRepo) Delete(context.Context, uuid.UUID) error { return nil }

type fakeReportRepo struct {
	saved []*domainanalysis.Report
}

func (r *fakeReportRepo) Save(_ context.Context, report *domainanalysis.Report) error {
	r.saved = append(r.saved, report)
	return nil
}

func (r *fakeReportRepo) FindByID(context.Context, uuid.UUID) (*domainanalysis.Report, error) {
	return nil, errors.New(errors.ErrCodeReportNotFound, "not found")
}

func (r *fakeReportRepo) FindLatestByDocument(context.Context, uuid.UUID) (*domainanalysis.Report, error) {
	if len(r.saved) == 0 {
		return nil, errors.New(errors.ErrCodeReportNotFound, "not found")
	}
	return r.saved[len(r.saved)-1], nil
}

func (r *fakeReportRepo) ListByDocument(_ context.Context, id uuid.UUID) ([]*domainanalysis.Report, error) {
	var out []*domainanalysis.Report
	for _, rep := range r.saved {
		if rep.DocumentID == id {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *fakeReportRepo) DeleteByDocument(context.Context, uuid.UUID) error { return nil }

type fakePublisher struct {
	topics []string
}

func (p *fakePublisher) Publish(_ context.Context, topic, _ string, _ interface{}) error {
	p.topics = append(p.topics, topic)
	return nil
}

type fixture struct {
	svc     Service
	docs    *fakeDocRepo
	reports *fakeReportRepo
	pub     *fakePublisher
}

func newFixture() *fixture {
	f := &fixture{
		docs:    &fakeDocRepo{docs: make(map[uuid.UUID]*document.Document)},
		reports: &fakeReportRepo{},
		pub:     &fakePublisher{},
	}
	f.svc = NewService(
		f.docs, f.reports, newMemCache(), f.pub,
		config.AnalysisConfig{MaxDocumentBytes: 1 << 20, CacheTTL: time.Minute},
		prometheus.NewMetrics(),
		logging.NewNopLogger(),
	)
	return f
}

func (f *fixture) addDocument(text string) uuid.UUID {
	id := uuid.New()
	f.docs.docs[id] = &document.Document{ID: id, Filename: "doc.txt", Text: text}
	return id
}

const riskyContract = `The contractor may at its sole discretion terminate this agreement.
The client shall indemnify the contractor against all claims with unlimited liability.`

func TestAnalyzePersistsAndPublishes(t *testing.T) {
	f := newFixture()
	id := f.addDocument(riskyContract)

	report, err := f.svc.Analyze(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, report.DocumentID)
	assert.Greater(t, report.Analysis.RiskScore, 0.0)
	assert.NotEmpty(t, report.TextHash)

	require.Len(t, f.reports.saved, 1)
	assert.Equal(t, []string{kafka.TopicAnalysisCompleted}, f.pub.topics)
}

func TestAnalyzeServesCachedReport(t *testing.T) {
	f := newFixture()
	id := f.addDocument(riskyContract)

	first, err := f.svc.Analyze(context.Background(), id)
	require.NoError(t, err)
	second, err := f.svc.Analyze(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// The engine ran once; the second call came from cache.
	assert.Len(t, f.reports.saved, 1)
	assert.Len(t, f.pub.topics, 1)
}

func TestAnalyzeRerunsWhenTextChanges(t *testing.T) {
	f := newFixture()
	id := f.addDocument(riskyContract)

	_, err := f.svc.Analyze(context.Background(), id)
	require.NoError(t, err)

	f.docs.docs[id].Text = riskyContract + "\nGoverning law: Delaware."
	_, err = f.svc.Analyze(context.Background(), id)
	require.NoError(t, err)

	assert.Len(t, f.reports.saved, 2)
}

func TestAnalyzeUnknownDocument(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Analyze(context.Background(), uuid.New())
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentNotFound))
}

func TestSuggestions(t *testing.T) {
	f := newFixture()
	id := f.addDocument(riskyContract)

	sugg, err := f.svc.Suggestions(context.Background(), id)
	require.NoError(t, err)
	assert.NotEmpty(t, sugg.GeneralAdvice)
}

func TestExtractSection(t *testing.T) {
	f := newFixture()
	id := f.addDocument("SECTION 2. TERMINATION\neither party may terminate with notice.\nSECTION 3. NOTICES\nnotices go to the addresses above.\n")

	section, err := f.svc.ExtractSection(context.Background(), id, "termination")
	require.NoError(t, err)
	assert.Contains(t, section, "either party may terminate")

	_, err = f.svc.ExtractSection(context.Background(), id, "arbitration")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSectionNotFound))

	_, err = f.svc.ExtractSection(context.Background(), id, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestClassifyClause(t *testing.T) {
	f := newFixture()
	ct := f.svc.ClassifyClause("the client shall indemnify the contractor; liability is limited by the warranty terms")
	assert.Equal(t, "liability", ct.Type)
	assert.Greater(t, ct.Confidence, 0.0)
}

func TestHistory(t *testing.T) {
	f := newFixture()
	id := f.addDocument(riskyContract)

	_, err := f.svc.Analyze(context.Background(), id)
	require.NoError(t, err)

	history, err := f.svc.History(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
