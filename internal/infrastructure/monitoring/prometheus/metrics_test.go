package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTPRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTPRequest("GET", "/api/v1/documents", "200", 42*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/documents", "200", 10*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/v1/documents", "500", time.Second)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/documents", "200")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/documents", "500")))
}

func TestDomainCounters(t *testing.T) {
	m := NewMetrics()

	m.DocumentsIngestedTotal.WithLabelValues("contract", "ok").Inc()
	m.AnalysisRunsTotal.WithLabelValues("ok").Add(3)
	m.CacheHitsTotal.WithLabelValues("analysis").Inc()
	m.GraphNodes.WithLabelValues("document").Set(12)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.DocumentsIngestedTotal.WithLabelValues("contract", "ok")))
	assert.Equal(t, float64(3),
		testutil.ToFloat64(m.AnalysisRunsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(12),
		testutil.ToFloat64(m.GraphNodes.WithLabelValues("document")))
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTPRequest("GET", "/healthz", "200", time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "lexatlas_http_requests_total")
	assert.Contains(t, body, "lexatlas_analysis_risk_score")
}

func TestMetricSetsAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.AnalysisRunsTotal.WithLabelValues("ok").Inc()
	assert.Equal(t, float64(0), testutil.ToFloat64(b.AnalysisRunsTotal.WithLabelValues("ok")))
}
