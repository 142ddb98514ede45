package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCountsAnalysisSources(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAnalysis(SourceProvider)
	c.RecordAnalysis(SourceFallback)
	c.RecordAnalysis(SourceFallback)
	c.RecordInsights(SourceFallback)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.analyses.WithLabelValues(SourceProvider)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.analyses.WithLabelValues(SourceFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.insights.WithLabelValues(SourceFallback)))
}

func TestCollectorProviderFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordProviderFailure("gemini", "blocked")
	c.RecordProviderLatency("gemini", 300*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.providerFails.WithLabelValues("gemini", "blocked")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.providerLatency))
}

func TestCollectorHTTPRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest("GET", "/api/entries", 200, 10*time.Millisecond)
	c.RecordHTTPRequest("GET", "/api/entries", 200, 20*time.Millisecond)
	c.RecordHTTPRequest("GET", "/api/entries", 401, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/entries", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/entries", "401")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAnalysis(SourceFallback)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `mindjournal_analyses_total{source="fallback"} 1`)
}
