package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				return m
			}
		}
	}
	return nil
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if want, ok := labels[lp.GetName()]; ok {
			if want != lp.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

func TestObserveProviderCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveProviderCall("tmdb", "ok", 120*time.Millisecond)
	c.ObserveProviderCall("tmdb", "ok", 80*time.Millisecond)
	c.ObserveProviderCall("tmdb", "circuit_open", 0)

	ok := findMetric(t, reg, "mediashelf_provider_calls_total", map[string]string{"provider": "tmdb", "outcome": "ok"})
	require.NotNil(t, ok)
	assert.Equal(t, float64(2), ok.GetCounter().GetValue())

	open := findMetric(t, reg, "mediashelf_provider_calls_total", map[string]string{"provider": "tmdb", "outcome": "circuit_open"})
	require.NotNil(t, open)
	assert.Equal(t, float64(1), open.GetCounter().GetValue())

	latency := findMetric(t, reg, "mediashelf_provider_call_duration_seconds", map[string]string{"provider": "tmdb"})
	require.NotNil(t, latency)
	assert.Equal(t, uint64(3), latency.GetHistogram().GetSampleCount())
}

func TestObserveEnrichment(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveEnrichment("itunes", "created")
	c.ObserveEnrichment("itunes", "existing")
	c.ObserveEnrichment("itunes", "existing")

	existing := findMetric(t, reg, "mediashelf_enrichments_total", map[string]string{"provider": "itunes", "outcome": "existing"})
	require.NotNil(t, existing)
	assert.Equal(t, float64(2), existing.GetCounter().GetValue())
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRequest(http.MethodGet, "/api/content/:id", http.StatusNotFound, time.Millisecond)
	c.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	m := findMetric(t, reg, "mediashelf_http_requests_total", map[string]string{
		"method": "GET", "route": "/api/content/:id", "status_code": "404",
	})
	require.NotNil(t, m)
	assert.Equal(t, float64(1), m.GetCounter().GetValue())

	assert.NotNil(t, findMetric(t, reg, "mediashelf_http_requests_total", map[string]string{"route": "unmatched"}))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveEnrichment("tmdb", "created")

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mediashelf_enrichments_total")
}
