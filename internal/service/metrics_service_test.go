package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums the samples of a counter family whose labels include want.
func counterValue(t *testing.T, m *MetricsService, name string, want map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			matched := true
			for k, v := range want {
				if labels[k] != v {
					matched = false
				}
			}
			if matched {
				total += metric.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestMetricsServiceRecordsRequests(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/course/details", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/course/details", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/api/course/add", http.StatusBadRequest, time.Millisecond)

	assert.Equal(t, float64(2), counterValue(t, m, "course_store_http_requests_total", map[string]string{"path": "/api/course/details", "status": "200"}))
	assert.Equal(t, float64(3), counterValue(t, m, "course_store_http_requests_total", nil))
}

func TestMetricsServiceHandlerServesExposition(t *testing.T) {
	m := NewMetricsService()
	m.CountMutation("section", "delete")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `course_store_mutations_total{action="delete",resource="section"} 1`)
	assert.Contains(t, rec.Body.String(), "course_store_goroutines_total")
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.ObserveDBQuery("courses.list", time.Millisecond)
	m.CountMutation("course", "create")
	m.timeQuery("x")()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
