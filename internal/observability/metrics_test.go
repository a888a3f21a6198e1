package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/vet/login", "POST", 200, 15*time.Millisecond)
	m.RecordRequest("/vet/login", "POST", 200, 20*time.Millisecond)
	m.RecordRequest("/vet/login", "POST", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/vet/login", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/vet/login", "POST", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_RecordError(t *testing.T) {
	m := NewMetrics()

	m.RecordError("/pet/:id", "GET", "NOT_FOUND")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/pet/:id", "GET", "NOT_FOUND")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "INTERNAL_ERROR")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/health/live", "GET", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), `http_requests_total{method="GET",path="/health/live",status="200"} 1`))
}
