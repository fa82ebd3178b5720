package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DanNano/FFQueryAnalyzer/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SessionLifecycle(t *testing.T) {
	m := metrics.NewManager()

	m.SessionAcquired(nil)
	m.QueryFinished("player_stats", 12*time.Millisecond, nil)
	m.SessionReleased(nil)

	m.SessionAcquired(errors.New("refused"))

	m.SessionAcquired(nil)
	m.QueryFinished("player_stats", time.Millisecond, errors.New("syntax"))
	m.SessionReleased(errors.New("conn busy"))

	expected := `
# HELP ffquery_db_session_acquisitions_total Database session acquisitions by outcome.
# TYPE ffquery_db_session_acquisitions_total counter
ffquery_db_session_acquisitions_total{outcome="error"} 1
ffquery_db_session_acquisitions_total{outcome="ok"} 2
# HELP ffquery_db_session_release_failures_total Sessions whose release returned an error.
# TYPE ffquery_db_session_release_failures_total counter
ffquery_db_session_release_failures_total 1
# HELP ffquery_db_sessions_in_flight Sessions acquired and not yet released.
# TYPE ffquery_db_sessions_in_flight gauge
ffquery_db_sessions_in_flight 0
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"ffquery_db_session_acquisitions_total",
		"ffquery_db_session_release_failures_total",
		"ffquery_db_sessions_in_flight",
	)
	assert.NoError(t, err)
	n, err := testutil.GatherAndCount(m.Registry(), "ffquery_db_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestManager_HTTPAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewManager(metrics.WithRegistry(reg), metrics.WithNamespace("nfl"), metrics.WithHistogramBuckets([]float64{0.01, 0.1}))
	require.Same(t, reg, m.Registry())

	m.ObserveHTTP("/api/player-stats", http.MethodGet, http.StatusOK, 3*time.Millisecond)
	m.ObserveHTTP("/api/player-stats", http.MethodGet, http.StatusInternalServerError, 3*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `nfl_http_requests_total{method="GET",route="/api/player-stats",status_code="500"} 1`)
	assert.Contains(t, string(body), `nfl_http_request_duration_seconds_bucket{method="GET",route="/api/player-stats",le="0.01"} 2`)
}
