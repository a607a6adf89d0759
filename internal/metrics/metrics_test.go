package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorCountsBackendCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackendCall("reviews.create", 201, 20*time.Millisecond)
	c.RecordBackendCall("reviews.create", 401, 5*time.Millisecond)
	c.RecordBackendCall("reviews.create", 201, 10*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(c.backendRequests.WithLabelValues("reviews.create", "201")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.backendRequests.WithLabelValues("reviews.create", "401")))
}

func TestCollectorCountsFailuresAndRefreshes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackendFailure("products.search", "timeout")
	c.RecordTokenRefresh(RefreshSucceeded)
	c.RecordTokenRefresh(RefreshSkipped)
	c.RecordTokenRefresh(RefreshSkipped)

	require.Equal(t, 1.0, testutil.ToFloat64(c.backendFailures.WithLabelValues("products.search", "timeout")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.tokenRefreshes.WithLabelValues(RefreshSkipped)))
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordTokenRefresh(RefreshFailed)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `gateway_token_refresh_total{outcome="failed"} 1`))
}
