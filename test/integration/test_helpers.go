//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"go-review-gateway/internal/app"
	"go-review-gateway/internal/config"
)

// newStubBackend answers every backend route with a canned successful body.
func newStubBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"access_token":"a","refresh_token":"r"}}`))
	})
	mux.HandleFunc("GET /api/reviews", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	})
	mux.HandleFunc("GET /api/products/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newGatewayServer(t *testing.T, backendURL string, authRPM int) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:              "8080",
		ServerReadHeaderTimeout: 10 * time.Second,
		ServerWriteTimeout:      30 * time.Second,
		ServerIdleTimeout:       120 * time.Second,
		BackendBaseURL:          backendURL + "/api",
		ListTimeout:             10 * time.Second,
		CORSOrigins:             []string{"http://localhost:3000"},
		RateLimitRPM:            100,
		AuthRateLimitRPM:        authRPM,
		LogFormat:               "json",
		MetricsEnabled:          true,
	}

	handler, err := app.NewHandler(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)), prometheus.NewRegistry())
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}
