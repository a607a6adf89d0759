//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecurityHeadersOnResponses(t *testing.T) {
	t.Parallel()

	server := newGatewayServer(t, newStubBackend(t).URL, 10)

	resp, err := http.Get(server.URL + "/api/reviews")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	require.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestCORSAllowsCredentialedOrigin(t *testing.T) {
	t.Parallel()

	server := newGatewayServer(t, newStubBackend(t).URL, 10)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/reviews", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestAuthRateLimitReturns429(t *testing.T) {
	t.Parallel()

	server := newGatewayServer(t, newStubBackend(t).URL, 2)
	loginPayload := `{"username":"dram","password":"secret"}`

	for attempt := 0; attempt < 2; attempt++ {
		resp, reqErr := http.Post(server.URL+"/api/login", "application/json", strings.NewReader(loginPayload))
		require.NoError(t, reqErr)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Post(server.URL+"/api/login", "application/json", strings.NewReader(loginPayload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))

	// Catalog traffic keeps its own bucket.
	products, err := http.Get(server.URL + "/api/products")
	require.NoError(t, err)
	t.Cleanup(func() { _ = products.Body.Close() })
	require.Equal(t, http.StatusOK, products.StatusCode)
}

func TestBackendDownSurfacesAsServerError(t *testing.T) {
	t.Parallel()

	backend := newStubBackend(t)
	server := newGatewayServer(t, backend.URL, 10)
	backend.Close()

	resp, err := http.Get(server.URL + "/api/products")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
