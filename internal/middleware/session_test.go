package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"go-review-gateway/internal/model"
)

func TestSessionReadsCookies(t *testing.T) {
	var seen model.SessionTokens
	handler := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: model.AccessTokenCookie, Value: "a"})
	req.AddCookie(&http.Cookie{Name: model.RefreshTokenCookie, Value: "r"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, model.SessionTokens{AccessToken: "a", RefreshToken: "r"}, seen)
}

func TestRequireAccessToken(t *testing.T) {
	handler := Session(RequireAccessToken(okHandler()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
	req.AddCookie(&http.Cookie{Name: model.RefreshTokenCookie, Value: "r"})
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"로그인이 필요합니다."}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
	req.AddCookie(&http.Cookie{Name: model.AccessTokenCookie, Value: "a"})
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoveryWritesGenericError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "서버 내부 오류가 발생했습니다.")
	require.Contains(t, logs.String(), "panic recovered")
}

func TestLoggingRecordsRouteAndErrorCode(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	r := chi.NewRouter()
	r.Use(Logging(logger))
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, RequestIDFromContext(r.Context()))
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Product ID and Category ID are required")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/5", nil)
	req.Header.Set(requestIDHeader, "req-1")
	r.ServeHTTP(rec, req)

	require.Equal(t, "req-1", rec.Header().Get(requestIDHeader))
	require.Contains(t, logs.String(), `"route":"/api/products/{id}"`)
	require.Contains(t, logs.String(), `"error_code":"BAD_REQUEST"`)
	require.Contains(t, logs.String(), `"level":"WARN"`)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}
