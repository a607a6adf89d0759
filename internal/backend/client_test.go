package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-review-gateway/internal/model"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := NewClient(server.URL+"/api", server.Client(), logger, nil)
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsNonHTTPBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("ftp://example.com", nil, nil, nil)
	require.Error(t, err)

	_, err = NewClient("://bad", nil, nil, nil)
	require.Error(t, err)
}

func TestNewHTTPClientVerifiesCertificatesByDefault(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient(false)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	require.False(t, transport.TLSClientConfig.InsecureSkipVerify)
	require.Zero(t, client.Timeout)

	insecure := NewHTTPClient(true)
	require.True(t, insecure.Transport.(*http.Transport).TLSClientConfig.InsecureSkipVerify)
	// The shared default transport is never modified.
	require.Nil(t, http.DefaultTransport.(*http.Transport).TLSClientConfig)
}

func TestCreateReviewSendsBearerAndJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/reviews", r.URL.Path)
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload model.BackendReviewPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, json.Number("7"), payload.ProductID)
		require.Equal(t, []string{"smoky"}, payload.AromaProfile.Labels)
		require.Equal(t, []json.Number{"60"}, payload.AromaProfile.Scores)
		require.Equal(t, json.Number("85.5"), payload.NoseScore)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"review_id":1}}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	resp, err := client.CreateReview(context.Background(), "access-1", model.BackendReviewPayload{
		ProductID:    "7",
		Content:      "peaty",
		NoseScore:    "85.5",
		AromaProfile: model.BackendAromaProfile{Labels: []string{"smoky"}, Scores: []json.Number{"60"}},
	})
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env := resp.Envelope()
	require.True(t, env.Valid)
	require.True(t, env.Success)
}

func TestSearchProductsKeepsTrailingSlashAndQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products/", r.URL.Path)
		require.Equal(t, "glen", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	resp, err := client.SearchProducts(context.Background(), url.Values{"query": {"glen"}})
	require.NoError(t, err)

	raw, ok := resp.JSON()
	require.True(t, ok)
	require.JSONEq(t, `{"success":true,"data":[]}`, string(raw))
}

func TestDoReportsTimeoutSeparately(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListReviews(ctx, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrBackendTimeout))
	require.False(t, errors.Is(err, model.ErrBackendUnavailable))
}

func TestDoReportsUnreachableBackend(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := newTestClient(t, server)
	server.Close()

	_, err := client.Login(context.Background(), "u", "p")
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrBackendUnavailable))
}

func TestDoRejectsOversizedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte(" "), maxResponseBytes+1))
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).ListReviews(context.Background(), nil)
	require.ErrorIs(t, err, ErrResponseTooLarge)
	require.False(t, errors.Is(err, model.ErrBackendTimeout))
}

func TestDoAcceptsResponseAtLimit(t *testing.T) {
	t.Parallel()

	body := append([]byte(`{"success":true}`), bytes.Repeat([]byte(" "), maxResponseBytes-16)...)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	resp, err := newTestClient(t, server).ListReviews(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Body, maxResponseBytes)
	require.True(t, resp.Envelope().Success)
}

func TestEnvelopeToleratesUnexpectedShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		body string
		want Envelope
	}{
		{body: `not json`, want: Envelope{}},
		{body: `[1,2]`, want: Envelope{}},
		{body: `{"success":"yes","message":{"a":1}}`, want: Envelope{Valid: true}},
		{body: `{"success":true,"detail":"expired"}`, want: Envelope{Valid: true, Success: true, Detail: "expired"}},
		{body: `{"data":{"access_token":"t"}}`, want: Envelope{Valid: true, Data: map[string]any{"access_token": "t"}}},
	}

	for _, tc := range cases {
		resp := &Response{StatusCode: http.StatusOK, Body: []byte(tc.body)}
		require.Equal(t, tc.want, resp.Envelope(), tc.body)
	}
}

func TestFirstMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "b", FirstMessage("fallback", "", "b", "c"))
	require.Equal(t, "fallback", FirstMessage("fallback", "", ""))
}
