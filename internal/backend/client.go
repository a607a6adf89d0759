// Package backend is the HTTP client for the remote review/catalog API.
//
// Every call goes through one configured base URL and one http.Client whose
// TLS settings are owned by this package; nothing here touches process-wide
// transport state.
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-review-gateway/internal/metrics"
	"go-review-gateway/internal/model"
)

// Endpoint names used for logging and metrics labels.
const (
	EndpointLogin         = "login"
	EndpointSignUp        = "sign_up"
	EndpointDuplication   = "duplication_user_id"
	EndpointTokenRefresh  = "token_refresh"
	EndpointReviewsCreate = "reviews.create"
	EndpointReviewsList   = "reviews.list"
	EndpointProducts      = "products.search"
	EndpointProductDetail = "products.detail"
)

const maxResponseBytes = 8 << 20

var ErrResponseTooLarge = errors.New("backend response too large")

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// NewHTTPClient builds the outbound client. Certificate verification is only
// disabled when insecureSkipVerify is set, and only for this client.
// There is no client-level timeout; callers bound calls through the context.
func NewHTTPClient(insecureSkipVerify bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // opt-in for development backends only
	}

	return &http.Client{Transport: transport}
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, recorder metrics.Recorder) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https, got %q", baseURL)
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return &Client{baseURL: parsed, httpClient: httpClient, logger: logger, metrics: recorder}, nil
}

// Response is a backend reply with its body fully read.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON returns the body when it is valid JSON.
func (r *Response) JSON() (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}

type request struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
	bearer   string
}

func (c *Client) Login(ctx context.Context, username string, password string) (*Response, error) {
	return c.do(ctx, request{
		endpoint: EndpointLogin,
		method:   http.MethodPost,
		path:     "/login",
		body:     map[string]string{"username": username, "password": password},
	})
}

func (c *Client) SignUp(ctx context.Context, userID string, name string, password string) (*Response, error) {
	return c.do(ctx, request{
		endpoint: EndpointSignUp,
		method:   http.MethodPost,
		path:     "/sign-up",
		body:     map[string]string{"user_id": userID, "name": name, "password": password},
	})
}

func (c *Client) CheckUserID(ctx context.Context, userID string) (*Response, error) {
	return c.do(ctx, request{
		endpoint: EndpointDuplication,
		method:   http.MethodPost,
		path:     "/duplication-user-id",
		body:     map[string]string{"user_id": userID},
	})
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*Response, error) {
	return c.do(ctx, request{
		endpoint: EndpointTokenRefresh,
		method:   http.MethodPost,
		path:     "/token/refresh",
		body:     model.RefreshRequest{RefreshToken: refreshToken},
	})
}

func (c *Client) CreateReview(ctx context.Context, accessToken string, payload model.BackendReviewPayload) (*Response, error) {
	return c.do(ctx, request{
		endpoint: EndpointReviewsCreate,
		method:   http.MethodPost,
		path:     "/reviews",
		body:     payload,
		bearer:   accessToken,
	})
}

func (c *Client) ListReviews(ctx context.Context, query url.Values) (*Response, error) {
	return c.do(ctx, request{
		endpoint: EndpointReviewsList,
		method:   http.MethodGet,
		path:     "/reviews",
		query:    query,
	})
}

func (c *Client) SearchProducts(ctx context.Context, query url.Values) (*Response, error) {
	return c.do(ctx, request{
		endpoint: EndpointProducts,
		method:   http.MethodGet,
		path:     "/products/",
		query:    query,
	})
}

func (c *Client) ProductDetail(ctx context.Context, productID string, categoryID string) (*Response, error) {
	return c.do(ctx, request{
		endpoint: EndpointProductDetail,
		method:   http.MethodGet,
		path:     "/products/detail",
		query:    url.Values{"product_id": {productID}, "category_id": {categoryID}},
	})
}

func (c *Client) do(ctx context.Context, r request) (*Response, error) {
	target := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		encoded, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", r.endpoint, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", r.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(r.endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, c.transportError(r.endpoint, err)
	}
	if len(payload) > maxResponseBytes {
		c.metrics.RecordBackendFailure(r.endpoint, "too_large")
		c.logger.Error("backend response exceeds limit", "endpoint", r.endpoint, "limit_bytes", maxResponseBytes)
		return nil, fmt.Errorf("%s: %w", r.endpoint, ErrResponseTooLarge)
	}

	elapsed := time.Since(started)
	c.metrics.RecordBackendCall(r.endpoint, resp.StatusCode, elapsed)

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "backend call",
		"endpoint", r.endpoint,
		"method", r.method,
		"path", target.Path,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)

	return &Response{StatusCode: resp.StatusCode, Body: payload}, nil
}

func (c *Client) transportError(endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		c.metrics.RecordBackendFailure(endpoint, "timeout")
		c.logger.Warn("backend call timed out", "endpoint", endpoint)
		return fmt.Errorf("%s: %w: %v", endpoint, model.ErrBackendTimeout, err)
	}

	c.metrics.RecordBackendFailure(endpoint, "transport")
	c.logger.Error("backend call failed", "endpoint", endpoint, "error", err.Error())
	return fmt.Errorf("%s: %w: %v", endpoint, model.ErrBackendUnavailable, err)
}
