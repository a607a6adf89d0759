package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go-review-gateway/internal/backend"
	"go-review-gateway/internal/model"
	"go-review-gateway/pkg/apierror"
)

const (
	msgCatalogTimeout     = "Request timed out. The server took too long to respond."
	msgCatalogFailed      = "Internal Server Error"
	msgProductIDsRequired = "Product ID and Category ID are required"
)

type CatalogBackend interface {
	SearchProducts(ctx context.Context, query url.Values) (*backend.Response, error)
	ProductDetail(ctx context.Context, productID string, categoryID string) (*backend.Response, error)
}

type CatalogService struct {
	backend       CatalogBackend
	searchTimeout time.Duration
	logger        *slog.Logger
}

func NewCatalogService(client CatalogBackend, searchTimeout time.Duration, logger *slog.Logger) *CatalogService {
	if searchTimeout <= 0 {
		searchTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{backend: client, searchTimeout: searchTimeout, logger: logger}
}

// Search forwards the non-empty filters to the product search endpoint.
func (s *CatalogService) Search(ctx context.Context, q model.ProductQuery) (json.RawMessage, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		"query":       q.Query,
		"display":     q.Display,
		"category_id": q.CategoryID,
		"sort":        q.Sort,
		"page_num":    q.PageNum,
	} {
		if strings.TrimSpace(value) != "" {
			query.Set(key, value)
		}
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	resp, err := s.backend.SearchProducts(searchCtx, query)
	if err != nil {
		if errors.Is(err, model.ErrBackendTimeout) {
			return nil, apierror.Timeout(msgCatalogTimeout)
		}
		return nil, apierror.Internal(msgCatalogFailed, "")
	}

	return s.passthrough(resp, "product search")
}

// Detail fetches a single product. Both ids are required.
func (s *CatalogService) Detail(ctx context.Context, productID string, categoryID string) (json.RawMessage, error) {
	productID = strings.TrimSpace(productID)
	categoryID = strings.TrimSpace(categoryID)
	if productID == "" || categoryID == "" {
		return nil, apierror.BadRequest(msgProductIDsRequired, "")
	}

	resp, err := s.backend.ProductDetail(ctx, productID, categoryID)
	if err != nil {
		return nil, apierror.Internal(msgCatalogFailed, "")
	}

	return s.passthrough(resp, "product detail")
}

func (s *CatalogService) passthrough(resp *backend.Response, operation string) (json.RawMessage, error) {
	if !resp.OK() {
		s.logger.Warn(operation+" failed", "status", resp.StatusCode)
		return nil, apierror.Internal(msgCatalogFailed, "")
	}

	raw, ok := resp.JSON()
	if !ok {
		return nil, apierror.Internal(msgCatalogFailed, "backend returned a non-JSON body")
	}
	return raw, nil
}
