package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-review-gateway/internal/model"
	"go-review-gateway/internal/service"
)

type ProductHandler struct {
	service *service.CatalogService
}

func NewProductHandler(service *service.CatalogService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	raw, err := h.service.Search(r.Context(), model.ProductQuery{
		Query:      query.Get("query"),
		Display:    query.Get("display"),
		CategoryID: query.Get("category_id"),
		Sort:       query.Get("sort"),
		PageNum:    query.Get("page_num"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	raw, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("category_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, raw)
}
