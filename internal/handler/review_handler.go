package handler

import (
	"net/http"
	"strconv"

	"go-review-gateway/internal/middleware"
	"go-review-gateway/internal/model"
	"go-review-gateway/internal/service"
)

type ReviewHandler struct {
	service *service.ReviewService
	cookies SessionCookies
}

func NewReviewHandler(service *service.ReviewService, cookies SessionCookies) *ReviewHandler {
	return &ReviewHandler{service: service, cookies: cookies}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateReviewRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Submit(r.Context(), middleware.SessionFromContext(r.Context()), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Refreshed != nil {
		h.cookies.Set(w, *result.Refreshed)
	}
	writeRaw(w, http.StatusCreated, result.Body)
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	list, err := h.service.List(r.Context(), model.ReviewListQuery{
		Query:      query.Get("query"),
		Display:    query.Get("display"),
		CategoryID: query.Get("category_id"),
		Sort:       query.Get("sort"),
		Page:       query.Get("page"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if list.Page != nil {
		writeJSON(w, http.StatusOK, list.Page)
		return
	}
	writeRaw(w, http.StatusOK, list.Raw)
}

func (h *ReviewHandler) ListLegacy(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Unparseable values fall back to the defaults.
	pageNum, _ := strconv.Atoi(query.Get("pageNum"))
	display, _ := strconv.Atoi(query.Get("display"))

	raw, err := h.service.ListLegacy(r.Context(), model.LegacyReviewListQuery{PageNum: pageNum, Display: display})
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, raw)
}
