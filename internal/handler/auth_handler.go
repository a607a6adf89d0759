package handler

import (
	"net/http"

	"go-review-gateway/internal/middleware"
	"go-review-gateway/internal/model"
	"go-review-gateway/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
	cookies SessionCookies
}

func NewAuthHandler(service *service.AuthService, cookies SessionCookies) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	tokens := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, model.SessionStatus{IsAuthenticated: h.service.CheckSession(tokens)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Set(w, tokens)
	writeMessage(w, http.StatusOK, "로그인 성공")
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var payload model.SignUpRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	body, err := h.service.SignUp(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, http.StatusCreated, body)
}

func (h *AuthHandler) CheckUserID(w http.ResponseWriter, r *http.Request) {
	var payload model.DuplicationRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	relay, err := h.service.CheckUserID(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, relay.StatusCode, relay.Body)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w)
	writeMessage(w, http.StatusOK, "로그아웃 성공")
}
