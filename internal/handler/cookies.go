package handler

import (
	"net/http"

	"go-review-gateway/internal/model"
)

// SessionCookies writes the token cookies the browser keeps between calls.
type SessionCookies struct {
	Secure bool
}

// Set writes each non-empty token.
func (c SessionCookies) Set(w http.ResponseWriter, tokens model.SessionTokens) {
	if tokens.AccessToken != "" {
		http.SetCookie(w, c.cookie(model.AccessTokenCookie, tokens.AccessToken, 0))
	}
	if tokens.RefreshToken != "" {
		http.SetCookie(w, c.cookie(model.RefreshTokenCookie, tokens.RefreshToken, 0))
	}
}

func (c SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(model.AccessTokenCookie, "", -1))
	http.SetCookie(w, c.cookie(model.RefreshTokenCookie, "", -1))
}

func (c SessionCookies) cookie(name string, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
