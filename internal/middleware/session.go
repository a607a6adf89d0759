package middleware

import (
	"context"
	"net/http"

	"go-review-gateway/internal/model"
)

type contextKey string

const sessionContextKey contextKey = "session_tokens"

// Session copies the token cookies into the request context. It never rejects
// a request.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens := model.SessionTokens{
			AccessToken:  cookieValue(r, model.AccessTokenCookie),
			RefreshToken: cookieValue(r, model.RefreshTokenCookie),
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, tokens)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAccessToken answers 401 when no access token cookie was sent.
func RequireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()).AccessToken == "" {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "로그인이 필요합니다.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func SessionFromContext(ctx context.Context) model.SessionTokens {
	tokens, _ := ctx.Value(sessionContextKey).(model.SessionTokens)
	return tokens
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
