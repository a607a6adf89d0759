package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-review-gateway/internal/config"
	"go-review-gateway/internal/handler"
	"go-review-gateway/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Review  *handler.ReviewHandler
	Product *handler.ProductHandler
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

func New(cfg *config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Session)

		api.Get("/auth/check", h.Auth.Check)
		api.Post("/login", h.Auth.Login)
		api.Post("/sign-up", h.Auth.SignUp)
		api.Post("/duplication-user-id", h.Auth.CheckUserID)
		api.Post("/logout", h.Auth.Logout)

		api.Get("/reviews", h.Review.List)
		api.With(middleware.RequireAccessToken).Post("/reviews", h.Review.Create)
		api.Get("/reviews/get_list", h.Review.ListLegacy)

		api.Get("/products", h.Product.Search)
		api.Get("/products/{id}", h.Product.Detail)
	})

	return r
}
