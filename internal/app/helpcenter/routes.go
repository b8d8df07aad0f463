package helpcenter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aihelpcenter/helpcenter/docs"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/admin/active"
	adminmetrics "github.com/aihelpcenter/helpcenter/internal/http/handlers/admin/metrics"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/admin/roles"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/admin/users"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/auth/login"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/auth/me"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/auth/register"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/category/create"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/category/list"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/category/read"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/category/remove"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/category/update"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/chat/analyze"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/chat/feedback"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/chat/history"
	"github.com/aihelpcenter/helpcenter/internal/http/handlers/health"
	"github.com/aihelpcenter/helpcenter/internal/http/middlewarectx"
	"github.com/aihelpcenter/helpcenter/internal/models"
	adminservice "github.com/aihelpcenter/helpcenter/internal/services/admin"
	authservice "github.com/aihelpcenter/helpcenter/internal/services/auth"
	categoryservice "github.com/aihelpcenter/helpcenter/internal/services/category"
	chatservice "github.com/aihelpcenter/helpcenter/internal/services/chat"
)

// Services — зависимости обработчиков.
type Services struct {
	Auth     *authservice.Authenticator
	Category *categoryservice.Service
	Chat     *chatservice.Service
	Admin    *adminservice.Service
	Health   health.Pinger
}

// NewRouter создаёт маршрутизатор со всеми маршрутами приложения.
func NewRouter(logger *slog.Logger, origins []string, s Services) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, logger, origins, s)
	return r
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, origins []string, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
		middlewarectx.CORS(origins),
	)

	authenticated := middlewarectx.Auth(s.Auth, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
			loginHandler := login.New(logger, s.Auth)
			r.Post("/token", loginHandler.ServeHTTP)
			r.Post("/login", loginHandler.ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				meHandler := me.New(logger)
				r.Get("/me", meHandler.ServeHTTP)
				r.Get("/verify", meHandler.ServeHTTP)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", list.New(logger, s.Category).ServeHTTP)
			r.Get("/{id}", read.New(logger, s.Category).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.With(middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleSupport)).
					Post("/", create.New(logger, s.Category).ServeHTTP)
				r.With(middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleSupport)).
					Put("/{id}", update.New(logger, s.Category).ServeHTTP)
				r.With(middlewarectx.RequireRole(logger, models.RoleAdmin)).
					Delete("/{id}", remove.New(logger, s.Category).ServeHTTP)
			})
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/analyze", analyze.New(logger, s.Chat).ServeHTTP)
			r.Post("/feedback/{id}", feedback.New(logger, s.Chat).ServeHTTP)
			r.Get("/history", history.New(logger, s.Chat).ServeHTTP)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticated, middlewarectx.RequireRole(logger, models.RoleAdmin))
			r.Get("/metrics", adminmetrics.New(logger, s.Admin).ServeHTTP)
			r.Get("/users", users.New(logger, s.Admin).ServeHTTP)
			r.Patch("/users/{id}/active", active.New(logger, s.Admin).ServeHTTP)
			r.Get("/roles", roles.New(logger, s.Admin).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
