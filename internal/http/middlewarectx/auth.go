// Package middlewarectx содержит HTTP middleware сервиса: проверку bearer-токена
// с сохранением пользователя в контексте запроса, проверку роли, метрики и CORS.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aihelpcenter/helpcenter/internal/http/response"
	"github.com/aihelpcenter/helpcenter/internal/lib/metrics"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Identity — ключ пользователя в контексте запроса.
const Identity Key = "identity"

// Authorizer проверяет токен и возвращает пользователя.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*models.UserView, error)
}

// WithIdentity возвращает контекст с пользователем.
func WithIdentity(ctx context.Context, user *models.UserView) context.Context {
	return context.WithValue(ctx, Identity, user)
}

// IdentityFromContext возвращает пользователя, сохранённого Auth.
func IdentityFromContext(ctx context.Context) (*models.UserView, bool) {
	user, ok := ctx.Value(Identity).(*models.UserView)
	return user, ok && user != nil
}

// BearerToken извлекает токен из заголовка Authorization. Схема сравнивается
// без учёта регистра; пустая строка означает отсутствие токена.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth возвращает middleware, который пропускает запрос дальше только
// с действительным токеном активного пользователя.
func Auth(authorizer Authorizer, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Auth"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := BearerToken(r)
			if token == "" {
				RenderAuthError(w, r, log, auth.ErrMissingToken)
				return
			}

			user, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				RenderAuthError(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user)))
		})
	}
}

// RenderAuthError пишет ответ для ошибки аутентификации и учитывает её в метриках.
func RenderAuthError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := response.AuthError(err)
	if kind := auth.Kind(err); kind != "" {
		metrics.AuthFailure(kind)
		log.Info("request unauthorized", slog.String("kind", kind))
	} else {
		log.Error("authorization failed", sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, response.Error(msg))
}
