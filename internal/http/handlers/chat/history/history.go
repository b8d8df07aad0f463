// Package history отдаёт историю обращений текущего пользователя.
package history

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aihelpcenter/helpcenter/internal/http/middlewarectx"
	"github.com/aihelpcenter/helpcenter/internal/http/response"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/services/auth"
)

// Service описывает выборку истории.
type Service interface {
	History(ctx context.Context, userID string, limit, offset int) ([]*models.Message, error)
}

// Handler обрабатывает запросы истории.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История обращений
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /chat/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.history"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		middlewarectx.RenderAuthError(w, r, log, auth.ErrMissingToken)
		return
	}

	// Некорректные значения заменяются значениями по умолчанию в сервисе.
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 0
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	messages, err := h.service.History(r.Context(), user.ID, limit, offset)
	if err != nil {
		log.Error("failed to load history", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"count":    len(messages),
		"messages": messages,
	}))
}
