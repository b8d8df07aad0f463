// Package metrics отдаёт сводную статистику для администратора.
package metrics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aihelpcenter/helpcenter/internal/http/response"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/models"
)

// Service описывает подсчёт статистики.
type Service interface {
	Metrics(ctx context.Context) (*models.Metrics, error)
}

// Handler обрабатывает запросы статистики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика обращений
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/metrics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.metrics"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	m, err := h.service.Metrics(r.Context())
	if err != nil {
		log.Error("failed to collect metrics", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}

	render.JSON(w, r, response.OK(m))
}
