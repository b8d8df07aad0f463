// Package remove реализует HTTP-обработчик удаления категории.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/aihelpcenter/helpcenter/internal/http/response"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
)

// Service описывает удаление категории.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// Handler обрабатывает запросы удаления категории.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление категории
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID категории"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /categories/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid category id"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		status, msg := response.CategoryError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to delete category", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("category deleted", slog.String("id", id))
	render.JSON(w, r, response.OK(map[string]any{
		"id": id,
	}))
}
