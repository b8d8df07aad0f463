// Package list реализует HTTP-обработчик получения списка категорий.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/aihelpcenter/helpcenter/internal/http/response"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/models"
)

// Service описывает выборку категорий.
type Service interface {
	List(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, error)
}

// Handler обрабатывает запросы списка категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список категорий
// @Description По умолчанию только активные, отсортированные по order.
// @Tags Categories
// @Produce json
// @Param active_only query bool false "Только активные" default(true)
// @Param parent_id query string false "ID родительской категории"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.CategoryFilter{ActiveOnly: true}
	q := r.URL.Query()
	if v := q.Get("active_only"); v != "" {
		activeOnly, err := strconv.ParseBool(v)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid active_only parameter"))
			return
		}
		filter.ActiveOnly = activeOnly
	}
	if v := q.Get("parent_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid parent_id parameter"))
			return
		}
		filter.ParentID = &v
	}

	categories, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"categories": categories,
	}))
}
