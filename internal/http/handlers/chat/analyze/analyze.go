// Package analyze реализует HTTP-обработчик обращения в чат поддержки.
package analyze

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aihelpcenter/helpcenter/internal/http/middlewarectx"
	"github.com/aihelpcenter/helpcenter/internal/http/response"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/lib/validation"
	"github.com/aihelpcenter/helpcenter/internal/services/auth"
	"github.com/aihelpcenter/helpcenter/internal/services/chat"
)

// Service описывает анализ обращения.
type Service interface {
	Analyze(ctx context.Context, userID string, req chat.AnalyzeRequest) (*chat.AnalyzeResult, error)
}

// Handler обрабатывает обращения пользователей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Анализ обращения
// @Description Возвращает решение, уверенность и похожие случаи; обращение сохраняется в истории.
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body chat.AnalyzeRequest true "Обращение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /chat/analyze [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.analyze"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		middlewarectx.RenderAuthError(w, r, log, auth.ErrMissingToken)
		return
	}

	var req chat.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	res, err := h.service.Analyze(r.Context(), user.ID, req)
	if err != nil {
		log.Error("failed to analyze message", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}

	log.Info("message analyzed", slog.String("message_id", res.MessageID), slog.String("category", req.Category))
	render.JSON(w, r, response.OK(res))
}
