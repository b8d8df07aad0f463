// Package me возвращает пользователя, которому принадлежит токен запроса.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aihelpcenter/helpcenter/internal/http/middlewarectx"
	"github.com/aihelpcenter/helpcenter/internal/http/response"
	"github.com/aihelpcenter/helpcenter/internal/services/auth"
)

// Handler отдаёт представление текущего пользователя.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		middlewarectx.RenderAuthError(w, r, h.log, auth.ErrMissingToken)
		return
	}
	render.JSON(w, r, response.OK(map[string]any{
		"user": user,
	}))
}
