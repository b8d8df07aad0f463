// Package roles отдаёт справочник ролей.
package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aihelpcenter/helpcenter/internal/http/response"
	"github.com/aihelpcenter/helpcenter/internal/models"
)

// Service описывает справочник ролей.
type Service interface {
	Roles() []models.Role
}

// Handler отдаёт роли.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Роли
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/roles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OK(map[string]any{
		"roles": h.service.Roles(),
	}))
}
