// Package admin содержит операции административного интерфейса.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

// Параметры постраничной выдачи пользователей.
const (
	DefaultUsersLimit = 50
	MaxUsersLimit     = 500
)

// ErrUserNotFound возвращается при изменении несуществующего пользователя.
var ErrUserNotFound = errors.New("user not found")

// Repository — выборки и изменения, нужные администратору.
type Repository interface {
	CountUsers(ctx context.Context) (int, error)
	CountMessages(ctx context.Context) (int, error)
	CountMessagesByStatus(ctx context.Context, status string) (int, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	SetUserActive(ctx context.Context, id string, active bool) error
}

// Service реализует административные операции.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Metrics возвращает сводку по пользователям и обращениям.
func (s *Service) Metrics(ctx context.Context) (*models.Metrics, error) {
	const op = "admin.Metrics"

	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	messages, err := s.repo.CountMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resolved, err := s.repo.CountMessagesByStatus(ctx, models.MessageStatusResolved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := &models.Metrics{
		TotalUsers:     users,
		TotalMessages:  messages,
		ResolvedIssues: resolved,
	}
	if messages > 0 {
		m.ResolutionRate = float64(resolved) / float64(messages)
	}
	return m, nil
}

// Users возвращает страницу пользователей без хэшей паролей.
func (s *Service) Users(ctx context.Context, limit, offset int) ([]*models.UserView, error) {
	const op = "admin.Users"

	if limit <= 0 {
		limit = DefaultUsersLimit
	}
	if limit > MaxUsersLimit {
		limit = MaxUsersLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views := make([]*models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

// SetActive включает или блокирует учётную запись. Заблокированный
// пользователь теряет доступ сразу, даже с действующим токеном.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	const op = "admin.SetActive"

	if err := s.repo.SetUserActive(ctx, id, active); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user activity changed", slog.String("user_id", id), slog.Bool("is_active", active))
	return nil
}

// Roles возвращает справочник ролей.
func (s *Service) Roles() []models.Role {
	return []models.Role{
		{ID: models.RoleAdmin, Name: "Administrator"},
		{ID: models.RoleUser, Name: "User"},
		{ID: models.RoleSupport, Name: "Support Agent"},
	}
}
