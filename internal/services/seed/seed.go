// Package seed заполняет пустую базу: учётная запись администратора и
// стандартный справочник категорий. Повторный запуск ничего не дублирует.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/services/auth"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

// AdminName — отображаемое имя создаваемого администратора.
const AdminName = "Admin User"

// Registrar регистрирует пользователей.
type Registrar interface {
	Register(ctx context.Context, email, password, name string) (*models.UserView, error)
}

// PasswordVerifier сверяет пароль с сохранённым хэшем.
type PasswordVerifier interface {
	Verify(password, hash string) bool
}

// ErrAdminPasswordMismatch возвращается, если ADMIN_EMAIL уже занят учётной
// записью с другим паролем. Такая запись не повышается до администратора.
var ErrAdminPasswordMismatch = errors.New("existing account password does not match admin password")

// Repository — операции хранилища, нужные для начального заполнения.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetUserRole(ctx context.Context, id string, role string) error
	CreateCategory(ctx context.Context, c models.Category) (string, error)
}

// Result — итог заполнения.
type Result struct {
	AdminCreated      bool
	CategoriesCreated int
	CategoriesSkipped int
}

// Seeder выполняет начальное заполнение базы.
type Seeder struct {
	registrar Registrar
	repo      Repository
	verifier  PasswordVerifier
	log       *slog.Logger
}

// New создаёт Seeder.
func New(registrar Registrar, repo Repository, verifier PasswordVerifier, log *slog.Logger) *Seeder {
	return &Seeder{registrar: registrar, repo: repo, verifier: verifier, log: log}
}

// DefaultCategories возвращает стандартный справочник категорий.
func DefaultCategories() []models.Category {
	return []models.Category{
		{Name: "Authentication", Icon: "lock", Description: "Login, registration, and password issues", Order: 1},
		{Name: "Performance", Icon: "zap", Description: "System performance and optimization", Order: 2},
		{Name: "Security", Icon: "shield", Description: "Security concerns and issues", Order: 3},
		{Name: "API", Icon: "code", Description: "API integration and usage", Order: 4},
		{Name: "Database", Icon: "database", Description: "Database related issues and queries", Order: 5},
		{Name: "Frontend", Icon: "layout", Description: "UI/UX and frontend related issues", Order: 6},
		{Name: "Backend", Icon: "server", Description: "Backend and server-side issues", Order: 7},
		{Name: "Deployment", Icon: "cloud", Description: "Deployment and hosting issues", Order: 8},
		{Name: "Mobile", Icon: "smartphone", Description: "Mobile app related issues", Order: 9},
		{Name: "Other", Icon: "help-circle", Description: "Other technical issues", Order: 10},
	}
}

// Run создаёт администратора и категории.
func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) (*Result, error) {
	const op = "seed.Run"

	created, err := s.seedAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res := &Result{AdminCreated: created}

	for _, c := range DefaultCategories() {
		c.IsActive = true
		if _, err := s.repo.CreateCategory(ctx, c); err != nil {
			if errors.Is(err, storage.ErrCategoryExists) {
				res.CategoriesSkipped++
				continue
			}
			return nil, fmt.Errorf("%s: category %s: %w", op, c.Name, err)
		}
		res.CategoriesCreated++
		s.log.Info("created category", slog.String("name", c.Name))
	}

	return res, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, email, password string) (bool, error) {
	created := true
	view, err := s.registrar.Register(ctx, email, password, AdminName)
	switch {
	case errors.Is(err, auth.ErrDuplicateIdentity):
		created = false
		user, err := s.repo.GetUserByEmail(ctx, email)
		if err != nil {
			return false, err
		}
		if user.Role == models.RoleAdmin {
			s.log.Info("admin already exists")
			return false, nil
		}
		if !s.verifier.Verify(password, user.PasswordHash) {
			s.log.Error("admin email is taken by another account", slog.String("user_id", user.ID))
			return false, ErrAdminPasswordMismatch
		}
		view = user.View()
	case err != nil:
		return false, err
	}

	if err := s.repo.SetUserRole(ctx, view.ID, models.RoleAdmin); err != nil {
		return false, err
	}
	s.log.Info("admin account ready", slog.String("user_id", view.ID), slog.Bool("created", created))
	return created, nil
}
