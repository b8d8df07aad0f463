// Package auth реализует вход по паролю, регистрацию и проверку
// bearer-токенов запросов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aihelpcenter/helpcenter/internal/lib/jwt"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

// TokenTypeBearer — тип токена в ответе на вход.
const TokenTypeBearer = "bearer"

// UserRepository — хранилище учётных записей.
type UserRepository interface {
	// CreateUser сохраняет пользователя; повторный email возвращает storage.ErrUserExists.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает storage.ErrUserNotFound, если пользователя нет.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// PasswordHasher хэширует и проверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// LoginResult — результат успешного входа.
type LoginResult struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	User        *models.UserView `json:"user"`
}

// Authenticator выдаёт и проверяет токены доступа.
type Authenticator struct {
	log    *slog.Logger
	users  UserRepository
	hasher PasswordHasher
	tokens jwt.Maker
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// New создаёт Authenticator.
func New(log *slog.Logger, users UserRepository, hasher PasswordHasher, tokens jwt.Maker) *Authenticator {
	return &Authenticator{
		log:    log,
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login проверяет пароль и выдаёт токен с subject = email.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "auth.Login"
	log := a.log.With(slog.String("op", op), sl.Email(email))

	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			a.hasher.Verify(password, a.timingHash())
			log.Info("login rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		log.Info("login rejected")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Info("login rejected: account inactive")
		return nil, ErrInactiveAccount
	}

	now := a.now()
	if err := a.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Warn("failed to update last login", sl.Err(err))
	} else {
		user.LastLogin = &now
	}

	token, expiresAt, err := a.tokens.GenerateToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
		User:        user.View(),
	}, nil
}

// Authorize проверяет токен и возвращает представление активного пользователя.
func (a *Authenticator) Authorize(ctx context.Context, token string) (*models.UserView, error) {
	const op = "auth.Authorize"

	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := a.tokens.ParseToken(token)
	if err != nil {
		a.log.Debug("token rejected", slog.String("op", op), sl.Err(err))
		return nil, ErrInvalidToken
	}

	user, err := a.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	return user.View(), nil
}

// Register создаёт пользователя с ролью user. Уникальность email
// обеспечивает хранилище, поэтому одновременные регистрации безопасны.
func (a *Authenticator) Register(ctx context.Context, email, password, name string) (*models.UserView, error) {
	const op = "auth.Register"

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
		CreatedAt:    a.now(),
		Preferences:  map[string]any{},
	}
	id, err := a.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	a.log.Info("user registered", slog.String("op", op), slog.String("user_id", id))
	return user.View(), nil
}

// timingHash возвращает хэш, с которым сравнивается пароль при неизвестном email,
// чтобы время ответа не выдавало наличие учётной записи.
func (a *Authenticator) timingHash() string {
	a.dummyOnce.Do(func() {
		h, err := a.hasher.Hash("helpcenter-timing-placeholder")
		if err != nil {
			a.log.Error("failed to prepare timing hash", sl.Err(err))
			return
		}
		a.dummyHash = h
	})
	return a.dummyHash
}
