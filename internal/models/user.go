// Package models содержит доменные структуры сервиса: учётную запись пользователя,
// категорию справочника и сообщение чата вместе со сгенерированным решением.
package models

import "time"

// Роли пользователей. Набор открытый: хранилище не ограничивает значение.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleSupport = "support"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string         // Уникальный идентификатор (UUID)
	Email        string         // Электронная почта, уникальна, служит логином
	Name         string         // Отображаемое имя
	PasswordHash string         // bcrypt-хэш пароля, открытый пароль не хранится
	Role         string         // user, admin или support
	IsActive     bool           // Неактивные учётные записи не проходят авторизацию
	CreatedAt    time.Time      // Дата регистрации
	LastLogin    *time.Time     // Последний успешный вход, nil если входа не было
	Preferences  map[string]any // Пользовательские настройки интерфейса
}

// UserView — представление пользователя для обработчиков и ответов API.
// Хэш пароля в него не попадает.
type UserView struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Role        string         `json:"role"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	LastLogin   *time.Time     `json:"last_login"`
	Preferences map[string]any `json:"preferences"`
}

// View возвращает представление пользователя без хэша пароля.
func (u *User) View() *UserView {
	prefs := u.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	return &UserView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
		Preferences: prefs,
	}
}

// HasRole сообщает, входит ли роль пользователя в перечисленные.
func (v *UserView) HasRole(roles ...string) bool {
	for _, r := range roles {
		if v.Role == r {
			return true
		}
	}
	return false
}

// Role описывает роль для административного интерфейса.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
