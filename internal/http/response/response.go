// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: успешных ответов, ошибок
// и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/aihelpcenter/helpcenter/internal/services/auth"
	"github.com/aihelpcenter/helpcenter/internal/services/category"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// InternalError — сообщение для клиента при инфраструктурных сбоях.
// Подробности пишутся только в лог.
const InternalError = "internal server error"

// OK возвращает успешный Response с переданными данными.
func OK(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(err error) Response {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return Response{Status: StatusError, Error: "invalid request"}
	}

	var errsMsgs []string
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "nonul":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must not contain NUL characters", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// AuthError переводит ошибку аутентификации в HTTP-статус и текст для клиента.
// Неизвестные ошибки считаются внутренними и не раскрываются.
func AuthError(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, auth.ErrDuplicateIdentity):
		return http.StatusBadRequest, "email already registered"
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, "missing bearer token"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrUnknownSubject):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, auth.ErrInactiveAccount):
		return http.StatusUnauthorized, "account is inactive"
	default:
		return http.StatusInternalServerError, InternalError
	}
}

// CategoryError переводит ошибку справочника категорий в HTTP-статус и текст.
func CategoryError(err error) (int, string) {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound):
		return http.StatusNotFound, "category not found"
	case errors.Is(err, category.ErrCategoryExists):
		return http.StatusConflict, "category with this name already exists"
	case errors.Is(err, category.ErrParentNotFound):
		return http.StatusBadRequest, "parent category not found"
	case errors.Is(err, category.ErrInvalidParent):
		return http.StatusBadRequest, "category cannot be its own parent"
	default:
		return http.StatusInternalServerError, InternalError
	}
}
