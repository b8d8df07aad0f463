package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"

	"github.com/aihelpcenter/helpcenter/internal/services/auth"
	"github.com/aihelpcenter/helpcenter/internal/services/category"
)

func TestAuthError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrDuplicateIdentity, http.StatusBadRequest},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrUnknownSubject, http.StatusUnauthorized},
		{auth.ErrInactiveAccount, http.StatusUnauthorized},
		{auth.ErrMissingToken, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", auth.ErrInvalidToken), http.StatusUnauthorized},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := AuthError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.NotContains(t, msg, "connection refused")
		})
	}
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}
	err := validator.New().Struct(req{Email: "bad", Password: "123"})

	resp := ValidationError(err)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Password must be at least 6")

	assert.Equal(t, "invalid request", ValidationError(errors.New("x")).Error)
}

func TestCategoryError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{category.ErrCategoryNotFound, http.StatusNotFound},
		{category.ErrCategoryExists, http.StatusConflict},
		{category.ErrParentNotFound, http.StatusBadRequest},
		{category.ErrInvalidParent, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, _ := CategoryError(fmt.Errorf("category.Update: %w", tt.err))
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
