package active

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aihelpcenter/helpcenter/internal/lib/logger"
	"github.com/aihelpcenter/helpcenter/internal/services/admin"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func TestActiveHandler_ServeHTTP(t *testing.T) {
	id := "9a7b6c5d-4e3f-4a1b-8c2d-0e1f2a3b4c5d"

	tests := []struct {
		name        string
		id          string
		body        string
		mockErr     error
		callService bool
		wantStatus  int
		wantBody    string
	}{
		{name: "deactivate", id: id, body: `{"is_active":false}`, callService: true, wantStatus: http.StatusOK, wantBody: `"is_active":false`},
		{name: "unknown user", id: id, body: `{"is_active":false}`, mockErr: admin.ErrUserNotFound, callService: true, wantStatus: http.StatusNotFound, wantBody: "user not found"},
		{name: "missing flag", id: id, body: `{}`, wantStatus: http.StatusUnprocessableEntity, wantBody: "field IsActive is a required field"},
		{name: "malformed id", id: "x", body: `{"is_active":true}`, wantStatus: http.StatusBadRequest, wantBody: "invalid user id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("SetActive", mock.Anything, id, false).Return(tt.mockErr).Once()
			}

			r := chi.NewRouter()
			r.Patch("/admin/users/{id}/active", New(logger.Discard(), svc).ServeHTTP)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin/users/"+tt.id+"/active", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
