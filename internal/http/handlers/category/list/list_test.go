package list

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aihelpcenter/helpcenter/internal/lib/logger"
	"github.com/aihelpcenter/helpcenter/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).([]*models.Category)
	return res, args.Error(1)
}

func TestListHandler_ServeHTTP(t *testing.T) {
	parent := "7b0c3a52-2f6e-4c1e-9a53-0c1f2b7d9e10"
	categories := []*models.Category{{ID: "c1", Name: "Account"}}

	tests := []struct {
		name        string
		query       string
		filter      models.CategoryFilter
		mockErr     error
		callService bool
		wantStatus  int
		wantError   string
	}{
		{
			name:        "default active only",
			filter:      models.CategoryFilter{ActiveOnly: true},
			callService: true,
			wantStatus:  http.StatusOK,
		},
		{
			name:        "all with parent",
			query:       "?active_only=false&parent_id=" + parent,
			filter:      models.CategoryFilter{ActiveOnly: false, ParentID: &parent},
			callService: true,
			wantStatus:  http.StatusOK,
		},
		{
			name:       "bad active_only",
			query:      "?active_only=maybe",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid active_only parameter",
		},
		{
			name:       "bad parent_id",
			query:      "?parent_id=42",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid parent_id parameter",
		},
		{
			name:        "service failure",
			filter:      models.CategoryFilter{ActiveOnly: true},
			mockErr:     errors.New("db down"),
			callService: true,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				var res []*models.Category
				if tt.mockErr == nil {
					res = categories
				}
				svc.On("List", mock.Anything, tt.filter).Return(res, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/categories"+tt.query, nil)
			rec := httptest.NewRecorder()
			New(logger.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				data := body["data"].(map[string]any)
				assert.Len(t, data["categories"], 1)
			}
			svc.AssertExpectations(t)
		})
	}
}
