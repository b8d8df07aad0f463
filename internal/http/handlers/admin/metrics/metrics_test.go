package metrics

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

func (m *ServiceMock) Metrics(ctx context.Context) (*models.Metrics, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*models.Metrics)
	return res, args.Error(1)
}

func TestMetricsHandler_ServeHTTP(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Metrics", mock.Anything).Return(&models.Metrics{
			TotalUsers: 3, TotalMessages: 4, ResolvedIssues: 1, ResolutionRate: 25,
		}, nil).Once()

		rec := httptest.NewRecorder()
		New(logger.Discard(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		data := body["data"].(map[string]any)
		assert.EqualValues(t, 3, data["total_users"])
		assert.EqualValues(t, 25, data["resolution_rate"])
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Metrics", mock.Anything).Return(nil, errors.New("db down")).Once()

		rec := httptest.NewRecorder()
		New(logger.Discard(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/metrics", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}
