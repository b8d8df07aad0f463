package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aihelpcenter/helpcenter/internal/http/middlewarectx"
	"github.com/aihelpcenter/helpcenter/internal/lib/logger"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/services/chat"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Feedback(ctx context.Context, userID, messageID string, fb models.Feedback) (*models.Message, error) {
	args := m.Called(ctx, userID, messageID, fb)
	res, _ := args.Get(0).(*models.Message)
	return res, args.Error(1)
}

func TestFeedbackHandler_ServeHTTP(t *testing.T) {
	id := "3f2b8c1a-9d4e-4b7a-8c6d-1e2f3a4b5c6d"
	user := &models.UserView{ID: "u1"}

	tests := []struct {
		name        string
		id          string
		body        string
		mockErr     error
		callService bool
		wantStatus  int
		wantError   string
	}{
		{name: "resolved", id: id, body: `{"rating":5,"resolved":true}`, callService: true, wantStatus: http.StatusOK},
		{name: "foreign message", id: id, body: `{"rating":5,"resolved":true}`, mockErr: chat.ErrMessageNotFound, callService: true, wantStatus: http.StatusNotFound, wantError: "message not found"},
		{name: "rating out of range", id: id, body: `{"rating":9}`, wantStatus: http.StatusUnprocessableEntity, wantError: "field Rating must be at most 5"},
		{name: "nul in comment", id: id, body: `{"rating":2,"comment":"no\u0000pe"}`, wantStatus: http.StatusUnprocessableEntity, wantError: "field Comment must not contain NUL characters"},
		{name: "malformed id", id: "42", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "invalid message id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				var res *models.Message
				if tt.mockErr == nil {
					res = &models.Message{ID: id, Status: models.MessageStatusResolved}
				}
				svc.On("Feedback", mock.Anything, "u1", id, models.Feedback{Rating: 5, Resolved: true}).
					Return(res, tt.mockErr).Once()
			}

			r := chi.NewRouter()
			r.Post("/chat/feedback/{id}", New(logger.Discard(), svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodPost, "/chat/feedback/"+tt.id, bytes.NewBufferString(tt.body))
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), user))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, models.MessageStatusResolved, body["data"].(map[string]any)["status"])
			}
			svc.AssertExpectations(t)
		})
	}
}
