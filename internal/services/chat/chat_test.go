package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aihelpcenter/helpcenter/internal/lib/logger"
	"github.com/aihelpcenter/helpcenter/internal/lib/rabbitmq"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/services/solution"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

const (
	userID = "33333333-3333-3333-3333-333333333333"
	msgID  = "44444444-4444-4444-4444-444444444444"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateMessage(ctx context.Context, msg models.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetUserMessage(ctx context.Context, userID, id string) (*models.Message, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}
func (m *RepoMock) SaveFeedback(ctx context.Context, userID, id string, fb models.Feedback, status string, resolvedAt *time.Time) error {
	return m.Called(ctx, userID, id, fb, status, resolvedAt).Error(0)
}
func (m *RepoMock) ListUserMessages(ctx context.Context, userID string, limit, offset int) ([]*models.Message, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string, string, map[string]any) (*models.GeneratedSolution, error) {
	return nil, errors.New("model unavailable")
}

func TestService_Analyze(t *testing.T) {
	req := AnalyzeRequest{Content: "cannot log in", Category: "Authentication"}

	tests := []struct {
		name       string
		publishErr error
		noPub      bool
	}{
		{name: "published"},
		{name: "publish failure is ignored", publishErr: errors.New("broker down")},
		{name: "without publisher", noPub: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
				return m.UserID == userID &&
					m.Status == models.MessageStatusAnswered &&
					m.Type == MessageTypeUser &&
					m.Solution != nil &&
					m.Context != nil
			})).Return(msgID, nil).Once()

			var pub Publisher
			pm := new(PublisherMock)
			if !tt.noPub {
				pm.On("Publish", mock.Anything, rabbitmq.RoutingKeyChatAnalyzed, mock.MatchedBy(func(e AnalyzedEvent) bool {
					return e.MessageID == msgID && e.UserID == userID
				})).Return(tt.publishErr).Once()
				pub = pm
			}

			svc := NewService(repo, solution.NewMockGenerator(), pub, logger.Discard())
			got, err := svc.Analyze(context.Background(), userID, req)
			require.NoError(t, err)
			assert.Equal(t, msgID, got.MessageID)
			assert.Contains(t, got.Solution.Answer, "Authentication")
			assert.InDelta(t, 0.85, got.Confidence, 1e-9)
			assert.Len(t, got.SimilarCases, 2)

			repo.AssertExpectations(t)
			pm.AssertExpectations(t)
		})
	}
}

func TestService_AnalyzeErrors(t *testing.T) {
	repo := new(RepoMock)
	svc := NewService(repo, failingGenerator{}, nil, logger.Discard())
	_, err := svc.Analyze(context.Background(), userID, AnalyzeRequest{Content: "x", Category: "y"})
	require.Error(t, err)
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)

	dbErr := errors.New("db down")
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return("", dbErr).Once()
	svc = NewService(repo, solution.NewMockGenerator(), nil, logger.Discard())
	_, err = svc.Analyze(context.Background(), userID, AnalyzeRequest{Content: "x", Category: "y"})
	require.ErrorIs(t, err, dbErr)
}

func TestService_Feedback(t *testing.T) {
	tests := []struct {
		name       string
		fb         models.Feedback
		setupMocks func(r *RepoMock)
		wantErr    error
		wantStatus string
		wantSolved bool
	}{
		{
			name: "resolved",
			fb:   models.Feedback{Rating: 5, Resolved: true},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserMessage", mock.Anything, userID, msgID).
					Return(&models.Message{ID: msgID, UserID: userID, Status: models.MessageStatusAnswered}, nil).Once()
				r.On("SaveFeedback", mock.Anything, userID, msgID, models.Feedback{Rating: 5, Resolved: true},
					models.MessageStatusResolved, mock.MatchedBy(func(t *time.Time) bool { return t != nil })).
					Return(nil).Once()
			},
			wantStatus: models.MessageStatusResolved,
			wantSolved: true,
		},
		{
			name: "reopened after resolution clears resolved time",
			fb:   models.Feedback{Rating: 1, Resolved: false},
			setupMocks: func(r *RepoMock) {
				resolvedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
				r.On("GetUserMessage", mock.Anything, userID, msgID).
					Return(&models.Message{
						ID: msgID, UserID: userID,
						Status:     models.MessageStatusResolved,
						ResolvedAt: &resolvedAt,
					}, nil).Once()
				r.On("SaveFeedback", mock.Anything, userID, msgID, models.Feedback{Rating: 1},
					models.MessageStatusAnswered, (*time.Time)(nil)).Return(nil).Once()
			},
			wantStatus: models.MessageStatusAnswered,
		},
		{
			name: "not resolved",
			fb:   models.Feedback{Rating: 2, Comment: "did not help"},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserMessage", mock.Anything, userID, msgID).
					Return(&models.Message{ID: msgID, UserID: userID}, nil).Once()
				r.On("SaveFeedback", mock.Anything, userID, msgID, mock.Anything,
					models.MessageStatusAnswered, (*time.Time)(nil)).Return(nil).Once()
			},
			wantStatus: models.MessageStatusAnswered,
		},
		{
			name: "foreign or missing message",
			fb:   models.Feedback{Resolved: true},
			setupMocks: func(r *RepoMock) {
				r.On("GetUserMessage", mock.Anything, userID, msgID).Return(nil, storage.ErrMessageNotFound).Once()
			},
			wantErr: ErrMessageNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := NewService(repo, solution.NewMockGenerator(), nil, logger.Discard())

			got, err := svc.Feedback(context.Background(), userID, msgID, tt.fb)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantSolved, got.ResolvedAt != nil)
			require.NotNil(t, got.Feedback)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_HistoryPagination(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{name: "defaults", limit: 0, offset: -5, wantLimit: DefaultHistoryLimit, wantOffset: 0},
		{name: "clamped", limit: 1000, offset: 10, wantLimit: MaxHistoryLimit, wantOffset: 10},
		{name: "as is", limit: 5, offset: 5, wantLimit: 5, wantOffset: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("ListUserMessages", mock.Anything, userID, tt.wantLimit, tt.wantOffset).
				Return([]*models.Message{}, nil).Once()

			svc := NewService(repo, solution.NewMockGenerator(), nil, logger.Discard())
			_, err := svc.History(context.Background(), userID, tt.limit, tt.offset)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
