// Package chat обрабатывает обращения пользователей: получает решение от
// генератора, сохраняет обмен и принимает оценку решения.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aihelpcenter/helpcenter/internal/lib/rabbitmq"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/services/solution"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

// Параметры постраничной выдачи истории.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// MessageTypeUser — сообщение, отправленное пользователем.
const MessageTypeUser = "user"

// ErrMessageNotFound возвращается и для чужих сообщений.
var ErrMessageNotFound = errors.New("message not found")

// Repository определяет методы хранилища сообщений.
type Repository interface {
	CreateMessage(ctx context.Context, m models.Message) (string, error)
	GetUserMessage(ctx context.Context, userID, id string) (*models.Message, error)
	SaveFeedback(ctx context.Context, userID, id string, fb models.Feedback, status string, resolvedAt *time.Time) error
	ListUserMessages(ctx context.Context, userID string, limit, offset int) ([]*models.Message, error)
}

// Publisher отправляет события во внешнюю очередь.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// AnalyzeRequest — обращение пользователя.
type AnalyzeRequest struct {
	Content  string         `json:"content" validate:"required,max=5000,nonul"`
	Category string         `json:"category" validate:"required,max=100,nonul"`
	Context  map[string]any `json:"context" validate:"nonul"`
}

// AnalyzeResult — решение вместе с ID сохранённого сообщения.
type AnalyzeResult struct {
	MessageID string `json:"message_id"`
	models.GeneratedSolution
}

// AnalyzedEvent публикуется после сохранения обращения.
type AnalyzedEvent struct {
	MessageID  string    `json:"message_id"`
	UserID     string    `json:"user_id"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service реализует операции чата. publisher может быть nil.
type Service struct {
	repo      Repository
	generator solution.Generator
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, generator solution.Generator, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Analyze получает решение для обращения, сохраняет его и публикует событие.
// Ошибка публикации не влияет на результат.
func (s *Service) Analyze(ctx context.Context, userID string, req AnalyzeRequest) (*AnalyzeResult, error) {
	const op = "chat.Analyze"

	if req.Context == nil {
		req.Context = map[string]any{}
	}
	generated, err := s.generator.Generate(ctx, req.Content, req.Category, req.Context)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	msg := models.Message{
		UserID:    userID,
		Content:   req.Content,
		Category:  req.Category,
		Type:      MessageTypeUser,
		Solution:  generated,
		Context:   req.Context,
		Status:    models.MessageStatusAnswered,
		CreatedAt: s.now(),
	}
	id, err := s.repo.CreateMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, AnalyzedEvent{
		MessageID:  id,
		UserID:     userID,
		Category:   req.Category,
		Confidence: generated.Confidence,
		CreatedAt:  msg.CreatedAt,
	})

	return &AnalyzeResult{MessageID: id, GeneratedSolution: *generated}, nil
}

// Feedback сохраняет оценку решения. Оценить можно только своё сообщение;
// resolved=true переводит обращение в статус resolved, resolved=false
// возвращает его в answered и сбрасывает время решения.
func (s *Service) Feedback(ctx context.Context, userID, messageID string, fb models.Feedback) (*models.Message, error) {
	const op = "chat.Feedback"

	msg, err := s.repo.GetUserMessage(ctx, userID, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := models.MessageStatusAnswered
	var resolvedAt *time.Time
	if fb.Resolved {
		now := s.now()
		status = models.MessageStatusResolved
		resolvedAt = &now
	}

	if err := s.repo.SaveFeedback(ctx, userID, messageID, fb, status, resolvedAt); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	msg.Feedback = &fb
	msg.Status = status
	msg.ResolvedAt = resolvedAt
	s.log.Info("feedback saved", slog.String("message_id", messageID), slog.Bool("resolved", fb.Resolved))
	return msg, nil
}

// History возвращает сообщения пользователя, новые первыми.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]*models.Message, error) {
	const op = "chat.History"

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.repo.ListUserMessages(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) publish(ctx context.Context, event AnalyzedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyChatAnalyzed, event); err != nil {
		s.log.Warn("failed to publish chat event", slog.String("message_id", event.MessageID), sl.Err(err))
	}
}
