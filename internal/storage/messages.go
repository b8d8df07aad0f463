package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aihelpcenter/helpcenter/internal/models"
)

const messageColumns = `id, user_id, content, category, type, solution, context, feedback,
	status, created_at, updated_at, resolved_at`

// CreateMessage сохраняет сообщение чата вместе с решением и возвращает его ID.
func (s *Storage) CreateMessage(ctx context.Context, m models.Message) (string, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	solution, err := json.Marshal(m.Solution)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	msgContext, err := marshalObject(m.Context)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO messages (id, user_id, content, category, type, solution, context, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9)
			  RETURNING id`
	var newID string
	err = s.DB.QueryRowContext(ctx, query,
		m.ID, m.UserID, m.Content, m.Category, m.Type, string(solution), msgContext,
		m.Status, m.CreatedAt).Scan(&newID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserMessage возвращает сообщение, только если оно принадлежит пользователю.
// Чужое сообщение неотличимо от отсутствующего.
func (s *Storage) GetUserMessage(ctx context.Context, userID, id string) (*models.Message, error) {
	const op = "storage.GetUserMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) || !validID(userID) {
		return nil, fmt.Errorf("%s: %w", op, ErrMessageNotFound)
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1 AND user_id = $2`, id, userID)
	m, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// SaveFeedback записывает оценку пользователя и новый статус сообщения.
// resolvedAt == nil сбрасывает время решения.
func (s *Storage) SaveFeedback(ctx context.Context, userID, id string, fb models.Feedback,
	status string, resolvedAt *time.Time) error {
	const op = "storage.SaveFeedback"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) || !validID(userID) {
		return fmt.Errorf("%s: %w", op, ErrMessageNotFound)
	}

	raw, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE messages
			  SET feedback = $1::jsonb, status = $2, resolved_at = $3, updated_at = $4
			  WHERE id = $5 AND user_id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		string(raw), status, resolvedAt, time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrMessageNotFound)
	}
	return nil
}

// ListUserMessages возвращает историю пользователя, новые сообщения первыми.
func (s *Storage) ListUserMessages(ctx context.Context, userID string, limit, offset int) ([]*models.Message, error) {
	const op = "storage.ListUserMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(userID) {
		return []*models.Message{}, nil
	}

	query := `SELECT ` + messageColumns + ` FROM messages
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return messages, nil
}

// CountMessages возвращает общее число сообщений.
func (s *Storage) CountMessages(ctx context.Context) (int, error) {
	const op = "storage.CountMessages"
	return s.count(ctx, op, `SELECT COUNT(*) FROM messages`)
}

// CountMessagesByStatus возвращает число сообщений с заданным статусом.
func (s *Storage) CountMessagesByStatus(ctx context.Context, status string) (int, error) {
	const op = "storage.CountMessagesByStatus"
	return s.count(ctx, op, `SELECT COUNT(*) FROM messages WHERE status = $1`, status)
}

func scanMessage(row rowScanner) (*models.Message, error) {
	m := &models.Message{}
	var solution, msgContext, feedback []byte
	var updatedAt, resolvedAt sql.NullTime
	err := row.Scan(&m.ID, &m.UserID, &m.Content, &m.Category, &m.Type, &solution, &msgContext,
		&feedback, &m.Status, &m.CreatedAt, &updatedAt, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(solution) > 0 && string(solution) != "null" {
		m.Solution = &models.GeneratedSolution{}
		if err := json.Unmarshal(solution, m.Solution); err != nil {
			return nil, err
		}
	}
	if m.Context, err = unmarshalObject(msgContext); err != nil {
		return nil, err
	}
	if len(feedback) > 0 {
		m.Feedback = &models.Feedback{}
		if err := json.Unmarshal(feedback, m.Feedback); err != nil {
			return nil, err
		}
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		m.UpdatedAt = &t
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		m.ResolvedAt = &t
	}
	return m, nil
}
