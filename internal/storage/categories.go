package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aihelpcenter/helpcenter/internal/models"
)

const categoryColumns = `id, name, icon, description, sort_order, is_active, parent_id, created_at, updated_at`

// CreateCategory сохраняет категорию и возвращает её ID.
func (s *Storage) CreateCategory(ctx context.Context, c models.Category) (string, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO categories (id, name, icon, description, sort_order, is_active, parent_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Icon, c.Description, c.Order, c.IsActive, c.ParentID, c.CreatedAt).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, categoryWriteErr(err))
	}
	return newID, nil
}

// GetCategory возвращает категорию по ID.
func (s *Storage) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	const op = "storage.GetCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListCategories возвращает категории, отсортированные по порядку отображения.
func (s *Storage) ListCategories(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active = TRUE")
	}
	if filter.ParentID != nil {
		if !validID(*filter.ParentID) {
			return []*models.Category{}, nil
		}
		args = append(args, *filter.ParentID)
		conds = append(conds, fmt.Sprintf("parent_id = $%d", len(args)))
	}
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY sort_order, name`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

// UpdateCategory перезаписывает изменяемые поля категории и проставляет updated_at.
func (s *Storage) UpdateCategory(ctx context.Context, c models.Category) error {
	const op = "storage.UpdateCategory"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(c.ID) {
		return fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
	}

	updatedAt := time.Now().UTC()
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}
	query := `UPDATE categories
			  SET name = $1, icon = $2, description = $3, sort_order = $4,
			      is_active = $5, parent_id = $6, updated_at = $7
			  WHERE id = $8`
	result, err := s.DB.ExecContext(ctx, query,
		c.Name, c.Icon, c.Description, c.Order, c.IsActive, c.ParentID, updatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, categoryWriteErr(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
	}
	return nil
}

// DeleteCategory удаляет категорию. Дочерние категории становятся корневыми.
func (s *Storage) DeleteCategory(ctx context.Context, id string) error {
	const op = "storage.DeleteCategory"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !validID(id) {
		return fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
	}
	return nil
}

func categoryWriteErr(err error) error {
	switch {
	case isUniqueViolation(err):
		return ErrCategoryExists
	case isForeignKeyViolation(err):
		return ErrCategoryReference
	default:
		return err
	}
}

func scanCategory(row rowScanner) (*models.Category, error) {
	c := &models.Category{}
	var parentID sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &c.Order, &c.IsActive,
		&parentID, &c.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		p := parentID.String
		c.ParentID = &p
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		c.UpdatedAt = &t
	}
	return c, nil
}
