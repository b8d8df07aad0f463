// Package category содержит бизнес-логику справочника категорий с кешированием
// отдельных категорий в Redis.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

// CacheTTL — время жизни категории в кеше.
const CacheTTL = time.Hour

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category with this name already exists")
	ErrParentNotFound   = errors.New("parent category not found")
	ErrInvalidParent    = errors.New("category cannot be its own parent")
)

// Repository определяет методы хранилища категорий.
type Repository interface {
	CreateCategory(ctx context.Context, c models.Category) (string, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции над категориями. cache может быть nil.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func cacheKey(id string) string {
	return "category:" + id
}

// List возвращает категории по фильтру в порядке отображения.
func (s *Service) List(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, error) {
	const op = "category.List"
	list, err := s.repo.ListCategories(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает категорию по ID, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, id string) (*models.Category, error) {
	const op = "category.Get"
	key := cacheKey(id)

	if s.cache != nil {
		var cached models.Category
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	s.cacheSet(ctx, c)
	return c, nil
}

// Create добавляет категорию. Родитель, если указан, должен существовать.
func (s *Service) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	const op = "category.Create"

	if in.ParentID != nil && *in.ParentID == "" {
		in.ParentID = nil
	}
	if in.ParentID != nil {
		if err := s.checkParent(ctx, *in.ParentID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	c := models.Category{
		Name:        in.Name,
		Icon:        in.Icon,
		Description: in.Description,
		Order:       in.Order,
		IsActive:    true,
		ParentID:    in.ParentID,
		CreatedAt:   s.now(),
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	id, err := s.repo.CreateCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}
	c.ID = id

	s.log.Info("created new category", slog.String("id", id), slog.String("name", c.Name))
	return &c, nil
}

// Update применяет частичное изменение и инвалидирует кеш.
func (s *Service) Update(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	const op = "category.Update"

	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Order != nil {
		c.Order = *patch.Order
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	if patch.ParentID != nil {
		switch parent := *patch.ParentID; {
		case parent == "":
			c.ParentID = nil
		case parent == id:
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidParent)
		default:
			if err := s.checkParent(ctx, parent); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			c.ParentID = &parent
		}
	}
	now := s.now()
	c.UpdatedAt = &now

	if err := s.repo.UpdateCategory(ctx, *c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}
	s.invalidate(ctx, id)

	s.log.Info("updated category", slog.String("id", id))
	return c, nil
}

// Delete удаляет категорию и инвалидирует кеш. Хранилище отвязывает
// дочерние категории (parent_id = NULL), поэтому их записи в кеше тоже
// удаляются.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "category.Delete"

	children := s.childIDs(ctx, id)

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}
	s.invalidate(ctx, id)
	for _, childID := range children {
		s.invalidate(ctx, childID)
	}

	s.log.Info("deleted category", slog.String("id", id), slog.Int("detached_children", len(children)))
	return nil
}

// childIDs возвращает ID прямых потомков для инвалидации кеша.
func (s *Service) childIDs(ctx context.Context, id string) []string {
	if s.cache == nil {
		return nil
	}
	children, err := s.repo.ListCategories(ctx, models.CategoryFilter{ParentID: &id})
	if err != nil {
		s.log.Warn("failed to list child categories", slog.String("id", id), sl.Err(err))
		return nil
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids
}

func (s *Service) checkParent(ctx context.Context, parentID string) error {
	_, err := s.repo.GetCategory(ctx, parentID)
	if errors.Is(err, storage.ErrCategoryNotFound) {
		return ErrParentNotFound
	}
	return err
}

func (s *Service) cacheSet(ctx context.Context, c *models.Category) {
	if s.cache == nil {
		return
	}
	key := cacheKey(c.ID)
	if err := s.cache.Set(ctx, key, c, CacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	key := cacheKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, storage.ErrCategoryExists):
		return ErrCategoryExists
	case errors.Is(err, storage.ErrCategoryReference):
		return ErrParentNotFound
	default:
		return err
	}
}
