package category

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aihelpcenter/helpcenter/internal/cache"
	"github.com/aihelpcenter/helpcenter/internal/config"
	"github.com/aihelpcenter/helpcenter/internal/lib/logger"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

// setNullRepo хранит категории в памяти и при удалении отвязывает
// потомков так же, как внешний ключ ON DELETE SET NULL.
type setNullRepo struct {
	mu   sync.Mutex
	byID map[string]models.Category
}

func (r *setNullRepo) CreateCategory(_ context.Context, c models.Category) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return c.ID, nil
}

func (r *setNullRepo) GetCategory(_ context.Context, id string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, storage.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *setNullRepo) ListCategories(_ context.Context, filter models.CategoryFilter) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Category
	for _, c := range r.byID {
		if filter.ParentID != nil && (c.ParentID == nil || *c.ParentID != *filter.ParentID) {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *setNullRepo) UpdateCategory(_ context.Context, c models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *setNullRepo) DeleteCategory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return storage.ErrCategoryNotFound
	}
	delete(r.byID, id)
	for childID, c := range r.byID {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
			r.byID[childID] = c
		}
	}
	return nil
}

func TestService_DeleteRefreshesCachedChildren(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	ctx := context.Background()
	redisCache, err := cache.InitServer(ctx, config.RedisConnection{
		AddressRedis: mr.Addr(),
		DialTimeout:  time.Second,
		TimeoutRedis: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisCache.Close() })

	repo := &setNullRepo{byID: map[string]models.Category{
		parentID: {ID: parentID, Name: "Security", IsActive: true},
		catID:    {ID: catID, Name: "2FA", IsActive: true, ParentID: ptr(parentID)},
	}}
	svc := NewService(repo, redisCache, logger.Discard())

	child, err := svc.Get(ctx, catID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	require.True(t, mr.Exists("category:"+catID))

	require.NoError(t, svc.Delete(ctx, parentID))

	assert.False(t, mr.Exists("category:"+catID))
	child, err = svc.Get(ctx, catID)
	require.NoError(t, err)
	assert.Nil(t, child.ParentID)
}
