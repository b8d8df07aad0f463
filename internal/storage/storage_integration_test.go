//go:build integration

package storage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aihelpcenter/helpcenter/internal/migrations"
	"github.com/aihelpcenter/helpcenter/internal/models"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

func setupStorage(t *testing.T) *storage.Storage {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("helpcenter"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := storage.New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, migrations.Run(s.DB))
	return s
}

func newUser(email string) models.User {
	return models.User{
		Email:        email,
		Name:         "Test",
		PasswordHash: "$2a$10$hash",
		Role:         models.RoleUser,
		IsActive:     true,
		Preferences:  map[string]any{"theme": "dark"},
	}
}

func TestStorage_Users(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, newUser("alice@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = s.CreateUser(ctx, newUser("alice@example.com"))
	require.ErrorIs(t, err, storage.ErrUserExists)

	u, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Nil(t, u.LastLogin)
	assert.Equal(t, "dark", u.Preferences["theme"])

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
	_, err = s.GetUser(ctx, "not-a-uuid")
	require.ErrorIs(t, err, storage.ErrUserNotFound)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.UpdateLastLogin(ctx, id, at))
	require.NoError(t, s.SetUserActive(ctx, id, false))
	require.NoError(t, s.SetUserRole(ctx, id, models.RoleAdmin))

	u, err = s.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.True(t, at.Equal(*u.LastLogin))
	assert.False(t, u.IsActive)
	assert.Equal(t, models.RoleAdmin, u.Role)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	users, err := s.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestStorage_ConcurrentCreateUser(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateUser(ctx, newUser("race@example.com"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if assert.ErrorIs(t, err, storage.ErrUserExists) {
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, dupes)
}

func TestStorage_Categories(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	rootID, err := s.CreateCategory(ctx, models.Category{Name: "Security", Icon: "shield", Order: 2, IsActive: true})
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, models.Category{Name: "Security", Icon: "shield"})
	require.ErrorIs(t, err, storage.ErrCategoryExists)

	missing := "00000000-0000-0000-0000-000000000001"
	_, err = s.CreateCategory(ctx, models.Category{Name: "Orphan", Icon: "x", ParentID: &missing})
	require.ErrorIs(t, err, storage.ErrCategoryReference)

	childID, err := s.CreateCategory(ctx, models.Category{Name: "2FA", Icon: "key", Order: 1, IsActive: false, ParentID: &rootID})
	require.NoError(t, err)

	all, err := s.ListCategories(ctx, models.CategoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2FA", all[0].Name)

	active, err := s.ListCategories(ctx, models.CategoryFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)

	children, err := s.ListCategories(ctx, models.CategoryFilter{ParentID: &rootID})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, childID, children[0].ID)

	c, err := s.GetCategory(ctx, childID)
	require.NoError(t, err)
	c.Name = "Two-factor"
	require.NoError(t, s.UpdateCategory(ctx, *c))

	c, err = s.GetCategory(ctx, childID)
	require.NoError(t, err)
	assert.Equal(t, "Two-factor", c.Name)
	assert.NotNil(t, c.UpdatedAt)

	require.NoError(t, s.DeleteCategory(ctx, rootID))
	c, err = s.GetCategory(ctx, childID)
	require.NoError(t, err)
	assert.Nil(t, c.ParentID)

	require.ErrorIs(t, s.DeleteCategory(ctx, rootID), storage.ErrCategoryNotFound)
}

func TestStorage_Messages(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, newUser("owner@example.com"))
	require.NoError(t, err)
	other, err := s.CreateUser(ctx, newUser("other@example.com"))
	require.NoError(t, err)

	msg := models.Message{
		UserID:   owner,
		Content:  "cannot log in",
		Category: "Authentication",
		Type:     "user",
		Status:   models.MessageStatusAnswered,
		Context:  map[string]any{"browser": "firefox"},
		Solution: &models.GeneratedSolution{
			Solution:   models.Solution{Answer: "reset", Steps: []string{"a"}, References: []string{"b"}},
			Confidence: 0.85,
		},
	}
	id, err := s.CreateMessage(ctx, msg)
	require.NoError(t, err)

	got, err := s.GetUserMessage(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, "reset", got.Solution.Solution.Answer)
	assert.Equal(t, "firefox", got.Context["browser"])
	assert.Nil(t, got.Feedback)

	_, err = s.GetUserMessage(ctx, other, id)
	require.ErrorIs(t, err, storage.ErrMessageNotFound)

	now := time.Now().UTC()
	fb := models.Feedback{Rating: 5, Resolved: true}
	require.ErrorIs(t, s.SaveFeedback(ctx, other, id, fb, models.MessageStatusResolved, &now), storage.ErrMessageNotFound)
	require.NoError(t, s.SaveFeedback(ctx, owner, id, fb, models.MessageStatusResolved, &now))

	history, err := s.ListUserMessages(ctx, owner, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.MessageStatusResolved, history[0].Status)
	require.NotNil(t, history[0].Feedback)
	assert.Equal(t, 5, history[0].Feedback.Rating)
	assert.NotNil(t, history[0].ResolvedAt)

	reopened := models.Feedback{Rating: 2}
	require.NoError(t, s.SaveFeedback(ctx, owner, id, reopened, models.MessageStatusAnswered, nil))
	got, err = s.GetUserMessage(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusAnswered, got.Status)
	assert.Nil(t, got.ResolvedAt)
	require.NoError(t, s.SaveFeedback(ctx, owner, id, fb, models.MessageStatusResolved, &now))

	total, err := s.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	resolved, err := s.CountMessagesByStatus(ctx, models.MessageStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)
}
