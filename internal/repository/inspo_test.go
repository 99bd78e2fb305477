package repository

import (
	"context"
	"testing"
	"time"

	"fitcheck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspoUpsertOverwritesExistingSave(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInspoRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	first := &models.InspoItem{
		UserID:   alice.ID,
		PostID:   7,
		ImageURL: "/uploads/posts/old.jpg",
		SavedAt:  time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &models.InspoItem{
		UserID:   alice.ID,
		PostID:   7,
		ImageURL: "/uploads/posts/new.jpg",
		SavedAt:  time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	items, err := repo.List(ctx, alice.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/uploads/posts/new.jpg", items[0].ImageURL)
	assert.WithinDuration(t, second.SavedAt, items[0].SavedAt, time.Second)
}

func TestInspoGetReturnsNilWhenNotSaved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInspoRepository(db)

	item, err := repo.Get(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestInspoDeleteThenGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInspoRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	require.NoError(t, repo.Upsert(ctx, &models.InspoItem{
		UserID: alice.ID, PostID: 3, ImageURL: "/x.jpg", SavedAt: time.Now(),
	}))

	require.NoError(t, repo.Delete(ctx, alice.ID, 3))

	item, err := repo.Get(ctx, alice.ID, 3)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestInspoListOrdersByMostRecentSave(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInspoRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	base := time.Now().Add(-time.Hour)
	for i, postID := range []uint{10, 20, 30} {
		require.NoError(t, repo.Upsert(ctx, &models.InspoItem{
			UserID:   alice.ID,
			PostID:   postID,
			ImageURL: "/x.jpg",
			SavedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	items, err := repo.List(ctx, alice.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, uint(30), items[0].PostID)
	assert.Equal(t, uint(10), items[2].PostID)
}

func TestInspoSavedPostIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInspoRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	require.NoError(t, repo.Upsert(ctx, &models.InspoItem{
		UserID: alice.ID, PostID: 5, ImageURL: "/x.jpg", SavedAt: time.Now(),
	}))

	saved, err := repo.SavedPostIDs(ctx, alice.ID, []uint{5, 6})
	require.NoError(t, err)
	assert.True(t, saved[5])
	assert.False(t, saved[6])

	empty, err := repo.SavedPostIDs(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInspoBoardsAreIndependentPerUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInspoRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Upsert(ctx, &models.InspoItem{
		UserID: alice.ID, PostID: 1, ImageURL: "/x.jpg", SavedAt: time.Now(),
	}))
	require.NoError(t, repo.Upsert(ctx, &models.InspoItem{
		UserID: bob.ID, PostID: 1, ImageURL: "/x.jpg", SavedAt: time.Now(),
	}))

	require.NoError(t, repo.DeleteAllForUser(ctx, alice.ID))

	bobItems, err := repo.List(ctx, bob.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, bobItems, 1)
}
