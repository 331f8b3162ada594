package interactions

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/database"
	"github.com/mrlokans/mediashelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "interactions.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB), db.DB
}

func createContent(t *testing.T, db *gorm.DB, title string) uint {
	t.Helper()
	c := entities.Content{Type: entities.ContentTypeMovie, Title: title, Origin: entities.OriginManual}
	require.NoError(t, db.Create(&c).Error)
	return c.ID
}

func countRows(t *testing.T, db *gorm.DB, userID, contentID uint, interactionType entities.InteractionType) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&entities.Interaction{}).
		Where("user_id = ? AND content_id = ? AND type = ?", userID, contentID, interactionType).
		Count(&count).Error)
	return count
}

func TestRepository_Rate(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	contentID := createContent(t, db, "Inception")

	first, err := repo.Rate(ctx, 1, contentID, 3)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, float64(3), first.Value)
	assert.Equal(t, entities.InteractionRate, first.Type)

	time.Sleep(5 * time.Millisecond)

	second, err := repo.Rate(ctx, 1, contentID, 5)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, float64(5), second.Value)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "createdAt must survive re-rating")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	assert.Equal(t, int64(1), countRows(t, db, 1, contentID, entities.InteractionRate))

	// Another user's rating is a separate row.
	_, err = repo.Rate(ctx, 2, contentID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, db, 2, contentID, entities.InteractionRate))
}

func TestRepository_Rate_Bounds(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	contentID := createContent(t, db, "Inception")

	for _, rating := range []float64{0, 6, -1, 3.5, 1.01} {
		_, err := repo.Rate(ctx, 1, contentID, rating)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, "rating %v", rating)
	}
	for _, rating := range []float64{1, 2, 3, 4, 5} {
		_, err := repo.Rate(ctx, 1, contentID, rating)
		assert.NoError(t, err, "rating %v", rating)
	}
	assert.Equal(t, int64(1), countRows(t, db, 1, contentID, entities.InteractionRate))
}

func TestRepository_Rate_UnknownContent(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.Rate(context.Background(), 1, 404, 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepository_Rate_Concurrent(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	contentID := createContent(t, db, "Inception")

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := repo.Rate(ctx, 1, contentID, float64(rating%5+1))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), countRows(t, db, 1, contentID, entities.InteractionRate))
}

func TestRepository_ToggleFavorite(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	contentID := createContent(t, db, "Inception")

	for i := 1; i <= 5; i++ {
		isFavorite, err := repo.ToggleFavorite(ctx, 1, contentID)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, isFavorite, "toggle %d", i)

		stored, err := repo.IsFavorite(ctx, 1, contentID)
		require.NoError(t, err)
		assert.Equal(t, isFavorite, stored)
	}

	like, err := repo.Get(ctx, 1, contentID, entities.InteractionLike)
	require.NoError(t, err)
	assert.Equal(t, float64(entities.FavoriteValue), like.Value)
}

func TestRepository_ToggleFavorite_UnknownContent(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.ToggleFavorite(context.Background(), 1, 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepository_ToggleFavorite_Concurrent(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	contentID := createContent(t, db, "Inception")

	const toggles = 9
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ToggleFavorite(ctx, 1, contentID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An odd number of serialized toggles leaves exactly one like row.
	assert.Equal(t, int64(1), countRows(t, db, 1, contentID, entities.InteractionLike))
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.Get(context.Background(), 1, 1, entities.InteractionRate)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepository_CascadeDelete(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	target := createContent(t, db, "Inception")
	other := createContent(t, db, "Memento")

	for _, userID := range []uint{1, 2, 3} {
		_, err := repo.Rate(ctx, userID, target, 4)
		require.NoError(t, err)
		_, err = repo.ToggleFavorite(ctx, userID, target)
		require.NoError(t, err)
	}
	_, err := repo.Rate(ctx, 1, other, 2)
	require.NoError(t, err)

	deleted, err := repo.CascadeDelete(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(6), deleted)

	var remaining int64
	require.NoError(t, db.Model(&entities.Interaction{}).Where("content_id = ?", target).Count(&remaining).Error)
	assert.Zero(t, remaining)
	assert.Equal(t, int64(1), countRows(t, db, 1, other, entities.InteractionRate))
}

func TestRepository_DeleteOrphans(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()
	kept := createContent(t, db, "Inception")
	gone := createContent(t, db, "Memento")

	_, err := repo.Rate(ctx, 1, kept, 4)
	require.NoError(t, err)
	_, err = repo.Rate(ctx, 1, gone, 4)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&entities.Content{}, gone).Error)

	deleted, err := repo.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, int64(1), countRows(t, db, 1, kept, entities.InteractionRate))
}
