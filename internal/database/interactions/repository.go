// Package interactions provides database operations for user interactions
// with content: ratings, favorites and the cascade and cleanup paths that
// keep them consistent with the catalog.
//
// # Usage
//
//	repo := interactions.NewRepository(db)
//	rating, err := repo.Rate(ctx, userID, contentID, 4)
//	isFavorite, err := repo.ToggleFavorite(ctx, userID, contentID)
package interactions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/entities"
)

// uniqueTarget matches the partial unique index on rate and like rows.
var uniqueTarget = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "content_id"}, {Name: "type"}},
	TargetWhere: clause.Where{Exprs: []clause.Expression{
		clause.Expr{SQL: "type IN ('rate', 'like')"},
	}},
}

// Repository handles all interaction database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new interactions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Rate upserts the user's single rating for the content. The original
// createdAt survives re-rating.
func (r *Repository) Rate(ctx context.Context, userID, contentID uint, rating float64) (*entities.Interaction, error) {
	if rating != math.Trunc(rating) || rating < entities.MinRating || rating > entities.MaxRating {
		return nil, apperr.InvalidInput(fmt.Sprintf("rating must be an integer between %d and %d", entities.MinRating, entities.MaxRating))
	}

	var stored entities.Interaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureContent(tx, contentID); err != nil {
			return err
		}

		now := time.Now().UTC()
		row := entities.Interaction{
			UserID:    userID,
			ContentID: contentID,
			Type:      entities.InteractionRate,
			Value:     rating,
			CreatedAt: now,
			UpdatedAt: now,
		}
		upsert := uniqueTarget
		upsert.DoUpdates = clause.AssignmentColumns([]string{"value", "updated_at"})
		if err := tx.Clauses(upsert).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}

		// The upsert path does not report the surviving row id.
		return tx.Where("user_id = ? AND content_id = ? AND type = ?", userID, contentID, entities.InteractionRate).
			First(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ToggleFavorite flips the like interaction and reports the new state.
// The delete-then-insert runs in one immediate transaction, so concurrent
// toggles serialize and never leave two like rows.
func (r *Repository) ToggleFavorite(ctx context.Context, userID, contentID uint) (bool, error) {
	var isFavorite bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureContent(tx, contentID); err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND content_id = ? AND type = ?", userID, contentID, entities.InteractionLike).
			Delete(&entities.Interaction{})
		if result.Error != nil {
			return fmt.Errorf("remove favorite: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			isFavorite = false
			return nil
		}

		like := entities.Interaction{
			UserID:    userID,
			ContentID: contentID,
			Type:      entities.InteractionLike,
			Value:     entities.FavoriteValue,
		}
		if err := tx.Create(&like).Error; err != nil {
			return fmt.Errorf("add favorite: %w", err)
		}
		isFavorite = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return isFavorite, nil
}

func (r *Repository) IsFavorite(ctx context.Context, userID, contentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Interaction{}).
		Where("user_id = ? AND content_id = ? AND type = ?", userID, contentID, entities.InteractionLike).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

// Get returns the most recent interaction of the given type.
func (r *Repository) Get(ctx context.Context, userID, contentID uint, interactionType entities.InteractionType) (*entities.Interaction, error) {
	var interaction entities.Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND type = ?", userID, contentID, interactionType).
		Order("id DESC").
		First(&interaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("interaction")
	}
	if err != nil {
		return nil, fmt.Errorf("get interaction: %w", err)
	}
	return &interaction, nil
}

// CascadeDelete removes every interaction referencing contentID.
func (r *Repository) CascadeDelete(ctx context.Context, contentID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("content_id = ?", contentID).Delete(&entities.Interaction{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete interactions of content %d: %w", contentID, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteOrphans removes interactions whose content no longer exists.
func (r *Repository) DeleteOrphans(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM contents WHERE contents.id = interactions.content_id)").
		Delete(&entities.Interaction{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete orphan interactions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func ensureContent(tx *gorm.DB, contentID uint) error {
	var count int64
	if err := tx.Model(&entities.Content{}).Where("id = ?", contentID).Count(&count).Error; err != nil {
		return fmt.Errorf("check content %d: %w", contentID, err)
	}
	if count == 0 {
		return apperr.NotFound("content")
	}
	return nil
}
