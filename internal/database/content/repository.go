// Package content provides database operations for canonical content records
// and their provider external ids.
//
// # Usage
//
//	repo := content.NewRepository(db)
//	stored, created, err := repo.CreateEnriched(ctx, record)
//	record, err := repo.FindByExternalID(ctx, "tmdb", "27205")
package content

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/database"
	"github.com/mrlokans/mediashelf/internal/entities"
)

var (
	// ErrDuplicateKey is the cause behind a (type, title) collision of
	// manual content.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrConflictVanished means an insert lost a uniqueness race but the
	// winning row was gone before it could be read. Safe to retry.
	ErrConflictVanished = errors.New("conflicting record disappeared")
)

// Repository handles all content database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new content repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Content, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByExternalID looks up the content a provider id is mapped to.
func (r *Repository) FindByExternalID(ctx context.Context, provider, externalID string) (*entities.Content, error) {
	return findByExternalID(r.db.WithContext(ctx), provider, externalID)
}

func (r *Repository) FindByTypeAndTitle(ctx context.Context, contentType entities.ContentType, title string) (*entities.Content, error) {
	return r.first(r.db.WithContext(ctx).
		Where("type = ? AND title = ?", contentType, title).
		Order("id ASC"))
}

// Create inserts manually entered content. External ids are never written
// on this path.
func (r *Repository) Create(ctx context.Context, c *entities.Content) error {
	c.ID = 0
	c.Origin = entities.OriginManual
	c.ExternalIDs = nil
	c.RefreshSearchText()

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
	if database.IsUniqueViolation(err) {
		return apperr.Wrap(apperr.ErrConflict, "content with this type and title already exists", ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// CreateEnriched stores provider-sourced content together with its single
// external id, or returns the record already mapped to that id. created is
// true only for the call that inserted.
func (r *Repository) CreateEnriched(ctx context.Context, c *entities.Content) (stored *entities.Content, created bool, err error) {
	if len(c.ExternalIDs) != 1 {
		return nil, false, fmt.Errorf("enriched content needs exactly one external id, got %d", len(c.ExternalIDs))
	}
	ext := c.ExternalIDs[0]

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findByExternalID(tx, ext.Provider, ext.ExternalID)
		if err == nil {
			stored = existing
			return nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		record := *c
		record.ID = 0
		record.Origin = entities.OriginEnrichment
		record.ExternalIDs = nil
		record.RefreshSearchText()
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			return err
		}

		row := entities.ContentExternalID{
			ContentID:  record.ID,
			Provider:   ext.Provider,
			ExternalID: ext.ExternalID,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		record.ExternalIDs = []entities.ContentExternalID{row}
		stored = &record
		created = true
		return nil
	})

	if database.IsUniqueViolation(err) {
		// Another writer mapped the id first; theirs is the canonical record.
		existing, findErr := r.FindByExternalID(ctx, ext.Provider, ext.ExternalID)
		if errors.Is(findErr, apperr.ErrNotFound) {
			return nil, false, ErrConflictVanished
		}
		if findErr != nil {
			return nil, false, findErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create enriched content: %w", err)
	}
	return stored, created, nil
}

// Update applies patch to the content with id. Fields outside the patch
// whitelist cannot change through this path.
func (r *Repository) Update(ctx context.Context, id uint, patch Patch) (*entities.Content, error) {
	var updated *entities.Content
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.first(tx.Where("id = ?", id))
		if err != nil {
			return err
		}

		columns := patch.Apply(current)
		if len(columns) > 0 {
			if err := tx.Model(current).Select(columns).Updates(current).Error; err != nil {
				return err
			}
		}
		updated = current
		return nil
	})
	if database.IsUniqueViolation(err) {
		return nil, apperr.Wrap(apperr.ErrConflict, "content with this type and title already exists", ErrDuplicateKey)
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("update content %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the content and its external ids. Interactions are left to
// the caller.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entities.Content{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete content %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("content")
		}
		if err := tx.Where("content_id = ?", id).Delete(&entities.ContentExternalID{}).Error; err != nil {
			return fmt.Errorf("delete external ids of %d: %w", id, err)
		}
		return nil
	})
}

// Exists reports whether content with id is present.
func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Content{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check content %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *Repository) first(query *gorm.DB) (*entities.Content, error) {
	var c entities.Content
	err := query.Preload("ExternalIDs").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("content")
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	return &c, nil
}

func findByExternalID(db *gorm.DB, provider, externalID string) (*entities.Content, error) {
	var c entities.Content
	err := db.Preload("ExternalIDs").
		Joins("JOIN content_external_ids ext ON ext.content_id = contents.id").
		Where("ext.provider = ? AND ext.external_id = ?", provider, externalID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("content")
	}
	if err != nil {
		return nil, fmt.Errorf("get content by external id: %w", err)
	}
	return &c, nil
}
