package content

import (
	"context"
	"fmt"

	"github.com/mrlokans/mediashelf/internal/entities"
)

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortTitle  SortOrder = "title"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListFilter struct {
	Type     entities.ContentType // empty matches every type
	Sort     SortOrder
	Page     int
	PageSize int
}

func (f ListFilter) normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

func (s SortOrder) orderBy() string {
	switch s {
	case SortOldest:
		return "created_at ASC, id ASC"
	case SortTitle:
		return "title ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// List returns one page of content and the total matching the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]entities.Content, int64, error) {
	filter = filter.normalize()

	query := r.db.WithContext(ctx).Model(&entities.Content{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	var items []entities.Content
	err := query.Preload("ExternalIDs").
		Order(filter.Sort.orderBy()).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}
	return items, total, nil
}
