// Package library builds the per-user library: the user's rated content,
// joined with the catalog, filtered, sorted and paginated.
//
// Stages always run in the same order: match the user's rate interactions,
// inner join contents (ratings of deleted content drop out), apply the
// optional content type filter, sort, paginate, project. The total count
// shares the match, join and filter stages but runs as a separate query, so
// under concurrent writes it may observe a slightly different snapshot than
// the page itself.
package library

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/entities"
)

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortRating SortOrder = "rating"
	SortTitle  SortOrder = "title"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 20
)

type Query struct {
	UserID   uint
	Type     entities.ContentType // empty matches every type
	Sort     SortOrder
	Page     int
	PageSize int
}

// Normalize clamps paging: PageSize to [1, MaxPageSize] (0 means default)
// and Page to >= 1.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

func (q Query) offset() int {
	return (q.Page - 1) * q.PageSize
}

func (s SortOrder) orderBy() string {
	switch s {
	case SortRating:
		return "i.value DESC, i.id DESC"
	case SortTitle:
		return "c.title COLLATE BINARY ASC, i.id DESC"
	default:
		return "i.created_at DESC, i.id DESC"
	}
}

// ContentView is the slice of a content record shown in the library.
type ContentView struct {
	ID          uint                     `json:"id"`
	Type        entities.ContentType     `json:"type"`
	Title       string                   `json:"title"`
	Images      entities.Images          `json:"images"`
	ReleaseDate *entities.Date           `json:"releaseDate"`
	Metadata    entities.ContentMetadata `json:"metadata"`
	Creators    []entities.Creator       `json:"creators"`
}

type Item struct {
	Rating     float64     `json:"rating"`
	IsFavorite bool        `json:"isFavorite"`
	CreatedAt  time.Time   `json:"createdAt"`
	Content    ContentView `json:"content"`
}

type Page struct {
	Items      []Item
	TotalItems int64
	TotalPages int
	Page       int
	PageSize   int
	// Empty is set when the user has no library at all (first page, no rows).
	Empty bool
}

// Aggregator reads the library view.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// row is the flat projection scanned from the join.
type row struct {
	InteractionID uint
	Rating        float64
	RatedAt       time.Time
	IsFavorite    bool
	ContentID     uint
	ContentType   entities.ContentType
	Title         string
	ImagePoster   string
	ImageBackdrop string
	ImageCover    string
	ReleaseDate   *entities.Date
	Metadata      entities.ContentMetadata `gorm:"serializer:json"`
	Creators      []entities.Creator       `gorm:"serializer:json"`
}

const projection = `i.id AS interaction_id,
	i.value AS rating,
	i.created_at AS rated_at,
	EXISTS (
		SELECT 1 FROM interactions f
		WHERE f.user_id = i.user_id AND f.content_id = i.content_id AND f.type = 'like'
	) AS is_favorite,
	c.id AS content_id,
	c.type AS content_type,
	c.title,
	c.image_poster,
	c.image_backdrop,
	c.image_cover,
	c.release_date,
	c.metadata,
	c.creators`

func (a *Aggregator) GetLibrary(ctx context.Context, q Query) (*Page, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, apperr.InvalidInput(fmt.Sprintf("unknown content type %q", q.Type))
	}
	q = q.Normalize()

	var total int64
	if err := a.matched(ctx, q).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count library: %w", err)
	}

	var rows []row
	err := a.matched(ctx, q).
		Select(projection).
		Order(q.Sort.orderBy()).
		Limit(q.PageSize).
		Offset(q.offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}

	return &Page{
		Items:      items,
		TotalItems: total,
		TotalPages: totalPages(total, q.PageSize),
		Page:       q.Page,
		PageSize:   q.PageSize,
		Empty:      q.Page == 1 && len(items) == 0,
	}, nil
}

// matched applies the match, join and filter stages.
func (a *Aggregator) matched(ctx context.Context, q Query) *gorm.DB {
	query := a.db.WithContext(ctx).
		Table("interactions AS i").
		Joins("JOIN contents AS c ON c.id = i.content_id").
		Where("i.user_id = ? AND i.type = ?", q.UserID, entities.InteractionRate)
	if q.Type != "" {
		query = query.Where("c.type = ?", q.Type)
	}
	return query
}

func (r row) item() Item {
	return Item{
		Rating:     r.Rating,
		IsFavorite: r.IsFavorite,
		CreatedAt:  r.RatedAt,
		Content: ContentView{
			ID:    r.ContentID,
			Type:  r.ContentType,
			Title: r.Title,
			Images: entities.Images{
				Poster:   r.ImagePoster,
				Backdrop: r.ImageBackdrop,
				Cover:    r.ImageCover,
			},
			ReleaseDate: r.ReleaseDate,
			Metadata:    r.Metadata,
			Creators:    r.Creators,
		},
	}
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
