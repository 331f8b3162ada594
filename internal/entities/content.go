package entities

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

type ContentType string

const (
	ContentTypeMovie ContentType = "movie"
	ContentTypeSong  ContentType = "song"
	ContentTypeBook  ContentType = "book"
)

// ContentTypes lists every supported content type in display order.
var ContentTypes = []ContentType{ContentTypeMovie, ContentTypeSong, ContentTypeBook}

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeMovie, ContentTypeSong, ContentTypeBook:
		return true
	}
	return false
}

// ContentOrigin records how a content record entered the catalog.
type ContentOrigin string

const (
	OriginManual     ContentOrigin = "manual"
	OriginEnrichment ContentOrigin = "enrichment"
)

type Creator struct {
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role,omitempty"` // director, actor, artist, author
	ExternalID string `json:"externalId,omitempty"`
}

type Images struct {
	Poster   string `gorm:"size:2048" json:"poster,omitempty"`
	Backdrop string `gorm:"size:2048" json:"backdrop,omitempty"`
	Cover    string `gorm:"size:2048" json:"cover,omitempty"`
}

// ProcessingStatus is reserved for future enrichment passes.
type ProcessingStatus struct {
	AttributesExtracted bool       `gorm:"default:false" json:"attributesExtracted"`
	LastProcessed       *time.Time `json:"lastProcessed,omitempty"`
	Version             string     `gorm:"size:32" json:"version,omitempty"`
}

// Content is the canonical, de-duplicated catalog entry for one work.
type Content struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	Type             ContentType         `gorm:"size:10;not null;index" json:"type" validate:"required,oneof=movie song book"`
	Title            string              `gorm:"size:512;not null;index" json:"title" validate:"required,max=512"`
	Description      string              `gorm:"type:text" json:"description"`
	ReleaseDate      *Date               `gorm:"index" json:"releaseDate"`
	Creators         []Creator           `gorm:"serializer:json" json:"creators" validate:"dive"`
	Images           Images              `gorm:"embedded;embeddedPrefix:image_" json:"images"`
	Metadata         ContentMetadata     `gorm:"serializer:json" json:"metadata"`
	ExternalIDs      []ContentExternalID `gorm:"foreignKey:ContentID" json:"-"`
	Origin           ContentOrigin       `gorm:"size:20;not null;default:'manual'" json:"origin"`
	ProcessingStatus ProcessingStatus    `gorm:"embedded;embeddedPrefix:processing_" json:"processingStatus"`
	SearchText       string              `gorm:"type:text;not null;default:''" json:"-"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// ContentExternalID maps one provider-native id to a content record.
// (provider, external_id) is unique across the whole catalog.
type ContentExternalID struct {
	ID         uint      `gorm:"primaryKey"`
	ContentID  uint      `gorm:"not null;index"`
	Provider   string    `gorm:"size:32;not null;uniqueIndex:idx_external_ids_provider_external_id,priority:1"`
	ExternalID string    `gorm:"size:128;not null;uniqueIndex:idx_external_ids_provider_external_id,priority:2"`
	CreatedAt  time.Time
}

func (Content) TableName() string {
	return "contents"
}

func (ContentExternalID) TableName() string {
	return "content_external_ids"
}

// SearchTokens lowercases s with Unicode case folding and splits it on
// anything that is not a letter or digit.
func SearchTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// RefreshSearchText recomputes the folded title and description text that
// search filters on. SQLite LOWER only folds ASCII, so folding happens here.
func (c *Content) RefreshSearchText() {
	c.SearchText = strings.Join(SearchTokens(c.Title+" "+c.Description), " ")
}

// ExternalIDMap returns the provider -> id view of ExternalIDs.
func (c *Content) ExternalIDMap() map[string]string {
	ids := make(map[string]string, len(c.ExternalIDs))
	for _, ext := range c.ExternalIDs {
		ids[ext.Provider] = ext.ExternalID
	}
	return ids
}

// ExternalID returns the id stored for provider, if any.
func (c *Content) ExternalID(provider string) (string, bool) {
	for _, ext := range c.ExternalIDs {
		if ext.Provider == provider {
			return ext.ExternalID, true
		}
	}
	return "", false
}

func (c Content) MarshalJSON() ([]byte, error) {
	type content Content
	return json.Marshal(struct {
		content
		ExternalIDs map[string]string `json:"externalIds"`
	}{
		content:     content(c),
		ExternalIDs: c.ExternalIDMap(),
	})
}
