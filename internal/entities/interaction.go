package entities

import "time"

type InteractionType string

const (
	InteractionView         InteractionType = "view"
	InteractionLike         InteractionType = "like"
	InteractionDislike      InteractionType = "dislike"
	InteractionRate         InteractionType = "rate"
	InteractionShare        InteractionType = "share"
	InteractionSave         InteractionType = "save"
	InteractionSkip         InteractionType = "skip"
	InteractionDetailedView InteractionType = "detailed_view"
	InteractionTimeSpent    InteractionType = "time_spent"
)

type InteractionSource string

const (
	SourceRecommendation InteractionSource = "recommendation"
	SourceSearch         InteractionSource = "search"
	SourceBrowse         InteractionSource = "browse"
	SourceSocial         InteractionSource = "social"
)

const (
	MinRating = 1
	MaxRating = 5

	// FavoriteValue is the sentinel value stored on like interactions.
	FavoriteValue = 1
)

// InteractionContext describes the conditions an interaction happened under.
type InteractionContext struct {
	Source         InteractionSource `gorm:"size:20" json:"source,omitempty"`
	SessionID      string            `gorm:"size:64" json:"sessionId,omitempty"`
	DeviceType     string            `gorm:"size:32" json:"deviceType,omitempty"`
	EventTimestamp *time.Time        `gorm:"index" json:"eventTimestamp,omitempty"`
}

// Interaction is a timestamped fact linking a user to a content record.
// Rate and like interactions are unique per (user, content, type).
type Interaction struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	UserID    uint               `gorm:"not null;index:idx_interactions_user_content,priority:1;index:idx_interactions_user_type,priority:1" json:"userId"`
	ContentID uint               `gorm:"not null;index:idx_interactions_user_content,priority:2;index:idx_interactions_content_type,priority:1" json:"contentId"`
	Type      InteractionType    `gorm:"size:20;not null;index:idx_interactions_user_type,priority:2;index:idx_interactions_content_type,priority:2" json:"type"`
	Value     float64            `gorm:"not null" json:"value"`
	Context   InteractionContext `gorm:"embedded;embeddedPrefix:context_" json:"context"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (Interaction) TableName() string {
	return "interactions"
}
