package entities

import "time"

// TasteVector is persisted with the user but nothing reads or writes it yet.
type TasteVector struct {
	Version     int                `json:"version"`
	Attributes  map[string]float64 `json:"attributes,omitempty"`
	Confidence  map[string]float64 `json:"confidence,omitempty"`
	LastUpdated time.Time          `json:"lastUpdated"`
	UpdateCount int                `json:"updateCount"`
}

type User struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	DisplayName         string      `gorm:"size:100;not null" json:"displayName"`
	Email               string      `gorm:"size:255" json:"email,omitempty"` // unique when set
	TokenHash           string      `gorm:"uniqueIndex;size:64" json:"-"`
	OnboardingCompleted bool        `gorm:"default:false" json:"onboardingCompleted"`
	TasteVector         TasteVector `gorm:"serializer:json" json:"tasteVector"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
