package content

import "github.com/mrlokans/mediashelf/internal/entities"

// Patch is the whitelist of fields an update may change. Nil fields are left
// untouched. Type, id, createdAt, origin and external ids are not patchable.
type Patch struct {
	Title       *string                   `json:"title"`
	Description *string                   `json:"description"`
	ReleaseDate *entities.Date            `json:"releaseDate"`
	Creators    *[]entities.Creator       `json:"creators"`
	Images      *entities.Images          `json:"images"`
	Metadata    *entities.ContentMetadata `json:"metadata"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.ReleaseDate == nil &&
		p.Creators == nil && p.Images == nil && p.Metadata == nil
}

// Apply copies the patch onto c and returns the columns it changed.
func (p Patch) Apply(c *entities.Content) []string {
	var columns []string
	if p.Title != nil {
		c.Title = *p.Title
		columns = append(columns, "title")
	}
	if p.Description != nil {
		c.Description = *p.Description
		columns = append(columns, "description")
	}
	if p.ReleaseDate != nil {
		d := *p.ReleaseDate
		c.ReleaseDate = &d
		columns = append(columns, "release_date")
	}
	if p.Creators != nil {
		c.Creators = *p.Creators
		columns = append(columns, "creators")
	}
	if p.Images != nil {
		c.Images = *p.Images
		columns = append(columns, "image_poster", "image_backdrop", "image_cover")
	}
	if p.Metadata != nil {
		c.Metadata = *p.Metadata
		columns = append(columns, "metadata")
	}
	if p.Title != nil || p.Description != nil {
		c.RefreshSearchText()
		columns = append(columns, "search_text")
	}
	if len(columns) > 0 {
		columns = append(columns, "updated_at")
	}
	return columns
}
