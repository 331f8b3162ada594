package entities

// ContentMetadata holds the per-type attributes of a content record.
// Exactly one of Movie, Song or Book is set for provider-sourced content;
// Extra keeps attributes the typed variants do not know about yet.
type ContentMetadata struct {
	Movie *MovieMetadata `json:"movie,omitempty"`
	Song  *SongMetadata  `json:"song,omitempty"`
	Book  *BookMetadata  `json:"book,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

type MovieMetadata struct {
	Runtime int      `json:"runtime,omitempty"` // minutes
	Budget  int64    `json:"budget,omitempty"`
	Revenue int64    `json:"revenue,omitempty"`
	Genres  []string `json:"genres,omitempty"`
}

type SongMetadata struct {
	DurationMs int64  `json:"durationMs,omitempty"`
	Album      string `json:"album,omitempty"`
	Genre      string `json:"genre,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

type BookMetadata struct {
	PageCount  int      `json:"pageCount,omitempty"`
	Publisher  string   `json:"publisher,omitempty"`
	ISBN       string   `json:"isbn,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// SetExtra records a forward-compatible attribute. Empty values are skipped.
func (m *ContentMetadata) SetExtra(key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
	case []string:
		if len(v) == 0 {
			return
		}
	}
	if m.Extra == nil {
		m.Extra = make(map[string]any)
	}
	m.Extra[key] = value
}

// MatchesType reports whether the populated variant agrees with t.
// Metadata with no typed variant matches every type.
func (m ContentMetadata) MatchesType(t ContentType) bool {
	switch {
	case m.Movie != nil:
		return t == ContentTypeMovie && m.Song == nil && m.Book == nil
	case m.Song != nil:
		return t == ContentTypeSong && m.Book == nil
	case m.Book != nil:
		return t == ContentTypeBook
	}
	return true
}
