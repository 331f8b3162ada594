package content

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/mediashelf/internal/entities"
)

const (
	titleHitWeight       = 10
	descriptionHitWeight = 1
	exactTitleBonus      = 50

	DefaultSearchLimit = 20
	MaxSearchLimit     = 100

	// Upper bound on rows scored per query.
	maxSearchCandidates = 1000
)

// SearchHit is a content record with its relevance score.
type SearchHit struct {
	Content entities.Content `json:"content"`
	Score   int              `json:"score"`
}

// Search ranks content by token hits in title and description. Ties go to
// the newest record.
func (r *Repository) Search(ctx context.Context, text string, limit int) ([]SearchHit, error) {
	tokens := unique(tokenize(text))
	if len(tokens) == 0 {
		return []SearchHit{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	var conditions *gorm.DB
	for i, token := range tokens {
		pattern := "%" + token + "%"
		if i == 0 {
			conditions = r.db.Where("search_text LIKE ?", pattern)
		} else {
			conditions = conditions.Or("search_text LIKE ?", pattern)
		}
	}

	var candidates []entities.Content
	err := r.db.WithContext(ctx).Where(conditions).
		Preload("ExternalIDs").
		Order("id DESC").
		Limit(maxSearchCandidates).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}

	phrase := strings.Join(tokenize(text), " ")
	hits := make([]SearchHit, 0, len(candidates))
	for _, c := range candidates {
		if score := relevance(c, tokens, phrase); score > 0 {
			hits = append(hits, SearchHit{Content: c, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Content.ID > hits[j].Content.ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func relevance(c entities.Content, tokens []string, phrase string) int {
	titleTokens := tokenize(c.Title)
	title := strings.Join(titleTokens, " ")
	description := strings.Join(tokenize(c.Description), " ")

	score := 0
	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += titleHitWeight
		}
		if strings.Contains(description, token) {
			score += descriptionHitWeight
		}
	}
	if score > 0 && title == phrase {
		score += exactTitleBonus
	}
	return score
}

func tokenize(s string) []string {
	return entities.SearchTokens(s)
}

func unique(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
