package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/entities"
)

const (
	openLibraryCoversBase  = "https://covers.openlibrary.org"
	openLibraryMaxAuthors  = 3
	openLibraryMaxSubjects = 10
)

// OpenLibrary serves books from the OpenLibrary works API.
type OpenLibrary struct {
	*client
}

func NewOpenLibrary(baseURL string, cfg ClientConfig) *OpenLibrary {
	return &OpenLibrary{client: newClient(NameOpenLibrary, baseURL, cfg)}
}

func (p *OpenLibrary) Name() Name                        { return NameOpenLibrary }
func (p *OpenLibrary) ContentType() entities.ContentType { return entities.ContentTypeBook }

func (p *OpenLibrary) Search(ctx context.Context, query string, opts SearchOptions) ([]CandidateSummary, error) {
	query, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	opts = opts.Normalize()

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(opts.Limit))
	params.Set("page", strconv.Itoa(opts.Page))

	var resp openLibrarySearchResult
	if err := p.getJSON(ctx, "/search.json", params, &resp); err != nil {
		return nil, err
	}

	results := make([]CandidateSummary, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		if len(results) == opts.Limit {
			break
		}
		id := workID(doc.Key)
		if id == "" {
			continue
		}
		results = append(results, CandidateSummary{
			ExternalID: id,
			Title:      doc.Title,
			Subtitle:   openLibrarySubtitle(doc),
			Thumbnail:  openLibraryCover(doc.CoverI, "M"),
		})
	}
	return results, nil
}

func (p *OpenLibrary) FetchDetail(ctx context.Context, externalID string) (*entities.Content, error) {
	externalID, err := validateExternalID(externalID)
	if err != nil {
		return nil, err
	}
	externalID = workID(externalID)

	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	var work openLibraryWork
	if err := p.getJSON(ctx, "/works/"+url.PathEscape(externalID)+".json", nil, &work); err != nil {
		return nil, err
	}

	content := newContent(NameOpenLibrary, entities.ContentTypeBook, externalID)
	content.Title = work.Title
	content.Description = stripHTML(work.Description.String())
	content.ReleaseDate = parseDate(work.FirstPublishDate)
	if len(work.Covers) > 0 {
		content.Images.Cover = upgradeCover(openLibraryCover(work.Covers[0], "M"))
	}
	content.Creators = p.fetchAuthors(ctx, work.Authors)

	subjects := work.Subjects
	if len(subjects) > openLibraryMaxSubjects {
		subjects = subjects[:openLibraryMaxSubjects]
	}
	content.Metadata.Book = &entities.BookMetadata{Categories: subjects}

	return content, nil
}

// fetchAuthors resolves the first few author references to names. Authors
// that cannot be fetched are skipped.
func (p *OpenLibrary) fetchAuthors(ctx context.Context, refs []openLibraryWorkAuthor) []entities.Creator {
	var creators []entities.Creator
	for _, ref := range refs {
		if len(creators) == openLibraryMaxAuthors || ctx.Err() != nil {
			break
		}
		key := ref.Author.Key
		if key == "" {
			continue
		}
		var author struct {
			Name string `json:"name"`
		}
		if err := p.getJSON(ctx, key+".json", nil, &author); err != nil || author.Name == "" {
			p.logger.Debug("author unavailable", zap.String("author_key", key), zap.Error(err))
			continue
		}
		creators = append(creators, entities.Creator{
			Name:       author.Name,
			Role:       "author",
			ExternalID: strings.TrimPrefix(key, "/authors/"),
		})
	}
	return creators
}

// workID turns "/works/OL45804W" into "OL45804W".
func workID(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), "/works/")
}

func openLibrarySubtitle(doc openLibrarySearchDoc) string {
	var parts []string
	if len(doc.AuthorName) > 0 {
		parts = append(parts, doc.AuthorName[0])
	}
	if doc.FirstPublishYear != 0 {
		parts = append(parts, strconv.Itoa(doc.FirstPublishYear))
	}
	return strings.Join(parts, " - ")
}

func openLibraryCover(coverID int, size string) string {
	if coverID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", openLibraryCoversBase, coverID, size)
}

// upgradeCover swaps a medium cover for the large rendition.
func upgradeCover(cover string) string {
	return strings.Replace(cover, "-M.jpg", "-L.jpg", 1)
}

// OpenLibrary API response types (internal)

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverI           int      `json:"cover_i"`
}

type openLibraryWork struct {
	Key              string                  `json:"key"`
	Title            string                  `json:"title"`
	Description      openLibraryText         `json:"description"`
	Authors          []openLibraryWorkAuthor `json:"authors"`
	Covers           []int                   `json:"covers"`
	Subjects         []string                `json:"subjects"`
	FirstPublishDate string                  `json:"first_publish_date"`
}

type openLibraryWorkAuthor struct {
	Author struct {
		Key string `json:"key"`
	} `json:"author"`
}

// openLibraryText is either a plain string or {"type": ..., "value": ...}.
type openLibraryText struct {
	Value string
}

func (t openLibraryText) String() string { return t.Value }

func (t *openLibraryText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Value = s
		return nil
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	t.Value = typed.Value
	return nil
}
