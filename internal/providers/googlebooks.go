package providers

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrlokans/mediashelf/internal/entities"
)

// GoogleBooks serves books from the Google Books v1 volumes API.
type GoogleBooks struct {
	*client
	apiKey string
}

func NewGoogleBooks(apiKey, baseURL string, cfg ClientConfig) *GoogleBooks {
	return &GoogleBooks{
		client: newClient(NameGoogleBooks, baseURL, cfg),
		apiKey: apiKey,
	}
}

func (p *GoogleBooks) Name() Name                        { return NameGoogleBooks }
func (p *GoogleBooks) ContentType() entities.ContentType { return entities.ContentTypeBook }

func (p *GoogleBooks) Search(ctx context.Context, query string, opts SearchOptions) ([]CandidateSummary, error) {
	query, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	opts = opts.Normalize()

	params := p.params()
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(opts.Limit))
	params.Set("startIndex", strconv.Itoa((opts.Page-1)*opts.Limit))

	var resp googleVolumesResponse
	if err := p.getJSON(ctx, "/volumes", params, &resp); err != nil {
		return nil, err
	}

	results := make([]CandidateSummary, 0, len(resp.Items))
	for _, v := range resp.Items {
		if len(results) == opts.Limit {
			break
		}
		results = append(results, CandidateSummary{
			ExternalID: v.ID,
			Title:      v.VolumeInfo.Title,
			Subtitle:   strings.Join(v.VolumeInfo.Authors, ", "),
			Thumbnail:  httpsURL(firstNonEmpty(v.VolumeInfo.ImageLinks.Thumbnail, v.VolumeInfo.ImageLinks.SmallThumbnail)),
		})
	}
	return results, nil
}

func (p *GoogleBooks) FetchDetail(ctx context.Context, externalID string) (*entities.Content, error) {
	externalID, err := validateExternalID(externalID)
	if err != nil {
		return nil, err
	}

	var volume googleVolume
	if err := p.getJSON(ctx, "/volumes/"+url.PathEscape(externalID), p.params(), &volume); err != nil {
		return nil, err
	}
	info := volume.VolumeInfo

	content := newContent(NameGoogleBooks, entities.ContentTypeBook, externalID)
	content.Title = info.Title
	content.Description = stripHTML(info.Description)
	content.ReleaseDate = parseDate(info.PublishedDate)
	content.Images = entities.Images{
		Cover: httpsURL(firstNonEmpty(
			info.ImageLinks.Large,
			info.ImageLinks.Medium,
			info.ImageLinks.Small,
			info.ImageLinks.Thumbnail,
			info.ImageLinks.SmallThumbnail,
		)),
	}
	for _, author := range info.Authors {
		content.Creators = append(content.Creators, entities.Creator{Name: author, Role: "author"})
	}
	content.Metadata.Book = &entities.BookMetadata{
		PageCount:  info.PageCount,
		Publisher:  info.Publisher,
		ISBN:       info.isbn("ISBN_13"),
		Categories: info.Categories,
	}
	content.Metadata.SetExtra("isbn10", info.isbn("ISBN_10"))
	content.Metadata.SetExtra("subtitle", info.Subtitle)
	content.Metadata.SetExtra("language", info.Language)

	return content, nil
}

func (p *GoogleBooks) params() url.Values {
	params := url.Values{}
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}
	return params
}

// Google Books API response types (internal)

type googleVolumesResponse struct {
	TotalItems int            `json:"totalItems"`
	Items      []googleVolume `json:"items"`
}

type googleVolume struct {
	ID         string           `json:"id"`
	VolumeInfo googleVolumeInfo `json:"volumeInfo"`
}

type googleVolumeInfo struct {
	Title               string                 `json:"title"`
	Subtitle            string                 `json:"subtitle"`
	Authors             []string               `json:"authors"`
	Publisher           string                 `json:"publisher"`
	PublishedDate       string                 `json:"publishedDate"`
	Description         string                 `json:"description"`
	IndustryIdentifiers []googleIdentifier     `json:"industryIdentifiers"`
	PageCount           int                    `json:"pageCount"`
	Categories          []string               `json:"categories"`
	Language            string                 `json:"language"`
	ImageLinks          googleVolumeImageLinks `json:"imageLinks"`
}

func (i googleVolumeInfo) isbn(kind string) string {
	for _, id := range i.IndustryIdentifiers {
		if id.Type == kind {
			return normalizeISBN(id.Identifier)
		}
	}
	return ""
}

type googleIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type googleVolumeImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}
