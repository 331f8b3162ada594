package providers

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/entities"
)

// The Search API has no paging; pages are cut from one larger result set.
const itunesMaxResults = 200

// ITunes serves songs from the iTunes Search API.
type ITunes struct {
	*client
}

func NewITunes(baseURL string, cfg ClientConfig) *ITunes {
	return &ITunes{client: newClient(NameITunes, baseURL, cfg)}
}

func (p *ITunes) Name() Name                        { return NameITunes }
func (p *ITunes) ContentType() entities.ContentType { return entities.ContentTypeSong }

func (p *ITunes) Search(ctx context.Context, query string, opts SearchOptions) ([]CandidateSummary, error) {
	query, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	opts = opts.Normalize()

	offset := (opts.Page - 1) * opts.Limit
	want := min(offset+opts.Limit, itunesMaxResults)
	if offset >= want {
		return []CandidateSummary{}, nil
	}

	params := url.Values{}
	params.Set("term", query)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", strconv.Itoa(want))

	var resp itunesResponse
	if err := p.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	results := []CandidateSummary{}
	for i, track := range resp.Results {
		if i < offset {
			continue
		}
		if len(results) == opts.Limit {
			break
		}
		results = append(results, CandidateSummary{
			ExternalID: strconv.FormatInt(track.TrackID, 10),
			Title:      track.TrackName,
			Subtitle:   itunesSubtitle(track),
			Thumbnail:  track.ArtworkURL100,
		})
	}
	return results, nil
}

func (p *ITunes) FetchDetail(ctx context.Context, externalID string) (*entities.Content, error) {
	externalID, err := validateExternalID(externalID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("id", externalID)
	params.Set("entity", "song")

	var resp itunesResponse
	if err := p.getJSON(ctx, "/lookup", params, &resp); err != nil {
		return nil, err
	}

	// Lookup answers 200 with zero results for unknown ids.
	track, ok := resp.track(externalID)
	if !ok {
		return nil, apperr.NotFound("song " + externalID)
	}

	content := newContent(NameITunes, entities.ContentTypeSong, externalID)
	content.Title = track.TrackName
	content.Description = stripHTML(track.LongDescription)
	content.ReleaseDate = parseDate(track.ReleaseDate)
	content.Images = entities.Images{Cover: itunesArtwork(track.ArtworkURL100)}
	if track.ArtistName != "" {
		artistID := ""
		if track.ArtistID != 0 {
			artistID = strconv.FormatInt(track.ArtistID, 10)
		}
		content.Creators = []entities.Creator{{Name: track.ArtistName, Role: "artist", ExternalID: artistID}}
	}
	content.Metadata.Song = &entities.SongMetadata{
		DurationMs: track.TrackTimeMillis,
		Album:      track.CollectionName,
		Genre:      track.PrimaryGenreName,
		PreviewURL: track.PreviewURL,
	}
	if track.TrackExplicitness == "explicit" {
		content.Metadata.SetExtra("explicit", true)
	}

	return content, nil
}

func itunesSubtitle(track itunesTrack) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{track.ArtistName, track.CollectionName} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " - ")
}

// itunesArtwork upgrades the 100px search artwork to 600px.
func itunesArtwork(artwork string) string {
	return strings.Replace(artwork, "100x100", "600x600", 1)
}

// iTunes API response types (internal)

type itunesResponse struct {
	ResultCount int           `json:"resultCount"`
	Results     []itunesTrack `json:"results"`
}

func (r itunesResponse) track(externalID string) (itunesTrack, bool) {
	for _, t := range r.Results {
		if t.WrapperType == "track" && strconv.FormatInt(t.TrackID, 10) == externalID {
			return t, true
		}
	}
	return itunesTrack{}, false
}

type itunesTrack struct {
	WrapperType       string `json:"wrapperType"`
	TrackID           int64  `json:"trackId"`
	TrackName         string `json:"trackName"`
	ArtistID          int64  `json:"artistId"`
	ArtistName        string `json:"artistName"`
	CollectionName    string `json:"collectionName"`
	ArtworkURL100     string `json:"artworkUrl100"`
	ReleaseDate       string `json:"releaseDate"`
	TrackTimeMillis   int64  `json:"trackTimeMillis"`
	PrimaryGenreName  string `json:"primaryGenreName"`
	PreviewURL        string `json:"previewUrl"`
	TrackExplicitness string `json:"trackExplicitness"`
	LongDescription   string `json:"longDescription"`
}
