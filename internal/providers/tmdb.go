package providers

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/entities"
)

const (
	tmdbImageBase = "https://image.tmdb.org/t/p"
	tmdbMaxCast   = 5
)

// TMDB serves movies from The Movie Database v3 API.
type TMDB struct {
	*client
	apiKey string
}

func NewTMDB(apiKey, baseURL string, cfg ClientConfig) *TMDB {
	return &TMDB{
		client: newClient(NameTMDB, baseURL, cfg),
		apiKey: apiKey,
	}
}

func (p *TMDB) Name() Name                        { return NameTMDB }
func (p *TMDB) ContentType() entities.ContentType { return entities.ContentTypeMovie }

func (p *TMDB) Search(ctx context.Context, query string, opts SearchOptions) ([]CandidateSummary, error) {
	query, err := validateQuery(query)
	if err != nil {
		return nil, err
	}
	opts = opts.Normalize()

	params := p.params()
	params.Set("query", query)
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("include_adult", "false")

	var resp tmdbSearchResponse
	if err := p.getJSON(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}

	results := make([]CandidateSummary, 0, min(len(resp.Results), opts.Limit))
	for _, m := range resp.Results {
		if len(results) == opts.Limit {
			break
		}
		results = append(results, CandidateSummary{
			ExternalID: strconv.Itoa(m.ID),
			Title:      m.Title,
			Subtitle:   yearOf(m.ReleaseDate),
			Thumbnail:  tmdbImage("w500", m.PosterPath),
		})
	}
	return results, nil
}

func (p *TMDB) FetchDetail(ctx context.Context, externalID string) (*entities.Content, error) {
	externalID, err := validateExternalID(externalID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := p.withDeadline(ctx)
	defer cancel()

	var movie tmdbMovie
	if err := p.getJSON(ctx, "/movie/"+url.PathEscape(externalID), p.params(), &movie); err != nil {
		return nil, err
	}

	content := newContent(NameTMDB, entities.ContentTypeMovie, externalID)
	content.Title = movie.Title
	content.Description = stripHTML(movie.Overview)
	content.ReleaseDate = parseDate(movie.ReleaseDate)
	content.Images = entities.Images{
		Poster:   tmdbImage("w500", movie.PosterPath),
		Backdrop: tmdbImage("original", movie.BackdropPath),
	}

	genres := make([]string, 0, len(movie.Genres))
	for _, g := range movie.Genres {
		genres = append(genres, g.Name)
	}
	content.Metadata.Movie = &entities.MovieMetadata{
		Runtime: movie.Runtime,
		Budget:  movie.Budget,
		Revenue: movie.Revenue,
		Genres:  genres,
	}
	content.Metadata.SetExtra("imdbId", movie.IMDbID)
	content.Metadata.SetExtra("originalLanguage", movie.OriginalLanguage)
	content.Metadata.SetExtra("tagline", movie.Tagline)

	// Credits are optional: a movie without them is still a valid record.
	var credits tmdbCredits
	if err := p.getJSON(ctx, "/movie/"+url.PathEscape(externalID)+"/credits", p.params(), &credits); err != nil {
		p.logger.Debug("credits unavailable", zap.String("external_id", externalID), zap.Error(err))
	} else {
		content.Creators = tmdbCreators(credits)
	}

	return content, nil
}

func (p *TMDB) params() url.Values {
	params := url.Values{}
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}
	return params
}

// tmdbCreators lists directors first, then the top billed cast.
func tmdbCreators(credits tmdbCredits) []entities.Creator {
	var creators []entities.Creator
	for _, crew := range credits.Crew {
		if crew.Job == "Director" {
			creators = append(creators, entities.Creator{
				Name:       crew.Name,
				Role:       "director",
				ExternalID: strconv.Itoa(crew.ID),
			})
		}
	}

	cast := append([]tmdbCast(nil), credits.Cast...)
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	for i, member := range cast {
		if i == tmdbMaxCast {
			break
		}
		creators = append(creators, entities.Creator{
			Name:       member.Name,
			Role:       "actor",
			ExternalID: strconv.Itoa(member.ID),
		})
	}
	return creators
}

func tmdbImage(size, path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBase + "/" + size + path
}

// TMDB API response types (internal)

type tmdbSearchResponse struct {
	Page    int              `json:"page"`
	Results []tmdbSearchItem `json:"results"`
}

type tmdbSearchItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

type tmdbMovie struct {
	ID               int         `json:"id"`
	IMDbID           string      `json:"imdb_id"`
	Title            string      `json:"title"`
	Overview         string      `json:"overview"`
	Tagline          string      `json:"tagline"`
	ReleaseDate      string      `json:"release_date"`
	Runtime          int         `json:"runtime"`
	Budget           int64       `json:"budget"`
	Revenue          int64       `json:"revenue"`
	Genres           []tmdbGenre `json:"genres"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	OriginalLanguage string      `json:"original_language"`
}

type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tmdbCredits struct {
	Cast []tmdbCast `json:"cast"`
	Crew []tmdbCrew `json:"crew"`
}

type tmdbCast struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

type tmdbCrew struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}
