package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mediashelf/internal/entities"
)

func newOpenLibraryServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search.json":
			_, _ = w.Write([]byte(`{"numFound":1,"docs":[
				{"key":"/works/OL27448W","title":"The Lord of the Rings","author_name":["J.R.R. Tolkien"],
				 "first_publish_year":1954,"cover_i":14625765}
			]}`))
		case "/works/OL27448W.json":
			_, _ = w.Write([]byte(`{
				"key":"/works/OL27448W","title":"The Lord of the Rings",
				"description":{"type":"/type/text","value":"An <i>epic</i> high-fantasy novel."},
				"authors":[{"author":{"key":"/authors/OL26320A"}},{"author":{"key":"/authors/OL404A"}}],
				"covers":[14625765],"subjects":["Fantasy","Middle Earth"],
				"first_publish_date":"July 29, 1954"
			}`))
		case "/authors/OL26320A.json":
			_, _ = w.Write([]byte(`{"name":"J.R.R. Tolkien"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestOpenLibrary_Search(t *testing.T) {
	server := newOpenLibraryServer(t)
	defer server.Close()

	p := NewOpenLibrary(server.URL, ClientConfig{})
	results, err := p.Search(context.Background(), "lord of the rings", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, CandidateSummary{
		ExternalID: "OL27448W",
		Title:      "The Lord of the Rings",
		Subtitle:   "J.R.R. Tolkien - 1954",
		Thumbnail:  "https://covers.openlibrary.org/b/id/14625765-M.jpg",
	}, results[0])
}

func TestOpenLibrary_FetchDetail(t *testing.T) {
	server := newOpenLibraryServer(t)
	defer server.Close()

	p := NewOpenLibrary(server.URL, ClientConfig{})
	content, err := p.FetchDetail(context.Background(), "/works/OL27448W")
	require.NoError(t, err)

	assert.Equal(t, entities.ContentTypeBook, content.Type)
	assert.Equal(t, "An epic high-fantasy novel.", content.Description)
	assert.Equal(t, "1954-07-29", content.ReleaseDate.String())
	assert.Equal(t, "https://covers.openlibrary.org/b/id/14625765-L.jpg", content.Images.Cover)
	assert.Equal(t, map[string]string{"openlibrary": "OL27448W"}, content.ExternalIDMap())

	// The second author 404s and is skipped.
	assert.Equal(t, []entities.Creator{{Name: "J.R.R. Tolkien", Role: "author", ExternalID: "OL26320A"}}, content.Creators)
	assert.Equal(t, []string{"Fantasy", "Middle Earth"}, content.Metadata.Book.Categories)
}

func TestOpenLibraryText_PlainString(t *testing.T) {
	var work openLibraryWork
	require.NoError(t, json.Unmarshal([]byte(`{"description":"plain"}`), &work))
	assert.Equal(t, "plain", work.Description.String())
}

func TestOpenLibrary_FetchDetail_SharesOneDeadline(t *testing.T) {
	const timeout = 300 * time.Millisecond

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/works/OL1W.json":
			_, _ = w.Write([]byte(`{"title":"Slow Authors","authors":[
				{"author":{"key":"/authors/OL1A"}},{"author":{"key":"/authors/OL2A"}},{"author":{"key":"/authors/OL3A"}}
			]}`))
		default:
			select {
			case <-time.After(250 * time.Millisecond):
				_, _ = w.Write([]byte(`{"name":"Someone"}`))
			case <-r.Context().Done():
			}
		}
	}))
	defer server.Close()

	p := NewOpenLibrary(server.URL, ClientConfig{Timeout: timeout})

	start := time.Now()
	content, err := p.FetchDetail(context.Background(), "OL1W")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "Slow Authors", content.Title)
	assert.LessOrEqual(t, len(content.Creators), 1)
	assert.Less(t, elapsed, 2*timeout)
}
