package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/entities"
)

const googleVolumeJSON = `{
	"id":"zyTCAlFPjgYC",
	"volumeInfo":{
		"title":"The Google Story","authors":["David A. Vise","Mark Malseed"],
		"publisher":"Random House","publishedDate":"2005-11",
		"description":"<p>Here is the story behind one of the most <b>remarkable</b> Internet successes.</p>",
		"industryIdentifiers":[{"type":"ISBN_10","identifier":"055380457X"},{"type":"ISBN_13","identifier":"9780553804577"}],
		"pageCount":207,"categories":["Business & Economics"],"language":"en",
		"imageLinks":{"smallThumbnail":"http://books.google.com/small.jpg","thumbnail":"http://books.google.com/thumb.jpg"}
	}
}`

func newGoogleBooksServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/volumes":
			assert.Equal(t, "20", r.URL.Query().Get("startIndex"))
			_, _ = w.Write([]byte(`{"totalItems":1,"items":[` + googleVolumeJSON + `]}`))
		case "/volumes/zyTCAlFPjgYC":
			_, _ = w.Write([]byte(googleVolumeJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestGoogleBooks_Search(t *testing.T) {
	server := newGoogleBooksServer(t)
	defer server.Close()

	p := NewGoogleBooks("", server.URL, ClientConfig{})
	results, err := p.Search(context.Background(), "google story", SearchOptions{Page: 2})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, CandidateSummary{
		ExternalID: "zyTCAlFPjgYC",
		Title:      "The Google Story",
		Subtitle:   "David A. Vise, Mark Malseed",
		Thumbnail:  "https://books.google.com/thumb.jpg",
	}, results[0])
}

func TestGoogleBooks_FetchDetail(t *testing.T) {
	server := newGoogleBooksServer(t)
	defer server.Close()

	p := NewGoogleBooks("", server.URL, ClientConfig{})
	content, err := p.FetchDetail(context.Background(), "zyTCAlFPjgYC")
	require.NoError(t, err)

	assert.Equal(t, entities.ContentTypeBook, content.Type)
	assert.Equal(t, "Here is the story behind one of the most remarkable Internet successes.", content.Description)
	assert.Equal(t, "2005-11-01", content.ReleaseDate.String())
	assert.Equal(t, "https://books.google.com/thumb.jpg", content.Images.Cover)
	assert.Len(t, content.Creators, 2)
	assert.Equal(t, map[string]string{"googleBooks": "zyTCAlFPjgYC"}, content.ExternalIDMap())

	require.NotNil(t, content.Metadata.Book)
	assert.Equal(t, "9780553804577", content.Metadata.Book.ISBN)
	assert.Equal(t, 207, content.Metadata.Book.PageCount)
	assert.Equal(t, "055380457X", content.Metadata.Extra["isbn10"])
}

func TestGoogleBooks_FetchDetail_NotFound(t *testing.T) {
	server := newGoogleBooksServer(t)
	defer server.Close()

	p := NewGoogleBooks("", server.URL, ClientConfig{})
	_, err := p.FetchDetail(context.Background(), "missing")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
