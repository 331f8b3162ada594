package providers

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// stripHTML removes every tag from s and collapses the remaining whitespace.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	// Block-level tags become spaces so adjacent paragraphs don't glue together.
	s = strings.NewReplacer("<br>", " ", "<br/>", " ", "<br />", " ", "</p>", " ").Replace(s)
	clean := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

func httpsURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// normalizeISBN removes hyphens and spaces from ISBN.
func normalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	isbn = strings.TrimSpace(isbn)

	// Basic validation: ISBN-10 or ISBN-13
	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}

	return isbn
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
