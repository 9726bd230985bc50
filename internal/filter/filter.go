// Package filter derives the visible subset of the catalog from the
// session's filter criteria. Apply is a pure function: it never mutates
// or reorders its input, so it can be re-run on every listing.
package filter

import (
	"strings"

	"bookshelf/internal/models"
)

// All is the sentinel selector meaning "no constraint". Facet lists are
// prefixed with it and criteria default to it.
const All = "ALL"

// Criteria is the ephemeral per-session filter state: a free-text query
// plus a publisher and a language selector.
type Criteria struct {
	Query     string
	Publisher string
	Language  string
}

// Default returns criteria that match every record.
func Default() Criteria {
	return Criteria{Query: "", Publisher: All, Language: All}
}

// Apply returns the records matching the criteria, preserving catalog
// order. The text query matches case-insensitively against title or
// author; an empty query matches everything.
func Apply(books []models.Book, c Criteria) []models.Book {
	q := strings.ToLower(strings.TrimSpace(c.Query))

	matched := make([]models.Book, 0, len(books))
	for _, b := range books {
		if q != "" &&
			!strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) {
			continue
		}
		if c.Publisher != All && c.Publisher != "" && b.Publisher != c.Publisher {
			continue
		}
		if c.Language != All && c.Language != "" && b.Language != c.Language {
			continue
		}
		matched = append(matched, b)
	}
	return matched
}
