package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf/internal/filter"
	"bookshelf/internal/models"
)

func TestSession_ToggleSelect(t *testing.T) {
	s := New()

	_, ok := s.Selected()
	assert.False(t, ok)

	assert.True(t, s.ToggleSelect("b1"))
	id, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, "b1", id)

	// Selecting another book moves the selection
	assert.True(t, s.ToggleSelect("b2"))
	id, _ = s.Selected()
	assert.Equal(t, "b2", id)

	// Selecting the same book again clears it
	assert.False(t, s.ToggleSelect("b2"))
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestSession_LeavingCatalogClearsSelection(t *testing.T) {
	s := New()
	s.ToggleSelect("b1")

	s.SetView(ViewLoans)

	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, ViewLoans, s.View())
}

func TestSession_DetailsIndependentOfSelection(t *testing.T) {
	s := New()

	// No selection needed to inspect a book
	s.OpenDetails(models.Book{ID: "b9", Title: "Clean Code"})

	assert.Equal(t, ViewDetails, s.View())
	book, ok := s.Details()
	assert.True(t, ok)
	assert.Equal(t, "b9", book.ID)

	s.CloseDetails()
	assert.Equal(t, ViewCatalog, s.View())
	_, ok = s.Details()
	assert.False(t, ok)
}

func TestSession_OpenDetailsClearsSelection(t *testing.T) {
	s := New()
	s.ToggleSelect("b1")

	s.OpenDetails(models.Book{ID: "b2"})

	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestSession_Criteria(t *testing.T) {
	s := New()
	assert.Equal(t, filter.Default(), s.Criteria())

	c := filter.Criteria{Query: "go", Publisher: "Manning", Language: filter.All}
	s.SetCriteria(c)
	assert.Equal(t, c, s.Criteria())

	s.ResetCriteria()
	assert.Equal(t, filter.Default(), s.Criteria())
}
