// Package session tracks the per-session UI state: which single book is
// selected, which screen is active, the book being inspected in the
// details screen and the current filter criteria. None of this state is
// persisted.
package session

import (
	"sync"

	"bookshelf/internal/filter"
	"bookshelf/internal/models"
)

// View identifies the active screen.
type View string

const (
	ViewCatalog View = "catalog"
	ViewLoans   View = "loans"
	ViewDetails View = "details"
)

// Session is the glue state between the catalog, the ledger and the
// rendering layer.
type Session struct {
	mu         sync.Mutex
	selectedID string
	view       View
	details    *models.Book
	criteria   filter.Criteria
}

// New returns a session on the catalog view with no selection and
// unconstrained filters.
func New() *Session {
	return &Session{
		view:     ViewCatalog,
		criteria: filter.Default(),
	}
}

// ToggleSelect selects the given book id, or clears the selection when
// the same id is selected twice. Returns whether the id is selected
// afterwards.
func (s *Session) ToggleSelect(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID == id {
		s.selectedID = ""
		return false
	}
	s.selectedID = id
	return true
}

// Selected returns the currently selected book id, if any.
func (s *Session) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID, s.selectedID != ""
}

// ClearSelection drops the current selection. Called when the selected
// book is deleted and when any loan is created.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

// View returns the active screen.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView switches the active screen. Switching away from the catalog
// clears the selection; switching away from details drops the inspected
// book.
func (s *Session) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v != ViewCatalog {
		s.selectedID = ""
	}
	if v != ViewDetails {
		s.details = nil
	}
	s.view = v
}

// OpenDetails switches to the details screen for the given book.
// Viewing details does not require a prior selection.
func (s *Session) OpenDetails(book models.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedID = ""
	s.details = &book
	s.view = ViewDetails
}

// CloseDetails returns to the catalog screen.
func (s *Session) CloseDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.details = nil
	s.view = ViewCatalog
}

// Details returns the book being inspected on the details screen.
func (s *Session) Details() (models.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.details == nil {
		return models.Book{}, false
	}
	return *s.details, true
}

// Criteria returns the current filter criteria.
func (s *Session) Criteria() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SetCriteria replaces the filter criteria.
func (s *Session) SetCriteria(c filter.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
}

// ResetCriteria drops all filter constraints.
func (s *Session) ResetCriteria() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = filter.Default()
}
