package storage

import (
	"context"

	"bookshelf/internal/models"
)

// Storage defines the interface for persisting the catalog and the loan
// ledger. Each collection is saved and loaded as a whole: there is no
// incremental diffing, every save overwrites the previous blob.
//
// Load operations are forgiving: a missing or unreadable blob yields an
// empty collection and no error, so the application always starts even
// when nothing was ever saved.
type Storage interface {
	// Book collection
	LoadBooks(ctx context.Context) ([]models.Book, error)
	SaveBooks(ctx context.Context, books []models.Book) error

	// Loan collection
	LoadLoans(ctx context.Context) ([]models.Loan, error)
	SaveLoans(ctx context.Context, loans []models.Loan) error

	// Lifecycle
	Close() error
}
