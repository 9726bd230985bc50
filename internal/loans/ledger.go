// Package loans owns the collection of loan records and enforces the
// one-active-loan-per-book rule. Loans only reference books by id: the
// ledger never reaches into the catalog, and a loan whose book was
// deleted later simply dangles.
package loans

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookshelf/internal/apperr"
	"bookshelf/internal/models"
	"bookshelf/internal/storage"
)

var validate = validator.New()

// ErrAlreadyLoaned marks an attempt to loan a book that already has an
// active loan.
var ErrAlreadyLoaned = apperr.NewValidation("BookID", "book is already on loan")

// LoanInput carries the fields for a new loan. Weeks arrives
// pre-validated as an integer from the form layer but the range check
// still happens here.
type LoanInput struct {
	BookID   string `validate:"required"`
	Borrower string `validate:"required"`
	Weeks    int    `validate:"gte=1,lte=4"`
}

// Ledger is the owned state container for loan records.
type Ledger struct {
	mu     sync.RWMutex
	loans  []models.Loan
	db     storage.Storage
	logger *zap.Logger
	now    func() time.Time
}

// New creates an empty ledger backed by the given storage.
func New(db storage.Storage, logger *zap.Logger) *Ledger {
	return &Ledger{
		loans:  []models.Loan{},
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Hydrate loads the ledger from storage. A load failure degrades to an
// empty ledger rather than failing startup.
func (l *Ledger) Hydrate(ctx context.Context) {
	loans, err := l.db.LoadLoans(ctx)
	if err != nil {
		l.logger.Warn("Failed to load loans, starting empty", zap.Error(err))
		loans = []models.Loan{}
	}

	l.mu.Lock()
	l.loans = loans
	l.mu.Unlock()

	l.logger.Info("Loan ledger hydrated", zap.Int("loans", len(loans)))
}

// Create validates the input and records a new loan at the front of the
// collection. The already-loaned check and the insert happen under one
// lock so the one-loan-per-book invariant holds even with concurrent
// callers.
func (l *Ledger) Create(ctx context.Context, input LoanInput) (models.Loan, error) {
	input.Borrower = strings.TrimSpace(input.Borrower)
	if err := validate.Struct(input); err != nil {
		return models.Loan{}, apperr.FromValidator(err)
	}

	loan := models.Loan{
		ID:        uuid.NewString(),
		BookID:    input.BookID,
		Borrower:  input.Borrower,
		Weeks:     input.Weeks,
		StartDate: l.now(),
	}

	l.mu.Lock()
	for _, existing := range l.loans {
		if existing.BookID == input.BookID {
			l.mu.Unlock()
			return models.Loan{}, ErrAlreadyLoaned
		}
	}
	l.loans = append([]models.Loan{loan}, l.loans...)
	l.mu.Unlock()

	l.persist(ctx)
	return loan, nil
}

// List returns a copy of the ledger in most-recent-first order,
// including loans whose book no longer exists.
func (l *Ledger) List() []models.Loan {
	l.mu.RLock()
	defer l.mu.RUnlock()

	loans := make([]models.Loan, len(l.loans))
	copy(loans, l.loans)
	return loans
}

// Len returns the number of loan records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.loans)
}

// LoanedBookIDs returns the set of book ids with an active loan. The set
// is recomputed on each call and may contain ids of deleted books.
func (l *Ledger) LoanedBookIDs() map[string]struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make(map[string]struct{}, len(l.loans))
	for _, loan := range l.loans {
		ids[loan.BookID] = struct{}{}
	}
	return ids
}

// Available returns the catalog records that have no active loan, in
// catalog order. This is the candidate list offered when creating a
// loan.
func (l *Ledger) Available(books []models.Book) []models.Book {
	loaned := l.LoanedBookIDs()

	available := make([]models.Book, 0, len(books))
	for _, b := range books {
		if _, ok := loaned[b.ID]; !ok {
			available = append(available, b)
		}
	}
	return available
}

// AllOnLoan reports whether every book in the catalog has an active
// loan, in which case loan creation is disabled.
func (l *Ledger) AllOnLoan(books []models.Book) bool {
	return len(l.Available(books)) == 0
}

// DueDate computes when a loan is due: start date plus the loan period
// in whole weeks.
func DueDate(loan models.Loan) time.Time {
	return loan.StartDate.Add(time.Duration(loan.Weeks) * 7 * 24 * time.Hour)
}

// persist writes the whole ledger back to storage, best-effort.
func (l *Ledger) persist(ctx context.Context) {
	if err := l.db.SaveLoans(ctx, l.List()); err != nil {
		l.logger.Error("Failed to save loans", zap.Error(err))
	}
}
