package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bookshelf/internal/filter"
	"bookshelf/internal/loans"
	"bookshelf/internal/models"
	"bookshelf/internal/session"
	"bookshelf/internal/similar"
)

const dueDateFormat = "02 Jan 2006"

// handleStart shows welcome message and available commands
func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to Bookshelf! 📚

Available commands:
/books - Browse the catalog
/add_book - Add a new book
/edit_book - Edit the selected book
/delete_book - Delete the selected book
/filter - Filter the catalog
/reset_filters - Clear all filters
/details - Inspect the selected book
/loan - Loan a book out
/loans - Show active loans
/back - Return to the catalog`

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	b.sendMessage(msg)
}

// handleBooks renders the filtered catalog with selection and loan
// markers. Tapping a title toggles selection, the info button opens the
// details screen.
func (b *Bot) handleBooks(message *tgbotapi.Message) {
	b.session.SetView(session.ViewCatalog)

	books := b.catalog.List()
	visible := filter.Apply(books, b.session.Criteria())
	loaned := b.ledger.LoanedBookIDs()
	selectedID, _ := b.session.Selected()

	if len(visible) == 0 {
		text := "No books in the catalog yet. Add one with /add_book"
		if len(books) > 0 {
			text = "No books match the current filters. Adjust them with /filter or /reset_filters"
		}
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, text))
		return
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Your catalog (%d of %d books):\n\n", len(visible), len(books))

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, book := range visible {
		marker := ""
		if book.ID == selectedID {
			marker = " ✅"
		}
		if _, onLoan := loaned[book.ID]; onLoan {
			marker += " (on loan)"
		}
		fmt.Fprintf(&text, "%d. %s%s\n", i+1, bookLabel(book.Title, book.Author), marker)

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d. %s", i+1, book.Title),
				"select:"+book.ID,
			),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️", "details:"+book.ID),
		))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}

// handleDeleteBook deletes the currently selected book. Loan records
// referencing it stay in the ledger.
func (b *Bot) handleDeleteBook(ctx context.Context, message *tgbotapi.Message) {
	selectedID, ok := b.session.Selected()
	if !ok {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "No book selected. Pick one from /books first."))
		return
	}

	removed := b.catalog.Remove(ctx, selectedID)
	b.session.ClearSelection()

	text := "Book deleted."
	if !removed {
		// Absent ids are a silent no-op in the catalog; just refresh.
		text = "That book is already gone."
	}
	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, text))
}

// handleResetFilters drops all filter constraints.
func (b *Bot) handleResetFilters(message *tgbotapi.Message) {
	b.session.ResetCriteria()
	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Filters cleared. Use /books to browse the full catalog."))
}

// handleLoans lists active loans with their due dates. Loans whose book
// was deleted are kept in the ledger but hidden here.
func (b *Bot) handleLoans(message *tgbotapi.Message) {
	b.session.SetView(session.ViewLoans)

	ledgerLoans := b.ledger.List()
	if len(ledgerLoans) == 0 {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "No active loans."))
		return
	}

	var text strings.Builder
	text.WriteString("Loaned books:\n\n")
	shown := 0
	for _, loan := range ledgerLoans {
		book, ok := b.catalog.Get(loan.BookID)
		if !ok {
			continue
		}
		shown++
		fmt.Fprintf(&text, "%d. %s\n   Borrower: %s, due %s\n",
			shown,
			book.Title,
			loan.Borrower,
			loans.DueDate(loan).Format(dueDateFormat))
	}

	if shown == 0 {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "No active loans."))
		return
	}
	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, text.String()))
}

// handleDetails opens the details screen for the selected book.
func (b *Bot) handleDetails(message *tgbotapi.Message) {
	selectedID, ok := b.session.Selected()
	if !ok {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "No book selected. Pick one from /books first."))
		return
	}
	book, ok := b.catalog.Get(selectedID)
	if !ok {
		b.session.ClearSelection()
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "That book is no longer in the catalog."))
		return
	}
	b.openDetails(message.Chat.ID, book)
}

// handleBack leaves the details screen and cancels the similar-books
// lookup so a late result is never shown.
func (b *Bot) handleBack(message *tgbotapi.Message) {
	if _, open := b.session.Details(); open {
		b.fetcher.Cancel()
	}
	b.session.CloseDetails()
	b.handleBooks(message)
}

// openDetails switches to the details screen, prints the record and
// kicks off the similar-books lookup.
func (b *Bot) openDetails(chatID int64, book models.Book) {
	b.session.OpenDetails(book)

	var text strings.Builder
	fmt.Fprintf(&text, "📖 %s\n\n", book.Title)
	fmt.Fprintf(&text, "Author: %s\n", book.Author)
	if book.Publisher != "" {
		fmt.Fprintf(&text, "Publisher: %s\n", book.Publisher)
	}
	if book.Year != nil {
		fmt.Fprintf(&text, "Year: %d\n", *book.Year)
	}
	if book.Language != "" {
		fmt.Fprintf(&text, "Language: %s\n", book.Language)
	}
	if book.Pages != nil {
		fmt.Fprintf(&text, "Pages: %d\n", *book.Pages)
	}
	fmt.Fprintf(&text, "Cover: %s\n", book.CoverURL)
	text.WriteString("\nLooking up similar books...")

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to list", "back"),
		),
	)
	b.sendMessage(msg)

	b.fetcher.Fetch(similar.QueryFor(book), func(results []models.SimilarBook, err error) {
		b.sendSimilarBooks(chatID, results, err)
	})
}

// sendSimilarBooks renders the outcome of the enrichment lookup.
func (b *Bot) sendSimilarBooks(chatID int64, results []models.SimilarBook, err error) {
	if err != nil {
		b.sendMessage(tgbotapi.NewMessage(chatID, "Could not load similar books."))
		return
	}
	if len(results) == 0 {
		b.sendMessage(tgbotapi.NewMessage(chatID, "No similar books found."))
		return
	}

	const maxResults = 5
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	var text strings.Builder
	text.WriteString("Similar books:\n\n")
	for i, s := range results {
		fmt.Fprintf(&text, "%d. %s", i+1, s.Title)
		if s.Price != "" {
			fmt.Fprintf(&text, " (%s)", s.Price)
		}
		text.WriteString("\n")
		if s.URL != "" {
			fmt.Fprintf(&text, "   %s\n", s.URL)
		}
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, text.String()))
}
