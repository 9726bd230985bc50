package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bookshelf/internal/filter"
	"bookshelf/internal/loans"
)

// handleSelectCallback toggles the single-book selection. Selecting the
// same book twice clears the selection.
func (b *Bot) handleSelectCallback(query *tgbotapi.CallbackQuery) {
	bookID := strings.TrimPrefix(query.Data, "select:")

	book, ok := b.catalog.Get(bookID)
	if !ok {
		b.session.ClearSelection()
		b.sendMessage(tgbotapi.NewMessage(query.Message.Chat.ID, "That book is no longer in the catalog."))
		return
	}

	if b.session.ToggleSelect(bookID) {
		text := fmt.Sprintf("Selected %q. Use /edit_book, /delete_book or /details.", book.Title)
		b.sendMessage(tgbotapi.NewMessage(query.Message.Chat.ID, text))
	} else {
		b.sendMessage(tgbotapi.NewMessage(query.Message.Chat.ID, "Selection cleared."))
	}
}

// handleDetailsCallback opens the details screen straight from the
// listing; no prior selection is needed.
func (b *Bot) handleDetailsCallback(query *tgbotapi.CallbackQuery) {
	bookID := strings.TrimPrefix(query.Data, "details:")

	book, ok := b.catalog.Get(bookID)
	if !ok {
		b.sendMessage(tgbotapi.NewMessage(query.Message.Chat.ID, "That book is no longer in the catalog."))
		return
	}
	b.openDetails(query.Message.Chat.ID, book)
}

// handleBackCallback leaves the details screen, dropping any in-flight
// similar-books lookup.
func (b *Bot) handleBackCallback(query *tgbotapi.CallbackQuery) {
	if _, open := b.session.Details(); open {
		b.fetcher.Cancel()
	}
	b.session.CloseDetails()
	b.handleBooks(query.Message)
}

// handlePublisherCallback stores the publisher choice and asks for the
// language facet.
func (b *Bot) handlePublisherCallback(query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != "filter" || state.Step != 2 {
		return
	}

	state.Data["publisher"] = strings.TrimPrefix(query.Data, "publisher:")
	state.Step = 3

	facets := b.catalog.Facets()
	msg := tgbotapi.NewMessage(query.Message.Chat.ID, "Language:")
	msg.ReplyMarkup = facetKeyboard(facets.Languages, "language:")
	b.sendMessage(msg)
}

// handleLanguageCallback finishes the filter conversation and shows the
// filtered listing.
func (b *Bot) handleLanguageCallback(query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != "filter" || state.Step != 3 {
		return
	}

	b.session.SetCriteria(filter.Criteria{
		Query:     stringValue(state.Data, "query"),
		Publisher: stringValue(state.Data, "publisher"),
		Language:  strings.TrimPrefix(query.Data, "language:"),
	})
	state.Step = -1

	b.handleBooks(query.Message)
}

// handleLoanBookCallback stores the chosen book and asks for the loan
// period.
func (b *Bot) handleLoanBookCallback(query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != "loan" || state.Step != 2 {
		return
	}

	state.Data["book_id"] = strings.TrimPrefix(query.Data, "loanbook:")
	state.Step = 3

	msg := tgbotapi.NewMessage(query.Message.Chat.ID, "Loan period in weeks:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1", "weeks:1"),
			tgbotapi.NewInlineKeyboardButtonData("2", "weeks:2"),
			tgbotapi.NewInlineKeyboardButtonData("3", "weeks:3"),
			tgbotapi.NewInlineKeyboardButtonData("4", "weeks:4"),
		),
	)
	b.sendMessage(msg)
}

// handleWeeksCallback creates the loan. Creating any loan clears the
// catalog selection.
func (b *Bot) handleWeeksCallback(ctx context.Context, query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != "loan" || state.Step != 3 {
		return
	}

	weeks, err := strconv.Atoi(strings.TrimPrefix(query.Data, "weeks:"))
	if err != nil {
		b.sendMessage(tgbotapi.NewMessage(query.Message.Chat.ID, "Loan period must be between 1 and 4 weeks."))
		return
	}

	loan, err := b.ledger.Create(ctx, loans.LoanInput{
		BookID:   stringValue(state.Data, "book_id"),
		Borrower: stringValue(state.Data, "borrower"),
		Weeks:    weeks,
	})
	state.Step = -1

	if errors.Is(err, loans.ErrAlreadyLoaned) {
		b.sendMessage(tgbotapi.NewMessage(query.Message.Chat.ID, "That book is already on loan."))
		return
	}
	if err != nil {
		b.sendMessage(tgbotapi.NewMessage(query.Message.Chat.ID, fmt.Sprintf("Loan not created: %v", err)))
		return
	}

	b.session.ClearSelection()

	title := loan.BookID
	if book, ok := b.catalog.Get(loan.BookID); ok {
		title = book.Title
	}
	text := fmt.Sprintf("Loan created: %q to %s, due %s.",
		title, loan.Borrower, loans.DueDate(loan).Format(dueDateFormat))
	b.sendMessage(tgbotapi.NewMessage(query.Message.Chat.ID, text))
}
