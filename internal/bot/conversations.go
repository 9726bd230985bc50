package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bookshelf/internal/apperr"
	"bookshelf/internal/catalog"
	"bookshelf/internal/filter"
	"bookshelf/internal/session"
)

// skipToken lets the user leave an optional form field empty.
const skipToken = "-"

// handleConversation processes multi-step conversations
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	userID := message.From.ID

	switch state.Command {
	case "add_book", "edit_book":
		b.handleBookFormConversation(ctx, message, state)
	case "loan":
		b.handleLoanConversation(message, state)
	case "filter":
		b.handleFilterConversation(message, state)
	}

	// Clean up completed conversations
	if state.Step == -1 {
		delete(b.states, userID)
	}
}

// handleAddBookStart initiates the add book conversation
func (b *Bot) handleAddBookStart(message *tgbotapi.Message) {
	userID := message.From.ID
	b.states[userID] = &ConversationState{
		Command: "add_book",
		Step:    1,
		Data:    make(map[string]interface{}),
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "Please enter the book title:")
	b.sendMessage(msg)
}

// handleEditBookStart initiates the edit conversation for the selected
// book. All fields are re-entered; the id stays the same.
func (b *Bot) handleEditBookStart(message *tgbotapi.Message) {
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

	userID := message.From.ID
	b.states[userID] = &ConversationState{
		Command: "edit_book",
		Step:    1,
		Data:    map[string]interface{}{"book_id": book.ID},
	}

	text := fmt.Sprintf("Editing %q. Please enter the new title:", book.Title)
	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, text))
}

// handleBookFormConversation collects the book fields one per step and
// submits them to the catalog at the end. Validation happens at the
// catalog boundary; a rejected form leaves the catalog unchanged.
func (b *Bot) handleBookFormConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	text := strings.TrimSpace(message.Text)
	value := text
	if value == skipToken {
		value = ""
	}

	switch state.Step {
	case 1: // Title
		if value == "" {
			b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Title is required. Please enter the book title:"))
			return
		}
		state.Data["title"] = value
		state.Step = 2
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Author:"))

	case 2: // Author
		if value == "" {
			b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Author is required. Please enter the author:"))
			return
		}
		state.Data["author"] = value
		state.Step = 3
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Publisher (or - to skip):"))

	case 3: // Publisher
		state.Data["publisher"] = value
		state.Step = 4
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Publication year (or - to skip):"))

	case 4: // Year
		state.Data["year"] = value
		state.Step = 5
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Language (or - to skip):"))

	case 5: // Language
		state.Data["language"] = value
		state.Step = 6
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Number of pages (or - to skip):"))

	case 6: // Pages
		state.Data["pages"] = value
		state.Step = 7
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Cover image URL:"))

	case 7: // Cover URL, then submit
		if value == "" {
			b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Cover URL is required. Please enter it:"))
			return
		}

		input := catalog.BookInput{
			Title:     stringValue(state.Data, "title"),
			Author:    stringValue(state.Data, "author"),
			Publisher: stringValue(state.Data, "publisher"),
			Year:      stringValue(state.Data, "year"),
			Language:  stringValue(state.Data, "language"),
			Pages:     stringValue(state.Data, "pages"),
			CoverURL:  value,
		}

		if state.Command == "edit_book" {
			b.submitBookEdit(ctx, message, state, input)
		} else {
			b.submitBookAdd(ctx, message, input)
		}
		state.Step = -1
	}
}

func (b *Bot) submitBookAdd(ctx context.Context, message *tgbotapi.Message, input catalog.BookInput) {
	book, err := b.catalog.Add(ctx, input)
	if err != nil {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Book not added: %v", err)))
		return
	}
	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("Added %q to the catalog. Browse it with /books", book.Title)))
}

func (b *Bot) submitBookEdit(ctx context.Context, message *tgbotapi.Message, state *ConversationState, input catalog.BookInput) {
	bookID := stringValue(state.Data, "book_id")

	book, err := b.catalog.Update(ctx, bookID, input)
	if errors.Is(err, apperr.ErrNotFound) {
		b.session.ClearSelection()
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "That book is no longer in the catalog."))
		return
	}
	if err != nil {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Book not updated: %v", err)))
		return
	}
	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Updated %q.", book.Title)))
}

// handleLoanStart initiates the loan conversation. When every book is
// already out, loan creation is disabled instead of offering an invalid
// choice.
func (b *Bot) handleLoanStart(message *tgbotapi.Message) {
	b.session.SetView(session.ViewLoans)

	if b.catalog.Len() == 0 {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "No books in the catalog yet. Add one with /add_book"))
		return
	}
	if b.ledger.AllOnLoan(b.catalog.List()) {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "All books are currently on loan. Please check back later."))
		return
	}

	userID := message.From.ID
	b.states[userID] = &ConversationState{
		Command: "loan",
		Step:    1,
		Data:    make(map[string]interface{}),
	}

	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Who is borrowing? Please enter the borrower's full name:"))
}

// handleLoanConversation handles the borrower step; book and loan period
// are picked via inline keyboards in callbacks.go.
func (b *Bot) handleLoanConversation(message *tgbotapi.Message, state *ConversationState) {
	if state.Step != 1 {
		return
	}

	borrower := strings.TrimSpace(message.Text)
	if borrower == "" {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "Borrower name is required. Please enter it:"))
		return
	}
	state.Data["borrower"] = borrower
	state.Step = 2

	available := b.ledger.Available(b.catalog.List())
	if len(available) == 0 {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "All books are currently on loan. Please check back later."))
		state.Step = -1
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "📚 Which book?")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, book := range available {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(book.Title, "loanbook:"+book.ID),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}

// handleFilterStart initiates the filter conversation
func (b *Bot) handleFilterStart(message *tgbotapi.Message) {
	userID := message.From.ID
	b.states[userID] = &ConversationState{
		Command: "filter",
		Step:    1,
		Data:    make(map[string]interface{}),
	}

	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID,
		"Enter a search text for title or author (or - for no text filter):"))
}

// handleFilterConversation handles the free-text step; publisher and
// language are picked from the facet keyboards in callbacks.go.
func (b *Bot) handleFilterConversation(message *tgbotapi.Message, state *ConversationState) {
	if state.Step != 1 {
		return
	}

	query := strings.TrimSpace(message.Text)
	if query == skipToken {
		query = ""
	}
	state.Data["query"] = query
	state.Step = 2

	facets := b.catalog.Facets()
	msg := tgbotapi.NewMessage(message.Chat.ID, "Publisher:")
	msg.ReplyMarkup = facetKeyboard(facets.Publishers, "publisher:")
	b.sendMessage(msg)
}

// facetKeyboard renders one button per facet value. The first value is
// always the "ALL" sentinel.
func facetKeyboard(values []string, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, v := range values {
		label := v
		if v == filter.All {
			label = "Any"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, prefix+v),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func stringValue(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
