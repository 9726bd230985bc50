package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			msg := tgbotapi.NewMessage(message.Chat.ID, "An error occurred while processing your request. Please try again.")
			b.sendMessage(msg)
		}
	}()

	userID := message.From.ID
	ctx := context.Background()

	// Check if user is in a conversation
	if state, ok := b.states[userID]; ok {
		if state.Step == -1 {
			delete(b.states, userID)
		} else if message.IsCommand() {
			// Any command interrupts an ongoing conversation
			delete(b.states, userID)
		} else {
			b.handleConversation(ctx, message, state)
			return
		}
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start", "help":
			b.handleStart(message)
		case "books":
			b.handleBooks(message)
		case "add_book":
			b.handleAddBookStart(message)
		case "edit_book":
			b.handleEditBookStart(message)
		case "delete_book":
			b.handleDeleteBook(ctx, message)
		case "filter":
			b.handleFilterStart(message)
		case "reset_filters":
			b.handleResetFilters(message)
		case "loan":
			b.handleLoanStart(message)
		case "loans":
			b.handleLoans(message)
		case "details":
			b.handleDetails(message)
		case "back":
			b.handleBack(message)
		default:
			msg := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /start to see available commands.")
			b.sendMessage(msg)
		}
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	userID := query.From.ID
	ctx := context.Background()

	// Answer the callback query to remove loading state
	if b.api != nil {
		callback := tgbotapi.NewCallback(query.ID, "")
		b.api.Request(callback)
	}

	data := query.Data
	switch {
	case strings.HasPrefix(data, "select:"):
		b.handleSelectCallback(query)
		return
	case strings.HasPrefix(data, "details:"):
		b.handleDetailsCallback(query)
		return
	case data == "back":
		b.handleBackCallback(query)
		return
	}

	// Remaining callbacks belong to a conversation
	state, ok := b.states[userID]
	if !ok {
		return
	}

	switch {
	case strings.HasPrefix(data, "publisher:"):
		b.handlePublisherCallback(query, state)
	case strings.HasPrefix(data, "language:"):
		b.handleLanguageCallback(query, state)
	case strings.HasPrefix(data, "loanbook:"):
		b.handleLoanBookCallback(query, state)
	case strings.HasPrefix(data, "weeks:"):
		b.handleWeeksCallback(ctx, query, state)
	}

	// Clean up completed conversations
	if state.Step == -1 {
		delete(b.states, userID)
	}
}
