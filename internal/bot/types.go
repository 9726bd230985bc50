package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookshelf/internal/catalog"
	"bookshelf/internal/loans"
	"bookshelf/internal/session"
	"bookshelf/internal/similar"
)

// Bot wraps the Telegram API around the catalog, the loan ledger and the
// session state.
type Bot struct {
	api          *tgbotapi.BotAPI
	catalog      *catalog.Store
	ledger       *loans.Ledger
	session      *session.Session
	fetcher      *similar.Fetcher
	allowedUsers map[int64]bool
	states       map[int64]*ConversationState
	logger       *zap.Logger
}

// ConversationState tracks the state of multi-step commands.
type ConversationState struct {
	Command string
	Step    int
	Data    map[string]interface{}
}
