package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookshelf/internal/catalog"
	"bookshelf/internal/loans"
	"bookshelf/internal/session"
	"bookshelf/internal/similar"
)

// NewBot creates a new Telegram bot wired to the given state containers.
func NewBot(token string, store *catalog.Store, ledger *loans.Ledger, fetcher *similar.Fetcher, allowedUserIDs []int64, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	allowedUsers := make(map[int64]bool)
	for _, id := range allowedUserIDs {
		allowedUsers[id] = true
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	return &Bot{
		api:          api,
		catalog:      store,
		ledger:       ledger,
		session:      session.New(),
		fetcher:      fetcher,
		allowedUsers: allowedUsers,
		states:       make(map[int64]*ConversationState),
		logger:       logger,
	}, nil
}
