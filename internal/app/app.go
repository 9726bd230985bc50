package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bookshelf/internal/bot"
	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/loans"
	"bookshelf/internal/similar"
	"bookshelf/internal/storage"
	"bookshelf/internal/storage/redisstore"
	"bookshelf/internal/storage/stubs"
)

// App represents the application
type App struct {
	config  *config.Config
	logger  *zap.Logger
	db      storage.Storage
	catalog *catalog.Store
	ledger  *loans.Ledger
	bot     *bot.Bot
	server  *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting Bookshelf...")

	if err := app.initStorage(); err != nil {
		return nil, err
	}

	app.initState()

	if err := app.initBot(); err != nil {
		return nil, err
	}

	app.initHTTPServer()

	return app, nil
}

// initStorage connects the persistence adapter
func (a *App) initStorage() error {
	if a.config.UseMockDB {
		a.logger.Info("Using in-memory storage")
		a.db = stubs.NewMockStorage()
		return nil
	}

	var (
		db  *redisstore.RedisStore
		err error
	)
	if a.config.RedisURL != "" {
		a.logger.Info("Connecting to Redis via URL")
		db, err = redisstore.NewFromURL(a.config.RedisURL, a.logger)
	} else {
		a.logger.Info("Connecting to Redis", zap.String("addr", a.config.RedisAddr))
		db, err = redisstore.New(a.config.RedisAddr, a.config.RedisPassword, a.logger)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	a.db = db
	return nil
}

// initState builds the catalog and the loan ledger and hydrates both
// from storage. Load failures degrade to empty collections.
func (a *App) initState() {
	ctx := context.Background()

	a.catalog = catalog.New(a.db, a.logger)
	a.catalog.Hydrate(ctx)

	a.ledger = loans.New(a.db, a.logger)
	a.ledger.Hydrate(ctx)
}

// initBot initializes the Telegram bot
func (a *App) initBot() error {
	client := similar.NewClient(a.config.SimilarBooksURL, a.logger)
	fetcher := similar.NewFetcher(client)

	telegramBot, err := bot.NewBot(a.config.TelegramToken, a.catalog, a.ledger, fetcher, a.config.AllowedUserIDs, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.logger.Info("Bot created successfully", zap.Int64s("allowed_users", a.config.AllowedUserIDs))

	a.bot = telegramBot
	return nil
}

// initHTTPServer initializes the HTTP server for health checks
func (a *App) initHTTPServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Bookshelf is running (%d books, %d loans)", a.catalog.Len(), a.ledger.Len())
	})

	a.server = &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", port))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := a.bot.Start(); err != nil {
			a.logger.Fatal("Failed to start bot", zap.Error(err))
		}
	}()

	<-sigChan

	a.logger.Info("Shutting down...")
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing storage", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return nil
}
