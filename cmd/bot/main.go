package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"medminder/internal/bot"
	"medminder/internal/config"
	"medminder/internal/database"
	"medminder/internal/ocr"
	"medminder/internal/reminder"
	"medminder/internal/repository"
	"medminder/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate required config
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}
	if cfg.OwnerChatID == 0 {
		log.Fatal("OWNER_CHAT_ID is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Initialize the label-scanning capability once at startup (optional).
	// Components query it; it is never re-initialized implicitly.
	var ocrClient *ocr.Client
	if cfg.AIAPIKey != "" {
		ocrClient = ocr.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("Label scanning enabled (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI_API_KEY not set, label scanning disabled")
	}

	// Create Telegram API client shared by scheduler and bot
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram API: %v", err)
	}

	// Create and start the reminder scheduler
	reminderRepo := repository.NewReminderRepository(db)
	sched := scheduler.New(api, reminderRepo, cfg.OwnerChatID)
	go sched.Start(ctx)

	dispatcher := reminder.New(reminderRepo, sched)

	// Create and start bot
	b, err := bot.New(api, db, ocrClient, dispatcher, cfg.OwnerChatID)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
