package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"medminder/internal/bot/handlers"
	"medminder/internal/database"
	"medminder/internal/ocr"
	"medminder/internal/reminder"
	"medminder/internal/repository"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	handlers    *handlers.Handlers
	ownerChatID int64
}

func New(api *tgbotapi.BotAPI, db *database.DB, ocrClient *ocr.Client, dispatcher *reminder.Dispatcher, ownerChatID int64) (*Bot, error) {
	if api == nil {
		return nil, fmt.Errorf("telegram api is required")
	}

	repos := &handlers.Repositories{
		Medication: repository.NewMedicationRepository(db),
		Reminder:   repository.NewReminderRepository(db),
	}

	return &Bot{
		api:         api,
		handlers:    handlers.New(api, repos, ocrClient, dispatcher),
		ownerChatID: ownerChatID,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Single-owner device: anything outside the owner chat is ignored.
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message == nil || update.CallbackQuery.Message.Chat.ID != b.ownerChatID {
			return
		}
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.Chat.ID != b.ownerChatID {
		return
	}

	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	if len(update.Message.Photo) > 0 {
		b.handlers.HandlePhoto(ctx, update.Message)
		return
	}

	b.handlers.HandleMessage(ctx, update.Message)
}
