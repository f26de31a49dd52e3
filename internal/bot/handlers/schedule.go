package handlers

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"medminder/internal/format"
	"medminder/internal/models"
	"medminder/internal/schedule"
)

// handleToday materializes today's dose schedule. Each run rebuilds the view
// from the store, so taken marks from a previous visit are intentionally
// reset.
func (h *Handlers) handleToday(ctx context.Context, msg *tgbotapi.Message) {
	meds, err := h.repos.Medication.List(ctx)
	if err != nil {
		log.Printf("Failed to list medications: %v", err)
		h.sendMessage(msg.Chat.ID, "❌ Failed to load today's schedule, please try again.")
		return
	}

	events, err := schedule.MaterializeToday(meds)
	if err != nil {
		log.Printf("Failed to materialize schedule: %v", err)
		h.sendMessage(msg.Chat.ID, "❌ Failed to build today's schedule.")
		return
	}

	sessionMutex.Lock()
	scheduleViews[msg.Chat.ID] = events
	sessionMutex.Unlock()

	if len(events) == 0 {
		h.sendMessage(msg.Chat.ID, format.Schedule(events))
		return
	}
	h.sendMessageWithKeyboard(msg.Chat.ID, format.Schedule(events), scheduleKeyboard(events))
}

func scheduleKeyboard(events []models.DoseEvent) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ev := range events {
		if ev.Taken {
			continue
		}
		label := fmt.Sprintf("✔ %s %s", ev.Time, ev.Name)
		data := fmt.Sprintf("dose_taken:%s:%s", ev.MedicationID, ev.Time)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// handleDoseTaken marks one dose event of the current view as taken. The
// mark lives only in this session; the next /today starts clean.
func (h *Handlers) handleDoseTaken(callback *tgbotapi.CallbackQuery, medicationID, timeOfDay string) {
	chatID := callback.Message.Chat.ID

	sessionMutex.Lock()
	events, ok := scheduleViews[chatID]
	if ok {
		events = schedule.MarkTaken(events, medicationID, timeOfDay)
		scheduleViews[chatID] = events
	}
	sessionMutex.Unlock()

	if !ok {
		h.editMessageText(chatID, callback.Message.MessageID, "⚠️ This schedule view expired, run /today again.")
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, format.Schedule(events))
	edit.ParseMode = "Markdown"
	if keyboard := scheduleKeyboard(events); len(keyboard.InlineKeyboard) > 0 {
		edit.ReplyMarkup = &keyboard
	}
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("Failed to edit schedule message: %v", err)
	}
}
