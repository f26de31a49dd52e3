package handlers

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"medminder/internal/format"
)

func (h *Handlers) handleMedicationList(ctx context.Context, msg *tgbotapi.Message) {
	meds, err := h.repos.Medication.List(ctx)
	if err != nil {
		log.Printf("Failed to list medications: %v", err)
		h.sendMessage(msg.Chat.ID, "❌ Failed to load medications, please try again.")
		return
	}

	if len(meds) == 0 {
		h.sendMessage(msg.Chat.ID, format.MedicationList(meds))
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, med := range meds {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+med.Name, "med_del:"+med.ID),
		))
	}

	h.sendMessageWithKeyboard(msg.Chat.ID, format.MedicationList(meds), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *Handlers) handleMedicationDelete(ctx context.Context, callback *tgbotapi.CallbackQuery, medicationID string) {
	chatID := callback.Message.Chat.ID

	med, err := h.repos.Medication.GetByID(ctx, medicationID)
	if err != nil {
		h.editMessageText(chatID, callback.Message.MessageID, "⚠️ Medication not found, it may already be deleted.")
		return
	}

	// Cancel the reminder triggers first so nothing fires for a medication
	// that is about to disappear.
	if err := h.dispatcher.Cancel(ctx, medicationID); err != nil {
		log.Printf("Failed to cancel reminders for %s: %v", medicationID, err)
	}

	if err := h.repos.Medication.Delete(ctx, medicationID); err != nil {
		log.Printf("Failed to delete medication %s: %v", medicationID, err)
		h.sendMessage(chatID, "❌ Failed to delete medication, please try again.")
		return
	}

	h.editMessageText(chatID, callback.Message.MessageID,
		fmt.Sprintf("🗑 Deleted *%s* and cancelled its reminders.", med.Name))
}
