package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"medminder/internal/format"
	"medminder/internal/models"
	"medminder/internal/schedule"
)

// newDraft starts an empty draft. Fields stay at their zero value until the
// user (or a label scan) fills them, so a later scan can tell user input
// apart from untouched defaults. Defaults are applied at save time.
func newDraft() *models.Medication {
	return &models.Medication{ID: uuid.NewString()}
}

func getDraft(chatID int64) *models.Medication {
	sessionMutex.RLock()
	defer sessionMutex.RUnlock()
	return drafts[chatID]
}

func setDraft(chatID int64, draft *models.Medication) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()
	drafts[chatID] = draft
}

func clearDraft(chatID int64) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()
	delete(drafts, chatID)
}

// handleAdd starts (or replaces) a draft from pipe-separated arguments:
// /add <name> | <dosage> [| times [| instructions]]
func (h *Handlers) handleAdd(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	draft := newDraft()

	if args != "" {
		parts := strings.Split(args, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		draft.Name = parts[0]
		if len(parts) > 1 {
			draft.Dosage = parts[1]
		}
		if len(parts) > 2 && parts[2] != "" {
			if err := setDraftTimes(draft, parts[2]); err != nil {
				h.sendMessage(msg.Chat.ID, "⚠️ "+err.Error())
				return
			}
		}
		if len(parts) > 3 {
			draft.Instructions = parts[3]
		}
	}

	setDraft(msg.Chat.ID, draft)
	h.showDraft(msg.Chat.ID, draft)
}

func setDraftTimes(draft *models.Medication, timesArg string) error {
	var times []string
	for _, t := range strings.Split(timesArg, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !models.ValidTime(t) {
			return fmt.Errorf("invalid time %q: use HH:MM, e.g. 09:00", t)
		}
		times = append(times, t)
	}
	draft.Times = times
	return nil
}

// handleSet corrects a single draft field: /set <field> <value>
func (h *Handlers) handleSet(msg *tgbotapi.Message) {
	draft := getDraft(msg.Chat.ID)
	if draft == nil {
		h.sendMessage(msg.Chat.ID, "No open draft. Use /add or send a label photo first.")
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	parts := strings.SplitN(args, " ", 2)
	if len(parts) < 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /set <field> <value>\ne.g. /set name Amoxicillin")
		return
	}

	field := strings.ToLower(parts[0])
	value := strings.TrimSpace(parts[1])

	switch field {
	case "name":
		draft.Name = value
	case "dosage", "dose":
		draft.Dosage = value
	case "frequency", "freq":
		freq, ok := parseFrequency(value)
		if !ok {
			h.sendMessage(msg.Chat.ID, "⚠️ Frequency must be one of: daily, twice, thrice, weekly")
			return
		}
		draft.Frequency = freq
	case "times":
		if err := setDraftTimes(draft, value); err != nil {
			h.sendMessage(msg.Chat.ID, "⚠️ "+err.Error())
			return
		}
	case "instructions", "notes":
		draft.Instructions = value
	case "start":
		if _, err := time.Parse("2006-01-02", value); err != nil {
			h.sendMessage(msg.Chat.ID, "⚠️ Start date must be YYYY-MM-DD")
			return
		}
		draft.StartDate = value
	default:
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Unknown field %q. Fields: name, dosage, frequency, times, instructions, start", field))
		return
	}

	setDraft(msg.Chat.ID, draft)
	h.showDraft(msg.Chat.ID, draft)
}

func parseFrequency(s string) (models.Frequency, bool) {
	switch strings.ToLower(s) {
	case "daily", "once":
		return models.FrequencyDaily, true
	case "twice", "twice_daily", "twice-daily":
		return models.FrequencyTwiceDaily, true
	case "thrice", "thrice_daily", "three":
		return models.FrequencyThriceDaily, true
	case "weekly":
		return models.FrequencyWeekly, true
	}
	return "", false
}

func (h *Handlers) handleAddTime(msg *tgbotapi.Message) {
	draft := getDraft(msg.Chat.ID)
	if draft == nil {
		h.sendMessage(msg.Chat.ID, "No open draft. Use /add or send a label photo first.")
		return
	}

	t := strings.TrimSpace(msg.CommandArguments())
	if err := draft.AddTime(t); err != nil {
		h.sendMessage(msg.Chat.ID, "⚠️ "+err.Error())
		return
	}
	setDraft(msg.Chat.ID, draft)
	h.showDraft(msg.Chat.ID, draft)
}

func (h *Handlers) handleRemoveTime(msg *tgbotapi.Message) {
	draft := getDraft(msg.Chat.ID)
	if draft == nil {
		h.sendMessage(msg.Chat.ID, "No open draft. Use /add or send a label photo first.")
		return
	}

	t := strings.TrimSpace(msg.CommandArguments())
	if err := draft.RemoveTime(t); err != nil {
		h.sendMessage(msg.Chat.ID, "⚠️ "+err.Error())
		return
	}
	setDraft(msg.Chat.ID, draft)
	h.showDraft(msg.Chat.ID, draft)
}

func (h *Handlers) handleDiscardDraft(msg *tgbotapi.Message) {
	if getDraft(msg.Chat.ID) == nil {
		h.sendMessage(msg.Chat.ID, "No open draft.")
		return
	}
	clearDraft(msg.Chat.ID)
	h.sendMessage(msg.Chat.ID, "🗑 Draft discarded.")
}

func (h *Handlers) showDraft(chatID int64, draft *models.Medication) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Save", "draft_save"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Discard", "draft_discard"),
		),
	)
	h.sendMessageWithKeyboard(chatID, format.Draft(draft), keyboard)
}

func (h *Handlers) handleDraftSave(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	draft := getDraft(chatID)
	if draft == nil {
		h.editMessageText(chatID, callback.Message.MessageID, "No open draft.")
		return
	}

	// Defaults for fields the user and the scan both left empty.
	if len(draft.Times) == 0 {
		draft.Times = []string{"09:00"}
	}
	if draft.Frequency == "" {
		draft.Frequency = models.FrequencyFromTimes(len(draft.Times))
	}
	if draft.StartDate == "" {
		draft.StartDate = time.Now().Format("2006-01-02")
	}
	if times, err := schedule.ExpandTimes(draft.Times); err == nil {
		draft.Times = times
	}

	// Validation is the only condition that blocks saving. Nothing is
	// persisted and no reminder is registered until it passes.
	if err := draft.Validate(); err != nil {
		h.sendMessage(chatID, "⚠️ "+err.Error()+"\nFix the draft with /set and save again.")
		return
	}

	if err := h.repos.Medication.Create(ctx, draft); err != nil {
		h.sendMessage(chatID, "❌ Failed to save medication, please try again.")
		return
	}
	clearDraft(chatID)

	// Reminder registration failure is non-fatal: the medication stays
	// saved and the user is warned.
	if err := h.dispatcher.Schedule(ctx, draft); err != nil {
		h.editMessageText(chatID, callback.Message.MessageID,
			fmt.Sprintf("✅ Saved *%s*, but reminders could not be scheduled — they may not fire.", draft.Name))
		return
	}

	h.editMessageText(chatID, callback.Message.MessageID,
		fmt.Sprintf("✅ Saved *%s* — reminders set for %s.", draft.Name, strings.Join(draft.Times, ", ")))
}

func (h *Handlers) handleDraftDiscard(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	clearDraft(chatID)
	h.editMessageText(chatID, callback.Message.MessageID, "🗑 Draft discarded.")
}
