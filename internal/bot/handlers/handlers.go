package handlers

import (
	"context"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"medminder/internal/models"
	"medminder/internal/ocr"
	"medminder/internal/reminder"
	"medminder/internal/repository"
)

type Repositories struct {
	Medication *repository.MedicationRepository
	Reminder   *repository.ReminderRepository
}

type Handlers struct {
	api        *tgbotapi.BotAPI
	repos      *Repositories
	ocr        *ocr.Client
	dispatcher *reminder.Dispatcher
}

// Per-chat session state. Drafts hold the medication being composed before
// it is saved; schedule views hold the dose events of the last /today
// rendering together with their volatile taken marks.
var (
	sessionMutex  sync.RWMutex
	drafts        = make(map[int64]*models.Medication)
	scheduleViews = make(map[int64][]models.DoseEvent)
)

func New(api *tgbotapi.BotAPI, repos *Repositories, ocrClient *ocr.Client, dispatcher *reminder.Dispatcher) *Handlers {
	return &Handlers{
		api:        api,
		repos:      repos,
		ocr:        ocrClient,
		dispatcher: dispatcher,
	}
}

// scanEnabled reports whether the photo-scanning capability was configured
// at startup. It is never re-initialized implicitly.
func (h *Handlers) scanEnabled() bool {
	return h.ocr != nil
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "help":
		h.handleHelp(msg)
	case "add":
		h.handleAdd(ctx, msg)
	case "set":
		h.handleSet(msg)
	case "addtime":
		h.handleAddTime(msg)
	case "removetime":
		h.handleRemoveTime(msg)
	case "meds":
		h.handleMedicationList(ctx, msg)
	case "today":
		h.handleToday(ctx, msg)
	case "cancel":
		h.handleDiscardDraft(msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command, use /help to see what I understand.")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Plain text outside a command is only meaningful while a draft is open.
	sessionMutex.RLock()
	_, hasDraft := drafts[msg.Chat.ID]
	sessionMutex.RUnlock()

	if hasDraft {
		h.sendMessage(msg.Chat.ID, "A draft is open. Use /set to change a field, or the buttons to save or discard.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Send a photo of a prescription label, or use /help for commands.")
}

func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Answer callback to remove loading state
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	// Callback data: "draft_save", "draft_discard", "med_del:<id>",
	// "dose_taken:<id>:<HH:MM>". Medication ids contain no colons, so a
	// 3-way split leaves HH:MM intact.
	parts := strings.SplitN(callback.Data, ":", 3)

	switch parts[0] {
	case "draft_save":
		h.handleDraftSave(ctx, callback)
	case "draft_discard":
		h.handleDraftDiscard(callback)
	case "med_del":
		if len(parts) == 2 {
			h.handleMedicationDelete(ctx, callback, parts[1])
		}
	case "dose_taken":
		if len(parts) == 3 {
			h.handleDoseTaken(callback, parts[1], parts[2])
		}
	}
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) sendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

func (h *Handlers) handleStart(msg *tgbotapi.Message) {
	text := `👋 Hi! I keep track of your medications and remind you to take them.

📷 Send me a photo of a prescription label and I will read it for you,
or use /add to enter a medication by hand.

/meds — your medications
/today — today's dose schedule
/help — all commands`
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(msg *tgbotapi.Message) {
	text := `💊 *Commands*

/add <name> | <dosage> [| times [| instructions]]
    e.g. /add Amoxicillin | 500mg | 09:00,21:00 | take with food
/set <field> <value> — correct a draft field (name, dosage, frequency, times, instructions)
/addtime <HH:MM> — add a reminder time to the draft
/removetime <HH:MM> — remove a reminder time from the draft
/cancel — discard the open draft

/meds — list medications (with delete buttons)
/today — today's schedule, tap a dose to mark it taken

📷 Sending a photo of a prescription label starts a prefilled draft.`
	h.sendMessage(msg.Chat.ID, text)
}
