package handlers

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"medminder/internal/extract"
)

// HandlePhoto runs the label intake pipeline: photo -> recognized text ->
// extracted fields -> draft. Recognition failure is never fatal; the user
// just gets an unfilled draft and enters the fields manually.
func (h *Handlers) HandlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	if !h.scanEnabled() {
		h.sendMessage(msg.Chat.ID, "📷 Label scanning is not configured. Use /add to enter the medication manually.")
		return
	}

	// Telegram sends several sizes; the last one is the largest.
	photo := msg.Photo[len(msg.Photo)-1]
	imageURL, err := h.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		log.Printf("Failed to resolve photo URL: %v", err)
		h.sendMessage(msg.Chat.ID, "⚠️ Could not read the photo. Use /add to enter the medication manually.")
		return
	}

	h.sendMessage(msg.Chat.ID, "🔍 Reading the label...")

	rawText, err := h.ocr.Recognize(ctx, imageURL)
	if err != nil {
		log.Printf("Recognition failed: %v", err)
	}

	fields := extract.Fields(rawText)

	// Merge into the open draft if there is one, otherwise start fresh.
	// Extracted values never overwrite fields the user already edited.
	draft := getDraft(msg.Chat.ID)
	if draft == nil {
		draft = newDraft()
	}
	fields.MergeInto(draft)
	draft.ImageURI = imageURL
	setDraft(msg.Chat.ID, draft)

	if fields.IsEmpty() {
		h.sendMessage(msg.Chat.ID, "🤔 I could not read anything useful from the label. Fill in the fields with /set, or retake the photo.")
	} else {
		h.sendMessage(msg.Chat.ID, "✅ Label scanned! Please verify the extracted information.")
	}
	h.showDraft(msg.Chat.ID, draft)
}
