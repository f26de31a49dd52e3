// Package ocr exposes the image-to-text engine as an opaque collaborator:
// photo in, raw label text out. Field inference happens downstream in the
// extract package; this client only transcribes.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

const transcribePrompt = `Transcribe all text visible on this prescription or medication label.
Return the text exactly as printed, one label line per output line.
Do not interpret, summarize, or add anything. If no text is legible, return an empty response.`

// Recognize transcribes the label photo at imageURL. It returns the raw
// recognized text; callers treat an error or empty result as "nothing
// recognized" and fall back to manual entry.
func (c *Client) Recognize(ctx context.Context, imageURL string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: transcribePrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		MaxTokens: 500,
	})
	if err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("recognition returned no output")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
