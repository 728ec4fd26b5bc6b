package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// VisionConfig holds API settings for vision-capable chat models.
type VisionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// ExtractImageText sends one page image (base64-encoded PNG/JPEG) to a
// vision model with the given instruction and returns the extracted
// text. The image is wrapped as a data URL unless it already is one.
func (c *Client) ExtractImageText(ctx context.Context, cfg VisionConfig, instruction, imageBase64 string) (string, error) {
	imageURL := imageBase64
	if !strings.HasPrefix(imageURL, "data:") {
		imageURL = "data:image/png;base64," + imageURL
	}

	reqBody := map[string]any{
		"model": cfg.Model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": instruction},
					{"type": "image_url", "image_url": map[string]any{"url": imageURL}},
				},
			},
		},
		"stream": false,
	}

	raw, err := c.postJSON(ctx, cfg.BaseURL, cfg.APIKey, "/chat/completions", reqBody)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse vision json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty vision choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
