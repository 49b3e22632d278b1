// Package ai generates listing copy from a product photo via the Gemini API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

type GeminiClient struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{
		BaseURL: defaultGeminiBaseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Description is the generated listing copy.
type Description struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

const describePrompt = `Based on this image of an item being sold on a campus marketplace, generate a concise, catchy title, a friendly, informative description, and suggest a category.
- The title should be no more than 5 words.
- The description should be 3-4 sentences, highlighting key features a student would care about.
- The category MUST be one of the following exact values: "Electronics", "Books & Notes", "Hostel & Room Essentials", "Mobility", "Fashion & Accessories", "Lab & Academics", "Hobbies & Sports", "Other".
- Format the response as a valid JSON object with three keys: "title", "description", and "category".`

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiReq struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
}

type geminiResp struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Describe sends a base64-encoded JPEG and parses the model's JSON reply.
func (c *GeminiClient) Describe(ctx context.Context, imageData string) (*Description, error) {
	var payload geminiReq
	payload.Contents = append(payload.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: []geminiPart{
		{Text: describePrompt},
		{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: imageData}},
	}})

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/v1/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: %d %s", resp.StatusCode, string(respBody))
	}
	var out geminiResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty response")
	}
	return parseDescription(out.Candidates[0].Content.Parts[0].Text)
}

// The model wraps its JSON in markdown fences more often than not.
func parseDescription(text string) (*Description, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	var d Description
	if err := json.Unmarshal([]byte(cleaned), &d); err != nil {
		return nil, fmt.Errorf("gemini: unexpected response format: %w", err)
	}
	return &d, nil
}
