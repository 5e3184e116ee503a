package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatClient produces the persona's raw JSON reply for a user message.
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// GroqClient calls Groq's OpenAI-compatible chat completions endpoint with
// JSON-object response formatting, so the persona reply can be parsed
// directly.
type GroqClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

// NewGroqClient builds a client for the given API key and model.
func NewGroqClient(apiKey, model string) *GroqClient {
	return &GroqClient{
		BaseURL: "https://api.groq.com/openai/v1",
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type groqMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatReq struct {
	Model          string    `json:"model"`
	MaxTokens      int       `json:"max_tokens"`
	Temperature    float64   `json:"temperature"`
	ResponseFormat *groqRF   `json:"response_format,omitempty"`
	Messages       []groqMsg `json:"messages"`
}

type groqRF struct {
	Type string `json:"type"`
}

type groqChatResp struct {
	Choices []struct {
		Message groqMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the system and user messages and returns the assistant's
// content verbatim.
func (c *GroqClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.Client == nil {
		return "", errors.New("groq: http client is nil")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("groq: api key is required")
	}

	body, err := json.Marshal(groqChatReq{
		Model:          c.Model,
		MaxTokens:      1000,
		Temperature:    0.6,
		ResponseFormat: &groqRF{Type: "json_object"},
		Messages: []groqMsg{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("groq: %s", msg)
	}

	var decoded groqChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("groq: empty response")
	}
	return decoded.Choices[0].Message.Content, nil
}
