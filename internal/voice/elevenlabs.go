package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// SpeechClient renders text to an MP3 file on disk.
type SpeechClient interface {
	Synthesize(ctx context.Context, text, outPath string) error
}

// ElevenLabsClient synthesizes speech via the ElevenLabs text-to-speech API
// using the multilingual v2 model.
type ElevenLabsClient struct {
	BaseURL string
	APIKey  string
	VoiceID string
	ModelID string
	Client  *http.Client
}

// NewElevenLabsClient builds a client for the given API key and voice.
func NewElevenLabsClient(apiKey, voiceID string) *ElevenLabsClient {
	return &ElevenLabsClient{
		BaseURL: "https://api.elevenlabs.io/v1",
		APIKey:  apiKey,
		VoiceID: voiceID,
		ModelID: "eleven_multilingual_v2",
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize renders text with the configured voice and writes the MP3 bytes
// to outPath.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, outPath string) error {
	if c.APIKey == "" {
		return errors.New("elevenlabs: api key is required")
	}

	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": c.ModelID,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.BaseURL, c.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, string(raw))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}
	return os.WriteFile(outPath, audio, 0o644)
}
