package voice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// systemPrompt defines the Asha persona and the reply contract: a JSON array
// of at most three messages, each with text, facialExpression, and animation.
const systemPrompt = `
You are Asha, an empathetic AI assistant for JobsForHer Foundation. Your purpose is to support women in their career journeys with warmth, understanding, and encouragement.

Key personality traits:
- Warm and supportive
- Empowering
- Inclusive
- Informative
- Emotionally intelligent

Reply with a JSON array of messages (max 3) with text, facialExpression, and animation.
facialExpression: smile, sad, angry, surprised, funnyFace, default
animation: Talking_0, Talking_1, Talking_2, Crying, Laughing, Rumba, Idle, Terrified, Angry
`

const introText = "Hey there! How can I help you today?"

// Pipeline orchestrates persona generation, speech synthesis, and lip-sync
// extraction. The persona step is load-bearing: its failure fails the whole
// request. Synthesis failure is fatal too, since a silent avatar is useless,
// but lip-sync and file reads degrade per message so one broken tool cannot
// take the feature down.
type Pipeline struct {
	Chat   ChatClient
	Speech SpeechClient
	Lips   LipSyncer

	// AudioDir holds the per-request message_<n>.{mp3,wav,json} artifacts.
	AudioDir string
	// IntroAudioPath / IntroLipsyncPath are the pre-rendered greeting served
	// when the user message is empty.
	IntroAudioPath   string
	IntroLipsyncPath string
}

// Respond turns userMessage into spoken avatar replies. An empty message
// yields the canned greeting without touching any external service.
func (p *Pipeline) Respond(ctx context.Context, userMessage string) ([]Message, error) {
	tr := otel.Tracer("voice/Pipeline")
	ctx, span := tr.Start(ctx, "Respond",
		trace.WithAttributes(attribute.Bool("intro", userMessage == "")),
	)
	defer span.End()

	if userMessage == "" {
		return []Message{p.intro()}, nil
	}

	if err := os.MkdirAll(p.AudioDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	raw, err := p.Chat.Complete(ctx, systemPrompt, userMessage)
	if err != nil {
		return nil, fmt.Errorf("persona completion: %w", err)
	}
	msgs, err := parsePersonaReply(raw)
	if err != nil {
		return nil, fmt.Errorf("persona reply: %w", err)
	}

	for i := range msgs {
		mp3 := filepath.Join(p.AudioDir, fmt.Sprintf("message_%d.mp3", i))
		wav := filepath.Join(p.AudioDir, fmt.Sprintf("message_%d.wav", i))
		cues := filepath.Join(p.AudioDir, fmt.Sprintf("message_%d.json", i))

		if err := p.Speech.Synthesize(ctx, msgs[i].Text, mp3); err != nil {
			return nil, fmt.Errorf("synthesize message %d: %w", i, err)
		}
		ls, err := p.Lips.Generate(ctx, mp3, wav, cues)
		if err != nil {
			ls = emptyLipsync()
		}
		msgs[i].Lipsync = ls
		msgs[i].Audio = fileToBase64(mp3)
	}
	return msgs, nil
}

// intro returns the pre-rendered greeting, degrading to empty audio and cues
// when the intro assets are missing.
func (p *Pipeline) intro() Message {
	return Message{
		Text:             introText,
		FacialExpression: "smile",
		Animation:        "Talking_1",
		Audio:            fileToBase64(p.IntroAudioPath),
		Lipsync:          readLipsync(p.IntroLipsyncPath),
	}
}

// parsePersonaReply accepts either a bare JSON array of messages or an object
// wrapping it under "messages", and caps the result at three entries.
func parsePersonaReply(raw string) ([]Message, error) {
	var msgs []Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		var wrapped struct {
			Messages []Message `json:"messages"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("unparseable completion: %w", err)
		}
		msgs = wrapped.Messages
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("completion contained no messages")
	}
	if len(msgs) > 3 {
		msgs = msgs[:3]
	}
	return msgs, nil
}

// fileToBase64 reads a file into a base64 string, empty on any error.
func fileToBase64(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}
