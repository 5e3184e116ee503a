package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// LipSyncer produces a mouth-cue track for a rendered MP3 file.
type LipSyncer interface {
	Generate(ctx context.Context, mp3Path, wavPath, jsonPath string) (Lipsync, error)
}

// RhubarbSyncer shells out to ffmpeg and the Rhubarb Lip Sync binary. The MP3
// is first converted to WAV since Rhubarb only accepts WAV/OGG input; the cue
// track is written to jsonPath and parsed back.
type RhubarbSyncer struct {
	FFmpegBin  string
	RhubarbBin string
}

// Generate runs the conversion and recognition steps. It never fails the
// request: any tool error is logged and an empty cue track is returned, both
// in memory and on disk, so the avatar can still play the audio.
func (r *RhubarbSyncer) Generate(ctx context.Context, mp3Path, wavPath, jsonPath string) (Lipsync, error) {
	if err := r.run(ctx, mp3Path, wavPath, jsonPath); err != nil {
		log.Warn().Err(err).Str("audio", mp3Path).Msg("lip-sync extraction failed")
		fallback, _ := json.Marshal(emptyLipsync())
		_ = os.WriteFile(jsonPath, fallback, 0o644)
		return emptyLipsync(), nil
	}
	return readLipsync(jsonPath), nil
}

func (r *RhubarbSyncer) run(ctx context.Context, mp3Path, wavPath, jsonPath string) error {
	ffmpeg := r.FFmpegBin
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	convert := exec.CommandContext(ctx, ffmpeg, "-y", "-i", mp3Path, wavPath)
	if out, err := convert.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, out)
	}

	recognize := exec.CommandContext(ctx, r.RhubarbBin, "-f", "json", "-o", jsonPath, wavPath, "-r", "phonetic")
	if out, err := recognize.CombinedOutput(); err != nil {
		return fmt.Errorf("rhubarb: %w: %s", err, out)
	}
	return nil
}

// readLipsync parses a cue-track file, degrading to empty cues on any error.
func readLipsync(path string) Lipsync {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyLipsync()
	}
	var ls Lipsync
	if err := json.Unmarshal(data, &ls); err != nil {
		return emptyLipsync()
	}
	if ls.MouthCues == nil {
		ls.MouthCues = []MouthCue{}
	}
	return ls
}
