package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scriptforge/internal/models"
	"scriptforge/shared/config"
)

// TranscriptionError is returned when speech-to-text fails.
type TranscriptionError struct {
	AudioPath string
	Cause     error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed for %s: %v", e.AudioPath, e.Cause)
}

func (e *TranscriptionError) Unwrap() error { return e.Cause }

// Transcription is the speech-to-text output for one audio file.
type Transcription struct {
	Text     string
	Language string
	Words    []models.WordTimestamp
}

// Transcriber runs OpenAI Whisper via its CLI and parses the JSON
// output it writes next to the audio file.
type Transcriber struct {
	bin   string
	model string
}

func NewTranscriber(cfg *config.MediaConfig) *Transcriber {
	return &Transcriber{bin: cfg.WhisperBin, model: cfg.WhisperModel}
}

// whisperOutput mirrors the subset of Whisper's JSON output we consume.
type whisperOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Words []struct {
			Word  string  `json:"word"`
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"words"`
	} `json:"segments"`
}

// Transcribe runs Whisper on audioPath. language may be empty for
// auto-detection.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, language string) (Transcription, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return Transcription{}, &TranscriptionError{AudioPath: audioPath, Cause: fmt.Errorf("audio file missing: %w", err)}
	}

	outputDir := filepath.Dir(audioPath)
	args := []string{
		audioPath,
		"--model", t.model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--word_timestamps", "True",
	}
	if language != "" {
		args = append(args, "--language", language)
	}

	cmd := exec.CommandContext(ctx, t.bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Transcription{}, &TranscriptionError{
			AudioPath: audioPath,
			Cause:     fmt.Errorf("whisper failed: %w (%s)", err, strings.TrimSpace(stderr.String())),
		}
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, base+".json")

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Transcription{}, &TranscriptionError{AudioPath: audioPath, Cause: fmt.Errorf("whisper output missing: %w", err)}
	}
	defer os.Remove(jsonPath)

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Transcription{}, &TranscriptionError{AudioPath: audioPath, Cause: fmt.Errorf("failed to parse whisper output: %w", err)}
	}

	var words []models.WordTimestamp
	for _, seg := range out.Segments {
		for _, w := range seg.Words {
			words = append(words, models.WordTimestamp{
				Word:  strings.TrimSpace(w.Word),
				Start: w.Start,
				End:   w.End,
			})
		}
	}

	return Transcription{
		Text:     strings.TrimSpace(out.Text),
		Language: out.Language,
		Words:    words,
	}, nil
}
