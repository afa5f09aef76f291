package pipeline

import (
	"context"
	"log"
	"os"
	"time"

	"scriptforge/internal/models"
	"scriptforge/shared/media"

	"github.com/google/uuid"
)

// AudioFetcher downloads a video's audio track into workdir.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, url, workdir, jobID string) (media.AudioFetch, error)
}

// SpeechTranscriber converts an audio file to text.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (media.Transcription, error)
}

// BatchProcessor downloads and transcribes a set of videos one at a
// time. Per-video failures are logged and skipped; only a batch where
// everything failed is an error.
type BatchProcessor struct {
	fetcher     AudioFetcher
	transcriber SpeechTranscriber
	tempDir     string
}

func NewBatchProcessor(fetcher AudioFetcher, transcriber SpeechTranscriber, tempDir string) *BatchProcessor {
	return &BatchProcessor{
		fetcher:     fetcher,
		transcriber: transcriber,
		tempDir:     tempDir,
	}
}

// Process attempts every video sequentially and returns the transcripts
// that succeeded. Audio files are deleted as soon as their transcript
// exists, and the whole temp directory is removed on exit regardless of
// outcome.
func (b *BatchProcessor) Process(ctx context.Context, videos []models.Video) ([]models.Transcript, error) {
	defer func() {
		if err := os.RemoveAll(b.tempDir); err != nil {
			log.Printf("Warning: failed to clean temp dir %s: %v", b.tempDir, err)
		}
	}()

	var transcripts []models.Transcript

	for i, video := range videos {
		log.Printf("Processing video %d/%d: %s", i+1, len(videos), video.Title)

		jobID := uuid.NewString()[:8]

		fetch, err := b.fetcher.FetchAudio(ctx, video.URL, b.tempDir, jobID)
		if err != nil {
			log.Printf("Warning: download failed for %s (%s): %v", video.ID, video.Title, err)
			continue
		}

		started := time.Now()
		result, err := b.transcriber.Transcribe(ctx, fetch.AudioPath, "")
		if removeErr := os.Remove(fetch.AudioPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Printf("Warning: failed to remove audio %s: %v", fetch.AudioPath, removeErr)
		}
		if err != nil {
			log.Printf("Warning: transcription failed for %s (%s): %v", video.ID, video.Title, err)
			continue
		}

		transcripts = append(transcripts, models.Transcript{
			Video:                video,
			Text:                 result.Text,
			WordTimestamps:       result.Words,
			Language:             result.Language,
			TranscriptionSeconds: time.Since(started).Seconds(),
		})
	}

	if len(transcripts) == 0 && len(videos) > 0 {
		return nil, &BatchError{Attempted: len(videos)}
	}

	log.Printf("Batch complete: %d of %d videos transcribed", len(transcripts), len(videos))
	return transcripts, nil
}
