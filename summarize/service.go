package summarize

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"scriptforge/internal/models"
	"scriptforge/shared/media"
	"scriptforge/shared/storage"
)

// AudioFetcher fetches a video's audio and can probe its metadata.
type AudioFetcher interface {
	Probe(ctx context.Context, url string) (id, title string, err error)
	FetchAudio(ctx context.Context, url, workdir, jobID string) (media.AudioFetch, error)
}

// SpeechTranscriber turns an audio file into text.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (media.Transcription, error)
}

// Service is the single-video workflow: transcribe one URL, optionally
// summarize it, and persist the artifacts.
type Service struct {
	fetcher     AudioFetcher
	transcriber SpeechTranscriber
	summarizer  *Summarizer
	store       *storage.ArtifactStore
	tempDir     string
}

func NewService(fetcher AudioFetcher, transcriber SpeechTranscriber, summarizer *Summarizer, store *storage.ArtifactStore, tempDir string) *Service {
	return &Service{
		fetcher:     fetcher,
		transcriber: transcriber,
		summarizer:  summarizer,
		store:       store,
		tempDir:     tempDir,
	}
}

// Transcribe downloads and transcribes one video, saving the plain-text
// transcript. Returns the transcript and the saved artifact path.
func (s *Service) Transcribe(ctx context.Context, url string) (models.Transcript, string, error) {
	id, title, err := s.fetcher.Probe(ctx, url)
	if err != nil {
		return models.Transcript{}, "", fmt.Errorf("failed to probe %s: %w", url, err)
	}
	if title == "" {
		title = id
	}

	jobID := uuid.NewString()[:8]
	log.Printf("Transcribing %q (job %s)", title, jobID)

	start := time.Now()
	fetch, err := s.fetcher.FetchAudio(ctx, url, s.tempDir, jobID)
	if err != nil {
		return models.Transcript{}, "", err
	}
	defer os.Remove(fetch.AudioPath)

	transcription, err := s.transcriber.Transcribe(ctx, fetch.AudioPath, "")
	if err != nil {
		return models.Transcript{}, "", err
	}

	transcript := models.Transcript{
		Video: models.Video{
			ID:    id,
			Title: title,
			URL:   url,
		},
		Text:                 transcription.Text,
		WordTimestamps:       transcription.Words,
		Language:             transcription.Language,
		TranscriptionSeconds: time.Since(start).Seconds(),
	}

	path, err := s.store.SaveTranscript(title, transcription.Text)
	if err != nil {
		log.Printf("Warning: failed to save transcript: %v", err)
		path = ""
	}

	return transcript, path, nil
}

// SummarizeVideo transcribes one video and generates its executive
// summary, saving the summary as a markdown report. Returns the summary
// and the saved artifact path.
func (s *Service) SummarizeVideo(ctx context.Context, url string) (models.VideoSummary, string, error) {
	transcript, _, err := s.Transcribe(ctx, url)
	if err != nil {
		return models.VideoSummary{}, "", err
	}

	summary, err := s.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return models.VideoSummary{}, "", err
	}

	path, err := s.store.SaveSummary(transcript.Video.Title, RenderMarkdown(summary))
	if err != nil {
		log.Printf("Warning: failed to save summary: %v", err)
		path = ""
	}

	return summary, path, nil
}
