package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scriptforge/internal/models"
)

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const sampleSummaryResponse = `# 📹 Summary: Docker for Beginners

## 🎯 Executive Summary
This video teaches Docker from scratch, covering images, containers and a first deployment.

## 🔑 Key Points
1. **Images vs containers**: images are templates, containers are running instances.
2. **Dockerfile basics**: how to describe a build.
3. **Registries**: where images live.

## ⏱️ Important Moments
- **00:00** - Introduction and agenda
- **03:45** - Building the first image
- **1:02:10** - Final deployment

## 💡 Conclusion
Containers make deployment reproducible.

## ✅ Action Items
1. Install Docker Desktop.
2. Build an image from the example repo.
`

func summaryTranscript(text string) models.Transcript {
	return models.Transcript{
		Video: models.Video{
			ID:    "abc123",
			Title: "Docker for Beginners",
			URL:   "https://www.youtube.com/watch?v=abc123",
		},
		Text:     text,
		Language: "en",
	}
}

func TestSummarize(t *testing.T) {
	llm := &fakeLLM{response: sampleSummaryResponse}
	summarizer := NewSummarizer(llm)

	transcript := summaryTranscript(strings.Repeat("the quick brown fox ", 300))
	summary, err := summarizer.Summarize(context.Background(), transcript)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.VideoID != "abc123" || summary.VideoTitle != "Docker for Beginners" {
		t.Errorf("identity fields = %q/%q", summary.VideoID, summary.VideoTitle)
	}
	if !strings.HasPrefix(summary.ExecutiveSummary, "This video teaches Docker") {
		t.Errorf("ExecutiveSummary = %q", summary.ExecutiveSummary)
	}
	if len(summary.KeyPoints) != 3 {
		t.Errorf("got %d key points, want 3", len(summary.KeyPoints))
	}
	if len(summary.Timestamps) != 3 {
		t.Fatalf("got %d timestamps, want 3", len(summary.Timestamps))
	}
	if summary.Timestamps[1].Timestamp != "03:45" || summary.Timestamps[1].Importance != 3 {
		t.Errorf("Timestamps[1] = %+v", summary.Timestamps[1])
	}
	if summary.Timestamps[2].Timestamp != "1:02:10" {
		t.Errorf("HH:MM:SS timestamp not parsed: %+v", summary.Timestamps[2])
	}
	if summary.Conclusion != "Containers make deployment reproducible." {
		t.Errorf("Conclusion = %q", summary.Conclusion)
	}
	if len(summary.ActionItems) != 2 {
		t.Errorf("got %d action items, want 2", len(summary.ActionItems))
	}

	// 1200 words at 150 wpm.
	if summary.WordCount != 1200 {
		t.Errorf("WordCount = %d, want 1200", summary.WordCount)
	}
	if summary.EstimatedDurationMinutes != 8 {
		t.Errorf("EstimatedDurationMinutes = %.1f, want 8", summary.EstimatedDurationMinutes)
	}
	if summary.Language != "en" {
		t.Errorf("Language = %q, want transcript's", summary.Language)
	}
}

func TestSummarizePromptLanguage(t *testing.T) {
	llm := &fakeLLM{response: sampleSummaryResponse}

	transcript := summaryTranscript("el contenido es en español para que la detección funcione")
	transcript.Language = "es"
	if _, err := NewSummarizer(llm).Summarize(context.Background(), transcript); err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !strings.Contains(llm.lastPrompt, "Resumen Ejecutivo") {
		t.Error("Spanish transcript did not get the Spanish prompt")
	}
}

func TestSummarizeErrors(t *testing.T) {
	t.Run("EmptyTranscript", func(t *testing.T) {
		_, err := NewSummarizer(&fakeLLM{}).Summarize(context.Background(), summaryTranscript("  "))
		var summErr *SummarizationError
		if !errors.As(err, &summErr) {
			t.Fatalf("got %v, want *SummarizationError", err)
		}
	})

	t.Run("LLMFailure", func(t *testing.T) {
		llm := &fakeLLM{err: errors.New("unavailable")}
		_, err := NewSummarizer(llm).Summarize(context.Background(), summaryTranscript("some words"))
		var summErr *SummarizationError
		if !errors.As(err, &summErr) {
			t.Fatalf("got %v, want *SummarizationError", err)
		}
	})

	t.Run("UnstructuredResponse", func(t *testing.T) {
		llm := &fakeLLM{response: "Sorry, I cannot summarize this."}
		_, err := NewSummarizer(llm).Summarize(context.Background(), summaryTranscript("some words"))
		var summErr *SummarizationError
		if !errors.As(err, &summErr) {
			t.Fatalf("got %v, want *SummarizationError for sectionless response", err)
		}
	})
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Spanish", "en este video vamos a ver cómo funciona el contenedor y qué es una imagen para que puedas empezar", "es"},
		{"English", "in this video we are going to look at how the container works and what an image is so that you can start", "en"},
		{"TieDefaultsToSpanish", "", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderMarkdownRoundTrip(t *testing.T) {
	// Rendering a summary and re-parsing it recovers the same fields.
	llm := &fakeLLM{response: sampleSummaryResponse}
	original, err := NewSummarizer(llm).Summarize(context.Background(), summaryTranscript("words and more words"))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	rendered := RenderMarkdown(original)

	if got := extractSection(rendered, execSummaryHeaders); got != original.ExecutiveSummary {
		t.Errorf("executive summary = %q after render, want %q", got, original.ExecutiveSummary)
	}
	if got := extractTimestamps(rendered); len(got) != len(original.Timestamps) {
		t.Errorf("got %d timestamps after render, want %d", len(got), len(original.Timestamps))
	}
	if got := extractListItems(rendered, actionItemsHeaders); len(got) != len(original.ActionItems) {
		t.Errorf("got %d action items after render, want %d", len(got), len(original.ActionItems))
	}
}
