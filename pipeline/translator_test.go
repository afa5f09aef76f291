package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"scriptforge/internal/models"
)

func sampleScript() models.GeneratedScript {
	return models.GeneratedScript{
		UserIdea:                 "docker basics",
		ScriptMarkdown:           "# Docker\n\n[00:00] Welcome to the channel, today we learn Docker.",
		EstimatedDurationMinutes: 10,
		WordCount:                10,
		SEOTitle:                 "Docker in 10 Minutes",
		SEODescription:           "Learn Docker fast.",
		SEOTags:                  []string{"docker", "tutorial", "setup"},
		SynthesisTopic:           "docker",
		NumReferenceVideos:       5,
		GeneratedAt:              time.Now(),
	}
}

func TestTranslate(t *testing.T) {
	llm := &fakeLLM{response: "contenido traducido con varias palabras nuevas"}
	translator := NewTranslator(llm, "es")

	original := sampleScript()
	translated, err := translator.Translate(context.Background(), original)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if translated.ScriptMarkdown != "contenido traducido con varias palabras nuevas" {
		t.Errorf("ScriptMarkdown = %q", translated.ScriptMarkdown)
	}
	if translated.WordCount != 6 {
		t.Errorf("WordCount = %d, want recomputed 6", translated.WordCount)
	}
	// Original record untouched.
	if original.ScriptMarkdown != sampleScript().ScriptMarkdown {
		t.Error("original script was mutated")
	}
	// Provenance carries over.
	if translated.SynthesisTopic != "docker" || translated.NumReferenceVideos != 5 {
		t.Errorf("provenance lost: %q / %d", translated.SynthesisTopic, translated.NumReferenceVideos)
	}
}

func TestTranslateEmptyBody(t *testing.T) {
	translator := NewTranslator(&fakeLLM{}, "es")

	script := sampleScript()
	script.ScriptMarkdown = "   "
	_, err := translator.Translate(context.Background(), script)

	var translationErr *TranslationError
	if !errors.As(err, &translationErr) {
		t.Fatalf("got %v, want *TranslationError", err)
	}
}

func TestTranslateBodyFailureKeepsOriginalWithMarker(t *testing.T) {
	llm := &fakeLLM{err: errors.New("timeout")}
	translator := NewTranslator(llm, "es")

	original := sampleScript()
	translated, err := translator.Translate(context.Background(), original)
	if err != nil {
		t.Fatalf("Translate must degrade per field, not fail: %v", err)
	}

	if !strings.HasPrefix(translated.ScriptMarkdown, "[TRANSLATION FAILED]") {
		t.Errorf("body missing failure marker: %q", translated.ScriptMarkdown[:40])
	}
	if !strings.Contains(translated.ScriptMarkdown, original.ScriptMarkdown) {
		t.Error("original content not preserved behind the marker")
	}
	// Title and description individually fall back to the originals.
	if translated.SEOTitle != original.SEOTitle {
		t.Errorf("SEOTitle = %q, want original", translated.SEOTitle)
	}
	if translated.SEODescription != original.SEODescription {
		t.Errorf("SEODescription = %q, want original", translated.SEODescription)
	}
}

func TestTranslateStripsWrappingQuotes(t *testing.T) {
	llm := &fakeLLM{response: `"Docker en 10 Minutos"`}
	translator := NewTranslator(llm, "es")

	translated, err := translator.Translate(context.Background(), sampleScript())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if translated.SEOTitle != "Docker en 10 Minutos" {
		t.Errorf("SEOTitle = %q, quotes not stripped", translated.SEOTitle)
	}
}

func TestAdaptTags(t *testing.T) {
	t.Run("AppendsTranslations", func(t *testing.T) {
		got := adaptTags([]string{"docker", "tutorial", "beginner", "setup"})

		// Originals always kept, in order.
		for i, want := range []string{"docker", "tutorial", "beginner", "setup"} {
			if got[i] != want {
				t.Errorf("tag %d = %q, want %q", i, got[i], want)
			}
		}
		joined := strings.Join(got, ",")
		for _, want := range []string{"principiante", "configuración"} {
			if !strings.Contains(joined, want) {
				t.Errorf("missing Spanish variant %q in %v", want, got)
			}
		}
		// "tutorial" translates to itself, so no duplicate appears.
		if strings.Count(joined, "tutorial") != 1 {
			t.Errorf("duplicate tutorial tag in %v", got)
		}
	})

	t.Run("CapAt30", func(t *testing.T) {
		var tags []string
		for i := 0; i < 28; i++ {
			tags = append(tags, strings.Repeat("x", i+1))
		}
		tags = append(tags, "guide", "beginner", "setup")

		got := adaptTags(tags)
		if len(got) > 30 {
			t.Errorf("got %d tags, want <= 30", len(got))
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := adaptTags(nil); len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}

func TestNewTranslatorDefaults(t *testing.T) {
	translator := NewTranslator(&fakeLLM{}, "")
	if translator.code != "es" || translator.language != "Spanish" {
		t.Errorf("defaults = %q/%q, want es/Spanish", translator.code, translator.language)
	}

	unknown := NewTranslator(&fakeLLM{}, "sv")
	if unknown.language != "sv" {
		t.Errorf("unknown code language = %q, want the code itself", unknown.language)
	}
}
