package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"scriptforge/internal/models"
)

// TextGenerator is the LLM collaborator: one prompt in, one text
// completion out.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// maxTranscriptChars caps how much transcript text goes into the
// analysis prompt.
const maxTranscriptChars = 15_000

// PatternAnalyzer extracts structural and rhetorical patterns from one
// transcript with a single LLM call.
type PatternAnalyzer struct {
	llm TextGenerator
}

func NewPatternAnalyzer(llm TextGenerator) *PatternAnalyzer {
	return &PatternAnalyzer{llm: llm}
}

// analysisResponse is the strict schema the model is asked to fill.
type analysisResponse struct {
	Hook struct {
		Text          string `json:"text"`
		Type          string `json:"type"`
		Effectiveness string `json:"effectiveness"`
	} `json:"hook"`
	IntroEndSeconds        int                `json:"intro_end_seconds"`
	Sections               []models.Section   `json:"sections"`
	ConclusionStartSeconds int                `json:"conclusion_start_seconds"`
	CTAs                   []models.CTA       `json:"ctas"`
	TechnicalTerms         []string           `json:"technical_terms"`
	CommonPhrases          []string           `json:"common_phrases"`
	TransitionPhrases      []string           `json:"transition_phrases"`
	Techniques             []models.Technique `json:"techniques"`
	PacingNotes            string             `json:"pacing_notes"`
	TitleKeywords          []string           `json:"title_keywords"`
	EstimatedTags          []string           `json:"estimated_tags"`
}

// Analyze sends one analysis prompt and parses the response into a
// VideoAnalysis. Any LLM or parse failure comes back as an
// AnalysisError; callers substitute models.EmptyAnalysis so one bad
// video never aborts synthesis.
func (a *PatternAnalyzer) Analyze(ctx context.Context, transcript models.Transcript) (models.VideoAnalysis, error) {
	prompt := a.buildAnalysisPrompt(transcript)

	response, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return models.VideoAnalysis{}, &AnalysisError{VideoID: transcript.Video.ID, Cause: err}
	}

	parsed, err := parseAnalysisResponse(response)
	if err != nil {
		return models.VideoAnalysis{}, &AnalysisError{VideoID: transcript.Video.ID, Cause: err}
	}

	// Hook always starts at zero; its end comes from the first
	// section boundary when the model supplied one.
	hookEnd := 30
	if len(parsed.Sections) > 0 {
		if secs, ok := parseTimestampSeconds(parsed.Sections[0].End); ok && secs > 0 {
			hookEnd = secs
		}
	}

	return models.NewVideoAnalysis(models.VideoAnalysis{
		Video:             transcript.Video,
		HookStart:         0,
		HookEnd:           hookEnd,
		HookText:          parsed.Hook.Text,
		HookType:          parsed.Hook.Type,
		HookEffectiveness: parsed.Hook.Effectiveness,
		IntroEnd:          parsed.IntroEndSeconds,
		Sections:          parsed.Sections,
		ConclusionStart:   parsed.ConclusionStartSeconds,
		CTAs:              parsed.CTAs,
		TechnicalTerms:    parsed.TechnicalTerms,
		CommonPhrases:     parsed.CommonPhrases,
		TransitionPhrases: parsed.TransitionPhrases,
		Techniques:        parsed.Techniques,
		TitleKeywords:     parsed.TitleKeywords,
		EstimatedTags:     parsed.EstimatedTags,
		RawAnalysis:       response,
	}), nil
}

func (a *PatternAnalyzer) buildAnalysisPrompt(transcript models.Transcript) string {
	text := transcript.Text
	if len(text) > maxTranscriptChars {
		text = text[:maxTranscriptChars] + "\n[TRANSCRIPT TRUNCATED]"
	}

	return fmt.Sprintf(`You are an expert YouTube content strategist. Analyze this video transcript and extract the structural and rhetorical patterns that made it successful.

VIDEO METADATA:
Title: %s
Channel: %s
Duration: %d seconds
Views: %d
Language: %s

TRANSCRIPT:
%s

Extract the following and respond with ONLY a JSON object in exactly this format (no markdown, no commentary):
{
  "hook": {
    "text": "the exact opening hook wording",
    "type": "question|statistic|promise|problem",
    "effectiveness": "high|medium|low"
  },
  "intro_end_seconds": number (when the intro ends),
  "sections": [{"title": "...", "start": "MM:SS", "end": "MM:SS"}],
  "conclusion_start_seconds": number,
  "ctas": [{"text": "...", "timestamp": "MM:SS", "type": "subscribe|like|comment|link|other"}],
  "technical_terms": ["..."],
  "common_phrases": ["recurring phrases the creator uses"],
  "transition_phrases": ["phrases used to move between sections"],
  "techniques": [{"name": "...", "description": "persuasion or retention technique"}],
  "pacing_notes": "one sentence on pacing",
  "title_keywords": ["SEO keywords evident in the title"],
  "estimated_tags": ["likely video tags"]
}`,
		transcript.Video.Title,
		transcript.Video.Channel,
		transcript.Video.DurationSeconds,
		transcript.Video.ViewCount,
		transcript.Language,
		text,
	)
}

// parseAnalysisResponse strips any markdown fences the model wrapped
// the JSON in, then decodes the object between the outermost braces.
func parseAnalysisResponse(response string) (*analysisResponse, error) {
	cleaned := stripCodeFences(response)

	startIdx := strings.Index(cleaned, "{")
	endIdx := strings.LastIndex(cleaned, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var parsed analysisResponse
	if err := json.Unmarshal([]byte(cleaned[startIdx:endIdx+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis JSON: %w", err)
	}

	return &parsed, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
