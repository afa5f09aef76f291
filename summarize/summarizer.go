package summarize

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"scriptforge/internal/models"
)

// SummarizationError is returned when the summary cannot be produced
// or the model response cannot be parsed.
type SummarizationError struct {
	Cause error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Cause)
}

func (e *SummarizationError) Unwrap() error { return e.Cause }

// TextGenerator is the prompt-in/text-out surface the summarizer needs.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces an executive summary of a single transcribed
// video, in the transcript's own language.
type Summarizer struct {
	llm TextGenerator
}

func NewSummarizer(llm TextGenerator) *Summarizer {
	return &Summarizer{llm: llm}
}

// Summarize builds a VideoSummary from a transcript. The summary is
// written in the video's language (Spanish or English; anything else
// falls back to English).
func (s *Summarizer) Summarize(ctx context.Context, transcript models.Transcript) (models.VideoSummary, error) {
	if strings.TrimSpace(transcript.Text) == "" {
		return models.VideoSummary{}, &SummarizationError{Cause: fmt.Errorf("transcript is empty")}
	}

	language := transcript.Language
	if language == "" {
		language = DetectLanguage(transcript.Text)
	}

	wordCount := len(strings.Fields(transcript.Text))
	durationMinutes := float64(wordCount) / 150 // average speaking rate

	log.Printf("Generating summary for %q (%d words, language %s)", transcript.Video.Title, wordCount, language)

	prompt := buildSummaryPrompt(transcript.Text, transcript.Video.Title, wordCount, durationMinutes, language)

	response, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return models.VideoSummary{}, &SummarizationError{Cause: err}
	}

	summary := models.VideoSummary{
		VideoURL:                 transcript.Video.URL,
		VideoTitle:               transcript.Video.Title,
		VideoID:                  transcript.Video.ID,
		ExecutiveSummary:         extractSection(response, execSummaryHeaders),
		KeyPoints:                extractListItems(response, keyPointsHeaders),
		Timestamps:               extractTimestamps(response),
		Conclusion:               extractSection(response, conclusionHeaders),
		ActionItems:              extractListItems(response, actionItemsHeaders),
		WordCount:                wordCount,
		EstimatedDurationMinutes: durationMinutes,
		Language:                 language,
		GeneratedAt:              time.Now(),
	}

	if summary.ExecutiveSummary == "" && len(summary.KeyPoints) == 0 {
		return models.VideoSummary{}, &SummarizationError{Cause: fmt.Errorf("model response had no recognizable sections")}
	}

	return summary, nil
}

// DetectLanguage guesses Spanish vs English by counting common function
// words in the first 500 words. Ties go to Spanish.
func DetectLanguage(text string) string {
	words := strings.Fields(text)
	if len(words) > 500 {
		words = words[:500]
	}
	sample := " " + strings.ToLower(strings.Join(words, " ")) + " "

	spanishIndicators := []string{
		" el ", " la ", " los ", " las ", " de ", " que ", " es ", " en ",
		" un ", " una ", " para ", " con ", " por ", " está ", " son ",
		" pero ", " cómo ", " qué ", "español",
	}
	englishIndicators := []string{
		" the ", " is ", " are ", " and ", " or ", " but ", " in ", " on ",
		" at ", " to ", " for ", " with ", " this ", " that ", " how ",
		" what ", "english",
	}

	spanishCount := 0
	for _, word := range spanishIndicators {
		spanishCount += strings.Count(sample, word)
	}
	englishCount := 0
	for _, word := range englishIndicators {
		englishCount += strings.Count(sample, word)
	}

	if spanishCount >= englishCount {
		return "es"
	}
	return "en"
}

func buildSummaryPrompt(transcript, title string, wordCount int, durationMinutes float64, language string) string {
	if language == "es" {
		return fmt.Sprintf(summaryPromptES, title, durationMinutes, wordCount, transcript, title, wordCount, durationMinutes)
	}
	return fmt.Sprintf(summaryPromptEN, title, durationMinutes, wordCount, transcript, title, wordCount, durationMinutes)
}

// Section headers the parser accepts, English and Spanish variants.
var (
	execSummaryHeaders = regexp.MustCompile(`^##\s+🎯\s+(Resumen Ejecutivo|Executive Summary)`)
	keyPointsHeaders   = regexp.MustCompile(`^##\s+🔑\s+(Puntos Clave|Key Points)`)
	momentsHeaders     = regexp.MustCompile(`^##\s+⏱️?\s+(Momentos Importantes|Important Moments)`)
	conclusionHeaders  = regexp.MustCompile(`^##\s+💡\s+(Conclusión|Conclusion)`)
	actionItemsHeaders = regexp.MustCompile(`^##\s+✅\s+Action Items`)

	anyHeaderRe  = regexp.MustCompile(`^\s*##\s+`)
	listItemRe   = regexp.MustCompile(`^\s*(?:\d+\.|[-*])\s+(.+)$`)
	timestampsRe = regexp.MustCompile(`^-\s+\*\*(\d{1,2}:\d{2}(?::\d{2})?)\*\*\s+-\s+(.+)$`)
)

// extractSection returns the text between a matching header line and
// the next "##" header (or end of input).
func extractSection(text string, header *regexp.Regexp) string {
	lines := strings.Split(text, "\n")
	var body []string
	inSection := false

	for _, line := range lines {
		if inSection {
			if anyHeaderRe.MatchString(line) {
				break
			}
			body = append(body, line)
			continue
		}
		if header.MatchString(strings.TrimSpace(line)) {
			inSection = true
		}
	}

	return strings.TrimSpace(strings.Join(body, "\n"))
}

func extractListItems(text string, header *regexp.Regexp) []string {
	section := extractSection(text, header)
	if section == "" {
		return nil
	}

	var items []string
	for _, line := range strings.Split(section, "\n") {
		if m := listItemRe.FindStringSubmatch(line); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

func extractTimestamps(text string) []models.TimestampedSection {
	section := extractSection(text, momentsHeaders)
	if section == "" {
		return nil
	}

	var stamps []models.TimestampedSection
	for _, line := range strings.Split(section, "\n") {
		if m := timestampsRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			stamps = append(stamps, models.TimestampedSection{
				Timestamp:   m[1],
				Description: strings.TrimSpace(m[2]),
				Importance:  3, // default importance
			})
		}
	}
	return stamps
}

// RenderMarkdown formats a summary as the markdown artifact written to
// disk, mirroring the structure the model was asked for.
func RenderMarkdown(summary models.VideoSummary) string {
	var b strings.Builder

	headers := markdownHeadersEN
	if summary.Language == "es" {
		headers = markdownHeadersES
	}

	fmt.Fprintf(&b, "# 📹 %s: %s\n\n", headers.title, summary.VideoTitle)
	fmt.Fprintf(&b, "%s\n\n", summary.VideoURL)

	fmt.Fprintf(&b, "## 🎯 %s\n%s\n\n", headers.execSummary, summary.ExecutiveSummary)

	fmt.Fprintf(&b, "## 🔑 %s\n", headers.keyPoints)
	for i, point := range summary.KeyPoints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, point)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## ⏱️ %s\n", headers.moments)
	for _, stamp := range summary.Timestamps {
		fmt.Fprintf(&b, "- **%s** - %s\n", stamp.Timestamp, stamp.Description)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## 💡 %s\n%s\n\n", headers.conclusion, summary.Conclusion)

	b.WriteString("## ✅ Action Items\n")
	for i, item := range summary.ActionItems {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}

	fmt.Fprintf(&b, "\n---\n**📊 %s**: %d %s | ~%.1f %s\n",
		headers.stats, summary.WordCount, headers.words, summary.EstimatedDurationMinutes, headers.minutes)

	return b.String()
}

type sectionHeaders struct {
	title, execSummary, keyPoints, moments, conclusion, stats, words, minutes string
}

var markdownHeadersEN = sectionHeaders{
	title:       "Summary",
	execSummary: "Executive Summary",
	keyPoints:   "Key Points",
	moments:     "Important Moments",
	conclusion:  "Conclusion",
	stats:       "Statistics",
	words:       "words",
	minutes:     "minutes of content",
}

var markdownHeadersES = sectionHeaders{
	title:       "Resumen",
	execSummary: "Resumen Ejecutivo",
	keyPoints:   "Puntos Clave",
	moments:     "Momentos Importantes",
	conclusion:  "Conclusión",
	stats:       "Estadísticas",
	words:       "palabras",
	minutes:     "minutos de contenido",
}

const summaryPromptEN = `Analyze the following YouTube video transcript and generate a comprehensive executive summary.

**VIDEO**: %s
**DURATION**: ~%.1f minutes
**WORDS**: %d

**TRANSCRIPT**:
%s

---

Generate a structured summary following EXACTLY this Markdown format:

# 📹 Summary: %s

## 🎯 Executive Summary
[2-3 lines describing what the video is about, what it covers and what viewers learn.]

## 🔑 Key Points
1. **[Topic]**: [Brief explanation]
[5-7 total points, topic in **bold** followed by explanation.]

## ⏱️ Important Moments
- **00:00** - [Brief description of opening topic]
[5-8 timestamps as **MM:SS** in bold. Use explicit transcript timestamps when present, otherwise infer from content order.]

## 💡 Conclusion
[1-2 lines with the main takeaway.]

## ✅ Action Items
1. [Specific, practical action viewers can take]
[3-5 total action items.]

---
**📊 Statistics**: %d words | ~%.1f minutes of content

CRITICAL: use exactly the markdown format above, emojis included, and do NOT invent information not present in the transcript.`

const summaryPromptES = `Analiza la siguiente transcripción de video de YouTube y genera un resumen ejecutivo completo.

**VIDEO**: %s
**DURACIÓN**: ~%.1f minutos
**PALABRAS**: %d

**TRANSCRIPCIÓN**:
%s

---

Genera un resumen estructurado siguiendo EXACTAMENTE este formato Markdown:

# 📹 Resumen: %s

## 🎯 Resumen Ejecutivo
[2-3 líneas describiendo de qué trata el video, qué cubre y qué se aprende.]

## 🔑 Puntos Clave
1. **[Tema]**: [Explicación breve]
[5-7 puntos totales, tema en **negrita** seguido de explicación.]

## ⏱️ Momentos Importantes
- **00:00** - [Descripción breve del tema de inicio]
[5-8 timestamps como **MM:SS** en negrita. Usa los timestamps explícitos de la transcripción cuando existan, si no, infiérelos del orden del contenido.]

## 💡 Conclusión
[1-2 líneas con el mensaje principal.]

## ✅ Action Items
1. [Acción específica y práctica que puede tomar el espectador]
[3-5 action items totales.]

---
**📊 Estadísticas**: %d palabras | ~%.1f minutos de contenido

CRÍTICO: usa exactamente el formato markdown de arriba, emojis incluidos, y NO inventes información que no esté en la transcripción.`
