package pipeline

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"scriptforge/internal/models"
)

// Translator produces a translated copy of a generated script. The
// original record is never mutated; every translation is a new,
// independent GeneratedScript.
type Translator struct {
	llm      TextGenerator
	code     string // ISO code used in artifact names, e.g. "es"
	language string // prompt-facing name, e.g. "Spanish"
}

var languageNames = map[string]string{
	"es": "Spanish",
	"en": "English",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
	"it": "Italian",
}

func NewTranslator(llm TextGenerator, code string) *Translator {
	if code == "" {
		code = "es"
	}
	language, ok := languageNames[code]
	if !ok {
		language = code
	}
	return &Translator{llm: llm, code: code, language: language}
}

// Translate translates the script body and SEO fields. The body call
// failing yields the original text behind a visible failure marker;
// title and description failures individually fall back to the
// untranslated originals. Only a wholesale orchestration failure is a
// TranslationError.
func (t *Translator) Translate(ctx context.Context, script models.GeneratedScript) (models.GeneratedScript, error) {
	if strings.TrimSpace(script.ScriptMarkdown) == "" {
		return models.GeneratedScript{}, &TranslationError{Cause: fmt.Errorf("script body is empty")}
	}

	log.Printf("Translating script %q to %s", script.SEOTitle, t.language)

	translated := script
	translated.ScriptMarkdown = t.translateContent(ctx, script.ScriptMarkdown, script.SEOTitle)
	translated.SEOTitle = t.translateTitle(ctx, script.SEOTitle)
	translated.SEODescription = t.translateDescription(ctx, script.SEODescription)
	translated.SEOTags = adaptTags(script.SEOTags)
	translated.WordCount = len(strings.Fields(translated.ScriptMarkdown))

	return translated, nil
}

func (t *Translator) translateContent(ctx context.Context, content, title string) string {
	prompt := fmt.Sprintf(`Translate the following YouTube script to %s.

CONTEXT: This is a tutorial script about: %q

RULES:
1. Natural %s, not a literal word-for-word rendering.
2. Keep technical terms, software names, commands and code blocks in English.
3. Preserve markdown structure exactly: headings, bold, lists, code fences.
4. Preserve ALL [MM:SS] timestamps.
5. Adapt CTAs idiomatically (e.g. "Subscribe" becomes the natural equivalent).

SCRIPT:
%s

OUTPUT: only the translated script, keeping the exact markdown structure.`, t.language, title, t.language, content)

	translated, err := t.llm.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(translated) == "" {
		log.Printf("Warning: content translation failed, keeping original: %v", err)
		return fmt.Sprintf("[TRANSLATION FAILED] Original script below:\n\n%s", content)
	}
	return strings.TrimSpace(translated)
}

var wrappingQuotesRe = regexp.MustCompile(`^["'](.*)["']$`)

func (t *Translator) translateTitle(ctx context.Context, title string) string {
	if title == "" {
		return title
	}

	prompt := fmt.Sprintf(`Translate this YouTube video title to %s. Keep it SEO-friendly, preserve technical terms and tool names, maximum 100 characters.

TITLE: %s

OUTPUT: only the translated title, nothing else.`, t.language, title)

	translated, err := t.llm.Complete(ctx, prompt)
	if err != nil {
		log.Printf("Warning: title translation failed, using original: %v", err)
		return title
	}

	translated = strings.TrimSpace(translated)
	translated = wrappingQuotesRe.ReplaceAllString(translated, "$1")
	if translated == "" {
		return title
	}
	return translated
}

func (t *Translator) translateDescription(ctx context.Context, description string) string {
	if description == "" {
		return description
	}

	prompt := fmt.Sprintf(`Translate this YouTube video description to %s. Keep it engaging and SEO-friendly, preserve technical terms, similar length.

DESCRIPTION: %s

OUTPUT: only the translated description, nothing else.`, t.language, description)

	translated, err := t.llm.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(translated) == "" {
		log.Printf("Warning: description translation failed, using original: %v", err)
		return description
	}
	return strings.TrimSpace(translated)
}

// tagTranslations maps generic English tags to Spanish variants.
// Technical terms are often searched in English, so originals are
// always kept.
var tagTranslations = map[string]string{
	"tutorial":        "tutorial",
	"guide":           "guía",
	"beginner":        "principiante",
	"beginners":       "principiantes",
	"installation":    "instalación",
	"setup":           "configuración",
	"how to":          "cómo",
	"step by step":    "paso a paso",
	"quick start":     "inicio rápido",
	"getting started": "primeros pasos",
	"automation":      "automatización",
	"workflow":        "flujo de trabajo",
	"free":            "gratis",
	"local":           "local",
	"self-hosted":     "auto-alojado",
}

// adaptTags keeps the original tags and appends translated variants
// for the generic ones, capped at 30 (the platform tag limit).
func adaptTags(tags []string) []string {
	adapted := make([]string, len(tags))
	copy(adapted, tags)

	present := make(map[string]bool, len(tags))
	for _, tag := range tags {
		present[strings.ToLower(tag)] = true
	}

	for _, tag := range tags {
		if translation, ok := tagTranslations[strings.ToLower(tag)]; ok && !present[strings.ToLower(translation)] {
			present[strings.ToLower(translation)] = true
			adapted = append(adapted, translation)
		}
	}

	if len(adapted) > 30 {
		adapted = adapted[:30]
	}
	return adapted
}
