package pipeline

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"time"

	"scriptforge/internal/models"
)

// wordsPerMinute is the speaking-rate constant used for word targets
// and duration estimates.
const wordsPerMinute = 150

// ScriptGenerator turns a pattern synthesis plus a user idea into a
// complete script with SEO metadata.
type ScriptGenerator struct {
	llm TextGenerator
}

func NewScriptGenerator(llm TextGenerator) *ScriptGenerator {
	return &ScriptGenerator{llm: llm}
}

// Generate produces a script for idea using the synthesized patterns.
// durationMinutes <= 0 defaults to 10; style is optional guidance.
// An LLM failure degrades to a basic template instead of an error;
// only a blank idea is rejected.
func (g *ScriptGenerator) Generate(ctx context.Context, synthesis models.PatternSynthesis, idea string, durationMinutes int, style string) (models.GeneratedScript, error) {
	if strings.TrimSpace(idea) == "" {
		return models.GeneratedScript{}, ErrEmptyIdea
	}
	if durationMinutes <= 0 {
		durationMinutes = 10
	}

	prompt := g.buildGenerationPrompt(synthesis, idea, durationMinutes, style)

	response, err := g.llm.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(response) == "" {
		log.Printf("Warning: script generation failed, using basic template: %v", err)
		return g.fallbackScript(synthesis, idea, durationMinutes), nil
	}

	script, seoBlock := splitSEOBlock(stripCodeFences(response))

	seoTitle := extractSEOTitle(seoBlock, script, synthesis, idea)
	seoDescription := extractSEODescription(seoBlock, script, synthesis, idea)
	seoTags := extractSEOTags(seoBlock, synthesis)

	wordCount := len(strings.Fields(script))
	estimatedMinutes := int(math.Round(float64(wordCount) / wordsPerMinute))
	if estimatedMinutes < 1 {
		estimatedMinutes = 1
	}

	return models.GeneratedScript{
		UserIdea:                 idea,
		ScriptMarkdown:           script,
		EstimatedDurationMinutes: estimatedMinutes,
		WordCount:                wordCount,
		SEOTitle:                 seoTitle,
		SEODescription:           seoDescription,
		SEOTags:                  seoTags,
		SynthesisTopic:           synthesis.Topic,
		NumReferenceVideos:       synthesis.NumVideosAnalyzed,
		GeneratedAt:              time.Now(),
		EstimatedQualityScore:    estimateQuality(script, seoTitle, seoTags),
	}, nil
}

func (g *ScriptGenerator) buildGenerationPrompt(synthesis models.PatternSynthesis, idea string, durationMinutes int, style string) string {
	targetWords := durationMinutes * wordsPerMinute

	var b strings.Builder

	fmt.Fprintf(&b, `You are an expert YouTube scriptwriter. Write a complete video script about: %q

The script must apply the patterns below, learned from %d successful videos about %q (average effectiveness %.2f/5).

TARGET: %d minutes (~%d words).
`, idea, synthesis.NumVideosAnalyzed, synthesis.Topic, synthesis.AverageEffectiveness, durationMinutes, targetWords)

	if style != "" {
		fmt.Fprintf(&b, "STYLE: %s.\n", style)
	}

	b.WriteString("\nHOOK EXAMPLES THAT WORKED:\n")
	for i, hook := range synthesis.TopHooks {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s\n", hook.Type, hook.Text)
	}

	b.WriteString("\nCTAS THAT WORKED:\n")
	for i, cta := range synthesis.EffectiveCTAs {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "- (%s, around %.0f%% of runtime) %s\n", cta.Type, cta.MeanPositionPercent, cta.Text)
	}

	b.WriteString("\nVOCABULARY TO USE NATURALLY:\n")
	fmt.Fprintf(&b, "- Technical terms: %s\n", joinTopTerms(synthesis.KeyVocabulary.TechnicalTerms, 10))
	fmt.Fprintf(&b, "- Recurring phrases: %s\n", joinTopTerms(synthesis.KeyVocabulary.CommonPhrases, 5))

	fmt.Fprintf(&b, `
STRUCTURE (averages across reference videos):
- Hook: first %.0f seconds
- Intro ends at %.0f seconds
- %d main sections
- Conclusion starts at %.0f seconds

FORMAT REQUIREMENTS:
1. Markdown, with [MM:SS] timestamp markers at every structural boundary.
2. Layout: # title heading, hook, intro, %d sections (## headings), conclusion.
3. Insert 2-3 CTAs at roughly 10%%, 50%% and 90%% of the runtime.
4. After the script, append exactly this block:

---
SEO TITLE: <click-worthy title, max 70 characters>
SEO DESCRIPTION: <2-3 sentence video description>
SEO TAGS: <comma-separated list of 15-20 tags>
`,
		synthesis.OptimalStructure.HookDurationSeconds,
		synthesis.OptimalStructure.IntroEndSeconds,
		synthesis.OptimalStructure.SectionCount,
		synthesis.OptimalStructure.ConclusionStartSecond,
		synthesis.OptimalStructure.SectionCount,
	)

	return b.String()
}

// fallbackScript is the deterministic script used when the LLM call
// fails: top hook (when one exists) plus a skeleton built from the
// synthesis topic. Quality is pinned at 50.
func (g *ScriptGenerator) fallbackScript(synthesis models.PatternSynthesis, idea string, durationMinutes int) models.GeneratedScript {
	hook := fmt.Sprintf("What if I told you %s could change how you work?", idea)
	if len(synthesis.TopHooks) > 0 {
		hook = synthesis.TopHooks[0].Text
	}

	script := fmt.Sprintf(`# %s

[00:00] %s

[00:30] In this video we cover %s, drawing on what works across %d top-performing videos about %s.

## Main Content

[01:00] Walk through the core ideas step by step.

## Conclusion

[%02d:00] If this was useful, subscribe for more.
`, idea, hook, idea, synthesis.NumVideosAnalyzed, synthesis.Topic, max(durationMinutes-1, 1))

	return models.GeneratedScript{
		UserIdea:                 idea,
		ScriptMarkdown:           script,
		EstimatedDurationMinutes: durationMinutes,
		WordCount:                len(strings.Fields(script)),
		SEOTitle:                 fallbackTitle(synthesis, idea),
		SEODescription:           fallbackDescription(synthesis, idea),
		SEOTags:                  unionTags(synthesis, 20),
		SynthesisTopic:           synthesis.Topic,
		NumReferenceVideos:       synthesis.NumVideosAnalyzed,
		GeneratedAt:              time.Now(),
		EstimatedQualityScore:    50,
	}
}

var (
	seoTitleRe       = regexp.MustCompile(`(?im)^SEO TITLE:\s*(.+)$`)
	seoDescriptionRe = regexp.MustCompile(`(?im)^SEO DESCRIPTION:\s*(.+)$`)
	seoTagsRe        = regexp.MustCompile(`(?im)^SEO TAGS:\s*(.+)$`)
	timestampRe      = regexp.MustCompile(`\[\d{1,2}:\d{2}\]`)
	headingRe        = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	sectionRe        = regexp.MustCompile(`(?m)^##\s+`)
)

// splitSEOBlock separates the trailing SEO block from the script body.
func splitSEOBlock(response string) (script, seoBlock string) {
	if loc := seoTitleRe.FindStringIndex(response); loc != nil {
		seoBlock = response[loc[0]:]
		script = response[:loc[0]]
		script = strings.TrimRight(strings.TrimSpace(script), "-")
		return strings.TrimSpace(script), seoBlock
	}
	return strings.TrimSpace(response), ""
}

func extractSEOTitle(seoBlock, script string, synthesis models.PatternSynthesis, idea string) string {
	if m := seoTitleRe.FindStringSubmatch(seoBlock); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := headingRe.FindStringSubmatch(script); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fallbackTitle(synthesis, idea)
}

func fallbackTitle(synthesis models.PatternSynthesis, idea string) string {
	title := idea
	if len(synthesis.SEOPatterns.TitleKeywords) > 0 {
		title = fmt.Sprintf("%s: %s", synthesis.SEOPatterns.TitleKeywords[0].Term, idea)
	}
	if len(title) > 70 {
		title = title[:70]
	}
	return title
}

func extractSEODescription(seoBlock, script string, synthesis models.PatternSynthesis, idea string) string {
	if m := seoDescriptionRe.FindStringSubmatch(seoBlock); m != nil {
		return strings.TrimSpace(m[1])
	}

	// Intro-paragraph heuristic: first substantial non-heading
	// paragraph of the script.
	for _, paragraph := range strings.Split(script, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" || strings.HasPrefix(paragraph, "#") {
			continue
		}
		paragraph = timestampRe.ReplaceAllString(paragraph, "")
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) >= 50 {
			if len(paragraph) > 300 {
				paragraph = paragraph[:300]
			}
			return paragraph
		}
	}

	return fallbackDescription(synthesis, idea)
}

func fallbackDescription(synthesis models.PatternSynthesis, idea string) string {
	return fmt.Sprintf("Everything you need to know about %s. Based on patterns from %d top-performing videos about %s.",
		idea, synthesis.NumVideosAnalyzed, synthesis.Topic)
}

func extractSEOTags(seoBlock string, synthesis models.PatternSynthesis) []string {
	if m := seoTagsRe.FindStringSubmatch(seoBlock); m != nil {
		var tags []string
		seen := make(map[string]bool)
		for _, tag := range strings.Split(m[1], ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[strings.ToLower(tag)] {
				continue
			}
			seen[strings.ToLower(tag)] = true
			tags = append(tags, tag)
			if len(tags) == 20 {
				break
			}
		}
		if len(tags) > 0 {
			return tags
		}
	}
	return unionTags(synthesis, 20)
}

// unionTags merges the synthesis keyword and tag tables, de-duplicated
// case-insensitively.
func unionTags(synthesis models.PatternSynthesis, limit int) []string {
	var tags []string
	seen := make(map[string]bool)

	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || seen[strings.ToLower(term)] || len(tags) >= limit {
			return
		}
		seen[strings.ToLower(term)] = true
		tags = append(tags, term)
	}

	for _, keyword := range synthesis.SEOPatterns.TitleKeywords {
		add(keyword.Term)
	}
	for _, tag := range synthesis.SEOPatterns.EstimatedTags {
		add(tag.Term)
	}
	return tags
}

// estimateQuality scores a script 1-100 from measurable signals only:
// word count band, timestamp and section presence, and SEO field
// completeness.
func estimateQuality(script, seoTitle string, tags []string) int {
	score := 50

	wordCount := len(strings.Fields(script))
	switch {
	case wordCount >= 500 && wordCount <= 2000:
		score += 20
	case (wordCount >= 300 && wordCount < 500) || (wordCount > 2000 && wordCount <= 3000):
		score += 10
	}

	if timestampRe.MatchString(script) {
		score += 5
	}

	sections := len(sectionRe.FindAllString(script, -1))
	if sections > 0 {
		score += 5
	}
	if sections >= 3 && sections <= 7 {
		score += 5
	}

	if len(seoTitle) >= 20 {
		score += 5
	}
	if len(tags) >= 10 {
		score += 5
	}
	if len(tags) >= 15 {
		score += 5
	}

	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}
	return score
}

func joinTopTerms(terms []models.TermCount, limit int) string {
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return joinTerms(terms)
}
