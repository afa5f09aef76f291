package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"scriptforge/internal/models"
)

// Synthesizer aggregates many per-video analyses into one
// quality-weighted pattern summary. Every sub-aggregation is a pure
// function over the analysis list; only the narrative report touches
// the LLM, and that call degrades to a deterministic template.
type Synthesizer struct {
	llm TextGenerator
}

func NewSynthesizer(llm TextGenerator) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// Synthesize builds the pattern synthesis for topic from a non-empty
// analysis list.
func (s *Synthesizer) Synthesize(ctx context.Context, analyses []models.VideoAnalysis, topic string) (models.PatternSynthesis, error) {
	if len(analyses) == 0 {
		return models.PatternSynthesis{}, ErrNoAnalyses
	}

	synthesis := models.PatternSynthesis{
		Topic:                topic,
		NumVideosAnalyzed:    len(analyses),
		TopHooks:             topHooks(analyses, 10),
		OptimalStructure:     optimalStructure(analyses),
		EffectiveCTAs:        effectiveCTAs(analyses, 15),
		KeyVocabulary:        aggregateVocabulary(analyses),
		NotableTechniques:    notableTechniques(analyses, 10),
		SEOPatterns:          aggregateSEO(analyses),
		AverageEffectiveness: averageEffectiveness(analyses),
		SynthesizedAt:        time.Now(),
	}

	synthesis.MarkdownReport = s.narrativeReport(ctx, synthesis)

	return synthesis, nil
}

// topHooks ranks every non-empty hook by its source video's
// effectiveness score. Stable: equal scores keep input order.
func topHooks(analyses []models.VideoAnalysis, limit int) []models.RankedHook {
	var hooks []models.RankedHook
	for _, a := range analyses {
		if a.HookText == "" {
			continue
		}
		hooks = append(hooks, models.RankedHook{
			Text:          a.HookText,
			Type:          a.HookType,
			Effectiveness: a.HookEffectiveness,
			WeightedScore: a.EffectivenessScore,
			DurationSecs:  a.HookEnd - a.HookStart,
			SourceTitle:   a.Video.Title,
		})
	}

	sort.SliceStable(hooks, func(i, j int) bool {
		return hooks[i].WeightedScore > hooks[j].WeightedScore
	})

	if len(hooks) > limit {
		hooks = hooks[:limit]
	}
	return hooks
}

// weightedAverage pairs each contributing value with its own
// analysis's effectiveness weight. Analyses without a valid (positive)
// value for the field are skipped entirely, weight included, so values
// and weights can never misalign across differently-filtered fields.
func weightedAverage(analyses []models.VideoAnalysis, value func(models.VideoAnalysis) float64, fallback float64) float64 {
	var sum, weightSum float64
	for _, a := range analyses {
		v := value(a)
		if v <= 0 {
			continue
		}
		sum += v * a.EffectivenessScore
		weightSum += a.EffectivenessScore
	}
	if weightSum == 0 {
		return fallback
	}
	return sum / weightSum
}

func optimalStructure(analyses []models.VideoAnalysis) models.OptimalStructure {
	return models.OptimalStructure{
		HookDurationSeconds: weightedAverage(analyses, func(a models.VideoAnalysis) float64 {
			return float64(a.HookEnd - a.HookStart)
		}, 15),
		IntroEndSeconds: weightedAverage(analyses, func(a models.VideoAnalysis) float64 {
			return float64(a.IntroEnd)
		}, 60),
		ConclusionStartSecond: weightedAverage(analyses, func(a models.VideoAnalysis) float64 {
			return float64(a.ConclusionStart)
		}, 0),
		SectionCount: sectionCountMode(analyses),
		TotalVideos:  len(analyses),
	}
}

// sectionCountMode returns the statistical mode of non-empty section
// counts, defaulting to 3. Ties resolve to the first count seen.
func sectionCountMode(analyses []models.VideoAnalysis) int {
	freq := make(map[int]int)
	var order []int
	for _, a := range analyses {
		n := len(a.Sections)
		if n == 0 {
			continue
		}
		if freq[n] == 0 {
			order = append(order, n)
		}
		freq[n]++
	}

	mode, best := 3, 0
	for _, n := range order {
		if freq[n] > best {
			mode, best = n, freq[n]
		}
	}
	return mode
}

// effectiveCTAs groups CTAs across all videos by (type, text), ranked
// by how many videos repeat them, with the mean position as a percent
// of video runtime.
func effectiveCTAs(analyses []models.VideoAnalysis, limit int) []models.RankedCTA {
	type ctaAccum struct {
		cta        models.RankedCTA
		percentSum float64
		percentN   int
	}

	groups := make(map[string]*ctaAccum)
	var order []string

	for _, a := range analyses {
		for _, cta := range a.CTAs {
			key := cta.Type + "\x00" + cta.Text
			accum, ok := groups[key]
			if !ok {
				accum = &ctaAccum{cta: models.RankedCTA{Text: cta.Text, Type: cta.Type}}
				groups[key] = accum
				order = append(order, key)
			}
			accum.cta.Frequency++

			if secs, ok := parseTimestampSeconds(cta.Timestamp); ok && a.Video.DurationSeconds > 0 {
				accum.percentSum += float64(secs) / float64(a.Video.DurationSeconds) * 100
				accum.percentN++
			}
		}
	}

	ranked := make([]models.RankedCTA, 0, len(order))
	for _, key := range order {
		accum := groups[key]
		if accum.percentN > 0 {
			accum.cta.MeanPositionPercent = accum.percentSum / float64(accum.percentN)
		}
		ranked = append(ranked, accum.cta)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// weightedCounter accumulates term frequencies where each occurrence
// counts as the integer-truncated effectiveness score of its source
// video, so one mention in a 4.8-score video outweighs one in a
// 2.1-score video.
type weightedCounter struct {
	weights map[string]int
	order   []string
}

func newWeightedCounter() *weightedCounter {
	return &weightedCounter{weights: make(map[string]int)}
}

func (c *weightedCounter) add(term string, weight int) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	if _, ok := c.weights[term]; !ok {
		c.order = append(c.order, term)
	}
	c.weights[term] += weight
}

func (c *weightedCounter) ranked(limit int) []models.TermCount {
	ranked := make([]models.TermCount, 0, len(c.order))
	for _, term := range c.order {
		ranked = append(ranked, models.TermCount{Term: term, Weight: c.weights[term]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func aggregateVocabulary(analyses []models.VideoAnalysis) models.Vocabulary {
	technical := newWeightedCounter()
	common := newWeightedCounter()
	transitions := newWeightedCounter()

	for _, a := range analyses {
		weight := int(a.EffectivenessScore)
		for _, term := range a.TechnicalTerms {
			technical.add(term, weight)
		}
		for _, phrase := range a.CommonPhrases {
			common.add(phrase, weight)
		}
		for _, phrase := range a.TransitionPhrases {
			transitions.add(phrase, weight)
		}
	}

	return models.Vocabulary{
		TechnicalTerms:    technical.ranked(20),
		CommonPhrases:     common.ranked(15),
		TransitionPhrases: transitions.ranked(10),
	}
}

// notableTechniqueThreshold gates technique aggregation to videos that
// actually performed well.
const notableTechniqueThreshold = 3.5

// notableTechniques ranks techniques by raw frequency across
// high-scoring videos only, keeping the first description seen for
// each name.
func notableTechniques(analyses []models.VideoAnalysis, limit int) []models.RankedTechnique {
	freq := make(map[string]*models.RankedTechnique)
	var order []string

	for _, a := range analyses {
		if a.EffectivenessScore < notableTechniqueThreshold {
			continue
		}
		for _, technique := range a.Techniques {
			if technique.Name == "" {
				continue
			}
			entry, ok := freq[technique.Name]
			if !ok {
				entry = &models.RankedTechnique{
					Name:        technique.Name,
					Description: technique.Description,
				}
				freq[technique.Name] = entry
				order = append(order, technique.Name)
			}
			entry.Frequency++
		}
	}

	ranked := make([]models.RankedTechnique, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, *freq[name])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func aggregateSEO(analyses []models.VideoAnalysis) models.SEOPatterns {
	keywords := newWeightedCounter()
	tags := newWeightedCounter()

	for _, a := range analyses {
		weight := int(a.EffectivenessScore)
		for _, keyword := range a.TitleKeywords {
			keywords.add(keyword, weight)
		}
		for _, tag := range a.EstimatedTags {
			tags.add(tag, weight)
		}
	}

	return models.SEOPatterns{
		TitleKeywords: keywords.ranked(15),
		EstimatedTags: tags.ranked(20),
	}
}

func averageEffectiveness(analyses []models.VideoAnalysis) float64 {
	var sum float64
	for _, a := range analyses {
		sum += a.EffectivenessScore
	}
	return sum / float64(len(analyses))
}

// narrativeReport asks the LLM to narrate the aggregates; any failure
// falls back to a deterministic template so the synthesis object is
// always complete.
func (s *Synthesizer) narrativeReport(ctx context.Context, synthesis models.PatternSynthesis) string {
	prompt := s.buildReportPrompt(synthesis)

	report, err := s.llm.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(report) == "" {
		log.Printf("Warning: narrative report generation failed, using template fallback: %v", err)
		return fallbackReport(synthesis)
	}
	return report
}

func (s *Synthesizer) buildReportPrompt(synthesis models.PatternSynthesis) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a YouTube strategy analyst. Write a markdown report summarizing the patterns found across %d successful videos about %q.

DATA:
Average effectiveness score: %.2f / 5
Optimal structure: hook %.0fs, intro ends %.0fs, %d sections, conclusion starts %.0fs

Top hooks:
`, synthesis.NumVideosAnalyzed, synthesis.Topic, synthesis.AverageEffectiveness,
		synthesis.OptimalStructure.HookDurationSeconds,
		synthesis.OptimalStructure.IntroEndSeconds,
		synthesis.OptimalStructure.SectionCount,
		synthesis.OptimalStructure.ConclusionStartSecond)

	for _, hook := range synthesis.TopHooks {
		fmt.Fprintf(&b, "- [%s, score %.2f] %s\n", hook.Type, hook.WeightedScore, hook.Text)
	}

	b.WriteString("\nMost repeated CTAs:\n")
	for _, cta := range synthesis.EffectiveCTAs {
		fmt.Fprintf(&b, "- (%s, x%d, ~%.0f%% in) %s\n", cta.Type, cta.Frequency, cta.MeanPositionPercent, cta.Text)
	}

	b.WriteString("\nKey technical terms: ")
	b.WriteString(joinTerms(synthesis.KeyVocabulary.TechnicalTerms))

	b.WriteString("\nNotable techniques:\n")
	for _, technique := range synthesis.NotableTechniques {
		fmt.Fprintf(&b, "- %s (x%d): %s\n", technique.Name, technique.Frequency, technique.Description)
	}

	b.WriteString(`
Write the report with these sections: Executive Summary, Hook Strategy, Structure, Calls to Action, Vocabulary & Tone, SEO Notes. Be specific and actionable; cite the data above rather than inventing numbers.`)

	return b.String()
}

// fallbackReport renders the aggregates directly when the LLM is
// unavailable.
func fallbackReport(synthesis models.PatternSynthesis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Pattern Synthesis: %s\n\n", synthesis.Topic)
	fmt.Fprintf(&b, "Analyzed %d videos. Average effectiveness: %.2f / 5.\n\n",
		synthesis.NumVideosAnalyzed, synthesis.AverageEffectiveness)

	fmt.Fprintf(&b, "## Optimal Structure\n\n")
	fmt.Fprintf(&b, "- Hook duration: %.0f seconds\n", synthesis.OptimalStructure.HookDurationSeconds)
	fmt.Fprintf(&b, "- Intro ends at: %.0f seconds\n", synthesis.OptimalStructure.IntroEndSeconds)
	fmt.Fprintf(&b, "- Sections: %d\n", synthesis.OptimalStructure.SectionCount)
	fmt.Fprintf(&b, "- Conclusion starts at: %.0f seconds\n\n", synthesis.OptimalStructure.ConclusionStartSecond)

	b.WriteString("## Top Hooks\n\n")
	for i, hook := range synthesis.TopHooks {
		fmt.Fprintf(&b, "%d. [%s] %s (score %.2f, from %q)\n", i+1, hook.Type, hook.Text, hook.WeightedScore, hook.SourceTitle)
	}

	b.WriteString("\n## Effective CTAs\n\n")
	for _, cta := range synthesis.EffectiveCTAs {
		fmt.Fprintf(&b, "- %s (%s, seen %dx, around %.0f%% of runtime)\n", cta.Text, cta.Type, cta.Frequency, cta.MeanPositionPercent)
	}

	b.WriteString("\n## Vocabulary\n\n")
	fmt.Fprintf(&b, "- Technical terms: %s\n", joinTerms(synthesis.KeyVocabulary.TechnicalTerms))
	fmt.Fprintf(&b, "- Common phrases: %s\n", joinTerms(synthesis.KeyVocabulary.CommonPhrases))
	fmt.Fprintf(&b, "- Transitions: %s\n", joinTerms(synthesis.KeyVocabulary.TransitionPhrases))

	b.WriteString("\n## Notable Techniques\n\n")
	for _, technique := range synthesis.NotableTechniques {
		fmt.Fprintf(&b, "- %s (x%d): %s\n", technique.Name, technique.Frequency, technique.Description)
	}

	b.WriteString("\n## SEO Patterns\n\n")
	fmt.Fprintf(&b, "- Title keywords: %s\n", joinTerms(synthesis.SEOPatterns.TitleKeywords))
	fmt.Fprintf(&b, "- Suggested tags: %s\n", joinTerms(synthesis.SEOPatterns.EstimatedTags))

	return b.String()
}

func joinTerms(terms []models.TermCount) string {
	if len(terms) == 0 {
		return "(none)"
	}
	parts := make([]string, len(terms))
	for i, term := range terms {
		parts[i] = term.Term
	}
	return strings.Join(parts, ", ")
}
