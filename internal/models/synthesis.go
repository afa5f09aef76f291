package models

import "time"

// RankedHook is one hook candidate weighted by its source video's
// effectiveness score.
type RankedHook struct {
	Text          string  `json:"text"`
	Type          string  `json:"type"`
	Effectiveness string  `json:"effectiveness"`
	WeightedScore float64 `json:"weighted_score"`
	DurationSecs  int     `json:"duration_seconds"`
	SourceTitle   string  `json:"source_title"`
}

// OptimalStructure is the weighted-average structural timing across
// all analyzed videos.
type OptimalStructure struct {
	HookDurationSeconds   float64 `json:"hook_duration_seconds"`
	IntroEndSeconds       float64 `json:"intro_end_seconds"`
	SectionCount          int     `json:"section_count"`
	ConclusionStartSecond float64 `json:"conclusion_start_seconds"`
	TotalVideos           int     `json:"total_videos"`
}

// RankedCTA is a call-to-action aggregated across videos by (type, text).
type RankedCTA struct {
	Text               string  `json:"text"`
	Type               string  `json:"type"`
	Frequency          int     `json:"frequency"`
	MeanPositionPercent float64 `json:"mean_position_percent"`
}

// TermCount is one entry of a ranked frequency table. Weight is the
// accumulated (quality-weighted) count.
type TermCount struct {
	Term   string `json:"term"`
	Weight int    `json:"weight"`
}

// Vocabulary holds the three ranked vocabulary tables.
type Vocabulary struct {
	TechnicalTerms    []TermCount `json:"technical_terms"`
	CommonPhrases     []TermCount `json:"common_phrases"`
	TransitionPhrases []TermCount `json:"transition_phrases"`
}

// RankedTechnique is a technique ranked by how many high-scoring
// videos used it.
type RankedTechnique struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   int    `json:"frequency"`
}

// SEOPatterns holds the ranked keyword and tag tables.
type SEOPatterns struct {
	TitleKeywords []TermCount `json:"title_keywords"`
	EstimatedTags []TermCount `json:"estimated_tags"`
}

// PatternSynthesis is the aggregated, quality-weighted cross-video
// pattern summary. Built once by the synthesizer from a non-empty set
// of analyses; immutable afterward.
type PatternSynthesis struct {
	Topic             string `json:"topic"`
	NumVideosAnalyzed int    `json:"num_videos_analyzed"`

	TopHooks          []RankedHook      `json:"top_hooks"`
	OptimalStructure  OptimalStructure  `json:"optimal_structure"`
	EffectiveCTAs     []RankedCTA       `json:"effective_ctas"`
	KeyVocabulary     Vocabulary        `json:"key_vocabulary"`
	NotableTechniques []RankedTechnique `json:"notable_techniques"`
	SEOPatterns       SEOPatterns       `json:"seo_patterns"`

	AverageEffectiveness float64   `json:"average_effectiveness"`
	SynthesizedAt        time.Time `json:"synthesized_at"`

	MarkdownReport string `json:"markdown_report"`
}
