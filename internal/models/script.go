package models

import "time"

// GeneratedScript is a finished script for a user topic plus its SEO
// metadata. Translation produces a new, independent record.
type GeneratedScript struct {
	UserIdea string `json:"user_idea"`

	ScriptMarkdown           string `json:"script_markdown"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
	WordCount                int    `json:"word_count"`

	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
	SEOTags        []string `json:"seo_tags"`

	SynthesisTopic     string    `json:"synthesis_topic"`
	NumReferenceVideos int       `json:"num_reference_videos"`
	GeneratedAt        time.Time `json:"generated_at"`

	// EstimatedQualityScore is a deterministic 1-100 estimate from
	// length, structure and SEO field presence. Never model-estimated.
	EstimatedQualityScore int `json:"estimated_quality_score"`
}
