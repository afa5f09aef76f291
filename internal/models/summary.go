package models

import "time"

// TimestampedSection is one highlighted moment of a summarized video.
type TimestampedSection struct {
	Timestamp   string `json:"timestamp"` // MM:SS or HH:MM:SS
	Description string `json:"description"`
	Importance  int    `json:"importance"` // 1-5
}

// VideoSummary is the AI summary of a single transcribed video,
// produced by the summarize package.
type VideoSummary struct {
	VideoURL   string `json:"video_url"`
	VideoTitle string `json:"video_title"`
	VideoID    string `json:"video_id"`

	ExecutiveSummary string               `json:"executive_summary"`
	KeyPoints        []string             `json:"key_points"`
	Timestamps       []TimestampedSection `json:"timestamps"`
	Conclusion       string               `json:"conclusion"`
	ActionItems      []string             `json:"action_items"`

	WordCount                int     `json:"word_count"`
	EstimatedDurationMinutes float64 `json:"estimated_duration_minutes"`
	Language                 string  `json:"language"`

	GeneratedAt time.Time `json:"generated_at"`
}
