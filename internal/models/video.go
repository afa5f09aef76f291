package models

import (
	"math"
	"strconv"
	"time"
)

// Video is a single discovered YouTube video with the metadata the
// quality score derives from. Immutable once the searcher builds it;
// downstream records embed it by value.
type Video struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Channel         string `json:"channel"`
	DurationSeconds int    `json:"duration_seconds"`
	ViewCount       int64  `json:"view_count"`
	LikeCount       *int64 `json:"like_count,omitempty"`
	UploadDate      string `json:"upload_date"` // YYYY-MM-DD

	// DurationPreference is the caller's preferred duration in minutes,
	// used only by QualityScore. Zero means "use the default target".
	DurationPreference int `json:"duration_preference,omitempty"`
}

// DurationMinutes returns the video length in minutes.
func (v Video) DurationMinutes() float64 {
	return float64(v.DurationSeconds) / 60
}

// QualityScore computes a deterministic 0-5 score from the video's
// metadata. Weights: view count 40% (normalized against a 100k-view
// ceiling), duration proximity to the target 20%, upload recency 20%,
// metadata completeness 20%. Pure function of the struct fields,
// always recomputed rather than stored.
func (v Video) QualityScore() float64 {
	score := 0.0

	viewScore := math.Min(float64(v.ViewCount)/100_000, 1.0)
	score += viewScore * 0.4

	target := v.DurationPreference
	if target <= 0 {
		target = 15
	}
	durationDiff := math.Abs(v.DurationMinutes() - float64(target))
	var durationScore float64
	switch {
	case durationDiff <= 3:
		durationScore = 1.0
	case durationDiff <= 6:
		durationScore = 0.7
	default:
		durationScore = 0.4
	}
	score += durationScore * 0.2

	// Unparseable upload dates get a neutral recency score.
	recencyScore := 0.5
	if len(v.UploadDate) >= 4 {
		if year, err := strconv.Atoi(v.UploadDate[:4]); err == nil {
			yearsOld := time.Now().Year() - year
			recencyScore = math.Max(1.0-float64(yearsOld)*0.2, 0.3)
		}
	}
	score += recencyScore * 0.2

	completenessScore := 0.8
	if v.LikeCount != nil {
		completenessScore = 1.0
	}
	score += completenessScore * 0.2

	return math.Round(score*5*100) / 100
}
