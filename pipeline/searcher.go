package pipeline

import (
	"context"
	"log"
	"sort"
	"time"

	"scriptforge/internal/models"
)

// VideoSearcher is the platform search backend. Results come back in
// discovery order.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, maxResults int64) ([]models.Video, error)
}

// Searcher finds candidate videos for a topic, filters them by
// duration and ranks them by quality score.
type Searcher struct {
	client  VideoSearcher
	timeout time.Duration

	// DurationPreference (minutes) is attached to every surviving
	// candidate before scoring so the quality score rewards videos
	// close to the length the caller wants to produce.
	DurationPreference int
}

func NewSearcher(client VideoSearcher, timeout time.Duration) *Searcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Searcher{client: client, timeout: timeout}
}

// Search returns the top targetCount videos for query whose duration
// lies within [minDuration, maxDuration] minutes, sorted by quality
// score descending (ties keep discovery order). It over-fetches 3x the
// target to compensate for filtering. A failed call or zero survivors
// is a SearchError, terminal for this query.
func (s *Searcher) Search(ctx context.Context, query string, minDuration, maxDuration, targetCount int) ([]models.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.SearchVideos(ctx, query, int64(targetCount*3))
	if err != nil {
		return nil, &SearchError{Query: query, Cause: err}
	}

	var candidates []models.Video
	for _, video := range raw {
		if video.DurationSeconds <= 0 {
			continue
		}
		minutes := video.DurationMinutes()
		if minutes < float64(minDuration) || minutes > float64(maxDuration) {
			continue
		}
		video.DurationPreference = s.DurationPreference
		candidates = append(candidates, video)
	}

	if len(candidates) == 0 {
		return nil, &SearchError{Query: query}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].QualityScore() > candidates[j].QualityScore()
	})

	filtered := len(candidates)
	if len(candidates) > targetCount {
		candidates = candidates[:targetCount]
	}

	log.Printf("Search %q: %d raw, %d after duration filter, returning %d",
		query, len(raw), filtered, len(candidates))

	return candidates, nil
}
