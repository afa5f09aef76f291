package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"scriptforge/internal/models"
)

type fakeSearchBackend struct {
	videos        []models.Video
	err           error
	gotQuery      string
	gotMaxResults int64
	sawDeadline   bool
	callCount     int
}

func (f *fakeSearchBackend) SearchVideos(ctx context.Context, query string, maxResults int64) ([]models.Video, error) {
	f.callCount++
	f.gotQuery = query
	f.gotMaxResults = maxResults
	_, f.sawDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}

func testVideo(id string, durationSeconds int, views int64) models.Video {
	return models.Video{
		ID:              id,
		Title:           "video " + id,
		URL:             "https://www.youtube.com/watch?v=" + id,
		DurationSeconds: durationSeconds,
		ViewCount:       views,
		UploadDate:      "2025-06-01",
	}
}

func TestSearchFiltersAndRanks(t *testing.T) {
	backend := &fakeSearchBackend{videos: []models.Video{
		testVideo("tooshort", 2*60, 900_000),
		testVideo("low", 10*60, 10_000),
		testVideo("high", 10*60, 100_000),
		testVideo("mid", 10*60, 50_000),
		testVideo("toolong", 45*60, 900_000),
		testVideo("unknown", 0, 900_000), // missing duration is dropped
	}}

	searcher := NewSearcher(backend, time.Minute)
	got, err := searcher.Search(context.Background(), "docker tutorial", 5, 30, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if backend.gotMaxResults != 9 {
		t.Errorf("backend asked for %d results, want 3x target = 9", backend.gotMaxResults)
	}
	if !backend.sawDeadline {
		t.Error("search call had no deadline on its context")
	}

	if len(got) != 3 {
		t.Fatalf("got %d videos, want 3", len(got))
	}
	for i, wantID := range []string{"high", "mid", "low"} {
		if got[i].ID != wantID {
			t.Errorf("result %d = %s, want %s (quality-descending order)", i, got[i].ID, wantID)
		}
	}
}

func TestSearchAttachesDurationPreference(t *testing.T) {
	backend := &fakeSearchBackend{videos: []models.Video{testVideo("a", 10*60, 1000)}}

	searcher := NewSearcher(backend, time.Minute)
	searcher.DurationPreference = 8

	got, err := searcher.Search(context.Background(), "q", 5, 30, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if got[0].DurationPreference != 8 {
		t.Errorf("DurationPreference = %d, want 8", got[0].DurationPreference)
	}
}

func TestSearchTruncatesToTarget(t *testing.T) {
	var videos []models.Video
	for i := 0; i < 12; i++ {
		videos = append(videos, testVideo(fmt.Sprintf("v%d", i), 10*60, int64(i)*1000))
	}
	backend := &fakeSearchBackend{videos: videos}

	got, err := NewSearcher(backend, time.Minute).Search(context.Background(), "q", 5, 30, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("got %d videos, want 5", len(got))
	}
}

func TestSearchErrors(t *testing.T) {
	t.Run("BackendFailure", func(t *testing.T) {
		backend := &fakeSearchBackend{err: errors.New("quota exceeded")}

		_, err := NewSearcher(backend, time.Minute).Search(context.Background(), "q", 5, 30, 5)
		var searchErr *SearchError
		if !errors.As(err, &searchErr) {
			t.Fatalf("got %v, want *SearchError", err)
		}
		if searchErr.Query != "q" {
			t.Errorf("SearchError.Query = %q, want %q", searchErr.Query, "q")
		}
	})

	t.Run("NoSurvivors", func(t *testing.T) {
		// Every candidate is outside the duration window.
		backend := &fakeSearchBackend{videos: []models.Video{
			testVideo("short", 60, 1000),
			testVideo("long", 3600, 1000),
		}}

		_, err := NewSearcher(backend, time.Minute).Search(context.Background(), "q", 5, 30, 5)
		var searchErr *SearchError
		if !errors.As(err, &searchErr) {
			t.Fatalf("got %v, want *SearchError for zero survivors", err)
		}
	})
}
