package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoAnalyses is returned when synthesis is attempted over an empty
// analysis list.
var ErrNoAnalyses = errors.New("no analyses to synthesize")

// ErrEmptyIdea is returned when script generation is requested for a
// blank topic.
var ErrEmptyIdea = errors.New("user idea cannot be empty")

// SearchError means the platform search failed or no candidate
// survived filtering. Terminal for the query; never retried here.
type SearchError struct {
	Query string
	Cause error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search failed for %q: %v", e.Query, e.Cause)
	}
	return fmt.Sprintf("search for %q returned no usable videos", e.Query)
}

func (e *SearchError) Unwrap() error { return e.Cause }

// BatchError means every video in a batch failed to download or
// transcribe. Partial success is not an error.
type BatchError struct {
	Attempted int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("all %d videos in batch failed to process", e.Attempted)
}

// AnalysisError wraps a per-transcript analysis failure. Callers
// substitute models.EmptyAnalysis instead of aborting the run.
type AnalysisError struct {
	VideoID string
	Cause   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed for video %s: %v", e.VideoID, e.Cause)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

// TranslationError wraps a failure of the top-level translate call.
type TranslationError struct {
	Cause error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed: %v", e.Cause)
}

func (e *TranslationError) Unwrap() error { return e.Cause }
