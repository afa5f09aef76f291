package models

// WordTimestamp is a single word with its position in the audio.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the speech-to-text output for one video. Created by
// the batch processor, consumed once by the pattern analyzer.
type Transcript struct {
	Video                Video           `json:"video"`
	Text                 string          `json:"text"`
	WordTimestamps       []WordTimestamp `json:"word_timestamps,omitempty"`
	Language             string          `json:"language"`
	TranscriptionSeconds float64         `json:"transcription_seconds"`
}
