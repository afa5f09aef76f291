package models

// Section is one structural segment of a video as identified by the
// analyzer.
type Section struct {
	Title string `json:"title"`
	Start string `json:"start"` // MM:SS
	End   string `json:"end"`   // MM:SS
}

// CTA is a call-to-action with its position in the video.
type CTA struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"` // MM:SS
	Type      string `json:"type"`      // subscribe, like, comment, ...
}

// Technique is a named persuasion or retention technique.
type Technique struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// VideoAnalysis holds the structural and rhetorical patterns extracted
// from one transcript. The owning Video is embedded by value and the
// record is treated as immutable after construction.
type VideoAnalysis struct {
	Video Video `json:"video"`

	// Structure
	HookStart         int    `json:"hook_start"` // seconds
	HookEnd           int    `json:"hook_end"`
	HookText          string `json:"hook_text"`
	HookType          string `json:"hook_type"`          // question, statistic, promise, problem
	HookEffectiveness string `json:"hook_effectiveness"` // high, medium, low
	IntroEnd          int    `json:"intro_end"`
	Sections          []Section `json:"sections"`
	ConclusionStart   int       `json:"conclusion_start"`

	CTAs []CTA `json:"ctas"`

	// Vocabulary
	TechnicalTerms    []string `json:"technical_terms"`
	CommonPhrases     []string `json:"common_phrases"`
	TransitionPhrases []string `json:"transition_phrases"`

	Techniques []Technique `json:"techniques"`

	// SEO
	TitleKeywords []string `json:"title_keywords"`
	EstimatedTags []string `json:"estimated_tags"`

	// RawAnalysis keeps the unparsed model response for auditing.
	RawAnalysis string `json:"raw_analysis"`

	// EffectivenessScore is frozen from Video.QualityScore() at
	// construction time and never recomputed.
	EffectivenessScore float64 `json:"effectiveness_score"`
}

// NewVideoAnalysis finalizes an analysis by freezing its effectiveness
// score from the owned video's quality score. All analyses must be
// built through this (or EmptyAnalysis) so the invariant
// EffectivenessScore == Video.QualityScore() holds.
func NewVideoAnalysis(a VideoAnalysis) VideoAnalysis {
	a.EffectivenessScore = a.Video.QualityScore()
	return a
}

// EmptyAnalysis is the well-defined default substituted when analysis
// of a transcript fails: hook window zeroed, unknown labels, empty
// lists, and a conclusion assumed to start one minute before the end.
func EmptyAnalysis(video Video) VideoAnalysis {
	conclusionStart := video.DurationSeconds - 60
	if conclusionStart < 0 {
		conclusionStart = 0
	}
	return NewVideoAnalysis(VideoAnalysis{
		Video:             video,
		HookType:          "unknown",
		HookEffectiveness: "unknown",
		Sections:          []Section{},
		ConclusionStart:   conclusionStart,
		CTAs:              []CTA{},
		TechnicalTerms:    []string{},
		CommonPhrases:     []string{},
		TransitionPhrases: []string{},
		Techniques:        []Technique{},
		TitleKeywords:     []string{},
		EstimatedTags:     []string{},
	})
}
