package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scriptforge/internal/models"
)

func analysisWithScore(id string, score float64) models.VideoAnalysis {
	return models.VideoAnalysis{
		Video:              testVideo(id, 10*60, 1000),
		HookText:           "hook from " + id,
		HookType:           "question",
		HookStart:          0,
		HookEnd:            20,
		EffectivenessScore: score,
	}
}

func TestSynthesizeEmptyInput(t *testing.T) {
	_, err := NewSynthesizer(&fakeLLM{}).Synthesize(context.Background(), nil, "docker")
	if !errors.Is(err, ErrNoAnalyses) {
		t.Fatalf("got %v, want ErrNoAnalyses", err)
	}
}

func TestSynthesizeBasics(t *testing.T) {
	analyses := []models.VideoAnalysis{
		analysisWithScore("a", 4.0),
		analysisWithScore("b", 2.0),
		analysisWithScore("c", 3.0),
	}

	llm := &fakeLLM{response: "# Report"}
	synthesis, err := NewSynthesizer(llm).Synthesize(context.Background(), analyses, "docker")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if synthesis.Topic != "docker" {
		t.Errorf("Topic = %q", synthesis.Topic)
	}
	if synthesis.NumVideosAnalyzed != 3 {
		t.Errorf("NumVideosAnalyzed = %d, want 3", synthesis.NumVideosAnalyzed)
	}
	if synthesis.AverageEffectiveness != 3.0 {
		t.Errorf("AverageEffectiveness = %.2f, want 3.00 (unweighted mean)", synthesis.AverageEffectiveness)
	}
	if synthesis.MarkdownReport != "# Report" {
		t.Errorf("MarkdownReport = %q", synthesis.MarkdownReport)
	}
	if synthesis.SynthesizedAt.IsZero() {
		t.Error("SynthesizedAt not set")
	}
}

func TestTopHooksOrdering(t *testing.T) {
	analyses := []models.VideoAnalysis{
		analysisWithScore("low", 3.0),
		analysisWithScore("high", 5.0),
		analysisWithScore("mid", 4.0),
	}

	hooks := topHooks(analyses, 10)
	if len(hooks) != 3 {
		t.Fatalf("got %d hooks, want 3", len(hooks))
	}
	for i, want := range []string{"hook from high", "hook from mid", "hook from low"} {
		if hooks[i].Text != want {
			t.Errorf("hook %d = %q, want %q", i, hooks[i].Text, want)
		}
	}
	if hooks[0].WeightedScore != 5.0 {
		t.Errorf("WeightedScore = %.2f, want the source video's effectiveness", hooks[0].WeightedScore)
	}
	if hooks[0].DurationSecs != 20 {
		t.Errorf("DurationSecs = %d, want 20", hooks[0].DurationSecs)
	}
}

func TestTopHooksSkipsEmptyAndTruncates(t *testing.T) {
	var analyses []models.VideoAnalysis
	for i := 0; i < 12; i++ {
		analyses = append(analyses, analysisWithScore("v", 3.0))
	}
	empty := analysisWithScore("empty", 5.0)
	empty.HookText = ""
	analyses = append(analyses, empty)

	hooks := topHooks(analyses, 10)
	if len(hooks) != 10 {
		t.Errorf("got %d hooks, want 10", len(hooks))
	}
	for _, hook := range hooks {
		if hook.Text == "" {
			t.Error("empty hook survived ranking")
		}
	}
}

func TestTopHooksStable(t *testing.T) {
	// Equal scores keep input order.
	analyses := []models.VideoAnalysis{
		analysisWithScore("first", 4.0),
		analysisWithScore("second", 4.0),
	}

	hooks := topHooks(analyses, 10)
	if hooks[0].Text != "hook from first" || hooks[1].Text != "hook from second" {
		t.Errorf("tie order broken: %q, %q", hooks[0].Text, hooks[1].Text)
	}
}

func TestWeightedAveragePairsValuesWithOwnWeights(t *testing.T) {
	// The analysis with a missing (zero) value contributes neither its
	// value nor its weight, so the surviving pairs stay aligned.
	a := analysisWithScore("a", 4.0)
	a.IntroEnd = 60
	b := analysisWithScore("b", 1.0)
	b.IntroEnd = 0 // missing
	c := analysisWithScore("c", 2.0)
	c.IntroEnd = 120

	got := weightedAverage([]models.VideoAnalysis{a, b, c}, func(an models.VideoAnalysis) float64 {
		return float64(an.IntroEnd)
	}, 60)

	want := (60*4.0 + 120*2.0) / (4.0 + 2.0) // 80
	if got != want {
		t.Errorf("weightedAverage = %.2f, want %.2f", got, want)
	}
}

func TestWeightedAverageFallback(t *testing.T) {
	a := analysisWithScore("a", 4.0) // IntroEnd zero

	got := weightedAverage([]models.VideoAnalysis{a}, func(an models.VideoAnalysis) float64 {
		return float64(an.IntroEnd)
	}, 60)
	if got != 60 {
		t.Errorf("weightedAverage = %.2f, want fallback 60", got)
	}
}

func TestOptimalStructureDefaults(t *testing.T) {
	// Analyses with no structural data at all yield the documented
	// defaults.
	a := models.VideoAnalysis{Video: testVideo("a", 600, 1000), EffectivenessScore: 3.0}

	structure := optimalStructure([]models.VideoAnalysis{a})
	if structure.HookDurationSeconds != 15 {
		t.Errorf("HookDurationSeconds = %.0f, want default 15", structure.HookDurationSeconds)
	}
	if structure.IntroEndSeconds != 60 {
		t.Errorf("IntroEndSeconds = %.0f, want default 60", structure.IntroEndSeconds)
	}
	if structure.SectionCount != 3 {
		t.Errorf("SectionCount = %d, want default 3", structure.SectionCount)
	}
	if structure.ConclusionStartSecond != 0 {
		t.Errorf("ConclusionStartSecond = %.0f, want default 0", structure.ConclusionStartSecond)
	}
	if structure.TotalVideos != 1 {
		t.Errorf("TotalVideos = %d, want 1", structure.TotalVideos)
	}
}

func TestSectionCountMode(t *testing.T) {
	withSections := func(n int, score float64) models.VideoAnalysis {
		a := analysisWithScore("v", score)
		for i := 0; i < n; i++ {
			a.Sections = append(a.Sections, models.Section{Title: "s"})
		}
		return a
	}

	t.Run("Mode", func(t *testing.T) {
		analyses := []models.VideoAnalysis{
			withSections(4, 3), withSections(5, 3), withSections(5, 3), withSections(2, 3),
		}
		if got := sectionCountMode(analyses); got != 5 {
			t.Errorf("sectionCountMode = %d, want 5", got)
		}
	})

	t.Run("TieKeepsFirstSeen", func(t *testing.T) {
		analyses := []models.VideoAnalysis{
			withSections(4, 3), withSections(6, 3), withSections(6, 3), withSections(4, 3),
		}
		if got := sectionCountMode(analyses); got != 4 {
			t.Errorf("sectionCountMode = %d, want first-seen 4 on tie", got)
		}
	})

	t.Run("EmptyDefaultsTo3", func(t *testing.T) {
		analyses := []models.VideoAnalysis{withSections(0, 3)}
		if got := sectionCountMode(analyses); got != 3 {
			t.Errorf("sectionCountMode = %d, want 3", got)
		}
	})
}

func TestEffectiveCTAs(t *testing.T) {
	a := analysisWithScore("a", 4.0)
	a.Video.DurationSeconds = 600
	a.CTAs = []models.CTA{
		{Text: "Subscribe now", Type: "subscribe", Timestamp: "01:00"},
		{Text: "Check the link", Type: "link", Timestamp: "05:00"},
	}
	b := analysisWithScore("b", 3.0)
	b.Video.DurationSeconds = 1200
	b.CTAs = []models.CTA{
		{Text: "Subscribe now", Type: "subscribe", Timestamp: "06:00"},
		{Text: "Subscribe now", Type: "comment", Timestamp: "02:00"}, // different type, separate group
	}

	ranked := effectiveCTAs([]models.VideoAnalysis{a, b}, 15)
	if len(ranked) != 3 {
		t.Fatalf("got %d groups, want 3", len(ranked))
	}

	top := ranked[0]
	if top.Text != "Subscribe now" || top.Type != "subscribe" {
		t.Fatalf("top CTA = %+v", top)
	}
	if top.Frequency != 2 {
		t.Errorf("Frequency = %d, want 2", top.Frequency)
	}
	// 60/600 = 10%, 360/1200 = 30%, mean 20%.
	if top.MeanPositionPercent < 19.9 || top.MeanPositionPercent > 20.1 {
		t.Errorf("MeanPositionPercent = %.2f, want 20", top.MeanPositionPercent)
	}
}

func TestEffectiveCTAsUnparseableTimestamp(t *testing.T) {
	a := analysisWithScore("a", 4.0)
	a.Video.DurationSeconds = 600
	a.CTAs = []models.CTA{{Text: "Like", Type: "like", Timestamp: "sometime"}}

	ranked := effectiveCTAs([]models.VideoAnalysis{a}, 15)
	if len(ranked) != 1 {
		t.Fatalf("got %d groups, want 1", len(ranked))
	}
	if ranked[0].MeanPositionPercent != 0 {
		t.Errorf("MeanPositionPercent = %.2f, want 0 when no timestamp parses", ranked[0].MeanPositionPercent)
	}
}

func TestAggregateVocabularyWeights(t *testing.T) {
	a := analysisWithScore("a", 4.8) // weight 4
	a.TechnicalTerms = []string{"docker"}
	b := analysisWithScore("b", 2.1) // weight 2
	b.TechnicalTerms = []string{"docker", "kubernetes"}

	vocab := aggregateVocabulary([]models.VideoAnalysis{a, b})
	if len(vocab.TechnicalTerms) != 2 {
		t.Fatalf("got %d terms, want 2", len(vocab.TechnicalTerms))
	}
	if vocab.TechnicalTerms[0].Term != "docker" || vocab.TechnicalTerms[0].Weight != 6 {
		t.Errorf("top term = %+v, want docker weight 6", vocab.TechnicalTerms[0])
	}
	if vocab.TechnicalTerms[1].Term != "kubernetes" || vocab.TechnicalTerms[1].Weight != 2 {
		t.Errorf("second term = %+v, want kubernetes weight 2", vocab.TechnicalTerms[1])
	}
}

func TestNotableTechniquesThreshold(t *testing.T) {
	good := analysisWithScore("good", 4.0)
	good.Techniques = []models.Technique{{Name: "open loop", Description: "teases the payoff"}}
	alsoGood := analysisWithScore("also", 3.5)
	alsoGood.Techniques = []models.Technique{{Name: "open loop", Description: "a later description"}}
	weak := analysisWithScore("weak", 3.49)
	weak.Techniques = []models.Technique{{Name: "clickbait", Description: "exaggeration"}}

	ranked := notableTechniques([]models.VideoAnalysis{good, alsoGood, weak}, 10)
	if len(ranked) != 1 {
		t.Fatalf("got %d techniques, want 1 (below-threshold video excluded)", len(ranked))
	}
	if ranked[0].Name != "open loop" || ranked[0].Frequency != 2 {
		t.Errorf("technique = %+v", ranked[0])
	}
	if ranked[0].Description != "teases the payoff" {
		t.Errorf("Description = %q, want the first one seen", ranked[0].Description)
	}
}

func TestSynthesizeQualityWeighting(t *testing.T) {
	// Three same-length, same-date videos differing only in views: the
	// hook from the highest-view video must rank first.
	views := []int64{10_000, 50_000, 100_000}
	var analyses []models.VideoAnalysis
	for i, v := range views {
		video := testVideo([]string{"low", "mid", "high"}[i], 900, v)
		analyses = append(analyses, models.NewVideoAnalysis(models.VideoAnalysis{
			Video:    video,
			HookText: "hook from " + video.ID,
			HookType: "promise",
		}))
	}

	llm := &fakeLLM{err: errors.New("down")}
	synthesis, err := NewSynthesizer(llm).Synthesize(context.Background(), analyses, "docker")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if synthesis.TopHooks[0].Text != "hook from high" {
		t.Errorf("top hook = %q, want the 100k-view video's", synthesis.TopHooks[0].Text)
	}
	if synthesis.TopHooks[2].Text != "hook from low" {
		t.Errorf("last hook = %q, want the 10k-view video's", synthesis.TopHooks[2].Text)
	}
}

func TestSynthesizeReportFallback(t *testing.T) {
	analyses := []models.VideoAnalysis{analysisWithScore("a", 4.0)}

	llm := &fakeLLM{err: errors.New("unavailable")}
	synthesis, err := NewSynthesizer(llm).Synthesize(context.Background(), analyses, "docker")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	report := synthesis.MarkdownReport
	if !strings.Contains(report, "# Pattern Synthesis: docker") {
		t.Errorf("fallback report missing header:\n%s", report)
	}
	for _, section := range []string{"## Optimal Structure", "## Top Hooks", "## Effective CTAs", "## SEO Patterns"} {
		if !strings.Contains(report, section) {
			t.Errorf("fallback report missing %q", section)
		}
	}
	if !strings.Contains(report, "hook from a") {
		t.Error("fallback report missing the hook data")
	}
}

func TestAverageEffectivenessUnweighted(t *testing.T) {
	analyses := []models.VideoAnalysis{
		analysisWithScore("a", 5.0),
		analysisWithScore("b", 1.0),
	}
	if got := averageEffectiveness(analyses); got != 3.0 {
		t.Errorf("averageEffectiveness = %.2f, want 3.00", got)
	}
}
