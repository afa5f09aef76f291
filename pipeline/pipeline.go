package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"scriptforge/internal/models"
	"scriptforge/shared/storage"
)

// Stage timeouts. Search has its own inside Searcher; the others
// bound unbounded-latency external services per stage.
const (
	batchStageTimeout     = 30 * time.Minute
	analysisStageTimeout  = 5 * time.Minute
	synthesisStageTimeout = 5 * time.Minute
	generateStageTimeout  = 10 * time.Minute
	translateStageTimeout = 10 * time.Minute
)

// Request is one script-generation run.
type Request struct {
	Topic              string
	DurationMinutes    int // desired video length
	TargetVideos       int // how many reference videos to analyze
	MinDurationMinutes int // search filter lower bound
	MaxDurationMinutes int // search filter upper bound
	Style              string
	Translate          bool
}

// Result carries the run's records, artifact paths and success ratio.
type Result struct {
	Synthesis  models.PatternSynthesis
	Script     models.GeneratedScript
	Translated *models.GeneratedScript

	VideosFound       int
	VideosTranscribed int
	AnalysesFailed    int

	ReportPath     string
	ScriptPath     string
	TranslatedPath string
}

// Summary is a one-line human-readable description of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("analyzed %d of %d videos, script quality %d/100",
		r.VideosTranscribed, r.VideosFound, r.Script.EstimatedQualityScore)
}

// Pipeline runs the full sequence: search, batch transcription,
// per-video analysis, synthesis, generation and optional translation.
// All stages run sequentially in-process; partial analysis failures
// are carried as data, not errors.
type Pipeline struct {
	searcher    *Searcher
	batch       *BatchProcessor
	analyzer    *PatternAnalyzer
	synthesizer *Synthesizer
	generator   *ScriptGenerator
	translator  *Translator
	store       *storage.ArtifactStore
}

func New(searcher *Searcher, batch *BatchProcessor, analyzer *PatternAnalyzer, synthesizer *Synthesizer, generator *ScriptGenerator, translator *Translator, store *storage.ArtifactStore) *Pipeline {
	return &Pipeline{
		searcher:    searcher,
		batch:       batch,
		analyzer:    analyzer,
		synthesizer: synthesizer,
		generator:   generator,
		translator:  translator,
		store:       store,
	}
}

// Run executes one request end to end and persists the artifacts.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	log.Printf("Pipeline starting for topic %q", req.Topic)

	p.searcher.DurationPreference = req.DurationMinutes

	videos, err := p.searcher.Search(ctx, req.Topic, req.MinDurationMinutes, req.MaxDurationMinutes, req.TargetVideos)
	if err != nil {
		return nil, err
	}

	batchCtx, cancelBatch := context.WithTimeout(ctx, batchStageTimeout)
	transcripts, err := p.batch.Process(batchCtx, videos)
	cancelBatch()
	if err != nil {
		return nil, err
	}

	result := &Result{
		VideosFound:       len(videos),
		VideosTranscribed: len(transcripts),
	}

	analyses := make([]models.VideoAnalysis, 0, len(transcripts))
	for i, transcript := range transcripts {
		log.Printf("Analyzing transcript %d/%d: %s", i+1, len(transcripts), transcript.Video.Title)

		analysisCtx, cancel := context.WithTimeout(ctx, analysisStageTimeout)
		analysis, err := p.analyzer.Analyze(analysisCtx, transcript)
		cancel()
		if err != nil {
			// Degrade, never abort: a failed analysis becomes the
			// well-defined empty record.
			log.Printf("Warning: %v, substituting empty analysis", err)
			analysis = models.EmptyAnalysis(transcript.Video)
			result.AnalysesFailed++
		}
		analyses = append(analyses, analysis)
	}

	synthCtx, cancelSynth := context.WithTimeout(ctx, synthesisStageTimeout)
	synthesis, err := p.synthesizer.Synthesize(synthCtx, analyses, req.Topic)
	cancelSynth()
	if err != nil {
		return nil, err
	}
	result.Synthesis = synthesis

	if path, err := p.store.SaveReport(req.Topic, synthesis.MarkdownReport); err != nil {
		log.Printf("Warning: failed to save synthesis report: %v", err)
	} else {
		result.ReportPath = path
	}

	genCtx, cancelGen := context.WithTimeout(ctx, generateStageTimeout)
	script, err := p.generator.Generate(genCtx, synthesis, req.Topic, req.DurationMinutes, req.Style)
	cancelGen()
	if err != nil {
		return nil, err
	}
	result.Script = script

	if path, err := p.store.SaveScript(req.Topic, "", renderScriptArtifact(script)); err != nil {
		log.Printf("Warning: failed to save script: %v", err)
	} else {
		result.ScriptPath = path
	}

	if req.Translate && p.translator != nil {
		trCtx, cancelTr := context.WithTimeout(ctx, translateStageTimeout)
		translated, err := p.translator.Translate(trCtx, script)
		cancelTr()
		if err != nil {
			return nil, err
		}
		result.Translated = &translated

		if path, err := p.store.SaveScript(req.Topic, p.translator.code, renderScriptArtifact(translated)); err != nil {
			log.Printf("Warning: failed to save translated script: %v", err)
		} else {
			result.TranslatedPath = path
		}
	}

	log.Printf("Pipeline complete: %s", result.Summary())
	return result, nil
}

// renderScriptArtifact formats a script record as the markdown file
// written to disk, SEO metadata included.
func renderScriptArtifact(script models.GeneratedScript) string {
	tags := ""
	for i, tag := range script.SEOTags {
		if i > 0 {
			tags += ", "
		}
		tags += tag
	}

	return fmt.Sprintf(`%s

---

## SEO Metadata

- **Title**: %s
- **Description**: %s
- **Tags**: %s

---

Generated %s from %d reference videos (topic: %s).
Estimated duration: %d min | Word count: %d | Quality estimate: %d/100
`,
		script.ScriptMarkdown,
		script.SEOTitle,
		script.SEODescription,
		tags,
		script.GeneratedAt.Format("2006-01-02 15:04"),
		script.NumReferenceVideos,
		script.SynthesisTopic,
		script.EstimatedDurationMinutes,
		script.WordCount,
		script.EstimatedQualityScore,
	)
}
