package scriptwriter

import (
	"context"
	"fmt"
	"log"
	"time"

	"scriptforge/pipeline"
	"scriptforge/pipeline/youtube"
	"scriptforge/shared/ai"
	"scriptforge/shared/config"
	"scriptforge/shared/email"
	"scriptforge/shared/media"
	"scriptforge/shared/scheduler"
	"scriptforge/shared/storage"
)

// Agent implements the scheduler.Agent interface: one run generates a
// script for every configured topic.
type Agent struct {
	config   *config.Config
	pipeline *pipeline.Pipeline
	sender   *email.Sender
}

func New(cfg *config.Config) *Agent {
	return &Agent{config: cfg}
}

func (a *Agent) Name() string {
	return "Script Writer"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.pipeline == nil {
		ytClient, err := youtube.NewClient(&a.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}

		aiClient, err := ai.NewClient(&a.config.AI)
		if err != nil {
			return fmt.Errorf("failed to create AI client: %w", err)
		}

		downloader := media.NewDownloader(&a.config.Media)
		transcriber := media.NewTranscriber(&a.config.Media)
		store := storage.NewArtifactStore(&a.config.Output)

		searchTimeout := time.Duration(a.config.YouTube.SearchTimeoutSeconds) * time.Second
		a.pipeline = pipeline.New(
			pipeline.NewSearcher(ytClient, searchTimeout),
			pipeline.NewBatchProcessor(downloader, transcriber, a.config.Media.TempDir),
			pipeline.NewPatternAnalyzer(aiClient),
			pipeline.NewSynthesizer(aiClient),
			pipeline.NewScriptGenerator(aiClient.Pro()),
			pipeline.NewTranslator(aiClient, a.config.Translate.Language),
			store,
		)
		log.Println("Pipeline initialized")
	}

	if a.sender == nil && a.config.Email.Enabled {
		a.sender = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	return nil
}

// runMetrics summarizes one scheduled run across all topics.
type runMetrics struct {
	succeeded      int
	attempted      int
	failedAnalyses int
}

func (m runMetrics) GetSummary() string {
	return fmt.Sprintf("%d/%d scripts generated (%d analyses degraded)",
		m.succeeded, m.attempted, m.failedAnalyses)
}

func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	topics := a.config.Schedule.Topics
	if len(topics) == 0 {
		return fmt.Errorf("no topics configured (set schedule.topics)")
	}

	metrics := runMetrics{attempted: len(topics)}
	var lastErr error

	for i, topic := range topics {
		log.Printf("Generating script %d/%d for topic %q", i+1, len(topics), topic)

		result, err := a.pipeline.Run(ctx, pipeline.Request{
			Topic:              topic,
			DurationMinutes:    a.config.Schedule.DurationMinutes,
			TargetVideos:       a.config.Search.TargetCount,
			MinDurationMinutes: a.config.Search.MinDurationMinutes,
			MaxDurationMinutes: a.config.Search.MaxDurationMinutes,
			Translate:          a.config.Translate.Enabled,
		})
		if err != nil {
			log.Printf("Warning: pipeline failed for topic %q: %v", topic, err)
			lastErr = err
			continue
		}

		metrics.succeeded++
		metrics.failedAnalyses += result.AnalysesFailed

		if a.sender != nil {
			report := &email.ScriptReport{
				Script:         result.Script,
				ReportPath:     result.ReportPath,
				ScriptPath:     result.ScriptPath,
				VideosAnalyzed: result.VideosTranscribed,
				VideosFound:    result.VideosFound,
			}
			if err := a.sender.SendScriptReport(report); err != nil {
				log.Printf("Warning: failed to send email for topic %q: %v", topic, err)
			} else {
				log.Println("Email report sent successfully")
			}
		}
	}

	duration := time.Since(startTime)

	switch {
	case metrics.succeeded == 0:
		// The scheduler records the critical failure from the returned
		// error.
		return fmt.Errorf("all %d topics failed: %w", len(topics), lastErr)
	case lastErr != nil:
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("%d of %d topics failed, last error: %w",
				metrics.attempted-metrics.succeeded, metrics.attempted, lastErr), duration)
		}
	default:
		if events != nil && events.OnSuccess != nil {
			events.OnSuccess(metrics, duration)
		}
	}

	log.Printf("Run complete: %s", metrics.GetSummary())
	return nil
}
