package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scriptforge/agents/scriptwriter"
	"scriptforge/pipeline"
	"scriptforge/pipeline/youtube"
	"scriptforge/shared/ai"
	"scriptforge/shared/config"
	"scriptforge/shared/media"
	"scriptforge/shared/scheduler"
	"scriptforge/shared/storage"
	"scriptforge/summarize"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:          "scriptforge",
		Short:        "Generate YouTube scripts from patterns mined out of successful videos",
		SilenceUsage: true,
	}
	root.AddCommand(generateCmd(), transcribeCmd(), scheduleCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var (
		topic       string
		duration    int
		videos      int
		minDuration int
		maxDuration int
		style       string
		translate   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the full pipeline for one topic and write the script",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			p, err := buildPipeline(cfg)
			if err != nil {
				return err
			}

			if videos == 0 {
				videos = cfg.Search.TargetCount
			}
			if minDuration == 0 {
				minDuration = cfg.Search.MinDurationMinutes
			}
			if maxDuration == 0 {
				maxDuration = cfg.Search.MaxDurationMinutes
			}

			result, err := p.Run(cmd.Context(), pipeline.Request{
				Topic:              topic,
				DurationMinutes:    duration,
				TargetVideos:       videos,
				MinDurationMinutes: minDuration,
				MaxDurationMinutes: maxDuration,
				Style:              style,
				Translate:          translate || cfg.Translate.Enabled,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Done: %s\n", result.Summary())
			fmt.Printf("Script:  %s\n", result.ScriptPath)
			fmt.Printf("Report:  %s\n", result.ReportPath)
			if result.TranslatedPath != "" {
				fmt.Printf("Translated: %s\n", result.TranslatedPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "video topic or idea (required)")
	cmd.Flags().IntVarP(&duration, "duration", "d", 10, "target video duration in minutes")
	cmd.Flags().IntVarP(&videos, "videos", "n", 0, "number of reference videos to analyze (default from config)")
	cmd.Flags().IntVar(&minDuration, "min-duration", 0, "minimum reference video length in minutes (default from config)")
	cmd.Flags().IntVar(&maxDuration, "max-duration", 0, "maximum reference video length in minutes (default from config)")
	cmd.Flags().StringVar(&style, "style", "", "optional style guidance for the script")
	cmd.Flags().BoolVar(&translate, "translate", false, "also produce a translated script")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func transcribeCmd() *cobra.Command {
	var withSummary bool

	cmd := &cobra.Command{
		Use:   "transcribe <url>",
		Short: "Transcribe a single video, optionally with an executive summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			aiClient, err := ai.NewClient(&cfg.AI)
			if err != nil {
				return err
			}

			service := summarize.NewService(
				media.NewDownloader(&cfg.Media),
				media.NewTranscriber(&cfg.Media),
				summarize.NewSummarizer(aiClient),
				storage.NewArtifactStore(&cfg.Output),
				cfg.Media.TempDir,
			)

			if withSummary {
				summary, path, err := service.SummarizeVideo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Summary of %q saved to %s\n", summary.VideoTitle, path)
				return nil
			}

			transcript, path, err := service.Transcribe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Transcript of %q saved to %s (%d words, %.0fs)\n",
				transcript.Video.Title, path,
				len(transcript.WordTimestamps), transcript.TranscriptionSeconds)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withSummary, "summarize", "s", false, "also generate an executive summary")
	return cmd
}

func scheduleCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline for the configured topics on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			agent := scriptwriter.New(cfg)
			s := scheduler.New(cfg, agent)

			if once {
				log.Println("Running once...")
				if err := agent.Initialize(); err != nil {
					return fmt.Errorf("failed to initialize agent: %w", err)
				}
				return s.RunOnce(cmd.Context())
			}

			log.Println("Starting scheduler...")
			return s.Start(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single pass instead of scheduling")
	return cmd
}

func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	ytClient, err := youtube.NewClient(&cfg.YouTube)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	aiClient, err := ai.NewClient(&cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	downloader := media.NewDownloader(&cfg.Media)
	transcriber := media.NewTranscriber(&cfg.Media)
	store := storage.NewArtifactStore(&cfg.Output)

	searchTimeout := time.Duration(cfg.YouTube.SearchTimeoutSeconds) * time.Second
	return pipeline.New(
		pipeline.NewSearcher(ytClient, searchTimeout),
		pipeline.NewBatchProcessor(downloader, transcriber, cfg.Media.TempDir),
		pipeline.NewPatternAnalyzer(aiClient),
		pipeline.NewSynthesizer(aiClient),
		pipeline.NewScriptGenerator(aiClient.Pro()),
		pipeline.NewTranslator(aiClient, cfg.Translate.Language),
		store,
	), nil
}
