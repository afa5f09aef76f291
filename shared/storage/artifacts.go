package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"scriptforge/shared/config"
)

// ArtifactStore writes run artifacts (synthesis reports, generated
// scripts, transcripts) as UTF-8 text files under the configured
// output directories, one file per artifact.
type ArtifactStore struct {
	reportsDir     string
	scriptsDir     string
	transcriptsDir string
}

func NewArtifactStore(cfg *config.OutputConfig) *ArtifactStore {
	return &ArtifactStore{
		reportsDir:     cfg.ReportsDir,
		scriptsDir:     cfg.ScriptsDir,
		transcriptsDir: cfg.TranscriptsDir,
	}
}

// SaveReport writes a synthesis narrative report for a topic.
func (s *ArtifactStore) SaveReport(topic, content string) (string, error) {
	name := fmt.Sprintf("%s_synthesis_%s.md", Slugify(topic), time.Now().Format("20060102_150405"))
	return writeFile(s.reportsDir, name, content)
}

// SaveScript writes a generated script. lang tags translated variants
// ("" for the original).
func (s *ArtifactStore) SaveScript(topic, lang, content string) (string, error) {
	slug := Slugify(topic)
	name := fmt.Sprintf("%s_script.md", slug)
	if lang != "" {
		name = fmt.Sprintf("%s_script_%s.md", slug, lang)
	}
	return writeFile(s.scriptsDir, name, content)
}

// SaveSummary writes a single-video summary report.
func (s *ArtifactStore) SaveSummary(title, content string) (string, error) {
	name := fmt.Sprintf("%s_summary_%s.md", Slugify(title), time.Now().Format("20060102_150405"))
	return writeFile(s.reportsDir, name, content)
}

// SaveTranscript writes a plain-text transcript.
func (s *ArtifactStore) SaveTranscript(name, content string) (string, error) {
	return writeFile(s.transcriptsDir, Slugify(name)+".txt", content)
}

func writeFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Printf("Artifact saved to %s", path)
	return path, nil
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s-]+`)
)

// Slugify normalizes a title into a safe filename fragment: keep
// alphanumerics, collapse spaces and hyphens into single underscores,
// trim leading/trailing underscores.
func Slugify(text string) string {
	text = slugStrip.ReplaceAllString(text, "")
	text = slugCollapse.ReplaceAllString(text, "_")
	text = strings.Trim(text, "_")
	if text == "" {
		return "untitled"
	}
	return text
}
