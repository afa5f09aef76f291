package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptforge/shared/config"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Docker Tutorial", "Docker_Tutorial"},
		{"  spaces   everywhere  ", "spaces_everywhere"},
		{"what?!: a video (2024)", "what_a_video_2024"},
		{"dash-separated-title", "dash_separated_title"},
		{"???", "untitled"},
		{"", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func testStore(t *testing.T) *ArtifactStore {
	t.Helper()
	base := t.TempDir()
	return NewArtifactStore(&config.OutputConfig{
		ReportsDir:     filepath.Join(base, "reports"),
		ScriptsDir:     filepath.Join(base, "scripts"),
		TranscriptsDir: filepath.Join(base, "transcripts"),
	})
}

func TestSaveScript(t *testing.T) {
	store := testStore(t)

	t.Run("Original", func(t *testing.T) {
		path, err := store.SaveScript("Docker Tutorial", "", "# script")
		if err != nil {
			t.Fatalf("SaveScript failed: %v", err)
		}
		if filepath.Base(path) != "Docker_Tutorial_script.md" {
			t.Errorf("file name = %s", filepath.Base(path))
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "# script" {
			t.Errorf("content = %q, err %v", data, err)
		}
	})

	t.Run("Translated", func(t *testing.T) {
		path, err := store.SaveScript("Docker Tutorial", "es", "# guión")
		if err != nil {
			t.Fatalf("SaveScript failed: %v", err)
		}
		if filepath.Base(path) != "Docker_Tutorial_script_es.md" {
			t.Errorf("file name = %s", filepath.Base(path))
		}
	})
}

func TestSaveReportNamesIncludeTimestamp(t *testing.T) {
	store := testStore(t)

	path, err := store.SaveReport("Docker Tutorial", "# report")
	if err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "Docker_Tutorial_synthesis_") || !strings.HasSuffix(name, ".md") {
		t.Errorf("file name = %s", name)
	}
}

func TestSaveTranscript(t *testing.T) {
	store := testStore(t)

	path, err := store.SaveTranscript("My Video!", "hello world")
	if err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}
	if filepath.Base(path) != "My_Video.txt" {
		t.Errorf("file name = %s", filepath.Base(path))
	}
}
