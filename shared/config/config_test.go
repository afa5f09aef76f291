package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	// Keep ambient credentials out of the test.
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("EMAIL_USERNAME", "")
	t.Setenv("EMAIL_PASSWORD", "")
}

func TestLoadAppliesDefaults(t *testing.T) {
	writeConfig(t, `
ai:
  gemini_api_key: test-gemini-key
youtube:
  api_key: test-youtube-key
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Model != "gemini-2.5-flash" || cfg.AI.ProModel != "gemini-2.5-pro" {
		t.Errorf("model defaults = %q/%q", cfg.AI.Model, cfg.AI.ProModel)
	}
	if cfg.Search.MinDurationMinutes != 5 || cfg.Search.MaxDurationMinutes != 30 || cfg.Search.TargetCount != 5 {
		t.Errorf("search defaults = %+v", cfg.Search)
	}
	if cfg.Media.YTDLPBin != "yt-dlp" || cfg.Media.WhisperBin != "whisper" || cfg.Media.WhisperModel != "base" {
		t.Errorf("media defaults = %+v", cfg.Media)
	}
	if cfg.Translate.Language != "es" {
		t.Errorf("translate language default = %q", cfg.Translate.Language)
	}
	if cfg.Schedule.Cron != "0 0 9 * * 1" || cfg.Schedule.DurationMinutes != 10 {
		t.Errorf("schedule defaults = %+v", cfg.Schedule)
	}
	if cfg.Monitoring.HealthPort != 8080 {
		t.Errorf("health port default = %d", cfg.Monitoring.HealthPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	writeConfig(t, `
ai:
  gemini_api_key: test-gemini-key
  model: gemini-2.0-flash
youtube:
  api_key: test-youtube-key
search:
  min_duration_minutes: 3
  max_duration_minutes: 20
  target_count: 8
translate:
  enabled: true
  language: fr
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", cfg.AI.Model)
	}
	if cfg.Search.TargetCount != 8 || cfg.Search.MinDurationMinutes != 3 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if !cfg.Translate.Enabled || cfg.Translate.Language != "fr" {
		t.Errorf("translate = %+v", cfg.Translate)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("MissingGeminiKey", func(t *testing.T) {
		writeConfig(t, `
youtube:
  api_key: test-youtube-key
`)
		if _, err := Load(); err == nil {
			t.Fatal("want error for missing Gemini key")
		}
	})

	t.Run("MissingYouTubeCredentials", func(t *testing.T) {
		writeConfig(t, `
ai:
  gemini_api_key: test-gemini-key
`)
		if _, err := Load(); err == nil {
			t.Fatal("want error for missing YouTube credentials")
		}
	})

	t.Run("OAuthInsteadOfAPIKey", func(t *testing.T) {
		writeConfig(t, `
ai:
  gemini_api_key: test-gemini-key
youtube:
  client_id: id
  client_secret: secret
`)
		if _, err := Load(); err != nil {
			t.Fatalf("OAuth credentials should satisfy validation: %v", err)
		}
	})

	t.Run("InvertedDurationWindow", func(t *testing.T) {
		writeConfig(t, `
ai:
  gemini_api_key: test-gemini-key
youtube:
  api_key: test-youtube-key
search:
  min_duration_minutes: 30
  max_duration_minutes: 5
`)
		if _, err := Load(); err == nil {
			t.Fatal("want error when min exceeds max")
		}
	})

	t.Run("EmailEnabledNeedsCredentials", func(t *testing.T) {
		writeConfig(t, `
ai:
  gemini_api_key: test-gemini-key
youtube:
  api_key: test-youtube-key
email:
  enabled: true
  smtp_server: smtp.example.com
  smtp_port: 587
`)
		if _, err := Load(); err == nil {
			t.Fatal("want error when email enabled without credentials")
		}
	})

	t.Run("MissingConfigFile", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := Load(); err == nil {
			t.Fatal("want error for missing config file")
		}
	})
}
