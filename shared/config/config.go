package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	AI         AIConfig         `yaml:"ai"`
	Search     SearchConfig     `yaml:"search"`
	Media      MediaConfig      `yaml:"media"`
	Output     OutputConfig     `yaml:"output"`
	Translate  TranslateConfig  `yaml:"translate"`
	Email      EmailConfig      `yaml:"email"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
	// SearchTimeoutSeconds bounds each search.list/videos.list call.
	SearchTimeoutSeconds int `yaml:"search_timeout_seconds"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`     // analysis, reports, translation
	ProModel     string `yaml:"pro_model"` // script generation
}

type SearchConfig struct {
	MinDurationMinutes int `yaml:"min_duration_minutes"`
	MaxDurationMinutes int `yaml:"max_duration_minutes"`
	TargetCount        int `yaml:"target_count"`
}

type MediaConfig struct {
	TempDir      string `yaml:"temp_dir"`
	YTDLPBin     string `yaml:"ytdlp_bin"`
	WhisperBin   string `yaml:"whisper_bin"`
	WhisperModel string `yaml:"whisper_model"`
}

type OutputConfig struct {
	ReportsDir     string `yaml:"reports_dir"`
	ScriptsDir     string `yaml:"scripts_dir"`
	TranscriptsDir string `yaml:"transcripts_dir"`
}

type TranslateConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
}

type EmailConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

type ScheduleConfig struct {
	Cron            string   `yaml:"cron"`
	Topics          []string `yaml:"topics"`
	DurationMinutes int      `yaml:"duration_minutes"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.YouTube.APIKey == "" {
		c.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.YouTube.ClientID == "" {
		c.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.YouTube.ClientSecret == "" {
		c.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
	if c.YouTube.SearchTimeoutSeconds == 0 {
		c.YouTube.SearchTimeoutSeconds = 30
	}
	if c.AI.GeminiAPIKey == "" {
		c.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.ProModel == "" {
		c.AI.ProModel = "gemini-2.5-pro"
	}
	if c.Search.MinDurationMinutes == 0 {
		c.Search.MinDurationMinutes = 5
	}
	if c.Search.MaxDurationMinutes == 0 {
		c.Search.MaxDurationMinutes = 30
	}
	if c.Search.TargetCount == 0 {
		c.Search.TargetCount = 5
	}
	if c.Media.TempDir == "" {
		c.Media.TempDir = "temp_batch"
	}
	if c.Media.YTDLPBin == "" {
		c.Media.YTDLPBin = "yt-dlp"
	}
	if c.Media.WhisperBin == "" {
		c.Media.WhisperBin = "whisper"
	}
	if c.Media.WhisperModel == "" {
		c.Media.WhisperModel = "base"
	}
	if c.Output.ReportsDir == "" {
		c.Output.ReportsDir = "output_reports"
	}
	if c.Output.ScriptsDir == "" {
		c.Output.ScriptsDir = "output_scripts"
	}
	if c.Output.TranscriptsDir == "" {
		c.Output.TranscriptsDir = "output_transcripts"
	}
	if c.Translate.Language == "" {
		c.Translate.Language = "es"
	}
	if c.Email.Username == "" {
		c.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if c.Email.Password == "" {
		c.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 0 9 * * 1" // Weekly, Monday 9 AM
	}
	if c.Schedule.DurationMinutes == 0 {
		c.Schedule.DurationMinutes = 10
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
}

func (c *Config) validate() error {
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	if c.YouTube.APIKey == "" && (c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "") {
		return fmt.Errorf("YouTube credentials are required (set YOUTUBE_API_KEY, or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET for OAuth)")
	}
	if c.Search.MinDurationMinutes > c.Search.MaxDurationMinutes {
		return fmt.Errorf("search min_duration_minutes (%d) exceeds max_duration_minutes (%d)",
			c.Search.MinDurationMinutes, c.Search.MaxDurationMinutes)
	}
	if c.Email.Enabled {
		if c.Email.Username == "" {
			return fmt.Errorf("Email username is required when email is enabled (set EMAIL_USERNAME or email.username)")
		}
		if c.Email.Password == "" {
			return fmt.Errorf("Email password is required when email is enabled (set EMAIL_PASSWORD or email.password)")
		}
	}
	return nil
}
