package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scriptforge/shared/config"
)

// DownloadError is returned when audio for a video cannot be fetched
// or post-processed.
type DownloadError struct {
	URL   string
	Cause error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed for %s: %v", e.URL, e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

// AudioFetch is the result of a successful audio download.
type AudioFetch struct {
	AudioPath string
	VideoID   string
}

// Downloader fetches a video's audio track as a 16kHz mono WAV via the
// yt-dlp binary.
type Downloader struct {
	bin string
}

func NewDownloader(cfg *config.MediaConfig) *Downloader {
	return &Downloader{bin: cfg.YTDLPBin}
}

// FetchAudio downloads the audio for url into workdir. Files are named
// <videoID>_<jobID>.wav so concurrent jobs for the same video never
// collide.
func (d *Downloader) FetchAudio(ctx context.Context, url, workdir, jobID string) (AudioFetch, error) {
	if err := os.MkdirAll(workdir, 0755); err != nil {
		return AudioFetch{}, &DownloadError{URL: url, Cause: err}
	}

	videoID, _, err := d.Probe(ctx, url)
	if err != nil {
		return AudioFetch{}, &DownloadError{URL: url, Cause: err}
	}

	base := fmt.Sprintf("%s_%s", videoID, jobID)
	outputTemplate := filepath.Join(workdir, base+".%(ext)s")
	expectedWAV := filepath.Join(workdir, base+".wav")

	cmd := exec.CommandContext(ctx, d.bin,
		"--no-playlist",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "wav",
		"--postprocessor-args", "ffmpeg:-ar 16000 -ac 1",
		"-o", outputTemplate,
		url,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return AudioFetch{}, &DownloadError{
			URL:   url,
			Cause: fmt.Errorf("yt-dlp failed: %w (%s)", err, strings.TrimSpace(stderr.String())),
		}
	}

	if _, err := os.Stat(expectedWAV); err == nil {
		log.Printf("Audio extracted to %s", expectedWAV)
		return AudioFetch{AudioPath: expectedWAV, VideoID: videoID}, nil
	}

	// yt-dlp occasionally writes a slightly different name; scan for it.
	entries, err := os.ReadDir(workdir)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, base) && strings.HasSuffix(name, ".wav") {
				actual := filepath.Join(workdir, name)
				log.Printf("Warning: audio not at %s, found %s instead", expectedWAV, actual)
				return AudioFetch{AudioPath: actual, VideoID: videoID}, nil
			}
		}
	}

	return AudioFetch{}, &DownloadError{
		URL:   url,
		Cause: fmt.Errorf("audio extraction produced no WAV for %s", base),
	}
}

// Probe asks yt-dlp for the platform video ID and title without
// downloading anything.
func (d *Downloader) Probe(ctx context.Context, url string) (id, title string, err error) {
	cmd := exec.CommandContext(ctx, d.bin, "--no-playlist", "--print", "id", "--print", "title", "--skip-download", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", "", fmt.Errorf("failed to probe video: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	lines := strings.SplitN(strings.TrimSpace(stdout.String()), "\n", 2)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return "", "", fmt.Errorf("yt-dlp returned no video ID for %s", url)
	}
	id = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		title = strings.TrimSpace(lines[1])
	}
	return id, title, nil
}
