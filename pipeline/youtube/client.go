package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"scriptforge/internal/models"
	"scriptforge/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client wraps the YouTube Data API for keyword search. It
// authenticates with an API key when one is configured, falling back
// to an OAuth token file otherwise.
type Client struct {
	service *youtube.Service
}

func NewClient(cfg *config.YouTubeConfig) (*Client, error) {
	ctx := context.Background()

	var service *youtube.Service
	var err error

	if cfg.APIKey != "" {
		service, err = youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{"https://www.googleapis.com/auth/youtube.readonly"},
			Endpoint:     google.Endpoint,
		}

		token, tokenErr := getToken(oauthConfig, cfg.TokenFile)
		if tokenErr != nil {
			return nil, fmt.Errorf("failed to get OAuth token: %w", tokenErr)
		}

		httpClient := oauth2.NewClient(ctx, &tokenSaver{
			config:    oauthConfig,
			token:     token,
			tokenFile: cfg.TokenFile,
		})
		service, err = youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service}, nil
}

// SearchVideos runs a keyword search and returns fully populated video
// records in discovery order. Detail lookups happen in batches of 50,
// the API's per-call ID limit.
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int64) ([]models.Video, error) {
	var videoIDs []string
	pageToken := ""

	for int64(len(videoIDs)) < maxResults {
		pageSize := maxResults - int64(len(videoIDs))
		if pageSize > 50 {
			pageSize = 50
		}

		searchCall := c.service.Search.List([]string{"id"}).
			Context(ctx).
			Q(query).
			Type("video").
			MaxResults(pageSize)
		if pageToken != "" {
			searchCall = searchCall.PageToken(pageToken)
		}

		searchResponse, err := searchCall.Do()
		if err != nil {
			return nil, fmt.Errorf("search call failed: %w", err)
		}

		for _, item := range searchResponse.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				videoIDs = append(videoIDs, item.Id.VideoId)
			}
		}

		pageToken = searchResponse.NextPageToken
		if pageToken == "" || len(searchResponse.Items) == 0 {
			break
		}
	}

	if len(videoIDs) == 0 {
		return nil, nil
	}

	var videos []models.Video
	for i := 0; i < len(videoIDs); i += 50 {
		end := i + 50
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		videosCall := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Context(ctx).
			Id(strings.Join(videoIDs[i:end], ","))

		videosResponse, err := videosCall.Do()
		if err != nil {
			log.Printf("Failed to get video details for batch: %v", err)
			continue
		}

		for _, item := range videosResponse.Items {
			video := models.Video{
				ID:      item.Id,
				Title:   item.Snippet.Title,
				URL:     fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id),
				Channel: item.Snippet.ChannelTitle,
			}

			if item.ContentDetails != nil {
				video.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
			}
			if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				video.UploadDate = publishedAt.Format("2006-01-02")
			}
			if item.Statistics != nil {
				video.ViewCount = int64(item.Statistics.ViewCount)
				// Like counts can be hidden per video; keep nil so the
				// quality score sees the record as incomplete.
				if item.Statistics.LikeCount > 0 {
					likes := int64(item.Statistics.LikeCount)
					video.LikeCount = &likes
				}
			}

			videos = append(videos, video)
		}
	}

	return videos, nil
}

// parseDurationSeconds parses an ISO 8601 duration like "PT2H15M30S".
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	re := regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)
	matches := re.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}

	return totalSeconds
}

// tokenSaver wraps an oauth2.TokenSource so refreshed tokens are
// persisted to disk and survive restarts.
type tokenSaver struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenFile string
	mu        sync.Mutex
}

func (ts *tokenSaver) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	newToken, err := ts.config.TokenSource(context.Background(), ts.token).Token()
	if err != nil {
		return nil, err
	}

	if newToken.AccessToken != ts.token.AccessToken {
		log.Println("Token refreshed, saving to file")
		ts.token = newToken
		if err := saveToken(ts.tokenFile, newToken); err != nil {
			log.Printf("Warning: Failed to save refreshed token: %v", err)
		}
	}

	return newToken, nil
}

// getToken loads an OAuth token from disk, running the device flow if
// no refreshable token exists yet.
func getToken(config *oauth2.Config, tokenFile string) (*oauth2.Token, error) {
	tok, err := tokenFromFile(tokenFile)
	if err == nil {
		// An expired token with a refresh token is fine; tokenSaver
		// refreshes it on first use.
		if tok.RefreshToken != "" || tok.Valid() {
			return tok, nil
		}
	}

	log.Println("No stored token, starting device authorization...")
	tok, err = getTokenWithDeviceFlow(config)
	if err != nil {
		return nil, err
	}

	if err := saveToken(tokenFile, tok); err != nil {
		log.Printf("Warning: Failed to save token: %v", err)
	}
	return tok, nil
}

func getTokenWithDeviceFlow(config *oauth2.Config) (*oauth2.Token, error) {
	ctx := context.Background()

	resp, err := config.DeviceAuth(ctx, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("unable to start device authorization: %w", err)
	}

	fmt.Printf("Visit %s and enter code %s to authorize YouTube access.\n", resp.VerificationURI, resp.UserCode)
	fmt.Println("Waiting for authorization... (Ctrl+C to cancel)")

	tok, err := config.DeviceAccessToken(ctx, resp, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("device authorization did not complete: %w", err)
	}

	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("unable to create token directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
