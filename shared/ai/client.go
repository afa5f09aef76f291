package ai

import (
	"context"
	"fmt"

	"scriptforge/shared/config"

	"google.golang.org/genai"
)

// Client wraps the Gemini API behind a plain prompt-in/text-out call.
// One client is constructed at process start and passed into every
// component that needs text generation.
type Client struct {
	client   *genai.Client
	model    string
	proModel string
}

func NewClient(cfg *config.AIConfig) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:   client,
		model:    cfg.Model,
		proModel: cfg.ProModel,
	}, nil
}

// Complete sends one prompt to the default model and returns the raw
// text completion.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.model, prompt)
}

// CompletePro is Complete against the larger model, used for script
// generation where output quality matters more than latency.
func (c *Client) CompletePro(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.proModel, prompt)
}

// Pro returns a view of this client whose Complete targets the pro
// model, for callers that take a generic completion interface.
func (c *Client) Pro() *ProClient {
	return &ProClient{client: c}
}

// ProClient is a Client pinned to the pro model.
type ProClient struct {
	client *Client
}

func (p *ProClient) Complete(ctx context.Context, prompt string) (string, error) {
	return p.client.CompletePro(ctx, prompt)
}

func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return text, nil
}
