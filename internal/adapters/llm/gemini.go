package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"newsroom/internal/domain"
)

// ClientConfig selects the Gemini backend: a GCP project pair for Vertex
// AI, or a plain API key for the Gemini API.
type ClientConfig struct {
	ProjectID string
	Location  string
	APIKey    string
	Model     string
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a Generator backed by Gemini.
func NewGeminiClient(ctx context.Context, cfg ClientConfig) (*GeminiClient, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	var clientCfg *genai.ClientConfig
	switch {
	case cfg.ProjectID != "" && cfg.Location != "":
		clientCfg = &genai.ClientConfig{
			Project:  cfg.ProjectID,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	case cfg.APIKey != "":
		clientCfg = &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
	default:
		return nil, fmt.Errorf("either a GCP project/location or an API key must be set")
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Generate implements domain.Generator: render the instruction template,
// make one synchronous model call, extract the text.
func (c *GeminiClient) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	prompt := RenderTemplate(req.Template, req.Vars)

	temp := req.Temperature
	topP := float32(0.9)
	outputTokens := int32(8192)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: outputTokens,
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	res, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	// Extract only the text, never the raw structs.
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}

	return text, nil
}
