package report

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when the config names none.
const DefaultModel = "gemini-3-flash-preview"

// GeminiSummarizer implements Summarizer against the Gemini API.
type GeminiSummarizer struct {
	client      *genai.Client
	model       string
	temperature float32
	topP        float32
}

// NewGeminiSummarizer creates the API client. The key is required; a
// missing key should keep the whole reports feature disabled upstream
// instead of failing per call.
func NewGeminiSummarizer(ctx context.Context, apiKey, model string) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiSummarizer{
		client:      client,
		model:       model,
		temperature: 0.7,
		topP:        0.9,
	}, nil
}

// Summarize issues a single non-streaming generation call.
func (g *GeminiSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(g.temperature),
			TopP:        genai.Ptr(g.topP),
		})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
