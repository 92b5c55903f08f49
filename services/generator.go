package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator is the generative-completion capability used for answer
// synthesis. Tests substitute a deterministic implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int32) (string, error)
}

// GeminiGenerator issues single-shot completions against Google Gemini.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator bound to one Gemini model.
func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model}
}

// Generate runs one completion bounded by maxTokens.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	return responseText.String(), nil
}
