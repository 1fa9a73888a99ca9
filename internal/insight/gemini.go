package insight

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiModel TextModel backed by the Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  string
}

var _ TextModel = (*GeminiModel)(nil)

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (g *GeminiModel) Generate(ctx context.Context, system, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	return resp.Text(), nil
}
