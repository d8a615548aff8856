package aiseed

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TextModel generates text and lists the models it can use.
type TextModel interface {
	GenerateText(ctx context.Context, model string, prompt string) (string, error)
	ListModels(ctx context.Context) ([]Model, error)
}

// Model describes one generative model offered by the provider.
type Model struct {
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}

// Gemini is a TextModel backed by the Gemini API.
type Gemini struct {
	client *genai.Client
}

// NewGemini builds a Gemini client for apiKey.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// GenerateText sends prompt to model and returns the concatenated text parts.
func (g *Gemini) GenerateText(ctx context.Context, model string, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", model, err)
	}
	return resp.Text(), nil
}

// ListModels returns every model visible to the API key.
func (g *Gemini) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		models = append(models, Model{Name: m.Name, Actions: m.SupportedActions})
	}
	return models, nil
}

var _ TextModel = (*Gemini)(nil)
