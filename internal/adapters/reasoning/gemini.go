package reasoning

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// answerSchema constrains Gemini output to the field-resolution answer.
var answerSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"value":       {Type: genai.TypeString},
		"confidence":  {Type: genai.TypeNumber},
		"source_urls": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"explanation": {Type: genai.TypeString},
	},
	Required: []string{"value", "confidence", "source_urls", "explanation"},
}

// GeminiGenerator calls the Gemini API for JSON answers.
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

// NewGeminiGenerator creates a generator for the Gemini API backend.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &GeminiGenerator{client: client, modelName: model}, nil
}

// Generate sends prompt under the system instructions and returns the
// concatenated text of the response.
func (g *GeminiGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", ErrNotConfigured
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    answerSchema,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
