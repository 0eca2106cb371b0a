package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGenAIModel is the Gemini model used when none is configured.
const DefaultGenAIModel = "gemini-2.0-flash"

const systemInstruction = "You are a careful evaluator. Reply with JSON only."

// generator is the subset of *genai.Models used by GenAICompleter.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAICompleter sends prompts to Gemini through google.golang.org/genai.
type GenAICompleter struct {
	models generator
	model  string
}

// NewGenAICompleter builds a Gemini client for apiKey. An empty model selects
// DefaultGenAIModel.
func NewGenAICompleter(ctx context.Context, apiKey, model string) (*GenAICompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("genai: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: failed to create client: %w", err)
	}
	return newGenAICompleter(client.Models, model), nil
}

func newGenAICompleter(models generator, model string) *GenAICompleter {
	if strings.TrimSpace(model) == "" {
		model = DefaultGenAIModel
	}
	return &GenAICompleter{models: models, model: model}
}

// Complete implements Completer.
func (g *GenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	var temperature float32
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("genai: generate content: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyReply
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
		// first usable candidate only
		if b.Len() > 0 {
			break
		}
	}

	if b.Len() == 0 {
		return "", ErrEmptyReply
	}
	return b.String(), nil
}
