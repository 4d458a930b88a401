package llm

import (
	"context"

	genai "google.golang.org/genai"
)

// GeminiClassifier is a thin wrapper around the official genai client. It
// only does the API call itself; prompt construction and response parsing
// live with the caller.
type GeminiClassifier struct {
	cli   *genai.Client
	model string
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClassifier{cli: cli, model: model}, nil
}

func (g *GeminiClassifier) Name() string { return "Gemini:" + g.model }

// Classify sends one completion request and returns the raw model text.
// No retries; transport failures surface to the orchestrator as-is.
func (g *GeminiClassifier) Classify(ctx context.Context, system, user string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: user}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
