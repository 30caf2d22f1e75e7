package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModels is the ordered fallback list tried for each generation.
// Older deployments of the Gemini API expose different model names; the first
// one the account can use wins.
var DefaultModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
}

// GeminiGenerator generates articles through the Gemini API with model
// fallback: a "model not found" failure moves on to the next candidate,
// quota exhaustion stops the whole attempt.
type GeminiGenerator struct {
	models []string

	// generate is the single-model call, injected so tests can exercise the
	// fallback walk without the network.
	generate func(ctx context.Context, model, prompt string) (string, error)
}

// NewGeminiGenerator builds the client once; per-request calls reuse it.
func NewGeminiGenerator(ctx context.Context, apiKey string, models []string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if len(models) == 0 {
		models = DefaultModels
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("content: create genai client: %w", err)
	}

	return &GeminiGenerator{
		models: models,
		generate: func(ctx context.Context, model, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
			if err != nil {
				return "", err
			}
			text := resp.Text()
			if text == "" {
				return "", errors.New("empty response")
			}
			return text, nil
		},
	}, nil
}

func (g *GeminiGenerator) Configured() bool { return g != nil && g.generate != nil }

func (g *GeminiGenerator) GenerateArticle(ctx context.Context, title, description string) (Article, error) {
	if !g.Configured() {
		return Article{}, ErrNotConfigured
	}

	prompt := BuildPrompt(title, description)

	var lastErr error
	for _, model := range g.models {
		body, err := g.generate(ctx, model, prompt)
		if err == nil {
			return Article{Body: body, Model: model}, nil
		}

		switch classify(err) {
		case failureModelNotFound:
			lastErr = err
			continue
		case failureQuota:
			return Article{}, fmt.Errorf("%w: model %s: %v", ErrQuota, model, err)
		default:
			return Article{}, fmt.Errorf("%w: model %s: %v", ErrGeneration, model, err)
		}
	}
	return Article{}, fmt.Errorf("%w: no usable model in %v: %v", ErrGeneration, g.models, lastErr)
}

type failureClass int

const (
	failureTransient failureClass = iota
	failureModelNotFound
	failureQuota
)

// classify buckets a per-model error so the fallback loop can decide whether
// the NEXT candidate is worth trying.
func classify(err error) failureClass {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 404:
			return failureModelNotFound
		case 429:
			return failureQuota
		}
		if apiErr.Status == "NOT_FOUND" {
			return failureModelNotFound
		}
		if apiErr.Status == "RESOURCE_EXHAUSTED" {
			return failureQuota
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") || strings.Contains(msg, "is not supported") {
		return failureModelNotFound
	}
	if strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") {
		return failureQuota
	}
	return failureTransient
}
