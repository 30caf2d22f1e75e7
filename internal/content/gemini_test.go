package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func fakeGenerator(models []string, fn func(model string) (string, error)) *GeminiGenerator {
	return &GeminiGenerator{
		models: models,
		generate: func(_ context.Context, model, _ string) (string, error) {
			return fn(model)
		},
	}
}

func TestGenerateArticle_FallsThroughMissingModels(t *testing.T) {
	var tried []string
	g := fakeGenerator([]string{"a", "b", "c"}, func(model string) (string, error) {
		tried = append(tried, model)
		if model != "c" {
			return "", genai.APIError{Code: 404, Status: "NOT_FOUND", Message: "model not found"}
		}
		return "the article body", nil
	})

	art, err := g.GenerateArticle(context.Background(), "Go testing", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if art.Model != "c" || art.Body != "the article body" {
		t.Fatalf("unexpected article: %+v", art)
	}
	if len(tried) != 3 {
		t.Fatalf("expected all candidates tried in order, got %v", tried)
	}
}

func TestGenerateArticle_ExhaustedListFails(t *testing.T) {
	g := fakeGenerator([]string{"a", "b"}, func(string) (string, error) {
		return "", genai.APIError{Code: 404, Status: "NOT_FOUND"}
	})
	if _, err := g.GenerateArticle(context.Background(), "t", ""); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerateArticle_QuotaStopsFallback(t *testing.T) {
	var tried []string
	g := fakeGenerator([]string{"a", "b"}, func(model string) (string, error) {
		tried = append(tried, model)
		return "", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}
	})
	if _, err := g.GenerateArticle(context.Background(), "t", ""); !errors.Is(err, ErrQuota) {
		t.Fatalf("expected ErrQuota, got %v", err)
	}
	if len(tried) != 1 {
		t.Fatalf("quota failure must not try further models, tried %v", tried)
	}
}

func TestGenerateArticle_TransientErrorDoesNotFallThrough(t *testing.T) {
	var tried []string
	g := fakeGenerator([]string{"a", "b"}, func(model string) (string, error) {
		tried = append(tried, model)
		return "", errors.New("connection reset")
	})
	if _, err := g.GenerateArticle(context.Background(), "t", ""); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if len(tried) != 1 {
		t.Fatalf("transient failure must not fall through, tried %v", tried)
	}
}

func TestBuildPrompt_IncludesTitleAndContext(t *testing.T) {
	p := BuildPrompt("Goroutines", "scheduler internals")
	if !strings.Contains(p, "Goroutines") || !strings.Contains(p, "Context: scheduler internals") {
		t.Fatalf("unexpected prompt:\n%s", p)
	}
	if strings.Contains(BuildPrompt("Goroutines", ""), "Context:") {
		t.Fatalf("empty description must not emit a context line")
	}
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), "", nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDisabledGenerator(t *testing.T) {
	var g Generator = Disabled{}
	if g.Configured() {
		t.Fatalf("disabled generator must not report configured")
	}
	if _, err := g.GenerateArticle(context.Background(), "t", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
