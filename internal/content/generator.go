package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator produces article bodies from a title and optional description.
type Generator interface {
	// Configured reports whether the backing model API is usable.
	Configured() bool

	GenerateArticle(ctx context.Context, title, description string) (Article, error)
}

type Article struct {
	Body string `json:"body"`

	// Model is the identifier that actually produced the body, after fallback.
	Model string `json:"model"`
}

var (
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("content: generator not configured")

	// ErrGeneration covers model failures that fallback could not recover.
	ErrGeneration = errors.New("content: generation failed")

	// ErrQuota marks quota/rate exhaustion; trying further models is pointless.
	ErrQuota = errors.New("content: generation quota exhausted")
)

// BuildPrompt assembles the article prompt.
func BuildPrompt(title, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a comprehensive technical blog post about: %s\n\n", title)
	if description != "" {
		fmt.Fprintf(&b, "Context: %s\n\n", description)
	}
	b.WriteString("Requirements:\n")
	b.WriteString("- Professional, informative tone\n")
	b.WriteString("- Include code examples where relevant\n")
	b.WriteString("- Use ## for section headings\n")
	b.WriteString("- Length: 1000-1500 words\n")
	b.WriteString("- Practical examples and tips\n")
	b.WriteString("- Brief conclusion\n\n")
	b.WriteString("Write the complete article:")
	return b.String()
}

// Disabled is the generator used when no API key is configured.
type Disabled struct{}

func (Disabled) Configured() bool { return false }

func (Disabled) GenerateArticle(context.Context, string, string) (Article, error) {
	return Article{}, ErrNotConfigured
}
