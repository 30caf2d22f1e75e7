package blog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"autodialer-platform/internal/content"
	"autodialer-platform/internal/store"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrInvalidInput = errors.New("blog: invalid input")
	ErrNotFound     = errors.New("blog: post not found")
)

const (
	maxSlugLen        = 100
	maxDescriptionLen = 500
)

// Service owns the blog post collection and drives article generation.
type Service struct {
	col       *store.Collection[Post]
	generator content.Generator
	clock     func() time.Time
}

func NewService(col *store.Collection[Post], generator content.Generator) *Service {
	return &Service{col: col, generator: generator, clock: time.Now}
}

// Generate produces one article and persists it.
func (s *Service) Generate(ctx context.Context, title, description string) (Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Post{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	art, err := s.generator.GenerateArticle(ctx, title, description)
	if err != nil {
		return Post{}, err
	}

	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = title
	}
	if len(desc) > maxDescriptionLen {
		desc = desc[:maxDescriptionLen]
	}

	var out Post
	err = s.col.Update(func(posts []Post) ([]Post, error) {
		out = Post{
			ID:          uuid.NewString(),
			Title:       title,
			Slug:        uniqueSlug(title, posts),
			Body:        art.Body,
			Description: desc,
			Model:       art.Model,
			CreatedAt:   s.clock().UTC(),
		}
		return append(posts, out), nil
	})
	if err != nil {
		return Post{}, err
	}
	return out, nil
}

// BulkItem is one requested article in a bulk generation.
type BulkItem struct {
	Title       string
	Description string
}

// BulkOutcome is the per-item result of a bulk generation.
type BulkOutcome struct {
	Title   string `json:"title"`
	Success bool   `json:"success"`
	Slug    string `json:"slug,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GenerateBulk generates articles sequentially. A failed item never aborts
// the run; its outcome records the failure and processing continues.
func (s *Service) GenerateBulk(ctx context.Context, items []BulkItem) []BulkOutcome {
	outcomes := make([]BulkOutcome, 0, len(items))
	for _, item := range items {
		post, err := s.Generate(ctx, item.Title, item.Description)
		if err != nil {
			outcomes = append(outcomes, BulkOutcome{Title: item.Title, Success: false, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, BulkOutcome{Title: item.Title, Success: true, Slug: post.Slug, ID: post.ID})
	}
	return outcomes
}

// ParseBulkTitles turns the request's title strings into bulk items.
// Each string is either "title" or "title|description"; blanks and comment
// lines are dropped.
func ParseBulkTitles(titles []string) []BulkItem {
	var items []BulkItem
	for _, raw := range titles {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		item := BulkItem{Title: line}
		if i := strings.Index(line, "|"); i >= 0 {
			item.Title = strings.TrimSpace(line[:i])
			item.Description = strings.TrimSpace(line[i+1:])
		}
		if item.Title != "" {
			items = append(items, item)
		}
	}
	return items
}

// View returns the post for slug and increments its view counter.
func (s *Service) View(slugVal string) (Post, error) {
	var out Post
	found := false
	err := s.col.Update(func(posts []Post) ([]Post, error) {
		for i := range posts {
			if posts[i].Slug == slugVal {
				posts[i].ViewCount++
				out = posts[i]
				found = true
				break
			}
		}
		return posts, nil
	})
	if err != nil {
		return Post{}, err
	}
	if !found {
		return Post{}, ErrNotFound
	}
	return out, nil
}

// Delete removes a post by id.
func (s *Service) Delete(id string) error {
	found, err := s.col.Delete(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// List returns all posts, newest first.
func (s *Service) List() ([]Post, error) {
	posts, err := s.col.Load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// Clear drops every post.
func (s *Service) Clear() error { return s.col.Clear() }

// Count returns the collection size.
func (s *Service) Count() (int, error) { return s.col.Count() }

// uniqueSlug derives the URL slug from the title and disambiguates collisions
// with a numeric suffix (-2, -3, ...).
func uniqueSlug(title string, posts []Post) string {
	base := slug.Make(title)
	if len(base) > maxSlugLen {
		base = strings.Trim(base[:maxSlugLen], "-")
	}
	if base == "" {
		base = "post"
	}

	taken := make(map[string]bool, len(posts))
	for _, p := range posts {
		taken[p.Slug] = true
	}
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken[candidate] {
			return candidate
		}
	}
}
