package blog

import "time"

// Post is a generated article.
type Post struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Slug is unique across the collection and derived from the title.
	Slug string `json:"slug"`

	Body        string `json:"body"`
	Description string `json:"description,omitempty"`

	// Model is the generative model that produced the body.
	Model string `json:"model,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ViewCount int       `json:"view_count"`
}

func (p Post) RecordID() string { return p.ID }
