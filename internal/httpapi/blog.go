package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"autodialer-platform/internal/blog"
	"autodialer-platform/internal/content"

	"github.com/gin-gonic/gin"
)

type generateArticleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GenerateArticle produces and stores one AI-written post.
func (h *Handlers) GenerateArticle(c *gin.Context) {
	var req generateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := h.Blog.Generate(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		h.generationFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      post.ID,
		"slug":    post.Slug,
		"title":   post.Title,
		"model":   post.Model,
	})
}

type generateBulkRequest struct {
	// Titles entries may carry an optional description after a pipe,
	// "title|description". Blank lines and #-comments are skipped.
	Titles []string `json:"titles"`
}

// GenerateArticlesBulk generates a post per title, continuing past failures.
func (h *Handlers) GenerateArticlesBulk(c *gin.Context) {
	var req generateBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items := blog.ParseBulkTitles(req.Titles)
	if len(items) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "titles required"})
		return
	}
	if !h.Generator.Configured() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "article generation not configured"})
		return
	}

	outcomes := h.Blog.GenerateBulk(c.Request.Context(), items)
	generated := 0
	for _, o := range outcomes {
		if o.Success {
			generated++
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "generated": generated, "results": outcomes})
}

// BlogList returns all posts, newest first, without bodies.
func (h *Handlers) BlogList(c *gin.Context) {
	posts, err := h.Blog.List()
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	type postSummary struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Model       string `json:"model,omitempty"`
		CreatedAt   string `json:"created_at"`
		ViewCount   int    `json:"view_count"`
	}
	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, postSummary{
			ID:          p.ID,
			Title:       p.Title,
			Slug:        p.Slug,
			Description: p.Description,
			Model:       p.Model,
			CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			ViewCount:   p.ViewCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"posts": out, "count": len(out)})
}

// BlogView serves one post by slug and bumps its view counter.
func (h *Handlers) BlogView(c *gin.Context) {
	slugVal := strings.TrimSpace(c.Param("slug"))
	post, err := h.Blog.View(slugVal)
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.storageFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// BlogDelete removes a post by id.
func (h *Handlers) BlogDelete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.Blog.Delete(id); err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.storageFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// generationFailure maps content-pipeline errors onto HTTP statuses.
func (h *Handlers) generationFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, blog.ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title required"})
	case errors.Is(err, content.ErrNotConfigured):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "article generation not configured"})
	case errors.Is(err, content.ErrQuota):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "generation quota exhausted"})
	case errors.Is(err, content.ErrGeneration):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.storageFailure(c, err)
	}
}
