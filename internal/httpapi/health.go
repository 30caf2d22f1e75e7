package httpapi

import (
	"net/http"

	"autodialer-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Health reports which integrations are live and how much data is on disk.
// It always answers 200; a dead integration is test mode, not an outage.
func (h *Handlers) Health(c *gin.Context) {
	counts := gin.H{}
	for name, count := range map[string]func() (int, error){
		"phone_numbers": h.Phones.Count,
		"call_logs":     h.Calls.Count,
		"blog_posts":    h.Blog.Count,
	} {
		n, err := count()
		if err != nil {
			logger.FromGin(c).Warn("count failed", "collection", name, "err", err)
			n = 0
		}
		counts[name] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"twilio_configured": h.Provider.Configured(),
		"gemini_configured": h.Generator.Configured(),
		"redis_configured":  h.Cache.Enabled(),
		"data":              counts,
	})
}
