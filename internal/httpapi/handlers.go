package httpapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"autodialer-platform/internal/blog"
	"autodialer-platform/internal/calls"
	"autodialer-platform/internal/content"
	"autodialer-platform/internal/phones"
	"autodialer-platform/internal/reporting"
	"autodialer-platform/internal/statscache"
	"autodialer-platform/internal/telephony"
	"autodialer-platform/internal/voicecmd"
	"autodialer-platform/pkg/logger"
	"autodialer-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Phones  *phones.Service
	Calls   *calls.Service
	Blog    *blog.Service
	Reports *reporting.Service

	Provider  telephony.Provider
	Generator content.Generator

	Cache *statscache.Cache

	// Redis backs the cross-process bulk-call lock; nil means local-only.
	Redis *redis.Client

	// bulkMu is the in-process fallback guard for bulk dialing.
	bulkMu sync.Mutex
}

const bulkLockKey = "autodialer:bulk_call_lock"

// --- Numbers ---

type uploadNumbersRequest struct {
	NumbersText string `json:"numbers_text"`
}

// UploadNumbers registers dial targets from a CSV upload, a form field, or a
// JSON body. Duplicates are skipped; new records start pending.
func (h *Handlers) UploadNumbers(c *gin.Context) {
	var (
		count int
		err   error
	)

	switch {
	case strings.Contains(c.ContentType(), "json"):
		var req uploadNumbersRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil || strings.TrimSpace(req.NumbersText) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "numbers_text required"})
			return
		}
		count, err = h.Phones.UploadText(req.NumbersText)

	default:
		if file, fileErr := c.FormFile("file"); fileErr == nil {
			f, openErr := file.Open()
			if openErr != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
				return
			}
			defer f.Close()
			count, err = h.Phones.UploadCSV(f)
		} else if text := c.PostForm("numbers_text"); strings.TrimSpace(text) != "" {
			count, err = h.Phones.UploadText(text)
		} else {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file or numbers_text required"})
			return
		}
	}

	if err != nil {
		h.storageFailure(c, err)
		return
	}
	h.invalidateStats(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// --- Calling ---

type aiCallRequest struct {
	Text string `json:"text"`
}

// AICall extracts a phone number from a freeform command and places one call.
func (h *Handlers) AICall(c *gin.Context) {
	var req aiCallRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return
	}

	number, ok := voicecmd.ExtractNumber(req.Text)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "no phone number found in text"})
		return
	}
	if err := telephony.ValidateNumber(number); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid phone number", "number": number})
		return
	}
	if !h.Provider.Configured() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "telephony not configured"})
		return
	}

	rec, err := h.Phones.GetOrCreate(number)
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	outcome := h.dial(c.Request.Context(), rec)
	h.invalidateStats(c)
	if !outcome.Success {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": outcome.Error, "number": number})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "number": number, "call_id": outcome.CallID})
}

// CallOutcome is the per-number result of a dial attempt.
type CallOutcome struct {
	Number  string `json:"number"`
	Success bool   `json:"success"`
	CallID  string `json:"call_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BulkCall dials every pending number sequentially. One failed number never
// aborts the run; the response carries a per-number outcome list.
func (h *Handlers) BulkCall(c *gin.Context) {
	if !h.Provider.Configured() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "telephony not configured"})
		return
	}

	release, ok := h.acquireBulkLock(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "bulk call already running"})
		return
	}
	defer release()

	pending, err := h.Phones.ListPending()
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	outcomes := make([]CallOutcome, 0, len(pending))
	for _, rec := range pending {
		if err := telephony.ValidateNumber(rec.Number); err != nil {
			// Invalid upload entries surface here; keep going.
			if _, markErr := h.Phones.MarkFailed(rec.ID, "invalid phone number"); markErr != nil {
				logger.FromGin(c).Warn("mark failed", "number", rec.Number, "err", markErr)
			}
			outcomes = append(outcomes, CallOutcome{Number: rec.Number, Success: false, Error: "invalid phone number"})
			continue
		}
		outcomes = append(outcomes, h.dial(c.Request.Context(), rec))
	}

	h.invalidateStats(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "attempted": len(outcomes), "outcomes": outcomes})
}

// dial places one call and records it: phone status first, journal second.
func (h *Handlers) dial(ctx context.Context, rec phones.PhoneNumber) CallOutcome {
	res, err := h.Provider.PlaceCall(ctx, telephony.PlaceCallRequest{To: rec.Number})
	if err != nil {
		if _, markErr := h.Phones.MarkFailed(rec.ID, err.Error()); markErr != nil {
			logger.From(ctx).Warn("mark failed", "number", rec.Number, "err", markErr)
		}
		if _, logErr := h.Calls.RecordPlaced(rec.Number, "", string(phones.StatusFailed)); logErr != nil {
			logger.From(ctx).Warn("journal append failed", "number", rec.Number, "err", logErr)
		}
		return CallOutcome{Number: rec.Number, Success: false, Error: err.Error()}
	}

	if _, err := h.Phones.MarkCalling(rec.ID, res.ProviderCallID); err != nil {
		logger.From(ctx).Warn("mark calling failed", "number", rec.Number, "err", err)
	}
	if _, err := h.Calls.RecordPlaced(rec.Number, res.ProviderCallID, string(phones.StatusCalling)); err != nil {
		logger.From(ctx).Warn("journal append failed", "number", rec.Number, "err", err)
	}
	return CallOutcome{Number: rec.Number, Success: true, CallID: res.ProviderCallID}
}

// RefreshStatus pulls provider status for every in-flight call. This is the
// poll-based alternative for deployments without a reachable callback URL.
func (h *Handlers) RefreshStatus(c *gin.Context) {
	if !h.Provider.Configured() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "telephony not configured"})
		return
	}

	inFlight, err := h.Phones.ListCalling()
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	type refreshOutcome struct {
		Number string `json:"number"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}
	outcomes := make([]refreshOutcome, 0, len(inFlight))

	for _, rec := range inFlight {
		res, err := h.Provider.FetchCallStatus(c.Request.Context(), rec.ProviderCallID)
		if err != nil {
			outcomes = append(outcomes, refreshOutcome{Number: rec.Number, Status: string(rec.Status), Error: err.Error()})
			continue
		}
		if res.Status == "" || res.Status == rec.Status {
			outcomes = append(outcomes, refreshOutcome{Number: rec.Number, Status: string(rec.Status)})
			continue
		}
		updated, err := h.Phones.ApplyProviderStatus(rec.ProviderCallID, res.Status, res.DurationSeconds)
		if err != nil {
			outcomes = append(outcomes, refreshOutcome{Number: rec.Number, Status: string(rec.Status), Error: err.Error()})
			continue
		}
		if _, err := h.Calls.RecordStatus(rec.Number, rec.ProviderCallID, string(res.Status), res.DurationSeconds, res.Status.Terminal()); err != nil {
			logger.FromGin(c).Warn("journal append failed", "number", rec.Number, "err", err)
		}
		outcomes = append(outcomes, refreshOutcome{Number: rec.Number, Status: string(updated.Status)})
	}

	h.invalidateStats(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "checked": len(outcomes), "outcomes": outcomes})
}

// --- Stats / export / clear ---

// CallStats serves the aggregate counters, through the Redis cache when one
// is configured. A corrupt collection degrades to zero counters so the
// dashboard stays alive.
func (h *Handlers) CallStats(c *gin.Context) {
	var stats reporting.CallStats
	if h.Cache.Get(c.Request.Context(), statscache.KeyCallStats, &stats) {
		c.JSON(http.StatusOK, stats)
		return
	}

	stats, err := h.Reports.CallStats()
	if err != nil {
		logger.FromGin(c).Error("call stats failed, serving empty", "err", err)
		c.JSON(http.StatusOK, reporting.CallStats{SuccessRate: "0%"})
		return
	}
	h.Cache.Set(c.Request.Context(), statscache.KeyCallStats, stats)
	c.JSON(http.StatusOK, stats)
}

// ExportCalls streams the call journal as CSV.
func (h *Handlers) ExportCalls(c *gin.Context) {
	data, err := h.Reports.ExportCallsCSV()
	if err != nil {
		h.storageFailure(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="call_logs.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ClearAll wipes all three collections.
func (h *Handlers) ClearAll(c *gin.Context) {
	for name, clear := range map[string]func() error{
		"phone_numbers": h.Phones.Clear,
		"call_logs":     h.Calls.Clear,
		"blog_posts":    h.Blog.Clear,
	} {
		if err := clear(); err != nil {
			logger.FromGin(c).Error("clear failed", "collection", name, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "clear failed", "collection": name})
			return
		}
	}
	h.invalidateStats(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- helpers ---

func (h *Handlers) invalidateStats(c *gin.Context) {
	h.Cache.Invalidate(c.Request.Context(), statscache.KeyCallStats)
}

// storageFailure maps storage errors onto a 500 and logs the cause.
func (h *Handlers) storageFailure(c *gin.Context, err error) {
	logger.FromGin(c).Error("storage failure", "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
}

// acquireBulkLock takes the local guard plus the Redis lock when configured.
func (h *Handlers) acquireBulkLock(ctx context.Context) (func(), bool) {
	if !h.bulkMu.TryLock() {
		return nil, false
	}
	if h.Redis == nil {
		return h.bulkMu.Unlock, true
	}

	token := uuid.NewString()
	ok, err := utils.AcquireRunLock(ctx, h.Redis, bulkLockKey, token, 5*time.Minute)
	if err != nil {
		// Redis trouble must not block dialing; the local guard still holds.
		logger.From(ctx).Warn("bulk lock via redis failed, using local guard", "err", err)
		return h.bulkMu.Unlock, true
	}
	if !ok {
		h.bulkMu.Unlock()
		return nil, false
	}
	return func() {
		if err := utils.ReleaseRunLock(context.Background(), h.Redis, bulkLockKey, token); err != nil {
			logger.From(ctx).Warn("bulk lock release failed", "err", err)
		}
		h.bulkMu.Unlock()
	}, true
}
