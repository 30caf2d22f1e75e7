package httpapi

import (
	"errors"
	"math/rand"
	"net/http"
	"strings"

	"autodialer-platform/internal/phones"
	"autodialer-platform/internal/telephony"
	"autodialer-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Voice serves the TwiML document Twilio fetches when a call connects.
// Twilio may use GET or POST depending on the call configuration.
func (h *Handlers) Voice(c *gin.Context) {
	doc, err := telephony.RenderAnnouncement(telephony.DefaultAnnouncement)
	if err != nil {
		logger.FromGin(c).Error("twiml render failed", "err", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml", []byte(doc))
}

// CallStatus receives Twilio status callback events. Twilio retries failed
// callbacks, so anything we cannot act on is acknowledged and dropped rather
// than errored.
func (h *Handlers) CallStatus(c *gin.Context) {
	form, err := telephony.ParseStatusCallback(c.Request)
	if err != nil || form.CallSid == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid callback payload"})
		return
	}

	status, ok := telephony.MapProviderStatus(form.CallStatus)
	if !ok {
		logger.FromGin(c).Debug("ignoring unmapped provider status",
			"call_sid", form.CallSid, "provider_status", form.CallStatus)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	rec, err := h.Phones.ApplyProviderStatus(form.CallSid, status, form.CallDurationSec)
	if err != nil {
		if errors.Is(err, phones.ErrNotFound) {
			logger.FromGin(c).Warn("callback for unknown call", "call_sid", form.CallSid)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		h.storageFailure(c, err)
		return
	}

	// Out-of-order events are dropped above; only journal updates that stuck.
	if rec.Status == status {
		if _, err := h.Calls.RecordStatus(rec.Number, form.CallSid, string(status), form.CallDurationSec, status.Terminal()); err != nil {
			logger.FromGin(c).Warn("journal append failed", "call_sid", form.CallSid, "err", err)
		}
	}

	h.invalidateStats(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// terminalStatuses are the outcomes the simulator picks from. Completed is
// weighted to dominate so simulated stats look plausible.
var terminalStatuses = []phones.Status{
	phones.StatusCompleted,
	phones.StatusCompleted,
	phones.StatusCompleted,
	phones.StatusFailed,
	phones.StatusBusy,
	phones.StatusNoAnswer,
}

// SimulateCallComplete forces a random terminal outcome onto an in-flight
// record. Development aid for running without a public callback URL.
func (h *Handlers) SimulateCallComplete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	status := terminalStatuses[rand.Intn(len(terminalStatuses))]
	duration := 0
	if status == phones.StatusCompleted {
		duration = 10 + rand.Intn(110)
	}

	rec, err := h.Phones.ApplyStatusByID(id, status, duration)
	if err != nil {
		switch {
		case errors.Is(err, phones.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "number not found"})
		case errors.Is(err, phones.ErrInvalidTransition):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "call already in a final state"})
		default:
			h.storageFailure(c, err)
		}
		return
	}

	if _, err := h.Calls.RecordStatus(rec.Number, rec.ProviderCallID, string(status), duration, true); err != nil {
		logger.FromGin(c).Warn("journal append failed", "number", rec.Number, "err", err)
	}

	h.invalidateStats(c)
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"number":           rec.Number,
		"status":           rec.Status,
		"duration_seconds": rec.DurationSeconds,
	})
}
