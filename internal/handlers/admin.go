package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"buyer-lead-portal/internal/buyers"
	"buyer-lead-portal/internal/ratelimit"
	"buyer-lead-portal/internal/scheduler"
)

// AdminHandler handles operational endpoints: pipeline statistics,
// rate-limit inspection and manual maintenance runs.
type AdminHandler struct {
	store     buyers.Store
	limiter   *ratelimit.RateLimiter
	scheduler *scheduler.Scheduler
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store buyers.Store, limiter *ratelimit.RateLimiter, sched *scheduler.Scheduler) *AdminHandler {
	return &AdminHandler{store: store, limiter: limiter, scheduler: sched}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	counts, err := h.store.CountByStatus()
	if err != nil {
		renderError(c, err)
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	stats["buyers"] = map[string]interface{}{
		"by_status": counts,
		"total":     total,
	}

	c.JSON(http.StatusOK, stats)
}

// GetRateLimitStats returns the caller's current rate-limit window
func (h *AdminHandler) GetRateLimitStats(c *gin.Context) {
	key := "ip:" + c.ClientIP()
	if userID := c.GetString("userID"); userID != "" {
		key = "user:" + userID
	}
	c.JSON(http.StatusOK, h.limiter.GetStats(key))
}

// TriggerMaintenance manually triggers a maintenance pass
func (h *AdminHandler) TriggerMaintenance(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available",
		})
		return
	}

	log.Println("Admin: Manual maintenance trigger requested")

	if err := h.scheduler.RunNow(); err != nil {
		log.Printf("Admin: Manual maintenance failed: %v", err)
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance run completed"})
}
