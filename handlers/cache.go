package handlers

import (
	"net/http"
	"strconv"

	"aquasmart/cache"
	"aquasmart/services"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	poller   *services.Poller
	readings *cache.ReadingCache
}

func NewCacheHandler(poller *services.Poller, readings *cache.ReadingCache) *CacheHandler {
	return &CacheHandler{
		poller:   poller,
		readings: readings,
	}
}

// PollNow POST /api/v1/cache/poll
func (h *CacheHandler) PollNow(c *gin.Context) {
	events := h.poller.Poll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "processed", "events": events, "count": len(events)})
}

// GetFieldHistory GET /api/v1/cache/fields/:id
func (h *CacheHandler) GetFieldHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}

	points := h.readings.History(id)
	data := make([]gin.H, 0, len(points))
	for _, p := range points {
		data = append(data, gin.H{
			"field_id":    p.FieldID,
			"field_name":  p.FieldName,
			"moisture":    p.Moisture,
			"temperature": p.Temperature,
			"status":      p.Status,
			"timestamp":   p.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"field_id":          id,
		"total_data_points": len(data),
		"cached_data":       data,
	})
}

func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  h.poller.GetCacheStats(),
	})
}

// ClearCache DELETE /api/v1/cache
func (h *CacheHandler) ClearCache(c *gin.Context) {
	h.readings.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
