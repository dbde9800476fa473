package httpHandler

import (
	"net/http"
	"time"

	"aquasmart/irrigation"
	"aquasmart/services"

	"github.com/gin-gonic/gin"
)

type IrrigationHandler struct {
	dashboard *services.DashboardService
	now       func() time.Time
}

func NewIrrigationHandler(dashboard *services.DashboardService) *IrrigationHandler {
	return &IrrigationHandler{dashboard: dashboard, now: time.Now}
}

// GetAdvice handles GET /api/v1/irrigation/advice
func (h *IrrigationHandler) GetAdvice(c *gin.Context) {
	advice := h.dashboard.IrrigationAdvice(c.Request.Context(), currentUser(c).ID)
	c.JSON(http.StatusOK, gin.H{"data": advice})
}

// GetPlans handles GET /api/v1/irrigation/plans
func (h *IrrigationHandler) GetPlans(c *gin.Context) {
	plans := h.dashboard.Plans().All()
	out := make([]gin.H, 0, len(plans))
	for _, p := range plans {
		out = append(out, gin.H{
			"field_id":     p.FieldID,
			"field_name":   p.FieldName,
			"weekly_total": irrigation.WeeklyTotal(p),
			"slot_count":   irrigation.SlotCount(p),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"data":          out,
		"count":         len(out),
		"next_watering": services.NextWatering(plans, h.now()),
	})
}

// GetPlan handles GET /api/v1/irrigation/plans/:fieldId
func (h *IrrigationHandler) GetPlan(c *gin.Context) {
	id, ok := paramID(c, "fieldId")
	if !ok {
		return
	}
	plan, found := h.dashboard.Plans().Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No irrigation plan for this field"})
		return
	}

	now := h.now()
	resp := gin.H{
		"field_id":      plan.FieldID,
		"field_name":    plan.FieldName,
		"weekly_total":  irrigation.WeeklyTotal(plan),
		"slot_count":    irrigation.SlotCount(plan),
		"total_minutes": irrigation.TotalMinutes(plan),
		"days":          irrigation.Summarize(plan, now),
	}
	if next, ok := irrigation.NextSlot(plan, now); ok {
		resp["next_slot"] = next
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
