package httpHandler

import (
	"net/http"
	"strconv"
	"time"

	"aquasmart/cache"
	"aquasmart/entities"
	"aquasmart/services"

	"github.com/gin-gonic/gin"
)

type FieldHandler struct {
	dashboard *services.DashboardService
	readings  *cache.ReadingCache
}

func NewFieldHandler(dashboard *services.DashboardService, readings *cache.ReadingCache) *FieldHandler {
	return &FieldHandler{dashboard: dashboard, readings: readings}
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// GetFields handles GET /api/v1/fields
func (h *FieldHandler) GetFields(c *gin.Context) {
	user := currentUser(c)
	views, err := h.dashboard.FieldViews(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      views,
		"count":     len(views),
		"attention": services.Attention(views),
	})
}

// GetField handles GET /api/v1/fields/:id
// Advice and reading history are optional parts of the page.
func (h *FieldHandler) GetField(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)

	view, err := h.dashboard.FieldView(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"data":   view,
		"advice": h.dashboard.FieldAdvice(c.Request.Context(), id),
	}
	if h.readings != nil {
		resp["history"] = h.readings.History(id)
	}
	c.JSON(http.StatusOK, resp)
}

// GetFieldsWithPlants handles GET /api/v1/fields-with-plants
// It feeds the plant change dialog: fields and the plant catalogue in one call.
func (h *FieldHandler) GetFieldsWithPlants(c *gin.Context) {
	out, err := h.dashboard.FieldsWithPlantTypes(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type changePlantRequest struct {
	PlantTypeID int    `json:"plant_type_id" binding:"required"`
	Password    string `json:"password"`
}

// ChangePlantType handles PUT /api/v1/fields/:id/plant-type
func (h *FieldHandler) ChangePlantType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req changePlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	view, err := h.dashboard.ChangePlantType(c.Request.Context(), currentUser(c), id, req.PlantTypeID, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plant type changed", "data": view})
}

// CreateField handles POST /api/v1/fields
func (h *FieldHandler) CreateField(c *gin.Context) {
	var req entities.FieldCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	view, err := h.dashboard.CreateField(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Field created successfully", "data": view})
}

// GetPlantTypes handles GET /api/v1/plant-types
func (h *FieldHandler) GetPlantTypes(c *gin.Context) {
	plants, err := h.dashboard.PlantTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(plants))
	for _, p := range plants {
		out = append(out, gin.H{"plant": p, "tips": p.TipList()})
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "count": len(out)})
}

// GetSensors handles GET /api/v1/sensors?status=
func (h *FieldHandler) GetSensors(c *gin.Context) {
	overview, err := h.dashboard.Sensors(c.Request.Context(), currentUser(c).ID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": overview})
}

// GetSummary handles GET /api/v1/dashboard
func (h *FieldHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context(), currentUser(c).ID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}
