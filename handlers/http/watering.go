package httpHandler

import (
	"net/http"
	"strconv"

	"aquasmart/usecases"

	"github.com/gin-gonic/gin"
)

type WateringHandler struct {
	useCase *usecases.WateringUseCase
}

func NewWateringHandler(useCase *usecases.WateringUseCase) *WateringHandler {
	return &WateringHandler{useCase: useCase}
}

// Start handles POST /api/v1/watering
// { "field_id": 3, "minutes": 15 }
func (h *WateringHandler) Start(c *gin.Context) {
	var req usecases.WateringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.UserID = currentUser(c).ID

	run, err := h.useCase.Start(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Watering started", "data": run})
}

// Stop handles DELETE /api/v1/watering
func (h *WateringHandler) Stop(c *gin.Context) {
	run, err := h.useCase.Stop(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Watering stopped", "data": run})
}

// Active handles GET /api/v1/watering
func (h *WateringHandler) Active(c *gin.Context) {
	run, ok := h.useCase.Active()
	c.JSON(http.StatusOK, gin.H{"active": ok, "data": run})
}

// History handles GET /api/v1/watering/history?field_id=&limit=
func (h *WateringHandler) History(c *gin.Context) {
	fieldID, _ := strconv.Atoi(c.Query("field_id"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := h.useCase.History(fieldID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve watering history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs, "count": len(runs)})
}
