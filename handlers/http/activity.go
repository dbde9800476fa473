package httpHandler

import (
	"net/http"
	"strconv"

	"aquasmart/repositories"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	repo repositories.ActivityRepository
}

func NewActivityHandler(repo repositories.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// GetActivity handles GET /api/v1/activity?field_id=&limit=
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	fieldID, _ := strconv.Atoi(c.Query("field_id"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	var err error
	var data interface{}
	if fieldID > 0 {
		data, err = h.repo.GetByFieldID(fieldID, limit)
	} else {
		data, err = h.repo.GetRecent(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}
