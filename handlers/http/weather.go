package httpHandler

import (
	"net/http"
	"strconv"
	"strings"

	"aquasmart/services"

	"github.com/gin-gonic/gin"
)

type WeatherHandler struct {
	dashboard *services.DashboardService
}

func NewWeatherHandler(dashboard *services.DashboardService) *WeatherHandler {
	return &WeatherHandler{dashboard: dashboard}
}

// GetWeather handles GET /api/v1/weather?ilce=a,b
// Without ilce the districts of the user's fields are used.
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	var districts []string
	for _, d := range strings.Split(c.Query("ilce"), ",") {
		if d = strings.TrimSpace(d); d != "" {
			districts = append(districts, d)
		}
	}

	if len(districts) == 0 {
		views, err := h.dashboard.FieldViews(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		districts = services.FieldDistricts(views)
	}

	results := h.dashboard.WeatherBatch(c.Request.Context(), districts)
	c.JSON(http.StatusOK, gin.H{"data": results, "count": len(results)})
}

// GetHourly handles GET /api/v1/weather/:ilce/hourly?saat=
func (h *WeatherHandler) GetHourly(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("saat", "24"))
	forecast := h.dashboard.HourlyForecast(c.Request.Context(), c.Param("ilce"), hours)
	c.JSON(http.StatusOK, gin.H{"data": forecast})
}

// GetDistricts handles GET /api/v1/weather/districts
func (h *WeatherHandler) GetDistricts(c *gin.Context) {
	districts, err := h.dashboard.Districts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": districts})
}
