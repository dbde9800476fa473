package httpHandler

import (
	"errors"
	"net/http"

	"aquasmart/api"
	"aquasmart/entities"
	"aquasmart/irrigation"
	"aquasmart/services"
	"aquasmart/session"
	"aquasmart/usecases"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// RequireUser aborts with 401 unless someone is logged in, and stores the
// user on the context otherwise.
func RequireUser(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := store.Current()
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
			return
		}
		c.Set(userKey, *user)
		c.Next()
	}
}

func currentUser(c *gin.Context) entities.User {
	u, _ := c.Get(userKey)
	user, _ := u.(entities.User)
	return user
}

// respondError maps domain and backend errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	code, body := errorResponse(err)
	c.JSON(code, body)
}

func errorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized, gin.H{"error": err.Error()}
	case errors.Is(err, services.ErrFieldNotFound), errors.Is(err, usecases.ErrNoActiveRun):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, services.ErrAlreadyPlanted), errors.Is(err, usecases.ErrWateringActive):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, services.ErrPasswordNeeded), errors.Is(err, services.ErrFieldIncomplete),
		errors.Is(err, usecases.ErrInvalidDuration), errors.Is(err, usecases.ErrFieldRequired),
		errors.Is(err, irrigation.ErrInvalidTime):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.Is(err, api.ErrDecode):
		return http.StatusBadGateway, gin.H{"error": api.UserMessage(err), "kind": api.KindServer.String(), "details": err.Error()}
	}

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		if api.IsTransport(err) {
			return http.StatusBadGateway, gin.H{"error": api.UserMessage(err), "kind": api.KindNetwork.String()}
		}
		return http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()}
	}

	kind := api.Classify(err)
	body := gin.H{"error": api.Detail(err), "kind": kind.String(), "backend_status": apiErr.StatusCode}
	switch kind {
	case api.KindUnauthorized:
		body["error"] = api.UserMessage(err)
		return http.StatusUnauthorized, body
	case api.KindNotImplemented:
		return http.StatusNotImplemented, body
	}
	if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode, body
	}
	return http.StatusBadGateway, body
}
