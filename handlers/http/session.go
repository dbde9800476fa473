package httpHandler

import (
	"net/http"

	"aquasmart/api"
	"aquasmart/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionHandler struct {
	store *session.Store
	log   *zap.SugaredLogger
}

func NewSessionHandler(store *session.Store, log *zap.SugaredLogger) *SessionHandler {
	return &SessionHandler{store: store, log: log}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, err := h.store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Infof("login failed for %s: %v", req.Email, err)
		code, body := errorResponse(err)
		if api.Classify(err) == api.KindUnauthorized {
			body["error"] = api.Detail(err)
		}
		c.JSON(code, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user, "success": true})
}

// Register handles POST /api/v1/session/register
func (h *SessionHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, err := h.store.Register(c.Request.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		code, body := errorResponse(err)
		body["error"] = api.Detail(err)
		c.JSON(code, body)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user, "success": true})
}

// Logout handles DELETE /api/v1/session
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.store.Logout(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Current handles GET /api/v1/session
func (h *SessionHandler) Current(c *gin.Context) {
	user := h.store.Current()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}
