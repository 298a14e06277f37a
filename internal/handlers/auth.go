package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jspittman/stockledger/internal/models"
)

// Register handles POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), req.Username, req.Password, req.Confirmation)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /api/login. It verifies credentials and returns
// the user; callers thread the user id through subsequent requests.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
