package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth-gateway/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login resolves a credential pair against every partition and
// returns a signed role-scoped token on success. Not-found and
// wrong-password stay distinct statuses, but an unreachable partition
// that held the account also surfaces as not-found.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	res, err := h.aggregator.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid password"})
		default:
			h.logger.Error("login failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": res.Token,
		"user":  res.User,
	})
}
