package controllers

import (
	"net/http"

	"storefront/middleware"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Login(c *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	session, err := ctl.Auth.Login(input.Password)
	if err != nil {
		ctl.fail(c, "log in", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login success", "data": session})
}

func (ctl *Controller) Logout(c *gin.Context) {
	claims, ok := middleware.AdminClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	if err := ctl.Auth.Logout(c.Request.Context(), claims); err != nil {
		ctl.fail(c, "log out", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
