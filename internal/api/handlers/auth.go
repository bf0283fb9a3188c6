package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/api/middleware"
	"github.com/medcart/pharmacy-api/internal/config"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/internal/service"
)

// HandleRegister handles POST /api/auth/register
func HandleRegister(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	identity := service.NewIdentityService(repos, cfg.JWT, logger)

	return func(c *gin.Context) {
		var req service.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		user, err := identity.Register(c.Request.Context(), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
		})
	}
}

// HandleGetProfile handles GET /api/auth/me
func HandleGetProfile(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := repos.User.GetByID(c.Request.Context(), userID)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"phone":      user.Phone,
			"role":       user.Role,
		})
	}
}

// HandleLogin handles POST /api/auth/login
func HandleLogin(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	identity := service.NewIdentityService(repos, cfg.JWT, logger)

	return func(c *gin.Context) {
		var req service.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		resp, err := identity.Login(c.Request.Context(), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
