package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/api/middleware"
	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/internal/service"
)

// HandleListAddresses handles GET /api/addresses
func HandleListAddresses(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	addresses := service.NewAddressService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		list, err := addresses.ListAddresses(c.Request.Context(), userID)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": list})
	}
}

// HandleCreateAddress handles POST /api/addresses
func HandleCreateAddress(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	addresses := service.NewAddressService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		address, err := addresses.SaveAddress(c.Request.Context(), userID, domain.Address{
			Street:    req.Street,
			City:      req.City,
			State:     req.State,
			ZipCode:   req.ZipCode,
			Country:   req.Country,
			IsDefault: req.IsDefault,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, address)
	}
}

// HandleUpdateAddress handles PUT /api/addresses/:id
func HandleUpdateAddress(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	addresses := service.NewAddressService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address ID"})
			return
		}

		var req service.AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		address, err := addresses.UpdateAddress(c.Request.Context(), userID, addressID, req)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, address)
	}
}

// HandleDeleteAddress handles DELETE /api/addresses/:id
func HandleDeleteAddress(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	addresses := service.NewAddressService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address ID"})
			return
		}

		if err := addresses.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
			writeError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
