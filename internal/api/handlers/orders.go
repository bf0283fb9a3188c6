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

// CreateOrderRequest represents a direct order creation, used when the
// client drives the checkout steps itself
type CreateOrderRequest struct {
	ShippingAddress string               `json:"shipping_address" binding:"required"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method" binding:"required"`
	AddressID       *uuid.UUID           `json:"address_id,omitempty"`
}

// HandleCreateOrder handles POST /api/orders
func HandleCreateOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	orders := service.NewOrderService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		order, err := orders.CreateOrder(c.Request.Context(), userID, req.ShippingAddress, req.PaymentMethod, req.AddressID)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

// HandleListOrders handles GET /api/orders
func HandleListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	orders := service.NewOrderService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		list, err := orders.GetUserOrders(c.Request.Context(), userID)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

// HandleGetOrder handles GET /api/orders/:id
func HandleGetOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	orders := service.NewOrderService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		role, _ := middleware.GetRoleFromContext(c)

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := orders.GetOrder(c.Request.Context(), userID, role, orderID)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
