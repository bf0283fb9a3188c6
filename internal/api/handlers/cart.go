package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/api/middleware"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/internal/service"
)

// HandleGetCart handles GET /api/cart
func HandleGetCart(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	carts := service.NewCartService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		summary, err := carts.Summary(c.Request.Context(), userID)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

// HandleAddCartItem handles POST /api/cart/items
func HandleAddCartItem(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	carts := service.NewCartService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		cart, err := carts.AddItem(c.Request.Context(), userID, req)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		// The added-to-cart summary reuses the same pricing computation as
		// the cart view.
		c.JSON(http.StatusOK, service.SummarizeCart(cart))
	}
}

// HandleUpdateCartItem handles PUT /api/cart/items/:itemId
func HandleUpdateCartItem(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	carts := service.NewCartService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		itemID, err := uuid.Parse(c.Param("itemId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item ID"})
			return
		}

		var req service.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		cart, err := carts.UpdateItemQuantity(c.Request.Context(), userID, itemID, req.Quantity)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, service.SummarizeCart(cart))
	}
}

// HandleRemoveCartItem handles DELETE /api/cart/items/:itemId
func HandleRemoveCartItem(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	carts := service.NewCartService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		itemID, err := uuid.Parse(c.Param("itemId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item ID"})
			return
		}

		cart, err := carts.RemoveItem(c.Request.Context(), userID, itemID)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, service.SummarizeCart(cart))
	}
}

// HandleClearCart handles DELETE /api/cart/clear
func HandleClearCart(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	carts := service.NewCartService(repos, logger)

	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := carts.Clear(c.Request.Context(), userID); err != nil {
			writeError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
