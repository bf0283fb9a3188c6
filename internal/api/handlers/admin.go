package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/internal/service"
)

// UpdateOrderStatusRequest represents an admin status change
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// HandleAdminListOrders handles GET /api/admin/orders
func HandleAdminListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	orders := service.NewOrderService(repos, logger)

	return func(c *gin.Context) {
		filter := repository.OrderFilter{
			Limit:  intQuery(c, "limit", 20),
			Offset: intQuery(c, "offset", 0),
		}

		if statusStr := c.Query("status"); statusStr != "" {
			status := domain.OrderStatus(statusStr)
			if !status.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
				return
			}
			filter.Status = &status
		}

		list, total, err := orders.ListOrders(c.Request.Context(), filter)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": list,
			"total":  total,
		})
	}
}

// HandleAdminUpdateOrderStatus handles PUT /api/admin/orders/:id/status
func HandleAdminUpdateOrderStatus(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	orders := service.NewOrderService(repos, logger)

	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// HandleAdminCreateProduct handles POST /api/admin/products
func HandleAdminCreateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	products := service.NewProductService(repos, logger)

	return func(c *gin.Context) {
		var req service.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		product, err := products.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

// HandleAdminUpdateProduct handles PUT /api/admin/products/:id
func HandleAdminUpdateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	products := service.NewProductService(repos, logger)

	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req service.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		product, err := products.Update(c.Request.Context(), productID, req)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// HandleAdminDeleteProduct handles DELETE /api/admin/products/:id
func HandleAdminDeleteProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	products := service.NewProductService(repos, logger)

	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		if err := products.Delete(c.Request.Context(), productID); err != nil {
			writeError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleAdminCreateCategory handles POST /api/admin/categories
func HandleAdminCreateCategory(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
			Slug        string `json:"slug" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		category := &domain.Category{
			Name:        req.Name,
			Description: req.Description,
			Slug:        req.Slug,
		}
		if err := repos.Category.Create(c.Request.Context(), category); err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

// HandleAdminListUsers handles GET /api/admin/users
func HandleAdminListUsers(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, total, err := repos.User.List(c.Request.Context(), intQuery(c, "limit", 20), intQuery(c, "offset", 0))
		if err != nil {
			writeError(c, logger, err)
			return
		}

		// Password hashes stay server-side.
		type userView struct {
			ID        uuid.UUID       `json:"id"`
			Email     string          `json:"email"`
			FirstName string          `json:"first_name"`
			LastName  string          `json:"last_name"`
			Role      domain.UserRole `json:"role"`
			IsActive  bool            `json:"is_active"`
		}
		views := make([]userView, len(users))
		for i, u := range users {
			views[i] = userView{
				ID:        u.ID,
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Role:      u.Role,
				IsActive:  u.IsActive,
			}
		}

		c.JSON(http.StatusOK, gin.H{"users": views, "total": total})
	}
}

// HandleAdminSetUserActive handles PUT /api/admin/users/:id/active
func HandleAdminSetUserActive(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
			return
		}

		var req struct {
			Active *bool `json:"active" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := repos.User.SetActive(c.Request.Context(), userID, *req.Active); err != nil {
			writeError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
