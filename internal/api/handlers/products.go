package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/internal/service"
)

// HandleListProducts handles GET /api/products
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	products := service.NewProductService(repos, logger)

	return func(c *gin.Context) {
		filter := repository.ProductFilter{
			Search: c.Query("search"),
			Limit:  intQuery(c, "limit", 20),
			Offset: intQuery(c, "offset", 0),
		}

		if categoryStr := c.Query("category_id"); categoryStr != "" {
			categoryID, err := uuid.Parse(categoryStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
				return
			}
			filter.CategoryID = &categoryID
		}

		items, total, err := products.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": items,
			"total":    total,
		})
	}
}

// HandleGetProduct handles GET /api/products/:id
func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	products := service.NewProductService(repos, logger)

	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := products.Get(c.Request.Context(), productID)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// HandleListCategories handles GET /api/categories
func HandleListCategories(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := repos.Category.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
