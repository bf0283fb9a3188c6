package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/api/middleware"
	"github.com/medcart/pharmacy-api/internal/checkout"
	"github.com/medcart/pharmacy-api/internal/domain"
)

// ShippingRequest selects the shipping destination: either a saved address
// by ID, or a complete new address, optionally saved for later.
type ShippingRequest struct {
	AddressID *uuid.UUID `json:"address_id,omitempty"`
	Street    string     `json:"street,omitempty"`
	City      string     `json:"city,omitempty"`
	State     string     `json:"state,omitempty"`
	ZipCode   string     `json:"zip_code,omitempty"`
	Country   string     `json:"country,omitempty"`
	Save      bool       `json:"save"`
}

// PaymentRequest selects one of the two payment methods
type PaymentRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required"`
}

type checkoutStateResponse struct {
	State           checkout.State       `json:"state"`
	ShippingAddress string               `json:"shipping_address,omitempty"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method,omitempty"`
	Total           string               `json:"total"`
}

func stateResponse(flow *checkout.Flow) checkoutStateResponse {
	draft := flow.Draft()
	return checkoutStateResponse{
		State:           flow.State(),
		ShippingAddress: draft.ShippingAddress,
		PaymentMethod:   draft.PaymentMethod,
		Total:           flow.Total().String(),
	}
}

// writeFlowError distinguishes local validation problems from collaborator
// failures: the former are the caller's to fix, the latter are transient and
// retryable because the flow state was not advanced.
func writeFlowError(c *gin.Context, logger *zap.Logger, err error) {
	switch err {
	case checkout.ErrEmptyCart,
		checkout.ErrIncompleteAddress,
		checkout.ErrInvalidPayment,
		checkout.ErrAddressNotFound:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case checkout.ErrFlowNotStarted,
		checkout.ErrShippingNotSelected,
		checkout.ErrPaymentNotSelected,
		checkout.ErrAlreadyPlaced,
		checkout.ErrPlacementInFlight:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		writeError(c, logger, err)
	}
}

// HandleStartCheckout handles POST /api/checkout
func HandleStartCheckout(flows *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		flow := flows.Begin(userID)
		if err := flow.Start(c.Request.Context()); err != nil {
			flows.Finish(userID)
			writeFlowError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, stateResponse(flow))
	}
}

// HandleCheckoutState handles GET /api/checkout
func HandleCheckoutState(flows *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		flow, ok := flows.Current(userID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active checkout"})
			return
		}

		c.JSON(http.StatusOK, stateResponse(flow))
	}
}

// HandleSelectShipping handles POST /api/checkout/shipping
func HandleSelectShipping(flows *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		flow, ok := flows.Current(userID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active checkout"})
			return
		}

		var req ShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		var err error
		if req.AddressID != nil {
			err = flow.SelectSavedAddress(c.Request.Context(), *req.AddressID)
		} else {
			err = flow.EnterNewAddress(c.Request.Context(), checkout.NewAddress{
				Street:  req.Street,
				City:    req.City,
				State:   req.State,
				ZipCode: req.ZipCode,
				Country: req.Country,
				Save:    req.Save,
			})
		}
		if err != nil {
			writeFlowError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, stateResponse(flow))
	}
}

// HandleSelectPayment handles POST /api/checkout/payment
func HandleSelectPayment(flows *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		flow, ok := flows.Current(userID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active checkout"})
			return
		}

		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := flow.SelectPayment(req.Method); err != nil {
			writeFlowError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, stateResponse(flow))
	}
}

// HandlePlaceOrder handles POST /api/checkout/place-order
func HandlePlaceOrder(flows *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		flow, ok := flows.Current(userID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active checkout"})
			return
		}

		order, err := flow.PlaceOrder(c.Request.Context())
		if err != nil {
			// The flow keeps its state and draft; the caller may retry.
			writeFlowError(c, logger, err)
			return
		}

		flows.Finish(userID)

		c.JSON(http.StatusCreated, gin.H{
			"order_id":     order.ID,
			"total_amount": order.TotalAmount,
			"status":       order.Status,
		})
	}
}

// HandleCheckoutBack handles POST /api/checkout/back
func HandleCheckoutBack(flows *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		flow, ok := flows.Current(userID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active checkout"})
			return
		}

		if err := flow.Back(); err != nil {
			writeFlowError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, stateResponse(flow))
	}
}
