package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/api/middleware"
	"github.com/medcart/pharmacy-api/internal/checkout"
	"github.com/medcart/pharmacy-api/internal/domain"
)

const testSecret = "handler-test-secret"

type fakeCartReader struct {
	cart *domain.Cart
}

func (f *fakeCartReader) GetCart(_ context.Context, _ uuid.UUID) (*domain.Cart, error) {
	return f.cart, nil
}

type fakeAddressBook struct {
	saved []domain.Address
}

func (f *fakeAddressBook) ListAddresses(_ context.Context, _ uuid.UUID) ([]domain.Address, error) {
	return f.saved, nil
}

func (f *fakeAddressBook) SaveAddress(_ context.Context, userID uuid.UUID, addr domain.Address) (*domain.Address, error) {
	addr.ID = uuid.New()
	addr.UserID = userID
	f.saved = append(f.saved, addr)
	return &addr, nil
}

type fakeOrderPlacer struct {
	failuresLeft int
	placed       []checkout.Draft
}

func (f *fakeOrderPlacer) PlaceOrder(_ context.Context, userID uuid.UUID, draft checkout.Draft) (*domain.Order, error) {
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, errors.New("order backend unavailable")
	}
	f.placed = append(f.placed, draft)
	return &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalAmount: decimal.NewFromInt(57),
		Status:      domain.OrderStatusPending,
	}, nil
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(domain.UserRoleCustomer),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func checkoutRouter(flows *checkout.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	router := gin.New()
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(testSecret, logger))
	authed.POST("/checkout", HandleStartCheckout(flows, logger))
	authed.GET("/checkout", HandleCheckoutState(flows, logger))
	authed.POST("/checkout/shipping", HandleSelectShipping(flows, logger))
	authed.POST("/checkout/payment", HandleSelectPayment(flows, logger))
	authed.POST("/checkout/place-order", HandlePlaceOrder(flows, logger))
	authed.POST("/checkout/back", HandleCheckoutBack(flows, logger))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func bundleCart(userID uuid.UUID) *domain.Cart {
	buy, free := 3, 1
	bundlePrice := decimal.NewFromInt(27)
	product := &domain.Product{
		ID:                 uuid.New(),
		Name:               "Paracetamol 500mg",
		Price:              decimal.NewFromInt(10),
		StockQuantity:      50,
		IsBundleOffer:      true,
		BundleBuyQuantity:  &buy,
		BundleFreeQuantity: &free,
		BundlePrice:        &bundlePrice,
	}
	return &domain.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items: []domain.CartItem{
			{ID: uuid.New(), ProductID: product.ID, Product: product, Quantity: 7},
		},
	}
}

func TestCheckoutEndpoints(t *testing.T) {
	userID := uuid.New()
	auth := bearerToken(t, userID)

	t.Run("walks cart to placed order, retrying a failed placement", func(t *testing.T) {
		placer := &fakeOrderPlacer{failuresLeft: 1}
		flows := checkout.NewManager(
			&fakeCartReader{cart: bundleCart(userID)},
			&fakeAddressBook{},
			placer,
			zap.NewNop(),
		)
		router := checkoutRouter(flows)

		rec := doJSON(t, router, http.MethodPost, "/api/checkout", auth, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var state checkoutStateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, checkout.StateCart, state.State)
		assert.Equal(t, "57", state.Total)

		rec = doJSON(t, router, http.MethodPost, "/api/checkout/shipping", auth, ShippingRequest{
			Street: "12 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, checkout.StateShippingSelected, state.State)

		rec = doJSON(t, router, http.MethodPost, "/api/checkout/payment", auth, PaymentRequest{
			Method: domain.PaymentMethodCOD,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, checkout.StatePaymentSelected, state.State)

		// First placement fails; the flow stays put for a retry.
		rec = doJSON(t, router, http.MethodPost, "/api/checkout/place-order", auth, nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/checkout", auth, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, checkout.StatePaymentSelected, state.State)
		assert.Equal(t, domain.PaymentMethodCOD, state.PaymentMethod)

		rec = doJSON(t, router, http.MethodPost, "/api/checkout/place-order", auth, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, placer.placed, 1)
		assert.Equal(t, domain.PaymentMethodCOD, placer.placed[0].PaymentMethod)

		// The completed flow is gone; state queries now miss.
		rec = doJSON(t, router, http.MethodGet, "/api/checkout", auth, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty cart cannot start", func(t *testing.T) {
		flows := checkout.NewManager(
			&fakeCartReader{cart: &domain.Cart{ID: uuid.New(), UserID: userID}},
			&fakeAddressBook{},
			&fakeOrderPlacer{},
			zap.NewNop(),
		)
		router := checkoutRouter(flows)

		rec := doJSON(t, router, http.MethodPost, "/api/checkout", auth, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("payment before shipping conflicts", func(t *testing.T) {
		flows := checkout.NewManager(
			&fakeCartReader{cart: bundleCart(userID)},
			&fakeAddressBook{},
			&fakeOrderPlacer{},
			zap.NewNop(),
		)
		router := checkoutRouter(flows)

		rec := doJSON(t, router, http.MethodPost, "/api/checkout", auth, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/api/checkout/payment", auth, PaymentRequest{
			Method: domain.PaymentMethodCOD,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("back from payment clears the method only", func(t *testing.T) {
		flows := checkout.NewManager(
			&fakeCartReader{cart: bundleCart(userID)},
			&fakeAddressBook{},
			&fakeOrderPlacer{},
			zap.NewNop(),
		)
		router := checkoutRouter(flows)

		doJSON(t, router, http.MethodPost, "/api/checkout", auth, nil)
		doJSON(t, router, http.MethodPost, "/api/checkout/shipping", auth, ShippingRequest{
			Street: "12 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA",
		})
		doJSON(t, router, http.MethodPost, "/api/checkout/payment", auth, PaymentRequest{
			Method: domain.PaymentMethodOnline,
		})

		rec := doJSON(t, router, http.MethodPost, "/api/checkout/back", auth, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var state checkoutStateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, checkout.StateShippingSelected, state.State)
		assert.Empty(t, state.PaymentMethod)
		assert.NotEmpty(t, state.ShippingAddress)
	})

	t.Run("requests without a token are unauthorized", func(t *testing.T) {
		flows := checkout.NewManager(
			&fakeCartReader{cart: bundleCart(userID)},
			&fakeAddressBook{},
			&fakeOrderPlacer{},
			zap.NewNop(),
		)
		router := checkoutRouter(flows)

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
