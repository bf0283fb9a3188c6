package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type stubCartRepo struct {
	cart *domain.Cart
}

func (s *stubCartRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Cart, error) {
	if s.cart == nil || s.cart.UserID != userID {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: userID.String()}
	}
	return s.cart, nil
}
func (s *stubCartRepo) Create(_ context.Context, cart *domain.Cart) error { s.cart = cart; return nil }
func (s *stubCartRepo) AddItem(_ context.Context, _ *domain.CartItem) error { return nil }
func (s *stubCartRepo) GetItem(_ context.Context, itemID uuid.UUID) (*domain.CartItem, error) {
	return nil, &errors.ErrNotFound{Resource: "cart item", ID: itemID.String()}
}
func (s *stubCartRepo) FindItem(_ context.Context, _, productID uuid.UUID) (*domain.CartItem, error) {
	return nil, &errors.ErrNotFound{Resource: "cart item", ID: productID.String()}
}
func (s *stubCartRepo) UpdateItemQuantity(_ context.Context, _ uuid.UUID, _ int) error { return nil }
func (s *stubCartRepo) RemoveItem(_ context.Context, _ uuid.UUID) error               { return nil }
func (s *stubCartRepo) Clear(_ context.Context, _ uuid.UUID) error                    { return nil }

type stubOrderRepo struct {
	created *domain.Order
	byID    map[uuid.UUID]*domain.Order
	updated map[uuid.UUID]domain.OrderStatus
}

func (s *stubOrderRepo) Create(_ context.Context, order *domain.Order, _ uuid.UUID) error {
	order.ID = uuid.New()
	s.created = order
	return nil
}
func (s *stubOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if o, ok := s.byID[id]; ok {
		return o, nil
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
}
func (s *stubOrderRepo) ListByUserID(_ context.Context, _ uuid.UUID) ([]domain.Order, error) {
	return nil, nil
}
func (s *stubOrderRepo) List(_ context.Context, _ repository.OrderFilter) ([]domain.Order, int, error) {
	return nil, 0, nil
}
func (s *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if s.updated == nil {
		s.updated = map[uuid.UUID]domain.OrderStatus{}
	}
	s.updated[id] = status
	return nil
}

func intPtr(v int) *int                         { return &v }
func decPtr(v decimal.Decimal) *decimal.Decimal { return &v }

func bundleProduct(stock int) *domain.Product {
	return &domain.Product{
		ID:                 uuid.New(),
		Name:               "Paracetamol 500mg",
		Price:              decimal.NewFromInt(10),
		StockQuantity:      stock,
		IsBundleOffer:      true,
		BundleBuyQuantity:  intPtr(3),
		BundleFreeQuantity: intPtr(1),
		BundlePrice:        decPtr(decimal.NewFromInt(27)),
	}
}

func plainProduct(price int64, stock int) *domain.Product {
	return &domain.Product{
		ID:            uuid.New(),
		Name:          "Vitamin C",
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
	}
}

func cartWith(userID uuid.UUID, items ...domain.CartItem) *domain.Cart {
	return &domain.Cart{ID: uuid.New(), UserID: userID, Items: items}
}

func cartLine(p *domain.Product, qty int) domain.CartItem {
	return domain.CartItem{ID: uuid.New(), ProductID: p.ID, Product: p, Quantity: qty}
}

func TestOrderService_CreateOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("prices each line through the bundle engine", func(t *testing.T) {
		bundle := bundleProduct(10)
		plain := plainProduct(5, 10)
		orderRepo := &stubOrderRepo{}
		svc := NewOrderService(&repository.Repositories{
			Cart:  &stubCartRepo{cart: cartWith(userID, cartLine(bundle, 4), cartLine(plain, 1))},
			Order: orderRepo,
		}, zap.NewNop())

		order, err := svc.CreateOrder(context.Background(), userID, "12 Main St", domain.PaymentMethodCOD, nil)

		require.NoError(t, err)
		// Four of the bundle item cost the flat bundle price, not 4 * 10.
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(32)),
			"expected 32, got %s", order.TotalAmount)
		require.Len(t, order.Items, 2)
		assert.Equal(t, 1, order.Items[0].FreeQuantity)
		assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(27)))
		assert.Equal(t, 0, order.Items[1].FreeQuantity)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Same(t, order, orderRepo.created)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		svc := NewOrderService(&repository.Repositories{
			Cart:  &stubCartRepo{cart: cartWith(userID)},
			Order: &stubOrderRepo{},
		}, zap.NewNop())

		_, err := svc.CreateOrder(context.Background(), userID, "12 Main St", domain.PaymentMethodCOD, nil)

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
	})

	t.Run("rejects a missing shipping address", func(t *testing.T) {
		svc := NewOrderService(&repository.Repositories{}, zap.NewNop())

		_, err := svc.CreateOrder(context.Background(), userID, "", domain.PaymentMethodCOD, nil)

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
	})

	t.Run("rejects an unknown payment method", func(t *testing.T) {
		svc := NewOrderService(&repository.Repositories{}, zap.NewNop())

		_, err := svc.CreateOrder(context.Background(), userID, "12 Main St", domain.PaymentMethod("CHEQUE"), nil)

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
	})

	t.Run("rejects quantities above available stock", func(t *testing.T) {
		low := plainProduct(5, 2)
		svc := NewOrderService(&repository.Repositories{
			Cart:  &stubCartRepo{cart: cartWith(userID, cartLine(low, 3))},
			Order: &stubOrderRepo{},
		}, zap.NewNop())

		_, err := svc.CreateOrder(context.Background(), userID, "12 Main St", domain.PaymentMethodCOD, nil)

		var stockErr *errors.ErrInsufficientStock
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Vitamin C", stockErr.Product)
	})
}

func TestOrderService_GetOrder(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	orderID := uuid.New()
	orderRepo := &stubOrderRepo{byID: map[uuid.UUID]*domain.Order{
		orderID: {ID: orderID, UserID: owner, Status: domain.OrderStatusPending},
	}}
	svc := NewOrderService(&repository.Repositories{Order: orderRepo}, zap.NewNop())

	t.Run("owner can read their order", func(t *testing.T) {
		order, err := svc.GetOrder(context.Background(), owner, domain.UserRoleCustomer, orderID)
		require.NoError(t, err)
		assert.Equal(t, orderID, order.ID)
	})

	t.Run("another customer cannot", func(t *testing.T) {
		_, err := svc.GetOrder(context.Background(), stranger, domain.UserRoleCustomer, orderID)
		var forbidden *errors.ErrForbidden
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("admin can read any order", func(t *testing.T) {
		_, err := svc.GetOrder(context.Background(), stranger, domain.UserRoleAdmin, orderID)
		assert.NoError(t, err)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	newSvc := func(status domain.OrderStatus) (*orderService, *stubOrderRepo) {
		repo := &stubOrderRepo{byID: map[uuid.UUID]*domain.Order{
			orderID: {ID: orderID, Status: status},
		}}
		return NewOrderService(&repository.Repositories{Order: repo}, zap.NewNop()), repo
	}

	t.Run("allows pending to confirmed", func(t *testing.T) {
		svc, repo := newSvc(domain.OrderStatusPending)

		order, err := svc.UpdateStatus(context.Background(), orderID, domain.OrderStatusConfirmed)

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
		assert.Equal(t, domain.OrderStatusConfirmed, repo.updated[orderID])
	})

	t.Run("rejects delivered back to pending", func(t *testing.T) {
		svc, _ := newSvc(domain.OrderStatusDelivered)

		_, err := svc.UpdateStatus(context.Background(), orderID, domain.OrderStatusPending)

		var transition *errors.ErrInvalidStateTransition
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, "DELIVERED", transition.From)
	})

	t.Run("rejects an unknown status outright", func(t *testing.T) {
		svc, _ := newSvc(domain.OrderStatusPending)

		_, err := svc.UpdateStatus(context.Background(), orderID, domain.OrderStatus("MISPLACED"))

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
	})
}
