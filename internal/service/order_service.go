package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/checkout"
	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/pricing"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type orderService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, logger *zap.Logger) *orderService {
	return &orderService{repos: repos, logger: logger}
}

// PlaceOrder finalizes a checkout flow draft. Implements checkout.OrderPlacer.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, draft checkout.Draft) (*domain.Order, error) {
	return s.CreateOrder(ctx, userID, draft.ShippingAddress, draft.PaymentMethod, draft.AddressID)
}

// CreateOrder converts the user's cart into an order. Each line's subtotal
// and free-unit count come from the pricing engine, so the stored order
// matches what the cart displayed. The order, its items, the stock
// decrements and the cart clear commit in one transaction; on any failure
// no order exists and the cart is untouched.
func (s *orderService) CreateOrder(
	ctx context.Context,
	userID uuid.UUID,
	shippingAddress string,
	paymentMethod domain.PaymentMethod,
	addressID *uuid.UUID,
) (*domain.Order, error) {
	if shippingAddress == "" {
		return nil, &errors.ErrValidation{Message: "shipping address is required"}
	}
	if !paymentMethod.IsValid() {
		return nil, &errors.ErrValidation{Message: "payment method must be COD or ONLINE"}
	}

	cart, err := s.repos.Cart.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, &errors.ErrValidation{Message: "cart is empty"}
	}

	order := &domain.Order{
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
		AddressID:       addressID,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
	}

	total := decimal.Zero
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			return nil, &errors.ErrNotFound{Resource: "product", ID: item.ProductID.String()}
		}
		if item.Product.StockQuantity < item.Quantity {
			return nil, &errors.ErrInsufficientStock{Product: item.Product.Name}
		}

		pricingItem := item.Product.PricingItem()
		subtotal := pricing.ChargedTotal(pricingItem, item.Quantity)
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.Product.Name,
			Quantity:     item.Quantity,
			UnitPrice:    item.Product.Price,
			FreeQuantity: pricing.FreeUnits(pricingItem, item.Quantity),
			Subtotal:     subtotal,
		})
		total = total.Add(subtotal)
	}
	order.TotalAmount = total

	if err := s.repos.Order.Create(ctx, order, cart.ID); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.TotalAmount.String()),
	)

	return order, nil
}

// GetUserOrders lists the user's orders, newest first
func (s *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.repos.Order.ListByUserID(ctx, userID)
}

// GetOrder fetches one order; non-admin callers must own it
func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, role domain.UserRole, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role != domain.UserRoleAdmin && order.UserID != userID {
		return nil, &errors.ErrForbidden{Message: "order does not belong to user"}
	}
	return order, nil
}

// ListOrders lists all orders for the admin back-office
func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	return s.repos.Order.List(ctx, filter)
}

// UpdateStatus moves an order through its status state machine. Transitions
// not allowed by the state machine are rejected.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, &errors.ErrValidation{Message: "unknown order status"}
	}

	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, &errors.ErrInvalidStateTransition{
			From: string(order.Status),
			To:   string(status),
		}
	}

	if err := s.repos.Order.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	order.Status = status
	return order, nil
}
