package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/pricing"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type cartService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(repos *repository.Repositories, logger *zap.Logger) *cartService {
	return &cartService{repos: repos, logger: logger}
}

// GetCart returns the user's cart, creating an empty one on first use
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.repos.Cart.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if _, ok := err.(*errors.ErrNotFound); !ok {
		return nil, err
	}

	cart = &domain.Cart{UserID: userID}
	if err := s.repos.Cart.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Summary prices the cart through the pricing engine, line by line
func (s *cartService) Summary(ctx context.Context, userID uuid.UUID) (*CartSummary, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SummarizeCart(cart), nil
}

// SummarizeCart builds the priced view of a cart snapshot. All money and
// free-unit numbers come from the pricing engine so every surface that
// renders a cart shows the same figures.
func SummarizeCart(cart *domain.Cart) *CartSummary {
	summary := &CartSummary{CartID: cart.ID, Total: decimal.Zero}
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			continue
		}
		pricingItem := item.Product.PricingItem()
		lineTotal := pricing.ChargedTotal(pricingItem, item.Quantity)
		summary.Lines = append(summary.Lines, CartLineSummary{
			ItemID:       item.ID,
			Product:      item.Product,
			Quantity:     item.Quantity,
			FreeQuantity: pricing.FreeUnits(pricingItem, item.Quantity),
			LineTotal:    lineTotal,
		})
		summary.ItemCount += item.Quantity
		summary.Total = summary.Total.Add(lineTotal)
	}
	return summary
}

// AddItem adds a product to the cart, merging with an existing line for the
// same product. The merged quantity must fit in stock.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.repos.Product.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity < req.Quantity {
		return nil, &errors.ErrInsufficientStock{Product: product.Name}
	}

	existing, err := s.repos.Cart.FindItem(ctx, cart.ID, product.ID)
	if err == nil {
		newQuantity := existing.Quantity + req.Quantity
		if product.StockQuantity < newQuantity {
			return nil, &errors.ErrInsufficientStock{Product: product.Name}
		}
		if err := s.repos.Cart.UpdateItemQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, err
		}
		return s.repos.Cart.GetByUserID(ctx, userID)
	}
	if _, ok := err.(*errors.ErrNotFound); !ok {
		return nil, err
	}

	item := &domain.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
	}
	if err := s.repos.Cart.AddItem(ctx, item); err != nil {
		return nil, err
	}

	return s.repos.Cart.GetByUserID(ctx, userID)
}

// UpdateItemQuantity changes a cart line's quantity after ownership and
// stock checks.
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repos.Cart.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, &errors.ErrForbidden{Message: "cart item does not belong to user"}
	}

	product, err := s.repos.Product.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity < quantity {
		return nil, &errors.ErrInsufficientStock{Product: product.Name}
	}

	if err := s.repos.Cart.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, err
	}

	return s.repos.Cart.GetByUserID(ctx, userID)
}

// RemoveItem deletes a cart line after an ownership check
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repos.Cart.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, &errors.ErrForbidden{Message: "cart item does not belong to user"}
	}

	if err := s.repos.Cart.RemoveItem(ctx, itemID); err != nil {
		return nil, err
	}

	return s.repos.Cart.GetByUserID(ctx, userID)
}

// Clear removes every line from the user's cart
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.repos.Cart.Clear(ctx, cart.ID)
}
