package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medcart/pharmacy-api/internal/domain"
)

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     *string `json:"phone,omitempty"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the authenticated user
type AuthResponse struct {
	Token     string          `json:"token"`
	Type      string          `json:"type"`
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      domain.UserRole `json:"role"`
}

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest changes a cart line's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// AddressRequest creates or updates a saved address
type AddressRequest struct {
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zip_code" binding:"required"`
	Country   string `json:"country" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// ProductRequest creates or updates a catalog product
type ProductRequest struct {
	Name                   string           `json:"name" binding:"required"`
	Description            *string          `json:"description,omitempty"`
	Manufacturer           *string          `json:"manufacturer,omitempty"`
	Price                  decimal.Decimal  `json:"price" binding:"required"`
	StockQuantity          int              `json:"stock_quantity" binding:"min=0"`
	CategoryID             uuid.UUID        `json:"category_id" binding:"required"`
	ImageURLs              []string         `json:"image_urls,omitempty"`
	ExpiryDate             *string          `json:"expiry_date,omitempty"`
	IsPrescriptionRequired bool             `json:"is_prescription_required"`
	IsBundleOffer          bool             `json:"is_bundle_offer"`
	BundleBuyQuantity      *int             `json:"bundle_buy_quantity,omitempty"`
	BundleFreeQuantity     *int             `json:"bundle_free_quantity,omitempty"`
	BundlePrice            *decimal.Decimal `json:"bundle_price,omitempty"`
}

// CartLineSummary is one priced cart line. LineTotal and FreeQuantity come
// from the pricing engine.
type CartLineSummary struct {
	ItemID       uuid.UUID       `json:"item_id"`
	Product      *domain.Product `json:"product"`
	Quantity     int             `json:"quantity"`
	FreeQuantity int             `json:"free_quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// CartSummary is the priced view of a cart
type CartSummary struct {
	CartID    uuid.UUID         `json:"cart_id"`
	Lines     []CartLineSummary `json:"lines"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
}
