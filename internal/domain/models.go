package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medcart/pharmacy-api/internal/pricing"
)

// User represents a registered customer or admin account
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category represents a product category
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Slug        string
	CreatedAt   time.Time
}

// Product represents a catalog item. A product may carry a bundle offer
// ("buy N get M free" at a flat bundle price); the three bundle fields are
// only meaningful when IsBundleOffer is set, and all three must be present
// and positive for the offer to apply.
type Product struct {
	ID                     uuid.UUID
	Name                   string
	Description            *string
	Manufacturer           *string
	Price                  decimal.Decimal
	StockQuantity          int
	CategoryID             uuid.UUID
	ImageURLs              []string
	ExpiryDate             *time.Time
	IsPrescriptionRequired bool
	IsBundleOffer          bool
	BundleBuyQuantity      *int
	BundleFreeQuantity     *int
	BundlePrice            *decimal.Decimal
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PricingItem projects the product onto the pricing engine's input. Absent
// bundle fields are left at their zero values, which the engine treats as a
// malformed offer and prices linearly.
func (p *Product) PricingItem() pricing.Item {
	item := pricing.Item{
		UnitPrice:      p.Price,
		HasBundleOffer: p.IsBundleOffer,
	}
	if p.BundleBuyQuantity != nil {
		item.BundleBuyQuantity = *p.BundleBuyQuantity
	}
	if p.BundleFreeQuantity != nil {
		item.BundleFreeQuantity = *p.BundleFreeQuantity
	}
	if p.BundlePrice != nil {
		item.BundlePrice = *p.BundlePrice
	}
	return item
}

// Cart represents a user's cart. One line per distinct product.
type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []CartItem
	CreatedAt time.Time
}

// CartItem represents a single cart line
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Product   *Product
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address represents a saved shipping address
type Address struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Postal renders the address as a single shipping line
func (a *Address) Postal() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.ZipCode, a.Country)
}

// Order represents a placed order
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	ShippingAddress string
	AddressID       *uuid.UUID
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	TransactionID   *string
	Items           []OrderItem
	OrderDate       time.Time
	DeliveryDate    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem represents an item in a placed order. UnitPrice and ProductName
// are snapshots taken at order time; Subtotal and FreeQuantity come from the
// pricing engine so the stored order matches what the cart displayed.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	Quantity     int
	UnitPrice    decimal.Decimal
	FreeQuantity int
	Subtotal     decimal.Decimal
	CreatedAt    time.Time
}
