package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/medcart/pharmacy-api/internal/domain"
)

// UserRepository persists user accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// CategoryRepository persists product categories
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string
	Limit      int
	Offset     int
}

// ProductRepository persists catalog products
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartRepository persists per-user carts, one line per distinct product
type CartRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	Create(ctx context.Context, cart *domain.Cart) error
	AddItem(ctx context.Context, item *domain.CartItem) error
	GetItem(ctx context.Context, itemID uuid.UUID) (*domain.CartItem, error)
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

// AddressRepository persists saved shipping addresses
type AddressRepository interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Address, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error)
	Create(ctx context.Context, address *domain.Address) error
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	UnsetDefaults(ctx context.Context, userID uuid.UUID) error
}

// OrderFilter narrows an order listing
type OrderFilter struct {
	Status *domain.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository persists orders. Create writes the order, its items, the
// stock decrements, and the cart clear in one transaction: either the order
// fully exists or nothing changed.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, cartID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

// Repositories aggregates all repositories
type Repositories struct {
	User     UserRepository
	Category CategoryRepository
	Product  ProductRepository
	Cart     CartRepository
	Address  AddressRepository
	Order    OrderRepository
}
