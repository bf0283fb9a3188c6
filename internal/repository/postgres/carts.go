package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type cartRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB, logger *zap.Logger) *cartRepository {
	return &cartRepository{db: db, logger: logger}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	query := `SELECT id, user_id, created_at FROM carts WHERE user_id = $1`

	var cart domain.Cart
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: userID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get cart", zap.Error(err))
		return nil, err
	}

	items, err := r.itemsByCartID(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

// itemsByCartID loads cart lines with their product joined in, ordered by
// insertion time so the cart view is stable.
func (r *cartRepository) itemsByCartID(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			` + prefixedProductColumns("p") + `
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		r.logger.Error("Failed to list cart items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanCartItemWithProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

func (r *cartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	query := `INSERT INTO carts (id, user_id, created_at) VALUES ($1, $2, $3)`

	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, cart.ID, cart.UserID, cart.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create cart", zap.Error(err))
		return err
	}

	return nil
}

func (r *cartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.CartID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to add cart item", zap.Error(err))
		return err
	}

	return nil
}

func (r *cartRepository) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.CartItem, error) {
	query := `SELECT id, cart_id, product_id, quantity, created_at, updated_at FROM cart_items WHERE id = $1`

	var item domain.CartItem
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "cart item", ID: itemID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get cart item", zap.Error(err))
		return nil, err
	}

	return &item, nil
}

func (r *cartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error) {
	query := `SELECT id, cart_id, product_id, quantity, created_at, updated_at FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	var item domain.CartItem
	err := r.db.QueryRowContext(ctx, query, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "cart item", ID: productID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to find cart item", zap.Error(err))
		return nil, err
	}

	return &item, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $2, updated_at = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, itemID, quantity, time.Now())
	if err != nil {
		r.logger.Error("Failed to update cart item quantity", zap.Error(err))
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "cart item", ID: itemID.String()}
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		r.logger.Error("Failed to remove cart item", zap.Error(err))
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "cart item", ID: itemID.String()}
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error("Failed to clear cart", zap.Error(err))
		return err
	}
	return nil
}
