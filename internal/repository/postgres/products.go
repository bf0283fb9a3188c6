package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{db: db, logger: logger}
}

const productColumns = `id, name, description, manufacturer, price, stock_quantity, category_id,
	image_urls, expiry_date, is_prescription_required, is_bundle_offer,
	bundle_buy_quantity, bundle_free_quantity, bundle_price, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	now := time.Now()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Manufacturer,
		product.Price,
		product.StockQuantity,
		product.CategoryID,
		pq.Array(product.ImageURLs),
		product.ExpiryDate,
		product.IsPrescriptionRequired,
		product.IsBundleOffer,
		product.BundleBuyQuantity,
		product.BundleFreeQuantity,
		product.BundlePrice,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return err
	}

	return nil
}

func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	var product domain.Product
	var description, manufacturer sql.NullString
	var expiryDate sql.NullTime
	var bundleBuy, bundleFree sql.NullInt64
	var bundlePrice decimal.NullDecimal

	err := row.Scan(
		&product.ID,
		&product.Name,
		&description,
		&manufacturer,
		&product.Price,
		&product.StockQuantity,
		&product.CategoryID,
		pq.Array(&product.ImageURLs),
		&expiryDate,
		&product.IsPrescriptionRequired,
		&product.IsBundleOffer,
		&bundleBuy,
		&bundleFree,
		&bundlePrice,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		product.Description = &description.String
	}
	if manufacturer.Valid {
		product.Manufacturer = &manufacturer.String
	}
	if expiryDate.Valid {
		product.ExpiryDate = &expiryDate.Time
	}
	if bundleBuy.Valid {
		v := int(bundleBuy.Int64)
		product.BundleBuyQuantity = &v
	}
	if bundleFree.Valid {
		v := int(bundleFree.Int64)
		product.BundleFreeQuantity = &v
	}
	if bundlePrice.Valid {
		product.BundlePrice = &bundlePrice.Decimal
	}

	return &product, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get product by ID", zap.Error(err))
		return nil, err
	}

	return product, nil
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count products", zap.Error(err))
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	limitClause := fmt.Sprintf(" ORDER BY name LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	limitClause += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products`+where+limitClause, args...)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *product)
	}

	return products, total, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, manufacturer = $4, price = $5, stock_quantity = $6,
			category_id = $7, image_urls = $8, expiry_date = $9, is_prescription_required = $10,
			is_bundle_offer = $11, bundle_buy_quantity = $12, bundle_free_quantity = $13,
			bundle_price = $14, updated_at = $15
		WHERE id = $1
	`

	product.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Manufacturer,
		product.Price,
		product.StockQuantity,
		product.CategoryID,
		pq.Array(product.ImageURLs),
		product.ExpiryDate,
		product.IsPrescriptionRequired,
		product.IsBundleOffer,
		product.BundleBuyQuantity,
		product.BundleFreeQuantity,
		product.BundlePrice,
		product.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update product", zap.Error(err))
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: product.ID.String()}
	}
	return nil
}

// prefixedProductColumns qualifies the product column list with a table
// alias for use in joins.
func prefixedProductColumns(alias string) string {
	cols := strings.Split(productColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

// scanCartItemWithProduct scans a cart line joined with its product row.
func scanCartItemWithProduct(rows *sql.Rows) (*domain.CartItem, error) {
	var item domain.CartItem
	var product domain.Product
	var description, manufacturer sql.NullString
	var expiryDate sql.NullTime
	var bundleBuy, bundleFree sql.NullInt64
	var bundlePrice decimal.NullDecimal

	err := rows.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
		&product.ID,
		&product.Name,
		&description,
		&manufacturer,
		&product.Price,
		&product.StockQuantity,
		&product.CategoryID,
		pq.Array(&product.ImageURLs),
		&expiryDate,
		&product.IsPrescriptionRequired,
		&product.IsBundleOffer,
		&bundleBuy,
		&bundleFree,
		&bundlePrice,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		product.Description = &description.String
	}
	if manufacturer.Valid {
		product.Manufacturer = &manufacturer.String
	}
	if expiryDate.Valid {
		product.ExpiryDate = &expiryDate.Time
	}
	if bundleBuy.Valid {
		v := int(bundleBuy.Int64)
		product.BundleBuyQuantity = &v
	}
	if bundleFree.Valid {
		v := int(bundleFree.Int64)
		product.BundleFreeQuantity = &v
	}
	if bundlePrice.Valid {
		product.BundlePrice = &bundlePrice.Decimal
	}

	item.Product = &product
	return &item, nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete product", zap.Error(err))
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	return nil
}
