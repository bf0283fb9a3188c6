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

type addressRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *sql.DB, logger *zap.Logger) *addressRepository {
	return &addressRepository{db: db, logger: logger}
}

const addressColumns = `id, user_id, street, city, state, zip_code, country, is_default, created_at, updated_at`

func scanAddress(row interface{ Scan(...interface{}) error }) (*domain.Address, error) {
	var address domain.Address
	err := row.Scan(
		&address.ID,
		&address.UserID,
		&address.Street,
		&address.City,
		&address.State,
		&address.ZipCode,
		&address.Country,
		&address.IsDefault,
		&address.CreatedAt,
		&address.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list addresses", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *address)
	}

	return addresses, rows.Err()
}

func (r *addressRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`

	address, err := scanAddress(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "address", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get address", zap.Error(err))
		return nil, err
	}

	return address, nil
}

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	query := `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	if address.CreatedAt.IsZero() {
		address.CreatedAt = now
	}
	if address.UpdatedAt.IsZero() {
		address.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		address.ID,
		address.UserID,
		address.Street,
		address.City,
		address.State,
		address.ZipCode,
		address.Country,
		address.IsDefault,
		address.CreatedAt,
		address.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create address", zap.Error(err))
		return err
	}

	return nil
}

func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	query := `
		UPDATE addresses
		SET street = $2, city = $3, state = $4, zip_code = $5, country = $6, is_default = $7, updated_at = $8
		WHERE id = $1
	`

	address.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		address.ID,
		address.Street,
		address.City,
		address.State,
		address.ZipCode,
		address.Country,
		address.IsDefault,
		address.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update address", zap.Error(err))
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "address", ID: address.ID.String()}
	}
	return nil
}

func (r *addressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete address", zap.Error(err))
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "address", ID: id.String()}
	}
	return nil
}

func (r *addressRepository) UnsetDefaults(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE addresses SET is_default = false, updated_at = $2 WHERE user_id = $1 AND is_default = true`

	_, err := r.db.ExecContext(ctx, query, userID, time.Now())
	if err != nil {
		r.logger.Error("Failed to unset default addresses", zap.Error(err))
		return err
	}
	return nil
}
