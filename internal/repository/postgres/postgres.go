package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/config"
	"github.com/medcart/pharmacy-api/internal/repository"
)

// NewConnection opens a Postgres connection pool
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewRepositories wires all Postgres repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		User:     NewUserRepository(db, logger),
		Category: NewCategoryRepository(db, logger),
		Product:  NewProductRepository(db, logger),
		Cart:     NewCartRepository(db, logger),
		Address:  NewAddressRepository(db, logger),
		Order:    NewOrderRepository(db, logger),
	}
}
