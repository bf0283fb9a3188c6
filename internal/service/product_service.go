package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type productService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repos *repository.Repositories, logger *zap.Logger) *productService {
	return &productService{repos: repos, logger: logger}
}

// List returns a page of products
func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return s.repos.Product.List(ctx, filter)
}

// Get fetches one product
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.repos.Product.GetByID(ctx, id)
}

// Create adds a product to the catalog. Bundle fields are validated here so
// only well-formed offers enter the catalog; the pricing engine still
// tolerates malformed ones that slip in through other channels.
func (s *productService) Create(ctx context.Context, req ProductRequest) (*domain.Product, error) {
	product, err := s.productFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Product.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces a product's catalog fields
func (s *productService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*domain.Product, error) {
	if _, err := s.repos.Product.GetByID(ctx, id); err != nil {
		return nil, err
	}

	product, err := s.productFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	product.ID = id

	if err := s.repos.Product.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product from the catalog
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Product.Delete(ctx, id)
}

func (s *productService) productFromRequest(ctx context.Context, req ProductRequest) (*domain.Product, error) {
	if req.Price.IsNegative() {
		return nil, &errors.ErrValidation{Message: "price must not be negative"}
	}
	if err := validateBundleFields(req); err != nil {
		return nil, err
	}
	if _, err := s.repos.Category.GetByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:                   req.Name,
		Description:            req.Description,
		Manufacturer:           req.Manufacturer,
		Price:                  req.Price,
		StockQuantity:          req.StockQuantity,
		CategoryID:             req.CategoryID,
		ImageURLs:              req.ImageURLs,
		IsPrescriptionRequired: req.IsPrescriptionRequired,
		IsBundleOffer:          req.IsBundleOffer,
	}

	if req.ExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, &errors.ErrValidation{Message: "expiry_date must be YYYY-MM-DD"}
		}
		product.ExpiryDate = &expiry
	}

	if req.IsBundleOffer {
		product.BundleBuyQuantity = req.BundleBuyQuantity
		product.BundleFreeQuantity = req.BundleFreeQuantity
		product.BundlePrice = req.BundlePrice
	}

	return product, nil
}

// validateBundleFields requires all three bundle fields to be present and
// positive when the offer flag is set.
func validateBundleFields(req ProductRequest) error {
	if !req.IsBundleOffer {
		return nil
	}
	if req.BundleBuyQuantity == nil || *req.BundleBuyQuantity <= 0 {
		return &errors.ErrValidation{Message: "bundle_buy_quantity must be a positive integer"}
	}
	if req.BundleFreeQuantity == nil || *req.BundleFreeQuantity <= 0 {
		return &errors.ErrValidation{Message: "bundle_free_quantity must be a positive integer"}
	}
	if req.BundlePrice == nil || !req.BundlePrice.IsPositive() {
		return &errors.ErrValidation{Message: "bundle_price must be positive"}
	}
	return nil
}
