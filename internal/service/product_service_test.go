package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type stubCategoryRepo struct {
	categories map[uuid.UUID]*domain.Category
}

func (s *stubCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = uuid.New()
	if s.categories == nil {
		s.categories = map[uuid.UUID]*domain.Category{}
	}
	s.categories[category.ID] = category
	return nil
}
func (s *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) { return nil, nil }
func (s *stubCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, &errors.ErrNotFound{Resource: "category", ID: id.String()}
}

type stubProductRepo struct {
	created *domain.Product
}

func (s *stubProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = uuid.New()
	s.created = product
	return nil
}
func (s *stubProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
}
func (s *stubProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]domain.Product, int, error) {
	return nil, 0, nil
}
func (s *stubProductRepo) Update(_ context.Context, _ *domain.Product) error { return nil }
func (s *stubProductRepo) Delete(_ context.Context, _ uuid.UUID) error       { return nil }

func TestProductService_Create(t *testing.T) {
	categoryRepo := &stubCategoryRepo{}
	category := &domain.Category{Name: "Pain Relief", Slug: "pain-relief"}
	require.NoError(t, categoryRepo.Create(context.Background(), category))

	baseRequest := func() ProductRequest {
		return ProductRequest{
			Name:          "Paracetamol 500mg",
			Price:         decimal.NewFromInt(10),
			StockQuantity: 50,
			CategoryID:    category.ID,
		}
	}

	newSvc := func() (*productService, *stubProductRepo) {
		repo := &stubProductRepo{}
		return NewProductService(&repository.Repositories{
			Product:  repo,
			Category: categoryRepo,
		}, zap.NewNop()), repo
	}

	t.Run("accepts a well-formed bundle offer", func(t *testing.T) {
		svc, repo := newSvc()
		req := baseRequest()
		req.IsBundleOffer = true
		req.BundleBuyQuantity = intPtr(3)
		req.BundleFreeQuantity = intPtr(1)
		req.BundlePrice = decPtr(decimal.NewFromInt(27))

		product, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, product.IsBundleOffer)
		assert.Equal(t, 3, *product.BundleBuyQuantity)
		assert.Same(t, product, repo.created)
	})

	t.Run("rejects a bundle offer with a missing field", func(t *testing.T) {
		svc, _ := newSvc()
		req := baseRequest()
		req.IsBundleOffer = true
		req.BundleBuyQuantity = intPtr(3)
		req.BundlePrice = decPtr(decimal.NewFromInt(27))

		_, err := svc.Create(context.Background(), req)

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
	})

	t.Run("rejects a bundle offer with a non-positive quantity", func(t *testing.T) {
		svc, _ := newSvc()
		req := baseRequest()
		req.IsBundleOffer = true
		req.BundleBuyQuantity = intPtr(0)
		req.BundleFreeQuantity = intPtr(1)
		req.BundlePrice = decPtr(decimal.NewFromInt(27))

		_, err := svc.Create(context.Background(), req)

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
	})

	t.Run("ignores bundle fields when the flag is off", func(t *testing.T) {
		svc, _ := newSvc()
		req := baseRequest()
		req.BundleBuyQuantity = intPtr(3)

		product, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, product.IsBundleOffer)
		assert.Nil(t, product.BundleBuyQuantity)
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		svc, _ := newSvc()
		req := baseRequest()
		req.Price = decimal.NewFromInt(-1)

		_, err := svc.Create(context.Background(), req)

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		svc, _ := newSvc()
		req := baseRequest()
		req.CategoryID = uuid.New()

		_, err := svc.Create(context.Background(), req)

		var notFound *errors.ErrNotFound
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("rejects a malformed expiry date", func(t *testing.T) {
		svc, _ := newSvc()
		req := baseRequest()
		bad := "31-12-2026"
		req.ExpiryDate = &bad

		_, err := svc.Create(context.Background(), req)

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
	})
}
