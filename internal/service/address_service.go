package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type addressService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewAddressService creates a new address service
func NewAddressService(repos *repository.Repositories, logger *zap.Logger) *addressService {
	return &addressService{repos: repos, logger: logger}
}

// ListAddresses returns the user's saved addresses, default first
func (s *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	return s.repos.Address.ListByUserID(ctx, userID)
}

// SaveAddress persists a new address. The first address a user ever saves is
// automatically marked default; a later address explicitly marked default
// unsets the previous one.
func (s *addressService) SaveAddress(ctx context.Context, userID uuid.UUID, address domain.Address) (*domain.Address, error) {
	existing, err := s.repos.Address.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(existing) == 0 {
		address.IsDefault = true
	} else if address.IsDefault {
		if err := s.repos.Address.UnsetDefaults(ctx, userID); err != nil {
			return nil, err
		}
	}

	address.UserID = userID
	if err := s.repos.Address.Create(ctx, &address); err != nil {
		return nil, err
	}

	return &address, nil
}

// UpdateAddress replaces a saved address after an ownership check
func (s *addressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*domain.Address, error) {
	address, err := s.repos.Address.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, &errors.ErrForbidden{Message: "address does not belong to user"}
	}

	if req.IsDefault && !address.IsDefault {
		if err := s.repos.Address.UnsetDefaults(ctx, userID); err != nil {
			return nil, err
		}
	}

	address.Street = req.Street
	address.City = req.City
	address.State = req.State
	address.ZipCode = req.ZipCode
	address.Country = req.Country
	address.IsDefault = req.IsDefault

	if err := s.repos.Address.Update(ctx, address); err != nil {
		return nil, err
	}

	return address, nil
}

// DeleteAddress removes a saved address after an ownership check
func (s *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.repos.Address.GetByID(ctx, addressID)
	if err != nil {
		return err
	}
	if address.UserID != userID {
		return &errors.ErrForbidden{Message: "address does not belong to user"}
	}

	return s.repos.Address.Delete(ctx, addressID)
}
