package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/medcart/pharmacy-api/internal/config"
	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/pkg/errors"
)

type identityService struct {
	repos  *repository.Repositories
	jwtCfg config.JWTConfig
	logger *zap.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(repos *repository.Repositories, jwtCfg config.JWTConfig, logger *zap.Logger) *identityService {
	return &identityService{repos: repos, jwtCfg: jwtCfg, logger: logger}
}

// Register creates a customer account with a bcrypt-hashed password
func (s *identityService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         domain.UserRoleCustomer,
		IsActive:     true,
	}

	if err := s.repos.User.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a signed JWT
func (s *identityService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.repos.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			return nil, &errors.ErrUnauthorized{Message: "invalid email or password"}
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, &errors.ErrUnauthorized{Message: "account is disabled"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &errors.ErrUnauthorized{Message: "invalid email or password"}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:     token,
		Type:      "Bearer",
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}, nil
}

func (s *identityService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.jwtCfg.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

// ParseToken validates a bearer token and returns the user ID and role
func ParseToken(secret, tokenString string) (uuid.UUID, domain.UserRole, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &errors.ErrUnauthorized{Message: "unexpected signing method"}
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", &errors.ErrUnauthorized{Message: "invalid token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", &errors.ErrUnauthorized{Message: "invalid token claims"}
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", &errors.ErrUnauthorized{Message: "invalid subject claim"}
	}

	roleStr, _ := claims["role"].(string)
	role := domain.UserRole(roleStr)
	if !role.IsValid() {
		return uuid.Nil, "", &errors.ErrUnauthorized{Message: "invalid role claim"}
	}

	return userID, role, nil
}
