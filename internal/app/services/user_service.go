package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
)

// UserService exposes profile and balance reads
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	GetBalance(ctx context.Context, userID int64) (int64, error)
}

type userServiceImpl struct {
	userRepo    userStore
	balanceRepo balanceStore
	logger      zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo userStore, balanceRepo balanceStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		balanceRepo: balanceRepo,
		logger:      logger,
	}
}

// GetProfile returns the user's own profile
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// GetBalance returns the user's current points balance
func (s *userServiceImpl) GetBalance(ctx context.Context, userID int64) (int64, error) {
	return s.balanceRepo.GetBalance(ctx, userID)
}
