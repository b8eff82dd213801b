package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/auth"
)

// AuthService handles credential checks and token issuance
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RegisterDevice(ctx context.Context, userID int64, deviceToken string) error
}

// LoginResult carries the issued token and the authenticated user
type LoginResult struct {
	AccessToken string
	ExpiresIn   int
	User        *models.User
}

type authServiceImpl struct {
	userRepo   userStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo userStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login verifies the credentials and returns a signed access token
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, password) {
		s.logger.Debug().Str("email", email).Msg("Password mismatch on login")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user.ID, user.Email, string(user.RoleType))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		User:        user,
	}, nil
}

// RegisterDevice stores the push token notifications are delivered to
func (s *authServiceImpl) RegisterDevice(ctx context.Context, userID int64, deviceToken string) error {
	if err := s.userRepo.UpdateDeviceToken(ctx, userID, deviceToken); err != nil {
		return err
	}
	s.logger.Debug().Int64("userID", userID).Msg("Device token registered")
	return nil
}
