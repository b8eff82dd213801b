package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserStore) {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	users := newFakeUserStore(
		&models.User{ID: 1, Email: "student@example.com", Password: hash, RoleType: models.RoleStudent, IsActive: true},
		&models.User{ID: 2, Email: "disabled@example.com", Password: hash, RoleType: models.RoleStudent, IsActive: false},
	)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "academix-test",
	})
	return NewAuthService(users, jwtService, zerolog.Nop()), users
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "student@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, 3600, result.ExpiresIn)
	assert.Equal(t, int64(1), result.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "student@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "disabled@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRegisterDevice(t *testing.T) {
	svc, users := newAuthFixture(t)

	require.NoError(t, svc.RegisterDevice(context.Background(), 1, "apns-token-abc"))

	user, err := users.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, user.DeviceToken)
	assert.Equal(t, "apns-token-abc", *user.DeviceToken)
}
