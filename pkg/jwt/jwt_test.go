package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

func newTestService() *Service {
	return NewService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "nimal",
		Role:     models.RoleCustomer,
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestService()
	user := testUser()

	token, err := service.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestGenerateAndValidateRefreshToken(t *testing.T) {
	service := newTestService()
	user := testUser()

	token, err := service.GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateRejectsWrongTokenType(t *testing.T) {
	service := newTestService()
	user := testUser()

	refresh, err := service.GenerateRefreshToken(user)
	require.NoError(t, err)
	access, err := service.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = service.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	service := newTestService()
	other := NewService("other-access", "other-refresh", 15*time.Minute, time.Hour)

	token, err := service.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	service := NewService("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, err := service.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	service := newTestService()

	_, err := service.ValidateAccessToken("not-a-token")
	assert.Error(t, err)

	_, err = service.ValidateAccessToken("")
	assert.Error(t, err)
}
