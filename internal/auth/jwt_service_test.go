package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateAccessToken("user-1", "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)

	// Expiry is one hour out.
	ttl := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, ttl, 55*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestJWTService_ValidateToken_Failures(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.GenerateAccessToken("user-1", "test@example.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "not-a-token"},
		{name: "tampered token", token: token + "xx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateAccessToken("user-1", "test@example.com")
	require.NoError(t, err)

	claims, err := NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		UserID: "user-1",
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	parsed, err := NewJWTService(secret).ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestJWTService_RefreshTokenCarriesID(t *testing.T) {
	svc := NewJWTService("test-secret")

	tokenID, token, err := svc.GenerateRefreshToken("user-1", "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	extracted, err := svc.ExtractTokenID(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, extracted)

	// Access tokens carry no JTI.
	accessToken, err := svc.GenerateAccessToken("user-1", "test@example.com")
	require.NoError(t, err)
	_, err = svc.ExtractTokenID(accessToken)
	assert.Error(t, err)
}

func TestClaims_Identity(t *testing.T) {
	claims := &Claims{UserID: "user-1", Email: "test@example.com"}
	identity := claims.Identity()
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, "test@example.com", identity.Email)
	assert.Empty(t, identity.Name)
}
