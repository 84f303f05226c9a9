package token

import (
	"testing"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_review_microservice/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		Meta:  domain.Meta{ID: "user-1"},
		Name:  "Test User",
		Email: "test@example.com",
		Role:  domain.RoleUser,
	}
}

func TestJWTTokenService_IssueAndVerify(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Minute, logger.NewNop())

	tok, err := svc.IssueToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	payload, err := svc.VerifyToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, domain.RoleUser, payload.Role)
	assert.NotEmpty(t, payload.ID)
	assert.Equal(t, time.Minute, payload.ExpiresAt.Sub(payload.IssuedAt))
}

func TestJWTTokenService_DefaultTTL(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTTokenService("secret", 0, logger.NewNop(), WithClock(func() time.Time { return now }))

	tok, err := svc.IssueToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), tok.ExpiresAt)
}

func TestJWTTokenService_Expired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTTokenService("secret", 30*time.Minute, logger.NewNop(), WithClock(func() time.Time { return now }))

	tok, err := svc.IssueToken(testUser())
	require.NoError(t, err)

	now = now.Add(31 * time.Minute)
	_, err = svc.VerifyToken(tok.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTTokenService_Malformed(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Minute, logger.NewNop())
	other := NewJWTTokenService("other-secret", time.Minute, logger.NewNop())

	foreign, err := other.IssueToken(testUser())
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", foreign.AccessToken},
		{"missing subject", noSubject},
		{"missing expiry", noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrTokenMalformed)
		})
	}
}

func TestJWTTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Minute, logger.NewNop())

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.VerifyToken(unsigned)
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}
