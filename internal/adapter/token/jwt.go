package token

import (
	"errors"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultTTL = 30 * time.Minute
	tokenType  = "bearer"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
	logger    ports.LoggerPort
}

type Option func(*JWTTokenService)

// WithClock overrides the clock used for issuing and checking expiry.
func WithClock(now func() time.Time) Option {
	return func(j *JWTTokenService) {
		j.now = now
	}
}

func NewJWTTokenService(secretKey string, ttl time.Duration, logger ports.LoggerPort, opts ...Option) *JWTTokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	j := &JWTTokenService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// IssueToken signs an HS256 token whose subject is the user id.
func (j *JWTTokenService) IssueToken(user *domain.User) (*domain.Token, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		j.logger.Error("Failed to sign jwt", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return nil, err
	}

	return &domain.Token{
		AccessToken: signed,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

// VerifyToken checks signature and expiry. It returns domain.ErrTokenExpired
// for stale tokens and domain.ErrTokenMalformed for everything else.
func (j *JWTTokenService) VerifyToken(tokenString string) (*domain.TokenPayload, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		j.logger.Warn("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return nil, domain.ErrTokenMalformed
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrTokenMalformed
	}
	if c.Subject == "" {
		j.logger.Warn("Token without subject", map[string]interface{}{
			"method": "VerifyToken",
		})
		return nil, domain.ErrTokenMalformed
	}

	payload := &domain.TokenPayload{
		ID:     c.ID,
		UserID: c.Subject,
		Role:   domain.UserRole(c.Role),
	}
	if c.IssuedAt != nil {
		payload.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		payload.ExpiresAt = c.ExpiresAt.Time
	}
	return payload, nil
}
