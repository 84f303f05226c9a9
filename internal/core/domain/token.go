package domain

import "time"

type TokenPayload struct {
	ID        string
	UserID    string
	Role      UserRole
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenExpired
	TokenMalformed
	TokenUnknownSubject
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenMalformed:
		return "malformed"
	case TokenUnknownSubject:
		return "unknown_subject"
	default:
		return "unknown"
	}
}

// Verification is the outcome of checking a bearer token. User is set only
// when Status is TokenValid.
type Verification struct {
	Status TokenStatus
	User   *User
}

// Err maps a failed verification to the error reported to callers.
func (v Verification) Err() error {
	switch v.Status {
	case TokenValid:
		return nil
	case TokenUnknownSubject:
		return ErrUserNotFound
	default:
		return ErrInvalidToken
	}
}
