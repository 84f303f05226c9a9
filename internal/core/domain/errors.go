package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation error")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("could not validate credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailNotFound        = errors.New("email not found")
	ErrForbidden            = errors.New("access denied")
	ErrStorage              = errors.New("storage error")
	ErrNoReviews            = errors.New("no reviews found for this bike")
	ErrGeneratorUnavailable = errors.New("text generation is not configured")

	// Returned by token parsers, never by services.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)
