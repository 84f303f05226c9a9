package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// userDocument is the stored shape of a user. The hash never leaves this file.
type userDocument struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

type userDocumentPatch struct {
	Name         *string   `json:"name,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Favorites    *[]string `json:"favorites,omitempty"`
	PasswordHash *string   `json:"password_hash,omitempty"`
}

// AuthService is the session authority of one tenant: it registers users,
// checks credentials and resolves bearer tokens to live user records.
type AuthService struct {
	users       collection[userDocument]
	tokens      ports.TokenService
	notifier    ports.Notifier
	logger      ports.LoggerPort
	validate    *validator.Validate
	tenant      string
	adminEmails map[string]struct{}
	bcryptCost  int

	// serializes email uniqueness checks with the writes that depend on them
	emailMu sync.Mutex
}

type AuthOption func(*AuthService)

// WithAdminEmails grants the admin role to users registering with one of
// the given addresses.
func WithAdminEmails(emails []string) AuthOption {
	return func(s *AuthService) {
		for _, email := range emails {
			if email = normalizeEmail(email); email != "" {
				s.adminEmails[email] = struct{}{}
			}
		}
	}
}

func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		s.bcryptCost = cost
	}
}

func NewAuthService(
	store ports.RecordStore,
	tokens ports.TokenService,
	notifier ports.Notifier,
	logger ports.LoggerPort,
	validate *validator.Validate,
	tenant string,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:       newCollection[userDocument](store, domain.CollectionUsers),
		tokens:      tokens,
		notifier:    notifier,
		logger:      logger,
		validate:    validate,
		tenant:      tenant,
		adminEmails: make(map[string]struct{}),
		bcryptCost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, candidate domain.UserCreate) (*domain.User, error) {
	candidate.Email = normalizeEmail(candidate.Email)
	if err := s.validate.Struct(candidate); err != nil {
		s.logger.Warn("Registration validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, validationError(err)
	}
	if err := checkPasswordBytes(candidate.Password); err != nil {
		return nil, err
	}

	s.emailMu.Lock()
	defer s.emailMu.Unlock()

	existing, err := s.findByEmail(ctx, candidate.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("Registration with taken email", map[string]interface{}{
			"tenant": s.tenant,
		})
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hashPassword(candidate.Password)
	if err != nil {
		return nil, err
	}

	role := candidate.Role
	if role == "" {
		role = domain.RoleUser
	}
	if _, ok := s.adminEmails[candidate.Email]; ok {
		role = domain.RoleAdmin
	}

	created, err := s.users.create(ctx, userDocument{
		User: domain.User{
			Name:      candidate.Name,
			Email:     candidate.Email,
			Role:      role,
			Favorites: []string{},
		},
		PasswordHash: string(hash),
	})
	if err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("User registered", map[string]interface{}{
		"user_id": created.ID,
		"tenant":  s.tenant,
	})
	return &created.User, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Token, error) {
	doc, err := s.findByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Login with wrong password", map[string]interface{}{
			"user_id": doc.ID,
		})
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(&doc.User)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("User logged in", map[string]interface{}{
		"user_id": doc.ID,
	})
	return token, nil
}

// Verify checks a bearer token and resolves its subject with a fresh read.
// The error is reserved for storage failures; every token problem is
// reported through the Verification status.
func (s *AuthService) Verify(ctx context.Context, token string) (domain.Verification, error) {
	payload, err := s.tokens.VerifyToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return domain.Verification{Status: domain.TokenExpired}, nil
		}
		return domain.Verification{Status: domain.TokenMalformed}, nil
	}

	doc, err := s.users.get(ctx, payload.UserID)
	if err != nil {
		s.logger.Error("Failed to load token subject", map[string]interface{}{
			"error":   err.Error(),
			"user_id": payload.UserID,
		})
		return domain.Verification{}, err
	}
	if doc == nil {
		return domain.Verification{Status: domain.TokenUnknownSubject}, nil
	}

	return domain.Verification{Status: domain.TokenValid, User: &doc.User}, nil
}

// CurrentUser is Verify with failures folded into ErrInvalidToken and
// ErrUserNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	v, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return v.User, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, token string, patch domain.UserPatch) (*domain.User, error) {
	current, err := s.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.UpdateUser(ctx, current, patch)
}

// UpdateUser applies a profile patch to an already authenticated user.
func (s *AuthService) UpdateUser(ctx context.Context, current *domain.User, patch domain.UserPatch) (*domain.User, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}
	if patch.Password != nil {
		if err := checkPasswordBytes(*patch.Password); err != nil {
			return nil, err
		}
	}

	docPatch := userDocumentPatch{
		Name:      patch.Name,
		Favorites: patch.Favorites,
	}

	if patch.Password != nil {
		hash, err := s.hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		encoded := string(hash)
		docPatch.PasswordHash = &encoded
	}

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		docPatch.Email = &email

		s.emailMu.Lock()
		defer s.emailMu.Unlock()

		if email != current.Email {
			existing, err := s.findByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != current.ID {
				return nil, domain.ErrDuplicateEmail
			}
		}
	}

	updated, err := s.users.update(ctx, current.ID, docPatch)
	if err != nil {
		s.logger.Error("Failed to update user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": current.ID,
		})
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrUserNotFound
	}

	s.logger.Info("User profile updated", map[string]interface{}{
		"user_id": current.ID,
	})
	return &updated.User, nil
}

// Logout only acknowledges. Tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, token string) bool {
	return true
}

func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	doc, err := s.findByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if doc == nil {
		return domain.ErrEmailNotFound
	}

	if err := s.notifier.PasswordResetRequested(ctx, s.tenant, &doc.User); err != nil {
		s.logger.Error("Failed to request password reset", map[string]interface{}{
			"error":   err.Error(),
			"user_id": doc.ID,
		})
		return fmt.Errorf("password reset notification: %w", err)
	}
	return nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*userDocument, error) {
	if email == "" {
		return nil, nil
	}
	users, err := s.users.where(ctx, "email", email)
	if err != nil {
		s.logger.Error("Failed to look up user by email", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

// bcrypt rejects input over 72 bytes while the validator's max counts runes.
const maxPasswordBytes = 72

func checkPasswordBytes(password string) error {
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password is longer than %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	return nil
}

func (s *AuthService) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
