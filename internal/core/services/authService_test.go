package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/token"
	"github.com/sm8ta/webike_review_microservice/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, s *AuthService, email, password string) *domain.User {
	t.Helper()
	user, err := s.Register(context.Background(), domain.UserCreate{
		Name:     "Rahim",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_RegisterLoginVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := register(t, f.auth, "Rahim@Example.com", "secret123")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "rahim@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, []string{}, user.Favorites)

	tok, err := f.auth.Login(ctx, "rahim@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	v, err := f.auth.Verify(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenValid, v.Status)
	require.NotNil(t, v.User)
	assert.Equal(t, user.ID, v.User.ID)
	assert.Equal(t, user.Email, v.User.Email)
}

func TestAuthService_PasswordHashNeverExposed(t *testing.T) {
	f := newFixture(t)
	user := register(t, f.auth, "a@example.com", "secret123")

	rec, err := f.store.Get(context.Background(), domain.CollectionUsers, user.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Contains(t, string(rec.Data), "password_hash")
	assert.NotContains(t, string(rec.Data), "secret123")
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f.auth, "dup@example.com", "secret123")

	_, err := f.auth.Register(context.Background(), domain.UserCreate{
		Name:     "Other",
		Email:    "DUP@example.com",
		Password: "another1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_ConcurrentDuplicateRegistration(t *testing.T) {
	f := newFixture(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.auth.Register(context.Background(), domain.UserCreate{
				Name:     "Racer",
				Email:    "race@example.com",
				Password: "secret123",
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), domain.UserCreate{
		Name:     "Short",
		Email:    "short@example.com",
		Password: "123",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.auth.Register(context.Background(), domain.UserCreate{
		Name:     "Bad",
		Email:    "not-an-email",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_MultiBytePasswordOverBcryptLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 60 runes pass the length rule but take 180 bytes
	long := strings.Repeat("পা", 30)

	_, err := f.auth.Register(ctx, domain.UserCreate{
		Name:     "Bangla",
		Email:    "bangla@example.com",
		Password: long,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.auth.Login(ctx, "bangla@example.com", long)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	register(t, f.auth, "me@example.com", "secret123")
	tok, err := f.auth.Login(ctx, "me@example.com", "secret123")
	require.NoError(t, err)

	_, err = f.auth.UpdateProfile(ctx, tok.AccessToken, domain.UserPatch{Password: &long})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.auth.Login(ctx, "me@example.com", "secret123")
	assert.NoError(t, err)
}

func TestAuthService_AdminEmails(t *testing.T) {
	f := newFixture(t, WithAdminEmails([]string{" Admin@Example.com "}))

	admin := register(t, f.auth, "admin@example.com", "secret123")
	assert.True(t, admin.IsAdmin())

	user := register(t, f.auth, "user@example.com", "secret123")
	assert.False(t, user.IsAdmin())
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newFixture(t)
	register(t, f.auth, "a@example.com", "secret123")

	_, err := f.auth.Login(context.Background(), "a@example.com", "wrong-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_VerifyStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.auth.Verify(ctx, "garbage")
	require.NoError(t, err)
	assert.Equal(t, domain.TokenMalformed, v.Status)
	assert.Nil(t, v.User)

	ghost, err := f.tokens.IssueToken(&domain.User{
		Meta: domain.Meta{ID: "missing"},
		Role: domain.RoleUser,
	})
	require.NoError(t, err)

	v, err = f.auth.Verify(ctx, ghost.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenUnknownSubject, v.Status)

	_, err = f.auth.CurrentUser(ctx, ghost.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthService_ExpiredTokenIsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := register(t, f.auth, "late@example.com", "secret123")

	issuedAt := time.Now().Add(-time.Hour)
	past := token.NewJWTTokenService("test-secret", time.Minute, logger.NewNop(),
		token.WithClock(func() time.Time { return issuedAt }))
	tok, err := past.IssueToken(user)
	require.NoError(t, err)

	v, err := f.auth.Verify(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenExpired, v.Status)

	_, err = f.auth.CurrentUser(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_VerifyReadsLiveUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := register(t, f.auth, "live@example.com", "secret123")

	tok, err := f.auth.Login(ctx, "live@example.com", "secret123")
	require.NoError(t, err)

	_, err = f.store.Delete(ctx, domain.CollectionUsers, user.ID)
	require.NoError(t, err)

	v, err := f.auth.Verify(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenUnknownSubject, v.Status)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	register(t, f.auth, "me@example.com", "secret123")
	register(t, f.auth, "taken@example.com", "secret123")

	tok, err := f.auth.Login(ctx, "me@example.com", "secret123")
	require.NoError(t, err)

	name := "Karim"
	favorites := []string{"bike-1"}
	updated, err := f.auth.UpdateProfile(ctx, tok.AccessToken, domain.UserPatch{
		Name:      &name,
		Favorites: &favorites,
	})
	require.NoError(t, err)
	assert.Equal(t, "Karim", updated.Name)
	assert.Equal(t, []string{"bike-1"}, updated.Favorites)
	assert.Equal(t, "me@example.com", updated.Email)

	taken := "taken@example.com"
	_, err = f.auth.UpdateProfile(ctx, tok.AccessToken, domain.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	password := "newsecret"
	_, err = f.auth.UpdateProfile(ctx, tok.AccessToken, domain.UserPatch{Password: &password})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "me@example.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "me@example.com", "newsecret")
	assert.NoError(t, err)

	_, err = f.auth.UpdateProfile(ctx, "garbage", domain.UserPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.auth.Logout(context.Background(), "any"))
}

func TestAuthService_ResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := register(t, f.auth, "reset@example.com", "secret123")

	err := f.auth.ResetPassword(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrEmailNotFound)

	require.NoError(t, f.auth.ResetPassword(ctx, "Reset@example.com"))

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "test", events[0].TenantID)
	assert.Equal(t, user.ID, events[0].UserID)
	assert.Equal(t, "reset@example.com", events[0].Email)
}
