package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/memory"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/token"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store    *memory.Store
	cache    *memory.Cache
	notifier *memory.Notifier
	tokens   *token.JWTTokenService
	auth     *AuthService
	bikes    *BikeService
	reviews  *ReviewService
}

func newFixture(t *testing.T, opts ...AuthOption) *fixture {
	t.Helper()

	log := logger.NewNop()
	validate := validator.New()
	store := memory.NewStore()
	cache := memory.NewCache()
	notifier := memory.NewNotifier(log)
	tokens := token.NewJWTTokenService("test-secret", time.Minute, log)

	opts = append([]AuthOption{WithBcryptCost(bcrypt.MinCost)}, opts...)

	return &fixture{
		store:    store,
		cache:    cache,
		notifier: notifier,
		tokens:   tokens,
		auth:     NewAuthService(store, tokens, notifier, log, validate, "test", opts...),
		bikes:    NewBikeService(store, log, validate, cache, "test"),
		reviews:  NewReviewService(store, log, validate),
	}
}

type stubGenerator struct {
	text    string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

var errGenerator = errors.New("generator down")
