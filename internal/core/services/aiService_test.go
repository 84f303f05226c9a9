package services

import (
	"context"
	"testing"

	"github.com/sm8ta/webike_review_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_review_microservice/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIService_GeneratorUnavailable(t *testing.T) {
	f := newFixture(t)
	ai := NewAIService(f.bikes, f.reviews, nil, logger.NewNop())
	ctx := context.Background()

	_, err := ai.GenerateReview(ctx, &domain.User{}, "b")
	assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)
	_, err = ai.AnalyzeReview(ctx, "r")
	assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)
	_, err = ai.SummarizeReviews(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)
}

func TestAIService_GenerateReview(t *testing.T) {
	f := newFixture(t)
	gen := &stubGenerator{text: "  চমৎকার বাইক  "}
	ai := NewAIService(f.bikes, f.reviews, gen, logger.NewNop())
	ctx := context.Background()

	bike, err := f.bikes.CreateBike(ctx, cbr150())
	require.NoError(t, err)

	draft, err := ai.GenerateReview(ctx, &domain.User{Meta: domain.Meta{ID: "u1"}}, bike.ID)
	require.NoError(t, err)
	assert.Equal(t, "চমৎকার বাইক", draft.Content)
	assert.Equal(t, "u1", draft.UserID)
	assert.True(t, draft.AIGenerated)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Honda CBR150")
	assert.Contains(t, gen.prompts[0], "engine: 149cc")

	_, err = ai.GenerateReview(ctx, &domain.User{}, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAIService_AnalyzeReview(t *testing.T) {
	f := newFixture(t)
	gen := &stubGenerator{text: "The tone is positive overall"}
	ai := NewAIService(f.bikes, f.reviews, gen, logger.NewNop())
	ctx := context.Background()

	review, err := f.reviews.CreateReview(ctx, &domain.Review{BikeID: "b", UserID: "u", Content: "ভালো", Rating: 5})
	require.NoError(t, err)

	analysis, err := ai.AnalyzeReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "positive", analysis.Sentiment)
	assert.Equal(t, review.ID, analysis.ReviewID)

	gen.text = "disappointing"
	analysis, err = ai.AnalyzeReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "negative", analysis.Sentiment)

	gen.err = errGenerator
	_, err = ai.AnalyzeReview(ctx, review.ID)
	assert.ErrorIs(t, err, errGenerator)
}

func TestAIService_SummarizeReviews(t *testing.T) {
	f := newFixture(t)
	gen := &stubGenerator{text: "summary"}
	ai := NewAIService(f.bikes, f.reviews, gen, logger.NewNop())
	ctx := context.Background()

	bike, err := f.bikes.CreateBike(ctx, cbr150())
	require.NoError(t, err)

	_, err = ai.SummarizeReviews(ctx, bike.ID)
	assert.ErrorIs(t, err, domain.ErrNoReviews)

	for _, content := range []string{"fast", "comfortable"} {
		_, err := f.reviews.CreateReview(ctx, &domain.Review{BikeID: bike.ID, UserID: "u", Content: content, Rating: 4})
		require.NoError(t, err)
	}

	summary, err := ai.SummarizeReviews(ctx, bike.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ReviewCount)
	assert.Equal(t, "summary", summary.Summary)
	assert.Contains(t, gen.prompts[len(gen.prompts)-1], "fast comfortable")
}
