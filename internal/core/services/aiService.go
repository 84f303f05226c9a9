package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
)

// AIService builds prompts from stored bikes and reviews and hands them to
// the configured text generator.
type AIService struct {
	bikes     *BikeService
	reviews   *ReviewService
	generator ports.TextGenerator
	logger    ports.LoggerPort
}

func NewAIService(bikes *BikeService, reviews *ReviewService, generator ports.TextGenerator, logger ports.LoggerPort) *AIService {
	return &AIService{
		bikes:     bikes,
		reviews:   reviews,
		generator: generator,
		logger:    logger,
	}
}

func (s *AIService) GenerateReview(ctx context.Context, user *domain.User, bikeID string) (*domain.ReviewDraft, error) {
	if s.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}

	bike, err := s.bikes.GetBikeByID(ctx, bikeID)
	if err != nil {
		return nil, err
	}

	text, err := s.generate(ctx, reviewPrompt(bike))
	if err != nil {
		return nil, err
	}

	return &domain.ReviewDraft{
		BikeID:      bikeID,
		UserID:      user.ID,
		Content:     text,
		AIGenerated: true,
	}, nil
}

func (s *AIService) AnalyzeReview(ctx context.Context, reviewID string) (*domain.ReviewAnalysis, error) {
	if s.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}

	review, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.generate(ctx, "পর্যালোচনা বিশ্লেষণ করুন: "+review.Content)
	if err != nil {
		return nil, err
	}

	return &domain.ReviewAnalysis{
		ReviewID:  reviewID,
		Analysis:  analysis,
		Sentiment: sentimentOf(analysis),
	}, nil
}

func (s *AIService) SummarizeReviews(ctx context.Context, bikeID string) (*domain.ReviewSummary, error) {
	if s.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}

	if _, err := s.bikes.GetBikeByID(ctx, bikeID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.GetReviewsByBikeID(ctx, bikeID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, domain.ErrNoReviews
	}

	contents := make([]string, 0, len(reviews))
	for _, r := range reviews {
		contents = append(contents, r.Content)
	}

	summary, err := s.generate(ctx, "পর্যালোচনাগুলি সংক্ষিপ্ত করুন: "+strings.Join(contents, " "))
	if err != nil {
		return nil, err
	}

	return &domain.ReviewSummary{
		BikeID:      bikeID,
		Summary:     summary,
		ReviewCount: len(reviews),
	}, nil
}

func (s *AIService) generate(ctx context.Context, prompt string) (string, error) {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("Text generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", fmt.Errorf("generate text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func reviewPrompt(bike *domain.Bike) string {
	keys := make([]string, 0, len(bike.Specs))
	for k := range bike.Specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	specs := make([]string, 0, len(keys))
	for _, k := range keys {
		specs = append(specs, k+": "+bike.Specs[k])
	}

	return fmt.Sprintf("বাইক পর্যালোচনা লিখুন: %s %s. বৈশিষ্ট্য: %s. মূল্য: %.0f",
		bike.Brand, bike.Name, strings.Join(specs, ", "), bike.Price)
}

func sentimentOf(analysis string) string {
	lower := strings.ToLower(analysis)
	if strings.Contains(lower, "positive") || strings.Contains(analysis, "ইতিবাচক") {
		return "positive"
	}
	return "negative"
}
