package services

import (
	"context"
	"fmt"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

type ReviewService struct {
	reviews  collection[domain.Review]
	logger   ports.LoggerPort
	validate *validator.Validate
}

func NewReviewService(store ports.RecordStore, logger ports.LoggerPort, validate *validator.Validate) *ReviewService {
	return &ReviewService{
		reviews:  newCollection[domain.Review](store, domain.CollectionReviews),
		logger:   logger,
		validate: validate,
	}
}

func (s *ReviewService) ListReviews(ctx context.Context) ([]*domain.Review, error) {
	reviews, err := s.reviews.list(ctx)
	if err != nil {
		s.logger.Error("Failed to list reviews", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) GetReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	review, err := s.reviews.get(ctx, reviewID)
	if err != nil {
		s.logger.Error("Failed to get review", map[string]interface{}{
			"error":     err.Error(),
			"review_id": reviewID,
		})
		return nil, err
	}
	if review == nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, domain.ErrNotFound)
	}
	return review, nil
}

// CreateReview stores a review. The caller is responsible for checking
// that the referenced bike exists.
func (s *ReviewService) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := s.validate.Struct(review); err != nil {
		s.logger.Warn("Review validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, validationError(err)
	}
	if review.Pros == nil {
		review.Pros = []string{}
	}
	if review.Cons == nil {
		review.Cons = []string{}
	}

	created, err := s.reviews.create(ctx, review)
	if err != nil {
		s.logger.Error("Failed to create review", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": review.BikeID,
		})
		return nil, err
	}

	s.logger.Info("Review created successfully", map[string]interface{}{
		"review_id": created.ID,
		"bike_id":   created.BikeID,
		"user_id":   created.UserID,
	})
	return created, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, reviewID string, patch domain.ReviewPatch) (*domain.Review, error) {
	if err := s.validate.Struct(patch); err != nil {
		s.logger.Warn("Review patch validation failed", map[string]interface{}{
			"error":     err.Error(),
			"review_id": reviewID,
		})
		return nil, validationError(err)
	}

	updated, err := s.reviews.update(ctx, reviewID, patch)
	if err != nil {
		s.logger.Error("Failed to update review", map[string]interface{}{
			"error":     err.Error(),
			"review_id": reviewID,
		})
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, domain.ErrNotFound)
	}
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string) error {
	deleted, err := s.reviews.delete(ctx, reviewID)
	if err != nil {
		s.logger.Error("Failed to delete review", map[string]interface{}{
			"error":     err.Error(),
			"review_id": reviewID,
		})
		return err
	}
	if !deleted {
		return fmt.Errorf("review %s: %w", reviewID, domain.ErrNotFound)
	}

	s.logger.Info("Review deleted successfully", map[string]interface{}{
		"review_id": reviewID,
	})
	return nil
}

func (s *ReviewService) GetReviewsByBikeID(ctx context.Context, bikeID string) ([]*domain.Review, error) {
	reviews, err := s.reviews.where(ctx, "bike_id", bikeID)
	if err != nil {
		s.logger.Error("Failed to get reviews for bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) GetReviewsByUserID(ctx context.Context, userID string) ([]*domain.Review, error) {
	reviews, err := s.reviews.where(ctx, "user_id", userID)
	if err != nil {
		s.logger.Error("Failed to get reviews for user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return nil, err
	}

	s.logger.Debug("Retrieved reviews for user", map[string]interface{}{
		"user_id":       userID,
		"reviews_count": len(reviews),
	})
	return reviews, nil
}
