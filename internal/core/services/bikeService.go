package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

const bikeCacheTTL = 15 * time.Minute

type BikeService struct {
	bikes    collection[domain.Bike]
	logger   ports.LoggerPort
	validate *validator.Validate
	cache    ports.CachePort
	tenant   string
}

func NewBikeService(
	store ports.RecordStore,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	tenant string,
) *BikeService {
	return &BikeService{
		bikes:    newCollection[domain.Bike](store, domain.CollectionBikes),
		logger:   logger,
		validate: validate,
		cache:    cache,
		tenant:   tenant,
	}
}

func (s *BikeService) ListBikes(ctx context.Context, filter domain.BikeFilter) ([]*domain.Bike, error) {
	var (
		bikes []*domain.Bike
		err   error
	)
	if filter.Brand != "" {
		bikes, err = s.bikes.where(ctx, "brand", filter.Brand)
	} else {
		bikes, err = s.bikes.list(ctx)
	}
	if err != nil {
		s.logger.Error("Failed to list bikes", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	if filter.IsZero() {
		return bikes, nil
	}
	matched := make([]*domain.Bike, 0, len(bikes))
	for _, bike := range bikes {
		if filter.Match(bike) {
			matched = append(matched, bike)
		}
	}
	return matched, nil
}

func (s *BikeService) CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	if err := s.validate.Struct(bike); err != nil {
		s.logger.Warn("Bike validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, validationError(err)
	}
	if bike.Specs == nil {
		bike.Specs = map[string]string{}
	}

	createdBike, err := s.bikes.create(ctx, bike)
	if err != nil {
		s.logger.Error("Failed to create bike", map[string]interface{}{
			"error": err.Error(),
			"name":  bike.Name,
		})
		return nil, err
	}

	s.logger.Info("Bike created successfully", map[string]interface{}{
		"bike_id": createdBike.ID,
		"tenant":  s.tenant,
	})

	return createdBike, nil
}

func (s *BikeService) GetBikeByID(ctx context.Context, bikeID string) (*domain.Bike, error) {
	cacheKey := s.cacheKey(bikeID)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		var cachedBike domain.Bike
		if err := json.Unmarshal(cachedData, &cachedBike); err == nil {
			s.logger.Debug("Bike found in cache", map[string]interface{}{
				"bike_id": bikeID,
			})
			return &cachedBike, nil
		}
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		s.logger.Warn("Bike cache read failed", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	}

	bike, err := s.bikes.get(ctx, bikeID)
	if err != nil {
		s.logger.Error("Failed to get bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, err
	}
	if bike == nil {
		return nil, fmt.Errorf("bike %s: %w", bikeID, domain.ErrNotFound)
	}

	bikeData, err := json.Marshal(bike)
	if err != nil {
		s.logger.Warn("Failed to marshal bike for cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	} else if err := s.cache.Set(ctx, cacheKey, bikeData, bikeCacheTTL); err != nil {
		s.logger.Warn("Failed to cache bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	}

	return bike, nil
}

func (s *BikeService) UpdateBike(ctx context.Context, bikeID string, patch domain.BikePatch) (*domain.Bike, error) {
	if err := s.validate.Struct(patch); err != nil {
		s.logger.Warn("Bike patch validation failed", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, validationError(err)
	}

	updatedBike, err := s.bikes.update(ctx, bikeID, patch)
	if err != nil {
		s.logger.Error("Failed to update bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, err
	}
	if updatedBike == nil {
		return nil, fmt.Errorf("bike %s: %w", bikeID, domain.ErrNotFound)
	}

	s.invalidate(ctx, bikeID)

	s.logger.Info("Bike updated successfully", map[string]interface{}{
		"bike_id": bikeID,
	})

	return updatedBike, nil
}

func (s *BikeService) DeleteBike(ctx context.Context, bikeID string) error {
	deleted, err := s.bikes.delete(ctx, bikeID)
	if err != nil {
		s.logger.Error("Failed to delete bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return err
	}

	s.invalidate(ctx, bikeID)

	if !deleted {
		return fmt.Errorf("bike %s: %w", bikeID, domain.ErrNotFound)
	}

	s.logger.Info("Bike deleted successfully", map[string]interface{}{
		"bike_id": bikeID,
	})

	return nil
}

func (s *BikeService) invalidate(ctx context.Context, bikeID string) {
	if err := s.cache.Delete(ctx, s.cacheKey(bikeID)); err != nil {
		s.logger.Warn("Failed to invalidate bike cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	}
}

func (s *BikeService) cacheKey(bikeID string) string {
	return TenantCachePrefix(s.tenant) + "bike:" + bikeID
}

// TenantCachePrefix is the prefix shared by every cache key of a tenant.
func TenantCachePrefix(tenantID string) string {
	return tenantID + ":"
}
