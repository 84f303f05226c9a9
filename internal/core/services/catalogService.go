package services

import (
	"context"
	"fmt"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

// CatalogService manages the simple reference entities: brands, bike types
// and resources. T is the entity, P its patch.
type CatalogService[T any, P any] struct {
	entities collection[T]
	kind     string
	logger   ports.LoggerPort
	validate *validator.Validate
}

func NewCatalogService[T any, P any](
	store ports.RecordStore,
	collectionName string,
	kind string,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *CatalogService[T, P] {
	return &CatalogService[T, P]{
		entities: newCollection[T](store, collectionName),
		kind:     kind,
		logger:   logger,
		validate: validate,
	}
}

type (
	BrandService    = CatalogService[domain.Brand, domain.BrandPatch]
	BikeTypeService = CatalogService[domain.BikeType, domain.BikeTypePatch]
	ResourceService = CatalogService[domain.Resource, domain.ResourcePatch]
)

func NewBrandService(store ports.RecordStore, logger ports.LoggerPort, validate *validator.Validate) *BrandService {
	return NewCatalogService[domain.Brand, domain.BrandPatch](store, domain.CollectionBrands, "brand", logger, validate)
}

func NewBikeTypeService(store ports.RecordStore, logger ports.LoggerPort, validate *validator.Validate) *BikeTypeService {
	return NewCatalogService[domain.BikeType, domain.BikeTypePatch](store, domain.CollectionTypes, "type", logger, validate)
}

func NewResourceService(store ports.RecordStore, logger ports.LoggerPort, validate *validator.Validate) *ResourceService {
	return NewCatalogService[domain.Resource, domain.ResourcePatch](store, domain.CollectionResources, "resource", logger, validate)
}

func (s *CatalogService[T, P]) Kind() string {
	return s.kind
}

func (s *CatalogService[T, P]) List(ctx context.Context) ([]*T, error) {
	items, err := s.entities.list(ctx)
	if err != nil {
		s.logger.Error("Failed to list "+s.kind+"s", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return items, nil
}

func (s *CatalogService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	item, err := s.entities.get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get "+s.kind, map[string]interface{}{
			"error": err.Error(),
			"id":    id,
		})
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%s %s: %w", s.kind, id, domain.ErrNotFound)
	}
	return item, nil
}

func (s *CatalogService[T, P]) Create(ctx context.Context, item *T) (*T, error) {
	if err := s.validate.Struct(item); err != nil {
		return nil, validationError(err)
	}

	created, err := s.entities.create(ctx, item)
	if err != nil {
		s.logger.Error("Failed to create "+s.kind, map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Catalog entry created", map[string]interface{}{
		"kind": s.kind,
	})
	return created, nil
}

func (s *CatalogService[T, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}

	updated, err := s.entities.update(ctx, id, patch)
	if err != nil {
		s.logger.Error("Failed to update "+s.kind, map[string]interface{}{
			"error": err.Error(),
			"id":    id,
		})
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%s %s: %w", s.kind, id, domain.ErrNotFound)
	}
	return updated, nil
}

func (s *CatalogService[T, P]) Delete(ctx context.Context, id string) error {
	deleted, err := s.entities.delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete "+s.kind, map[string]interface{}{
			"error": err.Error(),
			"id":    id,
		})
		return err
	}
	if !deleted {
		return fmt.Errorf("%s %s: %w", s.kind, id, domain.ErrNotFound)
	}
	return nil
}
