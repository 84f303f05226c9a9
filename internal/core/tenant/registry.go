package tenant

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
	"github.com/sm8ta/webike_review_microservice/internal/core/services"

	"github.com/go-playground/validator/v10"
)

const DefaultID = "default"

// Instance is everything owned by one tenant.
type Instance struct {
	ID        string
	Store     ports.RecordStore
	Auth      *services.AuthService
	Bikes     *services.BikeService
	Reviews   *services.ReviewService
	Brands    *services.BrandService
	Types     *services.BikeTypeService
	Resources *services.ResourceService
	AI        *services.AIService
}

// StoreFactory opens the record store of a tenant.
type StoreFactory func(ctx context.Context, tenantID string) (ports.RecordStore, error)

// Deps are shared by every instance the registry builds.
type Deps struct {
	Stores      StoreFactory
	Tokens      ports.TokenService
	Notifier    ports.Notifier
	Cache       ports.CachePort
	Generator   ports.TextGenerator
	Logger      ports.LoggerPort
	Validate    *validator.Validate
	AuthOptions []services.AuthOption
}

type Registry struct {
	deps      Deps
	mu        sync.Mutex
	instances map[string]*Instance
}

func NewRegistry(deps Deps) *Registry {
	if deps.Validate == nil {
		deps.Validate = validator.New()
	}
	return &Registry{
		deps:      deps,
		instances: make(map[string]*Instance),
	}
}

// Get returns the instance for tenantID, building it on first use.
// An empty id selects the default tenant.
func (r *Registry) Get(ctx context.Context, tenantID string) (*Instance, error) {
	if tenantID == "" {
		tenantID = DefaultID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[tenantID]; ok {
		return inst, nil
	}

	store, err := r.deps.Stores(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("open store for tenant %s: %w", tenantID, err)
	}

	inst := r.build(tenantID, store)
	r.instances[tenantID] = inst

	r.deps.Logger.Info("Tenant instance created", map[string]interface{}{
		"tenant": tenantID,
	})
	return inst, nil
}

// Clear drops the tenant instance, purges its store and evicts its cached
// entries. Clearing a tenant that was never built opens its store first so
// persisted data still goes.
func (r *Registry) Clear(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		tenantID = DefaultID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var store ports.RecordStore
	if inst, ok := r.instances[tenantID]; ok {
		store = inst.Store
	} else {
		var err error
		if store, err = r.deps.Stores(ctx, tenantID); err != nil {
			return fmt.Errorf("open store for tenant %s: %w", tenantID, err)
		}
	}

	if err := store.Purge(ctx); err != nil {
		r.deps.Logger.Error("Failed to purge tenant store", map[string]interface{}{
			"error":  err.Error(),
			"tenant": tenantID,
		})
		return err
	}
	delete(r.instances, tenantID)

	if r.deps.Cache != nil {
		if err := r.deps.Cache.DeletePrefix(ctx, services.TenantCachePrefix(tenantID)); err != nil {
			r.deps.Logger.Error("Failed to drop tenant cache", map[string]interface{}{
				"error":  err.Error(),
				"tenant": tenantID,
			})
			return fmt.Errorf("drop cache for tenant %s: %w", tenantID, err)
		}
	}

	r.deps.Logger.Info("Tenant cleared", map[string]interface{}{
		"tenant": tenantID,
	})
	return nil
}

// Tenants lists the ids of the instances currently held, sorted.
func (r *Registry) Tenants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.instances))
	for id := range r.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) build(tenantID string, store ports.RecordStore) *Instance {
	d := r.deps
	bikes := services.NewBikeService(store, d.Logger, d.Validate, d.Cache, tenantID)
	reviews := services.NewReviewService(store, d.Logger, d.Validate)

	return &Instance{
		ID:        tenantID,
		Store:     store,
		Auth:      services.NewAuthService(store, d.Tokens, d.Notifier, d.Logger, d.Validate, tenantID, d.AuthOptions...),
		Bikes:     bikes,
		Reviews:   reviews,
		Brands:    services.NewBrandService(store, d.Logger, d.Validate),
		Types:     services.NewBikeTypeService(store, d.Logger, d.Validate),
		Resources: services.NewResourceService(store, d.Logger, d.Validate),
		AI:        services.NewAIService(bikes, reviews, d.Generator, d.Logger),
	}
}
