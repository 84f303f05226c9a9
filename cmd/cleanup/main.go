package main

import (
	"context"
	"flag"
	"log"

	"github.com/sm8ta/webike_review_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/memory"
	"github.com/sm8ta/webike_review_microservice/internal/app"
	"github.com/sm8ta/webike_review_microservice/internal/config"
	"github.com/sm8ta/webike_review_microservice/internal/core/tenant"

	_ "github.com/lib/pq"
)

// cleanup removes every record of a tenant from the configured store and
// evicts its entries from the configured cache.
func main() {
	tenantID := flag.String("tenant", tenant.DefaultID, "tenant whose records are removed")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx := context.Background()
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)

	stores, db, err := app.NewStoreFactory(ctx, cfg, loggerAdapter)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	cache, redisConn, err := app.NewCache(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	if redisConn != nil {
		defer redisConn.Close()
	}

	registry := tenant.NewRegistry(tenant.Deps{
		Stores:   stores,
		Notifier: memory.NewNotifier(loggerAdapter),
		Cache:    cache,
		Logger:   loggerAdapter,
	})

	if err := registry.Clear(ctx, *tenantID); err != nil {
		log.Fatalf("Failed to clean tenant %s: %v", *tenantID, err)
	}

	loggerAdapter.Info("Cleanup finished", map[string]interface{}{
		"tenant":  *tenantID,
		"backend": cfg.Store.Backend,
	})
}
