package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sm8ta/webike_review_microservice/internal/app"
	"github.com/sm8ta/webike_review_microservice/internal/config"

	_ "github.com/lib/pq"
)

// @title WeBike Review API
// @version 1.0
// @description API отзывов о мотоциклах: байки, отзывы, каталог брендов и AI генерация

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Create app
	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	application.Run()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Fatalf("Failed to stop app: %v", err)
	}
}
