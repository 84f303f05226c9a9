package http

import (
	"net/http"

	"github.com/sm8ta/webike_review_microservice/internal/config"
	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
	"github.com/sm8ta/webike_review_microservice/internal/core/services"
	"github.com/sm8ta/webike_review_microservice/internal/core/tenant"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	tenantCfg *config.Tenant,
	registry *tenant.Registry,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	origins := cfg.Origins()
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", tenantHeaderKey},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, messageResponse{Message: "Welcome to the WeBike review API"})
	})

	api := router.Group("")
	api.Use(TenantMiddleware(registry, tenantCfg.HeaderEnabled, tenantCfg.Default, logger, metrics))

	requireAuth := AuthMiddleware(logger, metrics)
	requireAdmin := AdminMiddleware(logger, metrics)

	// Auth routes
	authHandler := NewAuthHandler(logger, metrics)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/me", requireAuth, authHandler.Me)
		auth.PUT("/me", requireAuth, authHandler.UpdateMe)
		auth.POST("/logout", requireAuth, authHandler.Logout)
	}

	// Bikes routes
	bikeHandler := NewBikeHandler(logger, metrics)
	reviewHandler := NewReviewHandler(logger, metrics)
	bikes := api.Group("/bikes")
	{
		bikes.GET("", bikeHandler.ListBikes)
		bikes.POST("", bikeHandler.CreateBike)
		bikes.GET("/:id", bikeHandler.GetBike)
		bikes.PUT("/:id", bikeHandler.UpdateBike)
		bikes.DELETE("/:id", bikeHandler.DeleteBike)
		bikes.GET("/:id/reviews", reviewHandler.GetBikeReviews)
		bikes.POST("/:id/reviews", requireAuth, reviewHandler.CreateBikeReview)
		bikes.GET("/:id/reviews/:review_id", reviewHandler.GetBikeReview)
	}

	// Reviews routes
	reviews := api.Group("/reviews")
	{
		reviews.GET("", reviewHandler.ListReviews)
		reviews.POST("", reviewHandler.CreateReview)
		reviews.GET("/user/:id", reviewHandler.GetUserReviews)
		reviews.GET("/:id", reviewHandler.GetReview)
		reviews.PUT("/:id", reviewHandler.UpdateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}

	// Catalog routes
	mountCatalog(api.Group("/brands"), requireAuth, requireAdmin,
		NewCatalogHandler(func(i *tenant.Instance) *services.CatalogService[domain.Brand, domain.BrandPatch] {
			return i.Brands
		}, logger, metrics))
	mountCatalog(api.Group("/types"), requireAuth, requireAdmin,
		NewCatalogHandler(func(i *tenant.Instance) *services.CatalogService[domain.BikeType, domain.BikeTypePatch] {
			return i.Types
		}, logger, metrics))
	mountCatalog(api.Group("/resources"), requireAuth, requireAdmin,
		NewCatalogHandler(func(i *tenant.Instance) *services.CatalogService[domain.Resource, domain.ResourcePatch] {
			return i.Resources
		}, logger, metrics))

	// AI routes
	aiHandler := NewAIHandler(logger, metrics)
	ai := api.Group("/ai")
	ai.Use(requireAuth)
	{
		ai.POST("/generate-review", aiHandler.GenerateReview)
		ai.POST("/analyze-review", aiHandler.AnalyzeReview)
		ai.POST("/summarize-reviews", aiHandler.SummarizeReviews)
	}

	return &Router{router: router}, nil
}

func mountCatalog[T any, P any](group *gin.RouterGroup, requireAuth, requireAdmin gin.HandlerFunc, h *CatalogHandler[T, P]) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("", requireAuth, requireAdmin, h.Create)
	group.PUT("/:id", requireAuth, requireAdmin, h.Update)
	group.DELETE("/:id", requireAuth, requireAdmin, h.Delete)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
