package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
	"github.com/sm8ta/webike_review_microservice/internal/core/tenant"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeaderKey  = "Authorization"
	authorizationTypeBearer = "bearer"
	authorizationPayloadKey = "authorization_payload"
	tenantInstanceKey       = "tenant_instance"
	tenantHeaderKey         = "X-Tenant-ID"
)

// TenantMiddleware resolves the tenant instance for the request. The
// X-Tenant-ID header is only honoured when headerEnabled is set.
func TenantMiddleware(registry *tenant.Registry, headerEnabled bool, defaultTenant string, logger ports.LoggerPort, metrics ports.MetricsPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		tenantID := defaultTenant
		if headerEnabled {
			if id := strings.TrimSpace(c.GetHeader(tenantHeaderKey)); id != "" {
				tenantID = id
			}
		}

		inst, err := registry.Get(c.Request.Context(), tenantID)
		if err != nil {
			logger.Error("Failed to resolve tenant", map[string]interface{}{
				"error":  err.Error(),
				"tenant": tenantID,
			})
			newErrorResponse(c, http.StatusInternalServerError, "Internal server error")
			metrics.RecordMetrics(c, start)
			return
		}

		c.Set(tenantInstanceKey, inst)
		c.Next()
	}
}

// AuthMiddleware requires a valid bearer token and stores the resolved
// user under authorizationPayloadKey.
func AuthMiddleware(logger ports.LoggerPort, metrics ports.MetricsPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		token, ok := bearerToken(c)
		if !ok {
			metrics.RecordAuthEvent("verify", "missing")
			reject(c, logger, metrics, start, "Missing bearer token", domain.ErrInvalidToken)
			return
		}

		v, err := getTenant(c).Auth.Verify(c.Request.Context(), token)
		if err != nil {
			metrics.RecordAuthEvent("verify", "error")
			reject(c, logger, metrics, start, "Failed to verify token", err)
			return
		}
		metrics.RecordAuthEvent("verify", v.Status.String())
		if err := v.Err(); err != nil {
			reject(c, logger, metrics, start, "Rejected bearer token", err)
			return
		}

		c.Set(authorizationPayloadKey, v.User)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(logger ports.LoggerPort, metrics ports.MetricsPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		user, ok := getAuthPayload(c, authorizationPayloadKey)
		if !ok {
			reject(c, logger, metrics, start, "Admin route without user", domain.ErrInvalidToken)
			return
		}
		if !user.IsAdmin() {
			logger.Warn("Admin access denied", map[string]interface{}{
				"user_id": user.ID,
				"path":    c.FullPath(),
			})
			newErrorResponse(c, http.StatusForbidden, "Admin privileges required")
			metrics.RecordMetrics(c, start)
			return
		}
		c.Next()
	}
}

// reject answers for a middleware that stops the chain. The handler never
// runs, so the request is counted here instead.
func reject(c *gin.Context, logger ports.LoggerPort, metrics ports.MetricsPort, start time.Time, msg string, err error) {
	writeError(c, logger, msg, err)
	metrics.RecordMetrics(c, start)
}

func bearerToken(c *gin.Context) (string, bool) {
	fields := strings.Fields(c.GetHeader(authorizationHeaderKey))
	if len(fields) != 2 || strings.ToLower(fields[0]) != authorizationTypeBearer {
		return "", false
	}
	return fields[1], true
}

func getAuthPayload(c *gin.Context, key string) (*domain.User, bool) {
	value, exists := c.Get(key)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok && user != nil
}

func getTenant(c *gin.Context) *tenant.Instance {
	return c.MustGet(tenantInstanceKey).(*tenant.Instance)
}
