package ports

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type MetricsPort interface {
	RecordMetrics(c *gin.Context, start time.Time)
	RecordAuthEvent(event, outcome string)
	Handler() http.Handler
}
