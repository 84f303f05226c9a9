package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

func NewAIHandler(logger ports.LoggerPort, metrics ports.MetricsPort) *AIHandler {
	return &AIHandler{
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Сгенерировать отзыв
// @Description Черновик отзыва о байке на бенгальском
// @Tags ai
// @Security BearerAuth
// @Produce json
// @Param bike_id query string true "ID байка"
// @Success 200 {object} domain.ReviewDraft "Черновик"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Failure 503 {object} errorResponse "Генерация недоступна"
// @Router /ai/generate-review [post]
func (h *AIHandler) GenerateReview(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	draft, err := getTenant(c).AI.GenerateReview(c.Request.Context(), user, c.Query("bike_id"))
	if err != nil {
		writeError(c, h.logger, "Failed to generate review", err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// @Summary Анализ отзыва
// @Tags ai
// @Security BearerAuth
// @Produce json
// @Param review_id query string true "ID отзыва"
// @Success 200 {object} domain.ReviewAnalysis "Анализ"
// @Failure 404 {object} errorResponse "Отзыв не найден"
// @Failure 503 {object} errorResponse "Генерация недоступна"
// @Router /ai/analyze-review [post]
func (h *AIHandler) AnalyzeReview(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	analysis, err := getTenant(c).AI.AnalyzeReview(c.Request.Context(), c.Query("review_id"))
	if err != nil {
		writeError(c, h.logger, "Failed to analyze review", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// @Summary Сводка отзывов
// @Tags ai
// @Security BearerAuth
// @Produce json
// @Param bike_id query string true "ID байка"
// @Success 200 {object} domain.ReviewSummary "Сводка"
// @Failure 400 {object} errorResponse "Нет отзывов"
// @Failure 503 {object} errorResponse "Генерация недоступна"
// @Router /ai/summarize-reviews [post]
func (h *AIHandler) SummarizeReviews(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	summary, err := getTenant(c).AI.SummarizeReviews(c.Request.Context(), c.Query("bike_id"))
	if err != nil {
		writeError(c, h.logger, "Failed to summarize reviews", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
