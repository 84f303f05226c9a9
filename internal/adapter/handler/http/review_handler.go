package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type ReviewRequest struct {
	BikeID  string   `json:"bike_id" binding:"required" example:"0b5c3a1e-6f0e-4c61-9d0a-2b8f8a3c1d11"`
	UserID  string   `json:"user_id" binding:"required" example:"6a1f3a8c-1e3b-4f5a-8e2b-7c9d0e1f2a3b"`
	Title   string   `json:"title" example:"Great commuter"`
	Content string   `json:"content" example:"Smooth engine and good mileage"`
	Rating  float64  `json:"rating" example:"4.5"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}

// BikeReviewRequest is a review posted under a bike by the current user.
type BikeReviewRequest struct {
	Title   string   `json:"title" example:"Great commuter"`
	Content string   `json:"content" example:"Smooth engine and good mileage"`
	Rating  float64  `json:"rating" example:"4.5"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}

func NewReviewHandler(logger ports.LoggerPort, metrics ports.MetricsPort) *ReviewHandler {
	return &ReviewHandler{
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Список отзывов
// @Tags reviews
// @Produce json
// @Success 200 {array} domain.Review "Список отзывов"
// @Router /reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	reviews, err := getTenant(c).Reviews.ListReviews(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "Failed to list reviews", err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// @Summary Создать отзыв
// @Description Отзыв о существующем байке
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body ReviewRequest true "Данные отзыва"
// @Success 201 {object} domain.Review "Отзыв создан"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Failure 422 {object} errorResponse "Неверные данные"
// @Router /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}

	h.create(c, &domain.Review{
		BikeID:  req.BikeID,
		UserID:  req.UserID,
		Title:   req.Title,
		Content: req.Content,
		Rating:  req.Rating,
		Pros:    req.Pros,
		Cons:    req.Cons,
	})
}

// @Summary Получить отзыв
// @Tags reviews
// @Produce json
// @Param id path string true "ID отзыва"
// @Success 200 {object} domain.Review "Отзыв найден"
// @Failure 404 {object} errorResponse "Отзыв не найден"
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	review, err := getTenant(c).Reviews.GetReviewByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Failed to get review", err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// @Summary Обновить отзыв
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "ID отзыва"
// @Param request body domain.ReviewPatch true "Изменяемые поля"
// @Success 200 {object} domain.Review "Отзыв обновлен"
// @Failure 404 {object} errorResponse "Отзыв не найден"
// @Failure 422 {object} errorResponse "Неверные данные"
// @Router /reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var patch domain.ReviewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, h.logger, err)
		return
	}

	review, err := getTenant(c).Reviews.UpdateReview(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.logger, "Failed to update review", err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// @Summary Удалить отзыв
// @Tags reviews
// @Param id path string true "ID отзыва"
// @Success 204 "Отзыв удален"
// @Failure 404 {object} errorResponse "Отзыв не найден"
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := getTenant(c).Reviews.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, "Failed to delete review", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Отзывы пользователя
// @Description ID пользователя или "me" для текущего пользователя
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID пользователя или me"
// @Success 200 {array} domain.Review "Отзывы пользователя"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Router /reviews/user/{id} [get]
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	userID := c.Param("id")
	if userID == "me" {
		user, ok := h.currentUser(c)
		if !ok {
			return
		}
		userID = user.ID
	}

	reviews, err := getTenant(c).Reviews.GetReviewsByUserID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "Failed to get user reviews", err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// @Summary Отзывы о байке
// @Tags reviews
// @Produce json
// @Param id path string true "ID байка"
// @Success 200 {array} domain.Review "Отзывы о байке"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /bikes/{id}/reviews [get]
func (h *ReviewHandler) GetBikeReviews(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	inst := getTenant(c)
	bikeID := c.Param("id")

	if _, err := inst.Bikes.GetBikeByID(c.Request.Context(), bikeID); err != nil {
		writeError(c, h.logger, "Reviews requested for missing bike", err)
		return
	}

	reviews, err := inst.Reviews.GetReviewsByBikeID(c.Request.Context(), bikeID)
	if err != nil {
		writeError(c, h.logger, "Failed to get bike reviews", err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// @Summary Оставить отзыв о байке
// @Description Автор отзыва берется из токена
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID байка"
// @Param request body BikeReviewRequest true "Данные отзыва"
// @Success 201 {object} domain.Review "Отзыв создан"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Failure 422 {object} errorResponse "Неверные данные"
// @Router /bikes/{id}/reviews [post]
func (h *ReviewHandler) CreateBikeReview(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		h.logger.Warn("Unauthorized access attempt to CreateBikeReview", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BikeReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}

	h.create(c, &domain.Review{
		BikeID:  c.Param("id"),
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Rating:  req.Rating,
		Pros:    req.Pros,
		Cons:    req.Cons,
	})
}

// @Summary Получить отзыв о байке
// @Tags reviews
// @Produce json
// @Param id path string true "ID байка"
// @Param review_id path string true "ID отзыва"
// @Success 200 {object} domain.Review "Отзыв найден"
// @Failure 404 {object} errorResponse "Отзыв не найден"
// @Router /bikes/{id}/reviews/{review_id} [get]
func (h *ReviewHandler) GetBikeReview(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID := c.Param("id")
	review, err := getTenant(c).Reviews.GetReviewByID(c.Request.Context(), c.Param("review_id"))
	if err != nil {
		writeError(c, h.logger, "Failed to get bike review", err)
		return
	}
	if review.BikeID != bikeID {
		h.logger.Warn("Review belongs to another bike", map[string]interface{}{
			"review_id": review.ID,
			"bike_id":   bikeID,
		})
		newErrorResponse(c, http.StatusNotFound, "Review not found for this bike")
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) create(c *gin.Context, review *domain.Review) {
	inst := getTenant(c)

	if _, err := inst.Bikes.GetBikeByID(c.Request.Context(), review.BikeID); err != nil {
		writeError(c, h.logger, "Review for missing bike", err)
		return
	}

	created, err := inst.Reviews.CreateReview(c.Request.Context(), review)
	if err != nil {
		writeError(c, h.logger, "Failed to create review", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// currentUser resolves the bearer token on routes where auth is optional.
func (h *ReviewHandler) currentUser(c *gin.Context) (*domain.User, bool) {
	token, ok := bearerToken(c)
	if !ok {
		writeError(c, h.logger, "Missing bearer token", domain.ErrInvalidToken)
		return nil, false
	}
	user, err := getTenant(c).Auth.CurrentUser(c.Request.Context(), token)
	if err != nil {
		writeError(c, h.logger, "Rejected bearer token", err)
		return nil, false
	}
	return user, true
}
