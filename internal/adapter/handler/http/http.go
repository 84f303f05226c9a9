package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type BikeHandler struct {
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type BikeRequest struct {
	Name        string            `json:"name" binding:"required" example:"CBR150"`
	Brand       string            `json:"brand" binding:"required" example:"Honda"`
	Model       string            `json:"model" example:"CBR150R"`
	Year        int               `json:"year" example:"2023"`
	Type        string            `json:"type" example:"sport"`
	Description string            `json:"description" example:"Entry level sport bike"`
	Price       float64           `json:"price" example:"450000"`
	Specs       map[string]string `json:"specs"`
}

func NewBikeHandler(logger ports.LoggerPort, metrics ports.MetricsPort) *BikeHandler {
	return &BikeHandler{
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Список байков
// @Description Все байки арендатора с фильтрами по бренду, типу и поиском по названию
// @Tags bikes
// @Produce json
// @Param brand query string false "Бренд"
// @Param type query string false "Тип"
// @Param q query string false "Поиск по названию и бренду"
// @Success 200 {array} domain.Bike "Список байков"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /bikes [get]
func (h *BikeHandler) ListBikes(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	filter := domain.BikeFilter{
		Brand: c.Query("brand"),
		Type:  c.Query("type"),
		Query: c.Query("q"),
	}

	bikes, err := getTenant(c).Bikes.ListBikes(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, "Failed to list bikes", err)
		return
	}

	c.JSON(http.StatusOK, bikes)
}

// @Summary Создать байк
// @Description Создание нового байка
// @Tags bikes
// @Accept json
// @Produce json
// @Param request body BikeRequest true "Данные байка"
// @Success 201 {object} domain.Bike "Байк создан"
// @Failure 422 {object} errorResponse "Неверные данные"
// @Router /bikes [post]
func (h *BikeHandler) CreateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req BikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}

	bike := &domain.Bike{
		Name:        req.Name,
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		Type:        req.Type,
		Description: req.Description,
		Price:       req.Price,
		Specs:       req.Specs,
	}

	createdBike, err := getTenant(c).Bikes.CreateBike(c.Request.Context(), bike)
	if err != nil {
		writeError(c, h.logger, "Failed to create bike", err)
		return
	}

	c.JSON(http.StatusCreated, createdBike)
}

// @Summary Получить байк
// @Description Получение информации о байке по ID
// @Tags bikes
// @Produce json
// @Param id path string true "ID байка"
// @Success 200 {object} domain.Bike "Байк найден"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /bikes/{id} [get]
func (h *BikeHandler) GetBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bike, err := getTenant(c).Bikes.GetBikeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Failed to get bike", err)
		return
	}

	c.JSON(http.StatusOK, bike)
}

// @Summary Обновить байк
// @Description Частичное обновление байка
// @Tags bikes
// @Accept json
// @Produce json
// @Param id path string true "ID байка"
// @Param request body domain.BikePatch true "Изменяемые поля"
// @Success 200 {object} domain.Bike "Байк обновлен"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Failure 422 {object} errorResponse "Неверные данные"
// @Router /bikes/{id} [put]
func (h *BikeHandler) UpdateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var patch domain.BikePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, h.logger, err)
		return
	}

	updatedBike, err := getTenant(c).Bikes.UpdateBike(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.logger, "Failed to update bike", err)
		return
	}

	c.JSON(http.StatusOK, updatedBike)
}

// @Summary Удалить байк
// @Tags bikes
// @Param id path string true "ID байка"
// @Success 204 "Байк удален"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /bikes/{id} [delete]
func (h *BikeHandler) DeleteBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := getTenant(c).Bikes.DeleteBike(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, "Failed to delete bike", err)
		return
	}

	c.Status(http.StatusNoContent)
}
