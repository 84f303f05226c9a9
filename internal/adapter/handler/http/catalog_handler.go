package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
	"github.com/sm8ta/webike_review_microservice/internal/core/services"
	"github.com/sm8ta/webike_review_microservice/internal/core/tenant"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves one reference collection (brands, types or
// resources). Reads are public, writes are mounted behind the admin check.
type CatalogHandler[T any, P any] struct {
	service func(*tenant.Instance) *services.CatalogService[T, P]
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

func NewCatalogHandler[T any, P any](
	service func(*tenant.Instance) *services.CatalogService[T, P],
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *CatalogHandler[T, P] {
	return &CatalogHandler[T, P]{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Список
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Brand "Элементы каталога"
// @Router /brands [get]
// @Router /types [get]
// @Router /resources [get]
func (h *CatalogHandler[T, P]) List(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	svc := h.service(getTenant(c))
	items, err := svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "Failed to list "+svc.Kind(), err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// @Summary Получить элемент
// @Tags catalog
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} domain.Brand "Элемент найден"
// @Failure 404 {object} errorResponse "Не найден"
// @Router /brands/{id} [get]
// @Router /types/{id} [get]
// @Router /resources/{id} [get]
func (h *CatalogHandler[T, P]) Get(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	svc := h.service(getTenant(c))
	item, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Failed to get "+svc.Kind(), err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// @Summary Создать элемент
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.Brand true "Данные"
// @Success 201 {object} domain.Brand "Создан"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Failure 422 {object} errorResponse "Неверные данные"
// @Router /brands [post]
// @Router /types [post]
// @Router /resources [post]
func (h *CatalogHandler[T, P]) Create(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	item := new(T)
	if err := c.ShouldBindJSON(item); err != nil {
		bindError(c, h.logger, err)
		return
	}

	svc := h.service(getTenant(c))
	created, err := svc.Create(c.Request.Context(), item)
	if err != nil {
		writeError(c, h.logger, "Failed to create "+svc.Kind(), err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary Обновить элемент
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param request body domain.BrandPatch true "Изменяемые поля"
// @Success 200 {object} domain.Brand "Обновлен"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Failure 404 {object} errorResponse "Не найден"
// @Router /brands/{id} [put]
// @Router /types/{id} [put]
// @Router /resources/{id} [put]
func (h *CatalogHandler[T, P]) Update(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, h.logger, err)
		return
	}

	svc := h.service(getTenant(c))
	updated, err := svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.logger, "Failed to update "+svc.Kind(), err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Удалить элемент
// @Tags catalog
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 204 "Удален"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Failure 404 {object} errorResponse "Не найден"
// @Router /brands/{id} [delete]
// @Router /types/{id} [delete]
// @Router /resources/{id} [delete]
func (h *CatalogHandler[T, P]) Delete(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	svc := h.service(getTenant(c))
	if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, "Failed to delete "+svc.Kind(), err)
		return
	}

	c.Status(http.StatusNoContent)
}
