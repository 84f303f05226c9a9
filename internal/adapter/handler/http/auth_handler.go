package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/domain"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AuthHandler struct {
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Rahim Uddin"`
	Email    string `json:"email" binding:"required" example:"rahim@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginRequest accepts either a JSON body or an OAuth2 password form, where
// the email travels as username.
type LoginRequest struct {
	Email    string `json:"email" form:"username" example:"rahim@example.com"`
	Password string `json:"password" form:"password" binding:"required" example:"secret123"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" form:"email" example:"rahim@example.com"`
}

func NewAuthHandler(logger ports.LoggerPort, metrics ports.MetricsPort) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Регистрация
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Данные пользователя"
// @Success 201 {object} domain.User "Пользователь создан"
// @Failure 400 {object} errorResponse "Email уже зарегистрирован"
// @Failure 422 {object} errorResponse "Неверные данные"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}

	user, err := getTenant(c).Auth.Register(c.Request.Context(), domain.UserCreate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.RecordAuthEvent("register", "failure")
		writeError(c, h.logger, "Registration failed", err)
		return
	}
	h.metrics.RecordAuthEvent("register", "success")

	c.JSON(http.StatusCreated, user)
}

// @Summary Вход
// @Description JSON с email и password или форма OAuth2 (username, password)
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Учетные данные"
// @Success 200 {object} domain.Token "Токен доступа"
// @Failure 401 {object} errorResponse "Неверный email или пароль"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req LoginRequest
	var err error
	if c.ContentType() == binding.MIMEJSON {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindWith(&req, binding.Form)
	}
	if err == nil && req.Email == "" {
		err = errors.New("email is required")
	}
	if err != nil {
		bindError(c, h.logger, err)
		return
	}

	token, err := getTenant(c).Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordAuthEvent("login", "failure")
		writeError(c, h.logger, "Login failed", err)
		return
	}
	h.metrics.RecordAuthEvent("login", "success")

	c.JSON(http.StatusOK, token)
}

// @Summary Текущий пользователь
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User "Пользователь"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Обновить профиль
// @Description Роль через этот метод не меняется
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.UserPatch true "Изменяемые поля"
// @Success 200 {object} domain.User "Профиль обновлен"
// @Failure 400 {object} errorResponse "Email уже зарегистрирован"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Router /auth/me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthPayload(c, authorizationPayloadKey)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, h.logger, err)
		return
	}

	updated, err := getTenant(c).Auth.UpdateUser(c.Request.Context(), user, patch)
	if err != nil {
		writeError(c, h.logger, "Profile update failed", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Выход
// @Description Токен не отзывается, действует до истечения срока
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} messageResponse "Выход выполнен"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	token, _ := bearerToken(c)
	getTenant(c).Auth.Logout(c.Request.Context(), token)
	h.metrics.RecordAuthEvent("logout", "success")

	c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

// @Summary Сброс пароля
// @Description Email передается в query или в теле запроса
// @Tags auth
// @Accept json
// @Produce json
// @Param email query string false "Email"
// @Param request body ResetPasswordRequest false "Email"
// @Success 200 {object} messageResponse "Запрос отправлен"
// @Failure 400 {object} errorResponse "Email не найден"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	email := c.Query("email")
	if email == "" {
		var req ResetPasswordRequest
		if err := c.ShouldBind(&req); err != nil {
			bindError(c, h.logger, err)
			return
		}
		email = req.Email
	}
	if strings.TrimSpace(email) == "" {
		newErrorResponse(c, http.StatusUnprocessableEntity, "email is required")
		return
	}

	if err := getTenant(c).Auth.ResetPassword(c.Request.Context(), email); err != nil {
		h.metrics.RecordAuthEvent("reset_password", "failure")
		writeError(c, h.logger, "Password reset failed", err)
		return
	}
	h.metrics.RecordAuthEvent("reset_password", "success")

	c.JSON(http.StatusOK, messageResponse{Message: "Password reset instructions sent to email"})
}
