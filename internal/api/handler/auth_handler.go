package handler

import (
	"errors"
	"net/http"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(as *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// POST /register/
func (h *AuthHandler) Register(c *gin.Context) {
	var dto domain.RegisterUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.authService.Register(c.Request.Context(), dto)
	if err != nil {
		var fieldErr *service.FieldError
		if errors.As(err, &fieldErr) {
			// Body dạng {"field": ["message"]} theo contract đăng ký
			c.JSON(http.StatusBadRequest, gin.H{fieldErr.Field: []string{fieldErr.Message}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đăng ký người dùng", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User created successfully"})
}

// POST /login/
func (h *AuthHandler) Login(c *gin.Context) {
	var dto domain.LoginUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": err.Error()})
		return
	}

	loginResponse, err := h.authService.Login(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, service.ErrUserNotExists) || errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Lỗi đăng nhập", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loginResponse)
}

// POST /token/refresh/
func (h *AuthHandler) Refresh(c *gin.Context) {
	var dto domain.RefreshTokenDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), dto.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc đã hết hạn", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi làm mới token", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pair)
}
