package middleware

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/bhardwajj01/parkingrevolution/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
	UserIDKey               = "userID"
	UserEmailKey            = "userEmail"
	IsStaffKey              = "isStaff"
)

type AuthMiddleware struct {
	authService *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate là middleware để xác thực JWT access token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Thiếu authorization header"})
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || !strings.EqualFold(fields[0], AuthorizationTypeBearer) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Định dạng authorization header không hợp lệ"})
			return
		}

		accessToken := fields[1]
		claims, err := m.authService.ValidateAccessToken(accessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc đã hết hạn", "details": err.Error()})
			return
		}

		userIDStr, okUserID := claims["sub"].(string)
		email, okEmail := claims["email"].(string)
		isStaff, _ := claims["is_staff"].(bool)

		userID, err := strconv.Atoi(userIDStr)
		if !okUserID || !okEmail || err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Thông tin người dùng trong token không hợp lệ"})
			return
		}

		// Lưu thông tin người dùng vào context của Gin để các handler sau sử dụng
		c.Set(UserIDKey, userID)
		c.Set(UserEmailKey, email)
		c.Set(IsStaffKey, isStaff)

		c.Next()
	}
}

// AuthorizeStaff chặn các route quản trị (mutate City/Location/ParkingSpot)
// đối với user không có cờ is_staff.
func (m *AuthMiddleware) AuthorizeStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaffVal, exists := c.Get(IsStaffKey)
		if !exists {
			log.Printf("AuthorizeStaff: Không tìm thấy cờ is_staff trong context (cần Authenticate() trước)")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Không có quyền truy cập"})
			return
		}

		isStaff, ok := isStaffVal.(bool)
		if !ok || !isStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Chỉ tài khoản staff mới có quyền thực hiện thao tác này"})
			return
		}
		c.Next()
	}
}
