package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"hospital/errors"
	"hospital/response"
	"hospital/services"
)

// AuthMiddleware xử lý authentication cho nhân viên
func AuthMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		staffID, staffRole, err := services.GetStaffFromToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		// Kiểm tra vai trò nếu có yêu cầu
		if len(roles) > 0 {
			hasRole := false
			for _, role := range roles {
				if role == staffRole {
					hasRole = true
					break
				}
			}
			if !hasRole {
				response.Forbidden(c)
				c.Abort()
				return
			}
		}

		// Lưu thông tin nhân viên vào context
		c.Set("staffID", staffID)
		c.Set("staffRole", staffRole)
		c.Next()
	}
}

// StaffID lấy id nhân viên đã xác thực từ context, nil nếu request không kèm token
func StaffID(c *gin.Context) *uint {
	v, exists := c.Get("staffID")
	if !exists {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

// ErrorHandler xử lý lỗi đẩy qua c.Error
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			if appErr := errors.GetAppError(err); appErr != nil {
				response.Error(c, 0, appErr.Message)
				return
			}
			response.ServerError(c)
		}
	}
}
