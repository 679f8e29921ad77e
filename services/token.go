package services

import (
	"encoding/json"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"hospital/errors"
)

// GetStaffFromToken lấy staffID và vai trò từ token của nhân viên
func GetStaffFromToken(tokenString string) (uint, int, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Token không hợp lệ", nil)
	}

	// Giải mã phần payload của token
	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không thể giải mã token", err)
	}

	claimsMap := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claimsMap); err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không thể parse token", err)
	}

	staffInfo, ok := claimsMap["staffinfo"].(map[string]interface{})
	if !ok {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy thông tin nhân viên trong token", nil)
	}

	staffID, okID := staffInfo["staffid"].(float64)
	if !okID {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy ID nhân viên trong token", nil)
	}

	role, okRole := staffInfo["role"].(float64)
	if !okRole {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy vai trò trong token", nil)
	}

	return uint(staffID), int(role), nil
}

// GetStaffIDFromToken lấy staffID từ token
func GetStaffIDFromToken(tokenString string) (uint, error) {
	id, _, err := GetStaffFromToken(tokenString)
	return id, err
}
