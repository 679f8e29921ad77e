package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorPredicates(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("field", "sai")))
	assert.True(t, IsNotFound(NewNotFoundError("phòng", "9")))
	assert.True(t, IsStateConflict(NewStateConflictError("phiếu", "Đã ra về", "phân loại")))
	assert.True(t, IsCapacity(NewCapacityError("giường", "hết")))
	assert.True(t, IsConsistency(NewConsistencyViolation("room-counter", "lệch")))

	err := NewCapacityError("giường", "hết")
	assert.False(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsStateConflict(err))
	assert.False(t, IsValidation(nil))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := NewStateConflictError("đợt nhập viện", "Đã hủy", "xuất viện")
	wrapped := fmt.Errorf("xử lý yêu cầu: %w", inner)
	assert.True(t, IsStateConflict(wrapped))
	assert.False(t, IsCapacity(wrapped))
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := NewNotFoundError("bệnh nhân", "5")
	app := NewAppError(ErrCodeDBError, "đọc hồ sơ", inner)

	assert.True(t, IsAppError(app))
	assert.True(t, IsNotFound(app), "AppError phải unwrap được lỗi gốc")
	assert.Equal(t, ErrCodeDBError, GetAppError(app).Code)
	assert.Nil(t, GetAppError(inner))
	assert.Contains(t, app.Error(), "DB_ERROR")
}

func TestErrorMessagesCarryContext(t *testing.T) {
	err := NewStateConflictError("phiếu cấp cứu ER-20260901-0001", "Đã ra về", "phân loại")
	assert.Contains(t, err.Error(), "ER-20260901-0001")
	assert.Contains(t, err.Error(), "Đã ra về")
	assert.Contains(t, err.Error(), "phân loại")
}
