package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidRange  ErrorCode = "INVALID_RANGE"

	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeInvalidRole  ErrorCode = "INVALID_ROLE"

	// Business errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeStateConflict ErrorCode = "STATE_CONFLICT"
	ErrCodeNoCapacity    ErrorCode = "NO_CAPACITY"
	ErrCodeInconsistent  ErrorCode = "CONSISTENCY_VIOLATION"
	ErrCodeDuplicate     ErrorCode = "DUPLICATE"

	// Database errors
	ErrCodeDBError ErrorCode = "DB_ERROR"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError lỗi dữ liệu đầu vào, bị từ chối trước khi ghi bất kỳ thay đổi nào
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", ErrCodeValidation, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", ErrCodeValidation, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError không tìm thấy thực thể được tham chiếu
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("[%s] %s %s không tồn tại", ErrCodeNotFound, e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// StateConflictError thao tác không hợp lệ với trạng thái hiện tại.
// Luôn báo cả trạng thái hiện tại lẫn thao tác bị từ chối, không ghi thay đổi nào.
type StateConflictError struct {
	Entity    string
	Current   string
	Attempted string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("[%s] %s đang ở trạng thái %s, không thể thực hiện %s",
		ErrCodeStateConflict, e.Entity, e.Current, e.Attempted)
}

func NewStateConflictError(entity, current, attempted string) *StateConflictError {
	return &StateConflictError{Entity: entity, Current: current, Attempted: attempted}
}

// CapacityError hết phòng/giường của hạng yêu cầu. Đây là kết quả nghiệp vụ
// bình thường, caller có thể thử lại với hạng khác hoặc thời điểm khác.
type CapacityError struct {
	Resource string
	Detail   string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("[%s] hết %s: %s", ErrCodeNoCapacity, e.Resource, e.Detail)
}

func NewCapacityError(resource, detail string) *CapacityError {
	return &CapacityError{Resource: resource, Detail: detail}
}

// ConsistencyViolation bất biến nội bộ bị phá vỡ (ví dụ bộ đếm báo còn giường
// trống nhưng không tìm thấy giường nào). Thao tác thất bại thay vì đoán,
// không bao giờ tự retry.
type ConsistencyViolation struct {
	Invariant string
	Detail    string
}

func (e *ConsistencyViolation) Error() string {
	return fmt.Sprintf("[%s] vi phạm bất biến %s: %s", ErrCodeInconsistent, e.Invariant, e.Detail)
}

func NewConsistencyViolation(invariant, detail string) *ConsistencyViolation {
	return &ConsistencyViolation{Invariant: invariant, Detail: detail}
}

// IsValidation kiểm tra error có phải ValidationError không
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound kiểm tra error có phải NotFoundError không
func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

// IsStateConflict kiểm tra error có phải StateConflictError không
func IsStateConflict(err error) bool {
	var v *StateConflictError
	return errors.As(err, &v)
}

// IsCapacity kiểm tra error có phải CapacityError không
func IsCapacity(err error) bool {
	var v *CapacityError
	return errors.As(err, &v)
}

// IsConsistency kiểm tra error có phải ConsistencyViolation không
func IsConsistency(err error) bool {
	var v *ConsistencyViolation
	return errors.As(err, &v)
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var v *AppError
	return errors.As(err, &v)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var v *AppError
	if errors.As(err, &v) {
		return v
	}
	return nil
}
