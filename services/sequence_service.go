package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hospital/errors"

	"github.com/redis/go-redis/v9"
)

// Tiền tố các loại số thứ tự cấp theo ngày
const (
	SeqEmergency = "ER"  // số phiếu cấp cứu
	SeqAdmission = "ADM" // số đợt nhập viện
	SeqUnknown   = "UNK" // mã tạm cho bệnh nhân chưa xác định
)

// SequenceService cấp số thứ tự theo ngày dạng PREFIX-YYYYMMDD-NNNN, duy nhất
// kể cả khi nhiều clerk cùng cấp số trong một ngày.
type SequenceService interface {
	Next(ctx context.Context, prefix string, day time.Time) (string, error)
}

// FormatSequence ghép số thứ tự thành mã đầy đủ
func FormatSequence(prefix string, day time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), n)
}

// RedisSequence cấp số bằng INCR nguyên tử trên Redis
type RedisSequence struct {
	rdb *redis.Client
}

func NewRedisSequence(rdb *redis.Client) *RedisSequence {
	return &RedisSequence{rdb: rdb}
}

func (s *RedisSequence) Next(ctx context.Context, prefix string, day time.Time) (string, error) {
	key := fmt.Sprintf("seq:%s:%s", prefix, day.Format("20060102"))
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", errors.NewAppError(errors.ErrCodeDBError, "không cấp được số thứ tự", err)
	}
	if n == 1 {
		// Khóa theo ngày, giữ thêm 2 ngày rồi tự hết hạn
		s.rdb.Expire(ctx, key, 48*time.Hour)
	}
	return FormatSequence(prefix, day, n), nil
}

// MemorySequence cấp số trong bộ nhớ, dùng cho test
type MemorySequence struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemorySequence() *MemorySequence {
	return &MemorySequence{counters: make(map[string]int64)}
}

func (s *MemorySequence) Next(_ context.Context, prefix string, day time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := prefix + ":" + day.Format("20060102")
	s.counters[key]++
	return FormatSequence(prefix, day, s.counters[key]), nil
}
