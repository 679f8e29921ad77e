package services

import "time"

// Clock tách nguồn thời gian khỏi nghiệp vụ để test cấp được thời gian cố định
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// NewRealClock trả về Clock dùng thời gian hệ thống
func NewRealClock() Clock {
	return realClock{}
}
