package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/olahol/melody"
)

// Service phát sự kiện mốc cho các consumer hạ nguồn (bảng theo dõi, viện phí,
// bảo hiểm). Chỉ phát sau khi mốc đã được ghi nhận xong; lỗi phát không bao
// giờ làm hỏng hay rollback nghiệp vụ lõi.
type Service interface {
	Publish(event Event) error
}

// Event một sự kiện mốc của lượt khám/đợt nhập viện
type Event struct {
	Kind           string    `json:"kind"` // registration.critical, registration.closed, admission.created, ...
	RegistrationID uint      `json:"registrationId,omitempty"`
	AdmissionID    uint      `json:"admissionId,omitempty"`
	Number         string    `json:"number,omitempty"`
	Status         string    `json:"status,omitempty"`
	At             time.Time `json:"at"`
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) Publish(event Event) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.m.Broadcast(data)
}

// NopService dùng khi chưa nối websocket (test, job nền)
type NopService struct{}

func (NopService) Publish(Event) error { return nil }
