package jobs

import (
	"context"
	"log"

	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// CapacityAuditor định nghĩa interface cho việc đối chiếu bộ đếm giường trống
type CapacityAuditor interface {
	AuditCounters(ctx context.Context) ([]error, error)
}

var capacityAuditor CapacityAuditor

// SetCapacityAuditor thiết lập implementation cho CapacityAuditor
func SetCapacityAuditor(auditor CapacityAuditor) {
	capacityAuditor = auditor
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, m *melody.Melody) error {
	// Đối chiếu bộ đếm giường trống với số giường trống thực tế lúc 0h mỗi ngày
	_, err := c.AddFunc("0 0 * * *", func() {
		if capacityAuditor == nil {
			log.Printf("Lỗi: CapacityAuditor chưa được thiết lập")
			return
		}
		violations, err := capacityAuditor.AuditCounters(context.Background())
		if err != nil {
			log.Printf("Lỗi khi đối chiếu bộ đếm giường: %v", err)
			return
		}
		if len(violations) == 0 {
			log.Printf("Đối chiếu bộ đếm giường: không có sai lệch")
			return
		}
		for _, v := range violations {
			log.Printf("Sai lệch bộ đếm giường: %v", v)
		}
		if m != nil {
			m.Broadcast([]byte("Cảnh báo: bộ đếm giường trống lệch với thực tế, cần kiểm tra"))
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
