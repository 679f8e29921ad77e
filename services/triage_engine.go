package services

import (
	"hospital/constants"
	"hospital/models"
)

// TriageResult kết quả phân loại cho một lần đánh giá
type TriageResult struct {
	Level    int // ESI 1..5, 1 nặng nhất
	Priority int // trùng với Level, 1 được ưu tiên trước
	Zone     int // khu điều trị đề nghị, xem constants.Zone*
	Color    string
	Critical bool
}

// EvaluateTriage là hàm thuần ánh xạ một lần đánh giá sang mức ESI, màu và khu
// điều trị. Các luật xét theo thứ tự, luật khớp đầu tiên thắng:
//
//  1. ESI 1: có dấu hiệu nguy hiểm tính mạng hoặc điểm tri giác < 8
//  2. ESI 2: sinh hiệu bất thường hoặc đau dữ dội
//  3. ESI 3: dự kiến cần từ 2 loại tài nguyên trở lên
//  4. ESI 4: cần đúng 1 loại tài nguyên
//  5. ESI 5: còn lại
//
// Hàm không có side effect và không ghi gì; thiếu lý do khám phải bị validator
// chặn trước khi gọi đến đây.
func EvaluateTriage(a *models.TriageAssessment) TriageResult {
	level := computeLevel(a)

	// Mức điều dưỡng đề nghị chỉ được giữ khi nặng hơn mức thuật toán:
	// nguy hiểm luôn thắng, không hạ mức bằng tay được.
	if a.RequestedLevel != nil && *a.RequestedLevel >= 1 && *a.RequestedLevel <= 5 &&
		*a.RequestedLevel < level {
		level = *a.RequestedLevel
	}

	zone := zoneFor(level)
	if a.NeuroScore() < 8 || level == 1 {
		zone = constants.ZoneResuscitation
	} else if a.IsolationRequired {
		zone = constants.ZoneIsolation
	}

	return TriageResult{
		Level:    level,
		Priority: level,
		Zone:     zone,
		Color:    colorFor(level),
		Critical: level == 1,
	}
}

func computeLevel(a *models.TriageAssessment) int {
	if a.HasCriticalRedFlag() || a.NeuroScore() < 8 {
		return 1
	}
	if a.HasAbnormalVitals() || a.SeverePain {
		return 2
	}
	if a.ResourceNeeds >= 2 {
		return 3
	}
	if a.ResourceNeeds == 1 {
		return 4
	}
	return 5
}

func colorFor(level int) string {
	switch level {
	case 1:
		return "critical"
	case 2:
		return "urgent-high"
	case 3:
		return "urgent"
	default:
		return "minor"
	}
}

func zoneFor(level int) int {
	switch level {
	case 1:
		return constants.ZoneCritical
	case 2:
		return constants.ZoneUrgentHigh
	case 3:
		return constants.ZoneUrgent
	default:
		return constants.ZoneMinor
	}
}
