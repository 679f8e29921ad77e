package dto

import "time"

// RecordInterventionRequest là DTO cho request ghi can thiệp cấp cứu
type RecordInterventionRequest struct {
	Type  int    `json:"type"`
	Notes string `json:"notes,omitempty"`
}

// ComplicationRequest là DTO cho request ghi biến chứng
type ComplicationRequest struct {
	Note string `json:"note" binding:"required"`
}

// InterventionResponse là DTO cho response can thiệp cấp cứu
type InterventionResponse struct {
	ID              uint       `json:"id"`
	RegistrationID  uint       `json:"registrationId"`
	Type            int        `json:"type"`
	TypeName        string     `json:"typeName"`
	Critical        bool       `json:"critical"`
	PerformedBy     *uint      `json:"performedBy,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	OccurredAt      time.Time  `json:"occurredAt"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	ROSCAchieved    bool       `json:"roscAchieved"`
	ROSCAt          *time.Time `json:"roscAt,omitempty"`
	Complications   string     `json:"complications,omitempty"`
	HasComplication bool       `json:"hasComplication"`
}
