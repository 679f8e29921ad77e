package models

import "time"

type Patient struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FullName    string    `json:"fullName"`
	Gender      string    `json:"gender"`
	DateOfBirth *string   `json:"dateOfBirth,omitempty"`
	PhoneNumber string    `json:"phoneNumber"`
	NationalID  string    `json:"nationalId" gorm:"index"`
	Address     string    `json:"address"`
	BloodType   string    `json:"bloodType"`
	Allergies   string    `json:"allergies"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
