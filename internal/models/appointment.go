package models

import "time"

type Appointment struct {
	BaseModel
	UserID        string    `gorm:"not null;index"`
	Subject       string    `gorm:"not null"`
	ScheduledAt   time.Time `gorm:"not null"`
	Notes         string    `gorm:"type:text"`
}
