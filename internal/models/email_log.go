package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailLog records every notification delivery attempt for follow-up.
type EmailLog struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	EmailType    string    `gorm:"size:50;not null" json:"email_type"`
	ScansLeft    int       `json:"scans_left"`
	Status       string    `gorm:"size:20;not null" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
