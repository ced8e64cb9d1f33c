package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead is an inquiry submitted against a business. BusinessID is not validated
// to reference an existing business row.
type Lead struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Email       string     `gorm:"column:email;not null"`
	Phone       string     `gorm:"column:phone;not null"`
	Message     string     `gorm:"column:message;not null"`
	BusinessID  uuid.UUID  `gorm:"column:business_id;type:uuid;not null"`
	SubmittedBy *uuid.UUID `gorm:"column:submitted_by;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
