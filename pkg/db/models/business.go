package models

import (
	"time"

	"github.com/google/uuid"
)

// Business represents a storefront. OwnerID is set once at creation and never
// reassigned; the owning user's BusinessID is expected to point back here.
type Business struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	OwnerID     uuid.UUID `gorm:"column:owner;type:uuid;not null"`
	Category    string    `gorm:"column:category;not null;default:''"`
	Location    string    `gorm:"column:location;not null;default:''"`
	Description string    `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
