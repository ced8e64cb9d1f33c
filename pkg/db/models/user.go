package models

import (
	"time"

	"github.com/bizlink/leadgen-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity. BusinessID links a business
// user to the storefront it owns; it is nil until the linkage is established.
//
// The three Legacy* columns exist only so imports from the pre-split schema can
// be detected and scrubbed. A user whose role is not business must never carry
// a non-nil value in any of them.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'business'"`
	BusinessID   *uuid.UUID     `gorm:"column:business_id;type:uuid"`
	Phone        *string        `gorm:"column:phone"`
	Address      *string        `gorm:"column:address"`
	Bio          *string        `gorm:"column:bio"`

	LegacyCategory    *string `gorm:"column:category"`
	LegacyLocation    *string `gorm:"column:location"`
	LegacyDescription *string `gorm:"column:description"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasLegacyBusinessFields reports whether any pre-split business column is
// still populated on the user row.
func (u *User) HasLegacyBusinessFields() bool {
	if u == nil {
		return false
	}
	return u.LegacyCategory != nil || u.LegacyLocation != nil || u.LegacyDescription != nil
}
