package businesses

import (
	"time"

	"github.com/google/uuid"

	"github.com/bizlink/leadgen-backend/pkg/db/models"
)

// BusinessDTO exposes storefront data in API responses.
type BusinessDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	OwnerID     uuid.UUID `json:"owner"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateBusinessDTO holds creation-time data for a new business.
type CreateBusinessDTO struct {
	Name        string
	OwnerID     uuid.UUID
	Category    *string
	Location    *string
	Description *string
}

// FromModel maps the persisted business into a DTO.
func FromModel(m *models.Business) *BusinessDTO {
	if m == nil {
		return nil
	}

	return &BusinessDTO{
		ID:          m.ID,
		Name:        m.Name,
		OwnerID:     m.OwnerID,
		Category:    m.Category,
		Location:    m.Location,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateBusinessDTO) ToModel() *models.Business {
	model := &models.Business{
		Name:    c.Name,
		OwnerID: c.OwnerID,
	}

	if c.Category != nil {
		model.Category = *c.Category
	}
	if c.Location != nil {
		model.Location = *c.Location
	}
	if c.Description != nil {
		model.Description = *c.Description
	}

	return model
}
