package leads

import (
	"time"

	"github.com/google/uuid"

	"github.com/bizlink/leadgen-backend/pkg/db/models"
)

// LeadDTO exposes inquiry data in API responses. BusinessName is only
// populated on the admin listing.
type LeadDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Message      string     `json:"message"`
	BusinessID   uuid.UUID  `json:"business_id"`
	BusinessName string     `json:"business_name,omitempty"`
	SubmittedBy  *uuid.UUID `json:"submitted_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateLeadInput holds the validated payload to submit a lead.
type CreateLeadInput struct {
	Name       string    `json:"name" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Phone      string    `json:"phone" validate:"required"`
	Message    string    `json:"message" validate:"required"`
	BusinessID uuid.UUID `json:"business_id" validate:"required"`
}

// LeadWithBusiness is the admin listing row joining the business name.
type LeadWithBusiness struct {
	models.Lead
	BusinessName string
}

// FromModel maps the persisted lead into a DTO.
func FromModel(m *models.Lead) *LeadDTO {
	if m == nil {
		return nil
	}

	return &LeadDTO{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Message:     m.Message,
		BusinessID:  m.BusinessID,
		SubmittedBy: m.SubmittedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// FromModels maps a slice of leads.
func FromModels(ms []models.Lead) []LeadDTO {
	out := make([]LeadDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}

// FromJoinedModels maps admin listing rows including the business name.
func FromJoinedModels(rows []LeadWithBusiness) []LeadDTO {
	out := make([]LeadDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i].Lead)
		dto.BusinessName = rows[i].BusinessName
		out = append(out, *dto)
	}
	return out
}
