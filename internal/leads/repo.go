package leads

import (
	"context"
	"fmt"

	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles lead persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to lead operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new lead row.
func (r *Repository) Create(ctx context.Context, lead *models.Lead) error {
	if lead == nil {
		return fmt.Errorf("lead is required")
	}
	return r.db.WithContext(ctx).Create(lead).Error
}

// FindByID loads a lead by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// ListAllWithBusiness returns every lead joined with the target business
// name, newest first. Leads pointing at a missing business keep an empty
// name rather than being dropped.
func (r *Repository) ListAllWithBusiness(ctx context.Context) ([]LeadWithBusiness, error) {
	var rows []LeadWithBusiness
	if err := r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Select("leads.*, COALESCE(businesses.name, '') AS business_name").
		Joins("LEFT JOIN businesses ON businesses.id = leads.business_id").
		Order("leads.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByBusiness returns leads submitted against a business, newest first.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Lead, error) {
	var out []models.Lead
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySubmitter returns leads the given user submitted, newest first.
func (r *Repository) ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]models.Lead, error) {
	var out []models.Lead
	if err := r.db.WithContext(ctx).
		Where("submitted_by = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the lead row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Lead{}, "id = ?", id).Error
}
