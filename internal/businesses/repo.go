package businesses

import (
	"context"
	"fmt"

	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles business persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to business operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new business row.
func (r *Repository) Create(ctx context.Context, dto CreateBusinessDTO) (*models.Business, error) {
	business := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

// FindByID loads a business by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// FindByOwner returns all businesses owned by the provided user, oldest first.
// Duplicates can exist; callers decide how to resolve them.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error) {
	var out []models.Business
	if err := r.db.WithContext(ctx).
		Where("owner = ?", ownerID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// List returns businesses ordered by creation time.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Business, error) {
	var out []models.Business
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update saves the provided business.
func (r *Repository) Update(ctx context.Context, business *models.Business) error {
	if business == nil {
		return fmt.Errorf("business is required")
	}
	return r.db.WithContext(ctx).Save(business).Error
}

// Delete removes the business row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Business{}, "id = ?", id).Error
}
