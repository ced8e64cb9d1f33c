package users

import (
	"context"
	"fmt"

	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves the provided user.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	return r.db.WithContext(ctx).Save(user).Error
}

// SetBusinessID points the user at the business they own.
func (r *Repository) SetBusinessID(ctx context.Context, id, businessID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("business_id", businessID).Error
}

// ClearBusinessID detaches the user from a removed business.
func (r *Repository) ClearBusinessID(ctx context.Context, businessID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("business_id = ?", businessID).
		UpdateColumn("business_id", nil).Error
}

// FindBusinessUsersWithoutBusiness returns business users whose linkage is
// still missing, oldest first so reruns make forward progress.
func (r *Repository) FindBusinessUsersWithoutBusiness(ctx context.Context, limit int) ([]models.User, error) {
	var out []models.User
	q := r.db.WithContext(ctx).
		Where("role = ? AND business_id IS NULL", enums.UserRoleBusiness).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ScrubLegacyFields nulls the pre-split business columns on a single user row.
// It reports whether the row actually changed, letting callers treat an
// already-clean row as a no-op.
func (r *Repository) ScrubLegacyFields(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Where("category IS NOT NULL OR location IS NOT NULL OR description IS NOT NULL").
		UpdateColumns(map[string]any{
			"category":    nil,
			"location":    nil,
			"description": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ScrubResult summarizes a bulk scrub over the user table.
type ScrubResult struct {
	Matched  int64
	Modified int64
}

// ScrubAll nulls the pre-split business columns on every user row that still
// carries one. Matched counts the rows the predicate selected before the
// update, Modified the rows the update changed; a second run matches zero.
func (r *Repository) ScrubAll(ctx context.Context) (ScrubResult, error) {
	var result ScrubResult

	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("category IS NOT NULL OR location IS NOT NULL OR description IS NOT NULL").
		Count(&result.Matched).Error; err != nil {
		return result, err
	}

	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("category IS NOT NULL OR location IS NOT NULL OR description IS NOT NULL").
		UpdateColumns(map[string]any{
			"category":    nil,
			"location":    nil,
			"description": nil,
		})
	if res.Error != nil {
		return result, res.Error
	}
	result.Modified = res.RowsAffected
	return result, nil
}
