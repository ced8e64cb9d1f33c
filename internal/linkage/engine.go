// Package linkage maintains the bidirectional User/Business link: business
// users end up with a business_id pointing at a business whose owner points
// back, and non-business users never carry the pre-split business columns.
package linkage

import (
	"context"
	"fmt"

	"github.com/bizlink/leadgen-backend/internal/businesses"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
	"github.com/google/uuid"
)

// FallbackBusinessName is used when a user record offers neither a name nor
// an email to derive the storefront name from.
const FallbackBusinessName = "Unnamed Business"

// BusinessFields carries the optional storefront attributes supplied at
// registration time.
type BusinessFields struct {
	Name        string
	Category    string
	Location    string
	Description string
}

type businessRepository interface {
	Create(ctx context.Context, dto businesses.CreateBusinessDTO) (*models.Business, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error)
}

type userRepository interface {
	SetBusinessID(ctx context.Context, id, businessID uuid.UUID) error
	ScrubLegacyFields(ctx context.Context, id uuid.UUID) (bool, error)
}

// Engine applies the linkage rules for a single user.
type Engine struct {
	businesses businessRepository
	users      userRepository
}

// NewEngine builds a linkage engine over the two repositories.
func NewEngine(businessRepo businessRepository, userRepo userRepository) (*Engine, error) {
	if businessRepo == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &Engine{businesses: businessRepo, users: userRepo}, nil
}

// RegisterBusiness creates the storefront owned by the user and records the
// backlink on the user row. The two writes are deliberately not wrapped in a
// transaction: if the second write fails, the orphan business is left behind
// for the backfill runner to reconcile rather than rolled back.
//
// Not safe to call twice for the same user; callers must verify business_id
// is still unset before calling.
func (e *Engine) RegisterBusiness(ctx context.Context, user *models.User, fields BusinessFields) (*models.Business, error) {
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user is required")
	}
	if user.Role != enums.UserRoleBusiness {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user role must be business")
	}
	if user.BusinessID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already owns a business")
	}

	business, err := e.businesses.Create(ctx, businesses.CreateBusinessDTO{
		Name:        BusinessNameFor(user, fields.Name),
		OwnerID:     user.ID,
		Category:    &fields.Category,
		Location:    &fields.Location,
		Description: &fields.Description,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create business")
	}

	if err := e.users.SetBusinessID(ctx, user.ID, business.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link user to business")
	}

	id := business.ID
	user.BusinessID = &id
	return business, nil
}

// AdoptOrCreateBusiness repairs the linkage for a business user with no
// business_id. When the user already owns business rows (an earlier
// registration created one but never wrote the backlink) the oldest row is
// adopted as canonical instead of creating another orphan. The returned count
// is the number of rows the user owned before the repair; callers use it to
// report duplicate-owner rows.
func (e *Engine) AdoptOrCreateBusiness(ctx context.Context, user *models.User, fields BusinessFields) (*models.Business, int, error) {
	if user == nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeInternal, "user is required")
	}
	if user.Role != enums.UserRoleBusiness {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "user role must be business")
	}
	if user.BusinessID != nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeConflict, "user already owns a business")
	}

	owned, err := e.businesses.FindByOwner(ctx, user.ID)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query owned businesses")
	}
	if len(owned) == 0 {
		business, err := e.RegisterBusiness(ctx, user, fields)
		return business, 0, err
	}

	business := &owned[0]
	if err := e.users.SetBusinessID(ctx, user.ID, business.ID); err != nil {
		return nil, len(owned), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link user to business")
	}

	id := business.ID
	user.BusinessID = &id
	return business, len(owned), nil
}

// ScrubBusinessFields removes any pre-split business columns persisted on the
// user row. Idempotent: scrubbing an already-clean user is a no-op.
func (e *Engine) ScrubBusinessFields(ctx context.Context, user *models.User) (bool, error) {
	if user == nil {
		return false, pkgerrors.New(pkgerrors.CodeInternal, "user is required")
	}

	modified, err := e.users.ScrubLegacyFields(ctx, user.ID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scrub user fields")
	}

	user.LegacyCategory = nil
	user.LegacyLocation = nil
	user.LegacyDescription = nil
	return modified, nil
}

// BusinessNameFor resolves the storefront name: the explicit name when given,
// then the user's name, then their email, then a fixed fallback.
func BusinessNameFor(user *models.User, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if user != nil && user.Name != "" {
		return user.Name
	}
	if user != nil && user.Email != "" {
		return user.Email
	}
	return FallbackBusinessName
}
