package businesses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizlink/leadgen-backend/internal/users"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
)

// Service exposes business reads and the admin-only mutations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BusinessDTO, error)
	List(ctx context.Context, limit, offset int) ([]BusinessDTO, error)
	Update(ctx context.Context, businessID uuid.UUID, input UpdateBusinessInput) (*BusinessDTO, error)
	Delete(ctx context.Context, businessID uuid.UUID) error
	ListOwnersWithoutBusiness(ctx context.Context) ([]users.UserDTO, error)
}

// UpdateBusinessInput captures the admin-editable business fields.
type UpdateBusinessInput struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

type businessRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	List(ctx context.Context, limit, offset int) ([]models.Business, error)
	Update(ctx context.Context, business *models.Business) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository interface {
	ClearBusinessID(ctx context.Context, businessID uuid.UUID) error
	FindBusinessUsersWithoutBusiness(ctx context.Context, limit int) ([]models.User, error)
}

type service struct {
	repo  businessRepository
	users userRepository
}

// ServiceParams bundles the dependencies for the business service.
type ServiceParams struct {
	Repo  businessRepository
	Users userRepository
}

// NewService builds a business service with the provided repositories.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("business repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: params.Repo, users: params.Users}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*BusinessDTO, error) {
	business, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(business), nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]BusinessDTO, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list businesses")
	}
	out := make([]BusinessDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, businessID uuid.UUID, input UpdateBusinessInput) (*BusinessDTO, error) {
	business, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		business.Name = name
	}
	if input.Category != nil {
		business.Category = *input.Category
	}
	if input.Location != nil {
		business.Location = *input.Location
	}
	if input.Description != nil {
		business.Description = *input.Description
	}

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update business")
	}
	return FromModel(business), nil
}

// Delete removes the business and unlinks any user pointing at it. The
// unlink runs after the delete; if it fails, the owning user is left with a
// dangling business_id until an admin retries.
func (s *service) Delete(ctx context.Context, businessID uuid.UUID) error {
	if _, err := s.load(ctx, businessID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, businessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete business")
	}
	if err := s.users.ClearBusinessID(ctx, businessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink owner")
	}
	return nil
}

// ListOwnersWithoutBusiness reports the business users currently missing
// their storefront, the same set the backfill runner would repair.
func (s *service) ListOwnersWithoutBusiness(ctx context.Context) ([]users.UserDTO, error) {
	items, err := s.users.FindBusinessUsersWithoutBusiness(ctx, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users without business")
	}
	out := make([]users.UserDTO, 0, len(items))
	for i := range items {
		out = append(out, *users.FromModel(&items[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business")
	}
	return business, nil
}
