package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/bizlink/leadgen-backend/internal/linkage"
	"github.com/bizlink/leadgen-backend/internal/users"
	"github.com/bizlink/leadgen-backend/pkg/config"
	"github.com/bizlink/leadgen-backend/pkg/db"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
	"github.com/bizlink/leadgen-backend/pkg/logger"
	"github.com/bizlink/leadgen-backend/pkg/security"
	"gorm.io/gorm"
)

// RegisterService handles user onboarding.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type linkageEngine interface {
	RegisterBusiness(ctx context.Context, user *models.User, fields linkage.BusinessFields) (*models.Business, error)
	ScrubBusinessFields(ctx context.Context, user *models.User) (bool, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	Logger         *logger.Logger
	UserRepo       registerUserRepository
	Linkage        linkageEngine
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	logg        *logger.Logger
	users       registerUserRepository
	linkage     linkageEngine
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	if params.Linkage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "linkage engine required")
	}
	return &registerService{
		logg:        params.Logger,
		users:       params.UserRepo,
		linkage:     params.Linkage,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the user and, for business registrations, their
// storefront. User creation and storefront creation are separate writes: a
// failure after the user row exists leaves a business user without a
// storefront, which the backfill runner repairs on its next pass.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	role, err := enums.ParseUserRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !isNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		// The email check above races with concurrent registrations; the
		// unique index is the authority.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	ctx = s.logg.WithUserID(ctx, user.ID.String())

	if role != enums.UserRoleBusiness {
		// Defends against any path that wrote storefront fields onto the
		// user row directly.
		if _, err := s.linkage.ScrubBusinessFields(ctx, user); err != nil {
			s.logg.Warn(ctx, "post-registration scrub failed")
		}
		return &RegisterResponse{
			Message: "user registered",
			UserID:  user.ID,
		}, nil
	}

	business, err := s.linkage.RegisterBusiness(ctx, user, linkage.BusinessFields{
		Name:        deref(req.BusinessName),
		Category:    deref(req.Category),
		Location:    deref(req.Location),
		Description: deref(req.Description),
	})
	if err != nil {
		// The user row stays; the backfill runner creates the missing
		// storefront later.
		s.logg.Error(ctx, "business creation failed after user create", err)
		return nil, err
	}

	id := business.ID
	return &RegisterResponse{
		Message:    "business registered",
		UserID:     user.ID,
		BusinessID: &id,
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
