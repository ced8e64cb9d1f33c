package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/bizlink/leadgen-backend/internal/users"
	"github.com/bizlink/leadgen-backend/pkg/config"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
	"github.com/bizlink/leadgen-backend/pkg/security"
	"github.com/google/uuid"
)

// SeedService bootstraps the first admin account.
type SeedService interface {
	Seed(ctx context.Context, req SeedRequest) (uuid.UUID, error)
}

// SeedServiceParams packages the dependencies for admin seeding.
type SeedServiceParams struct {
	UserRepo       registerUserRepository
	AdminConfig    config.AdminConfig
	PasswordConfig config.PasswordConfig
}

type seedService struct {
	users       registerUserRepository
	adminCfg    config.AdminConfig
	passwordCfg config.PasswordConfig
}

// NewSeedService builds the admin bootstrap service.
func NewSeedService(params SeedServiceParams) (SeedService, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}
	return &seedService{
		users:       params.UserRepo,
		adminCfg:    params.AdminConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *seedService) Seed(ctx context.Context, req SeedRequest) (uuid.UUID, error) {
	if s.adminCfg.SeedKey == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin seeding is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(s.adminCfg.SeedKey)) != 1 {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "invalid seed key")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !isNotFound(err) {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         enums.UserRoleAdmin,
	})
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin user")
	}

	return user.ID, nil
}
