package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizlink/leadgen-backend/internal/access"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
	"github.com/bizlink/leadgen-backend/pkg/logger"
)

// EventLeadCreated is the event type attached to published lead messages.
const EventLeadCreated = "lead.created"

// LeadCreatedEvent is the payload published after a lead is stored.
type LeadCreatedEvent struct {
	Type       string    `json:"type"`
	LeadID     uuid.UUID `json:"lead_id"`
	BusinessID uuid.UUID `json:"business_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service exposes lead submission and role-filtered reads.
type Service interface {
	Create(ctx context.Context, actor *access.Actor, input CreateLeadInput) (*LeadDTO, error)
	List(ctx context.Context, actor access.Actor) ([]LeadDTO, error)
	Delete(ctx context.Context, actor access.Actor, leadID uuid.UUID) error
}

type leadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	ListAllWithBusiness(ctx context.Context) ([]LeadWithBusiness, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Lead, error)
	ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]models.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventPublisher interface {
	Publish(ctx context.Context, data []byte) error
}

type service struct {
	repo      leadRepository
	publisher eventPublisher
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies for the lead service.
type ServiceParams struct {
	Logger    *logger.Logger
	Repo      leadRepository
	Publisher eventPublisher
}

// NewService constructs a lead service. Publisher may be nil; lead creation
// then skips the notification event entirely.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("lead repository required")
	}
	return &service{
		repo:      params.Repo,
		publisher: params.Publisher,
		logg:      params.Logger,
	}, nil
}

// Create stores the lead and publishes a lead.created event. Publishing is
// best effort: a failed publish is logged but never fails the request.
func (s *service) Create(ctx context.Context, actor *access.Actor, input CreateLeadInput) (*LeadDTO, error) {
	if err := validateLeadInput(input); err != nil {
		return nil, err
	}

	lead := &models.Lead{
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      strings.TrimSpace(input.Phone),
		Message:    input.Message,
		BusinessID: input.BusinessID,
	}
	if actor != nil {
		id := actor.UserID
		lead.SubmittedBy = &id
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create lead")
	}

	s.publishCreated(ctx, lead)
	return FromModel(lead), nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]LeadDTO, error) {
	switch actor.Role {
	case enums.UserRoleAdmin:
		rows, err := s.repo.ListAllWithBusiness(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list leads")
		}
		return FromJoinedModels(rows), nil

	case enums.UserRoleBusiness:
		if actor.BusinessID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "caller has no business")
		}
		items, err := s.repo.ListByBusiness(ctx, *actor.BusinessID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list leads")
		}
		return FromModels(items), nil

	case enums.UserRoleCustomer:
		items, err := s.repo.ListBySubmitter(ctx, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list leads")
		}
		return FromModels(items), nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
}

func (s *service) Delete(ctx context.Context, actor access.Actor, leadID uuid.UUID) error {
	lead, err := s.repo.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lead")
	}
	if err := access.RequireBusinessScope(actor, lead.BusinessID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, leadID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete lead")
	}
	return nil
}

func (s *service) publishCreated(ctx context.Context, lead *models.Lead) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(LeadCreatedEvent{
		Type:       EventLeadCreated,
		LeadID:     lead.ID,
		BusinessID: lead.BusinessID,
		Name:       lead.Name,
		Email:      lead.Email,
		Message:    lead.Message,
		CreatedAt:  lead.CreatedAt,
	})
	if err != nil {
		s.logg.Error(ctx, "marshal lead event", err)
		return
	}

	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "lead_id", lead.ID.String()), "publish lead event", err)
	}
}

func validateLeadInput(input CreateLeadInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if input.BusinessID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "business_id is required")
	}
	return nil
}
