package leads

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizlink/leadgen-backend/internal/access"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
	"github.com/bizlink/leadgen-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "leadgen-test", Output: io.Discard})
}

func newLeadService(t *testing.T, repo *stubLeadRepo, publisher eventPublisher) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Logger: testLogger(), Repo: repo, Publisher: publisher})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validInput(businessID uuid.UUID) CreateLeadInput {
	return CreateLeadInput{
		Name:       "Carol Buyer",
		Email:      "Carol@Example.com",
		Phone:      "405-555-0101",
		Message:    "Interested in bulk pricing",
		BusinessID: businessID,
	}
}

func TestCreateLeadPublishesEvent(t *testing.T) {
	repo := &stubLeadRepo{}
	publisher := &stubPublisher{}
	svc := newLeadService(t, repo, publisher)
	businessID := uuid.New()
	actor := access.Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}

	dto, err := svc.Create(context.Background(), &actor, validInput(businessID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Email != "carol@example.com" {
		t.Fatalf("expected lowercased email, got %q", dto.Email)
	}
	if dto.SubmittedBy == nil || *dto.SubmittedBy != actor.UserID {
		t.Fatalf("expected submitter recorded, got %v", dto.SubmittedBy)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.published))
	}
	var event LeadCreatedEvent
	if err := json.Unmarshal(publisher.published[0], &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.Type != EventLeadCreated {
		t.Fatalf("unexpected event type %q", event.Type)
	}
	if event.BusinessID != businessID {
		t.Fatalf("expected business id %s got %s", businessID, event.BusinessID)
	}
}

func TestCreateLeadPublishFailureIsNonFatal(t *testing.T) {
	repo := &stubLeadRepo{}
	publisher := &stubPublisher{err: errors.New("broker down")}
	svc := newLeadService(t, repo, publisher)

	if _, err := svc.Create(context.Background(), nil, validInput(uuid.New())); err != nil {
		t.Fatalf("expected publish failure swallowed, got %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected lead persisted")
	}
}

func TestCreateLeadAnonymousSubmitter(t *testing.T) {
	repo := &stubLeadRepo{}
	svc := newLeadService(t, repo, nil)

	dto, err := svc.Create(context.Background(), nil, validInput(uuid.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.SubmittedBy != nil {
		t.Fatal("expected no submitter")
	}
}

func TestCreateLeadValidation(t *testing.T) {
	svc := newLeadService(t, &stubLeadRepo{}, nil)
	businessID := uuid.New()

	mutations := []struct {
		name   string
		mutate func(*CreateLeadInput)
	}{
		{"missing name", func(i *CreateLeadInput) { i.Name = " " }},
		{"missing email", func(i *CreateLeadInput) { i.Email = "" }},
		{"malformed email", func(i *CreateLeadInput) { i.Email = "not-an-email" }},
		{"missing phone", func(i *CreateLeadInput) { i.Phone = "" }},
		{"missing message", func(i *CreateLeadInput) { i.Message = "" }},
		{"missing business", func(i *CreateLeadInput) { i.BusinessID = uuid.Nil }},
	}

	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(businessID)
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), nil, input)
			if err == nil {
				t.Fatal("expected error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestListFiltersByRole(t *testing.T) {
	businessID := uuid.New()
	userID := uuid.New()
	repo := &stubLeadRepo{
		joined:      []LeadWithBusiness{{Lead: models.Lead{ID: uuid.New()}, BusinessName: "Acme"}},
		byBusiness:  []models.Lead{{ID: uuid.New(), BusinessID: businessID}},
		bySubmitter: []models.Lead{{ID: uuid.New(), SubmittedBy: &userID}},
	}
	svc := newLeadService(t, repo, nil)

	adminRows, err := svc.List(context.Background(), access.Actor{Role: enums.UserRoleAdmin})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminRows) != 1 || adminRows[0].BusinessName != "Acme" {
		t.Fatalf("expected joined business name, got %+v", adminRows)
	}

	bizRows, err := svc.List(context.Background(), access.Actor{Role: enums.UserRoleBusiness, BusinessID: &businessID})
	if err != nil {
		t.Fatalf("business list: %v", err)
	}
	if len(bizRows) != 1 || bizRows[0].BusinessID != businessID {
		t.Fatalf("expected own-business rows, got %+v", bizRows)
	}
	if repo.listedBusiness != businessID {
		t.Fatalf("expected query scoped to %s, got %s", businessID, repo.listedBusiness)
	}

	custRows, err := svc.List(context.Background(), access.Actor{UserID: userID, Role: enums.UserRoleCustomer})
	if err != nil {
		t.Fatalf("customer list: %v", err)
	}
	if len(custRows) != 1 {
		t.Fatalf("expected self-submitted rows, got %+v", custRows)
	}
	if repo.listedSubmitter != userID {
		t.Fatalf("expected query scoped to submitter %s, got %s", userID, repo.listedSubmitter)
	}
}

func TestListBusinessWithoutLinkForbidden(t *testing.T) {
	svc := newLeadService(t, &stubLeadRepo{}, nil)

	_, err := svc.List(context.Background(), access.Actor{Role: enums.UserRoleBusiness})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}
}

func TestDeleteLeadScoped(t *testing.T) {
	businessID := uuid.New()
	lead := &models.Lead{ID: uuid.New(), BusinessID: businessID}
	repo := &stubLeadRepo{lead: lead}
	svc := newLeadService(t, repo, nil)

	other := uuid.New()
	err := svc.Delete(context.Background(), access.Actor{Role: enums.UserRoleBusiness, BusinessID: &other}, lead.ID)
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}

	if err := svc.Delete(context.Background(), access.Actor{Role: enums.UserRoleAdmin}, lead.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if repo.deleted != lead.ID {
		t.Fatalf("expected lead deleted, got %s", repo.deleted)
	}
}

func TestDeleteLeadNotFound(t *testing.T) {
	repo := &stubLeadRepo{findErr: gorm.ErrRecordNotFound}
	svc := newLeadService(t, repo, nil)

	err := svc.Delete(context.Background(), access.Actor{Role: enums.UserRoleAdmin}, uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

type stubLeadRepo struct {
	created         *models.Lead
	lead            *models.Lead
	joined          []LeadWithBusiness
	byBusiness      []models.Lead
	bySubmitter     []models.Lead
	findErr         error
	createErr       error
	deleted         uuid.UUID
	listedBusiness  uuid.UUID
	listedSubmitter uuid.UUID
}

func (s *stubLeadRepo) Create(ctx context.Context, lead *models.Lead) error {
	if s.createErr != nil {
		return s.createErr
	}
	lead.ID = uuid.New()
	s.created = lead
	return nil
}

func (s *stubLeadRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.lead, nil
}

func (s *stubLeadRepo) ListAllWithBusiness(ctx context.Context) ([]LeadWithBusiness, error) {
	return s.joined, nil
}

func (s *stubLeadRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Lead, error) {
	s.listedBusiness = businessID
	return s.byBusiness, nil
}

func (s *stubLeadRepo) ListBySubmitter(ctx context.Context, userID uuid.UUID) ([]models.Lead, error) {
	s.listedSubmitter = userID
	return s.bySubmitter, nil
}

func (s *stubLeadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = id
	return nil
}

type stubPublisher struct {
	published [][]byte
	err       error
}

func (s *stubPublisher) Publish(ctx context.Context, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, data)
	return nil
}
