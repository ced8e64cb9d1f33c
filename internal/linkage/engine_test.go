package linkage

import (
	"context"
	"errors"
	"testing"

	"github.com/bizlink/leadgen-backend/internal/businesses"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestNewEngineRequiresRepos(t *testing.T) {
	if _, err := NewEngine(nil, &stubUserRepo{}); err == nil {
		t.Fatal("expected error creating engine without business repo")
	}
	if _, err := NewEngine(&stubBusinessRepo{}, nil); err == nil {
		t.Fatal("expected error creating engine without user repo")
	}
}

func TestRegisterBusinessLinksUser(t *testing.T) {
	user := businessUser()
	businessRepo := &stubBusinessRepo{}
	userRepo := &stubUserRepo{}
	engine := mustEngine(t, businessRepo, userRepo)

	business, err := engine.RegisterBusiness(context.Background(), user, BusinessFields{
		Category: "Food",
		Location: "OKC",
	})
	if err != nil {
		t.Fatalf("register business: %v", err)
	}

	if business.OwnerID != user.ID {
		t.Fatalf("expected owner %s got %s", user.ID, business.OwnerID)
	}
	if business.Name != user.Name {
		t.Fatalf("expected business named after user, got %q", business.Name)
	}
	if business.Category != "Food" {
		t.Fatalf("expected category copied, got %q", business.Category)
	}
	if user.BusinessID == nil || *user.BusinessID != business.ID {
		t.Fatalf("expected user linked to %s, got %v", business.ID, user.BusinessID)
	}
	if userRepo.linkedBusinessID != business.ID {
		t.Fatal("expected link persisted through user repo")
	}
}

func TestRegisterBusinessRejectsExistingLink(t *testing.T) {
	user := businessUser()
	existing := uuid.New()
	user.BusinessID = &existing
	engine := mustEngine(t, &stubBusinessRepo{}, &stubUserRepo{})

	_, err := engine.RegisterBusiness(context.Background(), user, BusinessFields{})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestRegisterBusinessRejectsNonBusinessRole(t *testing.T) {
	user := businessUser()
	user.Role = enums.UserRoleCustomer
	engine := mustEngine(t, &stubBusinessRepo{}, &stubUserRepo{})

	_, err := engine.RegisterBusiness(context.Background(), user, BusinessFields{})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestRegisterBusinessLeavesOrphanOnLinkFailure(t *testing.T) {
	user := businessUser()
	businessRepo := &stubBusinessRepo{}
	userRepo := &stubUserRepo{setErr: errors.New("write failed")}
	engine := mustEngine(t, businessRepo, userRepo)

	_, err := engine.RegisterBusiness(context.Background(), user, BusinessFields{})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
	if businessRepo.created == nil {
		t.Fatal("expected the business row to remain created")
	}
	if user.BusinessID != nil {
		t.Fatal("expected user to remain unlinked")
	}
}

func TestAdoptOrCreateBusinessAdoptsOldest(t *testing.T) {
	user := businessUser()
	oldest := models.Business{ID: uuid.New(), OwnerID: user.ID, Name: "First Shop"}
	newer := models.Business{ID: uuid.New(), OwnerID: user.ID, Name: "Second Shop"}
	businessRepo := &stubBusinessRepo{owned: []models.Business{oldest, newer}}
	userRepo := &stubUserRepo{}
	engine := mustEngine(t, businessRepo, userRepo)

	business, owned, err := engine.AdoptOrCreateBusiness(context.Background(), user, BusinessFields{})
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if owned != 2 {
		t.Fatalf("expected 2 owned rows reported, got %d", owned)
	}
	if business.ID != oldest.ID {
		t.Fatalf("expected the oldest row adopted, got %s", business.ID)
	}
	if businessRepo.created != nil {
		t.Fatal("expected no new business created")
	}
	if user.BusinessID == nil || *user.BusinessID != oldest.ID {
		t.Fatalf("expected user linked to %s, got %v", oldest.ID, user.BusinessID)
	}
	if userRepo.linkedBusinessID != oldest.ID {
		t.Fatal("expected link persisted through user repo")
	}
}

func TestAdoptOrCreateBusinessCreatesWhenNoneOwned(t *testing.T) {
	user := businessUser()
	businessRepo := &stubBusinessRepo{}
	engine := mustEngine(t, businessRepo, &stubUserRepo{})

	business, owned, err := engine.AdoptOrCreateBusiness(context.Background(), user, BusinessFields{Name: "Fresh"})
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if owned != 0 {
		t.Fatalf("expected 0 owned rows, got %d", owned)
	}
	if businessRepo.created == nil || businessRepo.created.ID != business.ID {
		t.Fatal("expected a new business created")
	}
	if business.Name != "Fresh" {
		t.Fatalf("expected explicit name kept, got %q", business.Name)
	}
}

func TestAdoptOrCreateBusinessRejectsLinkedUser(t *testing.T) {
	user := businessUser()
	existing := uuid.New()
	user.BusinessID = &existing
	engine := mustEngine(t, &stubBusinessRepo{}, &stubUserRepo{})

	_, _, err := engine.AdoptOrCreateBusiness(context.Background(), user, BusinessFields{})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestScrubBusinessFieldsIdempotent(t *testing.T) {
	user := businessUser()
	category := "Food"
	user.LegacyCategory = &category
	userRepo := &stubUserRepo{scrubModified: true}
	engine := mustEngine(t, &stubBusinessRepo{}, userRepo)

	modified, err := engine.ScrubBusinessFields(context.Background(), user)
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if !modified {
		t.Fatal("expected first scrub to modify the row")
	}
	if user.HasLegacyBusinessFields() {
		t.Fatal("expected in-memory legacy fields cleared")
	}

	userRepo.scrubModified = false
	modified, err = engine.ScrubBusinessFields(context.Background(), user)
	if err != nil {
		t.Fatalf("second scrub: %v", err)
	}
	if modified {
		t.Fatal("expected second scrub to be a no-op")
	}
}

func TestBusinessNameForFallbacks(t *testing.T) {
	user := businessUser()

	if got := BusinessNameFor(user, "Acme"); got != "Acme" {
		t.Fatalf("expected explicit name, got %q", got)
	}
	if got := BusinessNameFor(user, ""); got != user.Name {
		t.Fatalf("expected user name, got %q", got)
	}

	user.Name = ""
	if got := BusinessNameFor(user, ""); got != user.Email {
		t.Fatalf("expected email fallback, got %q", got)
	}

	user.Email = ""
	if got := BusinessNameFor(user, ""); got != FallbackBusinessName {
		t.Fatalf("expected fixed fallback, got %q", got)
	}
}

func businessUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Ada Vendor",
		Email: "ada@example.com",
		Role:  enums.UserRoleBusiness,
	}
}

func mustEngine(t *testing.T, b *stubBusinessRepo, u *stubUserRepo) *Engine {
	t.Helper()
	engine, err := NewEngine(b, u)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

type stubBusinessRepo struct {
	created   *models.Business
	createErr error
	owned     []models.Business
	ownedErr  error
}

func (s *stubBusinessRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error) {
	if s.ownedErr != nil {
		return nil, s.ownedErr
	}
	return s.owned, nil
}

func (s *stubBusinessRepo) Create(ctx context.Context, dto businesses.CreateBusinessDTO) (*models.Business, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	business := dto.ToModel()
	business.ID = uuid.New()
	s.created = business
	return business, nil
}

type stubUserRepo struct {
	linkedBusinessID uuid.UUID
	setErr           error
	scrubModified    bool
	scrubErr         error
}

func (s *stubUserRepo) SetBusinessID(ctx context.Context, id, businessID uuid.UUID) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.linkedBusinessID = businessID
	return nil
}

func (s *stubUserRepo) ScrubLegacyFields(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.scrubErr != nil {
		return false, s.scrubErr
	}
	return s.scrubModified, nil
}
