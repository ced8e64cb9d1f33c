package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizlink/leadgen-backend/api/middleware"
	"github.com/bizlink/leadgen-backend/internal/access"
	"github.com/bizlink/leadgen-backend/internal/auth"
	"github.com/bizlink/leadgen-backend/internal/users"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubRegisterService struct {
	resp *auth.RegisterResponse
	err  error
}

func (s stubRegisterService) Register(context.Context, auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return s.resp, s.err
}

type stubAuthService struct {
	login   *auth.LoginResponse
	profile *users.UserDTO
	err     error
}

func (s stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s stubAuthService) UpdateProfile(context.Context, uuid.UUID, auth.UpdateProfileRequest) (*users.UserDTO, error) {
	return s.profile, s.err
}

type stubSeedService struct {
	id  uuid.UUID
	err error
}

func (s stubSeedService) Seed(context.Context, auth.SeedRequest) (uuid.UUID, error) {
	return s.id, s.err
}

func TestAuthRegisterSuccess(t *testing.T) {
	userID := uuid.New()
	businessID := uuid.New()
	handler := AuthRegister(stubRegisterService{resp: &auth.RegisterResponse{
		Message:    "user registered",
		UserID:     userID,
		BusinessID: &businessID,
	}}, nil)

	body := []byte(`{"name":"Ada","email":"ada@example.com","password":"Secret123!","role":"business","category":"plumbing"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data auth.RegisterResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.UserID != userID {
		t.Fatalf("unexpected user id %s", envelope.Data.UserID)
	}
	if envelope.Data.BusinessID == nil || *envelope.Data.BusinessID != businessID {
		t.Fatalf("expected business id in response")
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	handler := AuthRegister(stubRegisterService{}, nil)

	body := []byte(`{"name":"Ada","email":"ada@example.com","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthRegisterPropagatesConflict(t *testing.T) {
	handler := AuthRegister(stubRegisterService{
		err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered"),
	}, nil)

	body := []byte(`{"name":"Ada","email":"ada@example.com","password":"Secret123!"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestAuthLoginReturnsToken(t *testing.T) {
	handler := AuthLogin(stubAuthService{login: &auth.LoginResponse{Token: "jwt-token"}}, nil)

	body := []byte(`{"email":"ada@example.com","password":"Secret123!"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "jwt-token" {
		t.Fatalf("unexpected token %q", envelope.Data.Token)
	}
}

func TestAuthLoginUnauthorized(t *testing.T) {
	handler := AuthLogin(stubAuthService{
		err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"),
	}, nil)

	body := []byte(`{"email":"ada@example.com","password":"wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthProfileRequiresActor(t *testing.T) {
	handler := AuthProfile(stubAuthService{profile: &users.UserDTO{}}, nil)

	body := []byte(`{"name":"New Name"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthProfileUpdatesWithActor(t *testing.T) {
	handler := AuthProfile(stubAuthService{profile: &users.UserDTO{Name: "New Name"}}, nil)

	body := []byte(`{"name":"New Name"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader(body))
	actor := &access.Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestAdminSeedForbiddenOnBadKey(t *testing.T) {
	handler := AdminSeed(stubSeedService{
		err: pkgerrors.New(pkgerrors.CodeForbidden, "invalid seed key"),
	}, nil)

	body := []byte(`{"key":"wrong","name":"Root","email":"root@example.com","password":"Secret123!"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/seed", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestAdminSeedSuccess(t *testing.T) {
	id := uuid.New()
	handler := AdminSeed(stubSeedService{id: id}, nil)

	body := []byte(`{"key":"seed-key","name":"Root","email":"root@example.com","password":"Secret123!"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/seed", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["user_id"] != id.String() {
		t.Fatalf("unexpected user id %q", envelope.Data["user_id"])
	}
}
