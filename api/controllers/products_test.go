package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bizlink/leadgen-backend/api/middleware"
	"github.com/bizlink/leadgen-backend/internal/access"
	"github.com/bizlink/leadgen-backend/internal/products"
	"github.com/bizlink/leadgen-backend/pkg/config"
	"github.com/bizlink/leadgen-backend/pkg/enums"
)

type stubProductService struct {
	created  *products.CreateProductInput
	attached []products.ImageUpload
	attachID uuid.UUID
	urls     []string
	err      error
}

func (s *stubProductService) Create(_ context.Context, _ access.Actor, input products.CreateProductInput) (*products.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &input
	return &products.ProductDTO{ID: uuid.New(), Name: input.Name, SKU: input.SKU}, nil
}

func (s *stubProductService) Get(context.Context, access.Actor, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, s.err
}

func (s *stubProductService) ListOwn(context.Context, access.Actor) ([]products.ProductDTO, error) {
	return nil, s.err
}

func (s *stubProductService) ListPublic(context.Context, uuid.UUID) ([]products.ProductDTO, error) {
	return nil, s.err
}

func (s *stubProductService) Update(context.Context, access.Actor, uuid.UUID, products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, s.err
}

func (s *stubProductService) Delete(context.Context, access.Actor, uuid.UUID) error {
	return s.err
}

func (s *stubProductService) AttachImages(_ context.Context, _ access.Actor, productID uuid.UUID, uploads []products.ImageUpload) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.attachID = productID
	s.attached = uploads
	return s.urls, nil
}

func businessRequest(req *http.Request) *http.Request {
	businessID := uuid.New()
	actor := &access.Actor{UserID: uuid.New(), Role: enums.UserRoleBusiness, BusinessID: &businessID}
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func testUploadsConfig() config.UploadsConfig {
	return config.UploadsConfig{MaxFiles: 2, MaxUploadMB: 5}
}

func TestProductCreateSuccess(t *testing.T) {
	svc := &stubProductService{}
	handler := ProductCreate(svc, nil)

	body := []byte(`{"name":"Widget","sku":"W-1","price":"19.99","quantity":3}`)
	req := businessRequest(httptest.NewRequest(http.MethodPost, "/api/business/products", bytes.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil || svc.created.SKU != "W-1" {
		t.Fatalf("expected create input forwarded, got %+v", svc.created)
	}
}

func TestProductCreateRequiresAuth(t *testing.T) {
	handler := ProductCreate(&stubProductService{}, nil)

	body := []byte(`{"name":"Widget","sku":"W-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/business/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestProductGetRejectsMalformedID(t *testing.T) {
	handler := ProductGet(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/business/products/not-a-uuid", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productId", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	req = businessRequest(req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, productID string, files int) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	if productID != "" {
		if err := writer.WriteField("product_id", productID); err != nil {
			t.Fatalf("writing field: %v", err)
		}
	}
	for i := 0; i < files; i++ {
		part, err := writer.CreateFormFile("images", "photo.jpg")
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		if _, err := io.WriteString(part, "jpeg-bytes"); err != nil {
			t.Fatalf("writing file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return buf, writer.FormDataContentType()
}

func TestProductUploadAttachesFiles(t *testing.T) {
	svc := &stubProductService{urls: []string{"https://cdn.test/a", "https://cdn.test/b"}}
	handler := ProductUpload(svc, testUploadsConfig(), nil)

	productID := uuid.New()
	body, contentType := multipartUpload(t, productID.String(), 2)
	req := businessRequest(httptest.NewRequest(http.MethodPost, "/api/business/products/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.attachID != productID {
		t.Fatalf("expected product id forwarded")
	}
	if len(svc.attached) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(svc.attached))
	}

	var envelope struct {
		Data struct {
			URLs []string `json:"urls"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.URLs) != 2 {
		t.Fatalf("expected 2 urls in response, got %v", envelope.Data.URLs)
	}
}

func TestProductUploadEnforcesFileCap(t *testing.T) {
	handler := ProductUpload(&stubProductService{}, testUploadsConfig(), nil)

	body, contentType := multipartUpload(t, uuid.NewString(), 3)
	req := businessRequest(httptest.NewRequest(http.MethodPost, "/api/business/products/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestProductUploadRequiresProductID(t *testing.T) {
	handler := ProductUpload(&stubProductService{}, testUploadsConfig(), nil)

	body, contentType := multipartUpload(t, "", 1)
	req := businessRequest(httptest.NewRequest(http.MethodPost, "/api/business/products/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestProductUploadRequiresFiles(t *testing.T) {
	handler := ProductUpload(&stubProductService{}, testUploadsConfig(), nil)

	body, contentType := multipartUpload(t, uuid.NewString(), 0)
	req := businessRequest(httptest.NewRequest(http.MethodPost, "/api/business/products/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
