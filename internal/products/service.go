package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bizlink/leadgen-backend/internal/access"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
)

// Service exposes ownership-gated product management operations.
type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, actor access.Actor, productID uuid.UUID) (*ProductDTO, error)
	ListOwn(ctx context.Context, actor access.Actor) ([]ProductDTO, error)
	ListPublic(ctx context.Context, businessID uuid.UUID) ([]ProductDTO, error)
	Update(ctx context.Context, actor access.Actor, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, actor access.Actor, productID uuid.UUID) error
	AttachImages(ctx context.Context, actor access.Actor, productID uuid.UUID, uploads []ImageUpload) ([]string, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string          `json:"name" validate:"required"`
	SKU         string          `json:"sku" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Description string          `json:"description"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string          `json:"name,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// ImageUpload is one file received on the upload endpoint.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	AppendImages(ctx context.Context, product *models.Product, urls []string) error
}

type imageUploader interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error)
}

type service struct {
	repo     productRepository
	uploader imageUploader
}

// ServiceParams bundles the dependencies for the product service.
type ServiceParams struct {
	Repo     productRepository
	Uploader imageUploader
}

// NewService constructs a product service instance. Uploader may be nil when
// the deployment has no object storage; uploads then fail with a dependency
// error instead of at startup.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: params.Repo, uploader: params.Uploader}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, input CreateProductInput) (*ProductDTO, error) {
	businessID, err := s.actorBusiness(actor)
	if err != nil {
		return nil, err
	}
	if err := validateProductFields(input.Name, input.SKU, input.Price, input.Quantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		BusinessID:  businessID,
		Name:        strings.TrimSpace(input.Name),
		SKU:         strings.TrimSpace(input.SKU),
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		Images:      []string{},
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadScoped(ctx, actor, productID)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) ListOwn(ctx context.Context, actor access.Actor) ([]ProductDTO, error) {
	if actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin listing requires a business id")
	}
	businessID, err := s.actorBusiness(actor)
	if err != nil {
		return nil, err
	}
	return s.ListPublic(ctx, businessID)
}

func (s *service) ListPublic(ctx context.Context, businessID uuid.UUID) ([]ProductDTO, error) {
	items, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return FromModels(items), nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadScoped(ctx, actor, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if err := validateProductFields(product.Name, product.SKU, product.Price, product.Quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, productID uuid.UUID) error {
	if _, err := s.loadScoped(ctx, actor, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) AttachImages(ctx context.Context, actor access.Actor, productID uuid.UUID, uploads []ImageUpload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files provided")
	}
	if s.uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "object storage not configured")
	}

	product, err := s.loadScoped(ctx, actor, productID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		object := imageObjectName(product, upload.Filename)
		url, err := s.uploader.Upload(ctx, object, upload.ContentType, upload.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
		}
		urls = append(urls, url)
	}

	if err := s.repo.AppendImages(ctx, product, urls); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record image urls")
	}
	return urls, nil
}

func (s *service) loadScoped(ctx context.Context, actor access.Actor, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := access.RequireBusinessScope(actor, product.BusinessID); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) actorBusiness(actor access.Actor) (uuid.UUID, error) {
	if actor.BusinessID != nil {
		return *actor.BusinessID, nil
	}
	if actor.IsAdmin() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "business id required")
	}
	return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "caller has no business")
}

func validateProductFields(name, sku string, price decimal.Decimal, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(sku) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	return nil
}

func imageObjectName(product *models.Product, filename string) string {
	base := path.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}
	return fmt.Sprintf("media/products/%s/%s_%s", product.ID, uuid.NewString()[:8], base)
}
