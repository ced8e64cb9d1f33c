package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  business_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  description TEXT NOT NULL DEFAULT '',
  images TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, businessID uuid.UUID, sku string, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		BusinessID: businessID,
		Name:       "Widget",
		SKU:        sku,
		Price:      decimal.NewFromFloat(19.99),
		Quantity:   3,
		Images:     []string{},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)

	product := &models.Product{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		Name:       "Widget",
		SKU:        "W-1",
		Price:      decimal.RequireFromString("19.99"),
		Quantity:   5,
		Images:     []string{},
	}
	require.NoError(t, repo.Create(context.Background(), product))

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "W-1", found.SKU)
	assert.Equal(t, 5, found.Quantity)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("19.99")),
		"expected price 19.99, got %s", found.Price)
}

func TestRepositoryListByBusinessNewestFirst(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)

	businessID := uuid.New()
	now := time.Now().UTC()
	older := seedProduct(t, db, businessID, "OLD-1", now.Add(-time.Hour))
	newer := seedProduct(t, db, businessID, "NEW-1", now)
	seedProduct(t, db, uuid.New(), "OTHER-1", now)

	rows, err := repo.ListByBusiness(context.Background(), businessID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}

func TestRepositoryAppendImages(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, uuid.New(), "IMG-1", time.Now().UTC())

	urls := []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"}
	require.NoError(t, repo.AppendImages(context.Background(), product, urls))

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, found.Images, 2)
	assert.Equal(t, urls[0], found.Images[0])
	assert.Equal(t, urls[1], found.Images[1])

	require.NoError(t, repo.AppendImages(context.Background(), found, []string{"https://cdn.test/c.jpg"}))
	again, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Len(t, again.Images, 3)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)

	product := seedProduct(t, db, uuid.New(), "UPD-1", time.Now().UTC())

	product.Quantity = 0
	product.Description = "sold out"
	require.NoError(t, repo.Update(context.Background(), product))

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Quantity)
	assert.Equal(t, "sold out", found.Description)

	require.NoError(t, repo.Delete(context.Background(), product.ID))
	_, err = repo.FindByID(context.Background(), product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryProductsOutliveBusinessDelete(t *testing.T) {
	db := setupProductTestDB(t)
	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS businesses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  owner TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	repo := NewRepository(db)

	business := &models.Business{ID: uuid.New(), Name: "Acme Plumbing", OwnerID: uuid.New()}
	require.NoError(t, db.Create(business).Error)
	product := seedProduct(t, db, business.ID, "ORPHAN-1", time.Now().UTC())

	require.NoError(t, db.Delete(&models.Business{}, "id = ?", business.ID).Error)

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, business.ID, found.BusinessID)

	rows, err := repo.ListByBusiness(context.Background(), business.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
