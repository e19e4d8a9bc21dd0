package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/database"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
	db, err := database.OpenDriver("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))
	return db
}

func testProduct(slug, sku string) *models.Product {
	return &models.Product{
		Slug:        slug,
		SKU:         sku,
		Name:        "Test Product",
		Description: "A product",
		Price:       decimal.NewFromFloat(49.99),
		Gender:      models.GenderMens,
		CategoryID:  uuid.NewString(),
		Brand:       models.DefaultBrand,
		Status:      models.StatusActive,
	}
}

func TestProductCreateAssignsID(t *testing.T) {
	repo := NewProductRepository(testDB(t))
	ctx := context.Background()

	p := testProduct("kurta-set", "MEN-000001")
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEmpty(t, p.ID)
}

func TestProductCreateDuplicateSlug(t *testing.T) {
	repo := NewProductRepository(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testProduct("kurta-set", "MEN-000001")))

	err := repo.Create(ctx, testProduct("kurta-set", "MEN-000002"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProductCreateDuplicateSKU(t *testing.T) {
	repo := NewProductRepository(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testProduct("kurta-set", "MEN-000001")))

	err := repo.Create(ctx, testProduct("kurta-set-2", "MEN-000001"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProductFindBySlug(t *testing.T) {
	repo := NewProductRepository(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testProduct("kurta-set", "MEN-000001")))

	found, err := repo.FindBySlug(ctx, "kurta-set")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "MEN-000001", found.SKU)

	missing, err := repo.FindBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductUpdateImageURLsAndDelete(t *testing.T) {
	repo := NewProductRepository(testDB(t))
	ctx := context.Background()

	p := testProduct("kurta-set", "MEN-000001")
	require.NoError(t, repo.Create(ctx, p))

	urls := []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"}
	require.NoError(t, repo.UpdateImageURLs(ctx, p.ID, urls))

	found, err := repo.FindBySlug(ctx, "kurta-set")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.StringList(urls), found.ImageURLs)

	require.NoError(t, repo.Delete(ctx, p.ID))
	gone, err := repo.FindBySlug(ctx, "kurta-set")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestNextSKU(t *testing.T) {
	repo := NewProductRepository(testDB(t))
	ctx := context.Background()

	// A free base is honoured as-is.
	sku, err := repo.NextSKU(ctx, "MEN", "MEN-CUSTOM")
	require.NoError(t, err)
	assert.Equal(t, "MEN-CUSTOM", sku)

	// A taken base gets a disambiguating suffix.
	require.NoError(t, repo.Create(ctx, testProduct("kurta-set", "MEN-CUSTOM")))
	sku, err = repo.NextSKU(ctx, "MEN", "MEN-CUSTOM")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sku, "MEN-CUSTOM-"), "got %q", sku)

	// No base generates from the prefix.
	sku, err = repo.NextSKU(ctx, "KID", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sku, "KID-"), "got %q", sku)
}

func TestProductList(t *testing.T) {
	repo := NewProductRepository(testDB(t))
	ctx := context.Background()

	catA := uuid.NewString()
	catB := uuid.NewString()

	seed := []struct {
		slug, sku, gender, cat, status, name string
		price                                float64
		featured                             bool
	}{
		{"plain-tee", "MEN-000001", models.GenderMens, catA, models.StatusActive, "Plain Tee", 19.99, true},
		{"graphic-tee", "MEN-000002", models.GenderMens, catA, models.StatusActive, "Graphic Tee", 29.99, false},
		{"summer-dress", "WOM-000001", models.GenderWomens, catB, models.StatusActive, "Summer Dress", 59.99, false},
		{"draft-hoodie", "MEN-000003", models.GenderMens, catA, models.StatusDraft, "Draft Hoodie", 39.99, false},
	}
	for _, s := range seed {
		p := testProduct(s.slug, s.sku)
		p.Gender = s.gender
		p.CategoryID = s.cat
		p.Status = s.status
		p.Name = s.name
		p.Price = decimal.NewFromFloat(s.price)
		p.IsFeatured = s.featured
		require.NoError(t, repo.Create(ctx, p))
	}

	t.Run("defaults to active only", func(t *testing.T) {
		rows, total, err := repo.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, rows, 3)
	})

	t.Run("status all includes drafts", func(t *testing.T) {
		_, total, err := repo.List(ctx, ListFilter{Status: "all"})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("filters by gender", func(t *testing.T) {
		rows, total, err := repo.List(ctx, ListFilter{Gender: models.GenderWomens})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "summer-dress", rows[0].Slug)
	})

	t.Run("filters by category", func(t *testing.T) {
		_, total, err := repo.List(ctx, ListFilter{CategoryID: catA})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("case-insensitive search", func(t *testing.T) {
		rows, total, err := repo.List(ctx, ListFilter{Search: "TEE"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, rows, 2)
	})

	t.Run("filters by is_featured", func(t *testing.T) {
		featured := true
		rows, total, err := repo.List(ctx, ListFilter{IsFeatured: &featured})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "plain-tee", rows[0].Slug)
	})

	t.Run("sorts by price ascending", func(t *testing.T) {
		rows, _, err := repo.List(ctx, ListFilter{Sort: "price_asc"})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "plain-tee", rows[0].Slug)
		assert.Equal(t, "summer-dress", rows[2].Slug)
	})

	t.Run("paginates with full count", func(t *testing.T) {
		rows, total, err := repo.List(ctx, ListFilter{Sort: "price_asc", Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "summer-dress", rows[0].Slug)
	})
}
