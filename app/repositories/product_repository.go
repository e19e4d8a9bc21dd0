package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
)

// ListFilter carries the query parameters of the product listing endpoint.
type ListFilter struct {
	Gender     string
	CategoryID string
	Search     string
	Sort       string // price_asc | price_desc | newest
	Status     string // active (default) | draft | archived | all
	IsFeatured *bool
	IsOnSale   *bool
	Limit      int
	Offset     int
}

// DefaultListLimit is applied when the caller gives no limit.
const DefaultListLimit = 24

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts the product row. A slug or SKU collision surfaces as
// gorm.ErrDuplicatedKey (TranslateError is enabled in pkg/database);
// the caller owns the retry policy.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateImageURLs sets the row's image list. Idempotent: repeating the
// update with the same URLs is a no-op.
func (r *ProductRepository) UpdateImageURLs(ctx context.Context, id string, urls []string) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("image_urls", models.StringList(urls)).Error
}

// Delete removes the product row by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindBySlug looks up a product by its slug. Returns (nil, nil) when absent.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SKUExists reports whether any product already carries the given SKU.
func (r *ProductRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", sku).
		Count(&count).Error
	return count > 0, err
}

// NextSKU is the store-side unique-SKU generator. When base is non-empty
// and unused it is returned as-is; otherwise candidates derived from the
// prefix (and the base, when given) are probed until a free one is found.
func (r *ProductRepository) NextSKU(ctx context.Context, prefix, base string) (string, error) {
	if base != "" {
		exists, err := r.SKUExists(ctx, base)
		if err != nil {
			return "", err
		}
		if !exists {
			return base, nil
		}
		// The suggested SKU is taken: disambiguate from it.
		prefix = base
	}

	for i := 0; i < 10; i++ {
		candidate := fmt.Sprintf("%s-%s", prefix, skuToken())
		exists, err := r.SKUExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("repositories: could not generate a unique SKU for prefix %q", prefix)
}

func skuToken() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// List returns products matching the filter plus the total match count
// (before limit/offset), so clients can paginate.
func (r *ProductRepository) List(ctx context.Context, f ListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	status := f.Status
	if status == "" {
		status = models.StatusActive
	}
	if status != "all" {
		q = q.Where("status = ?", status)
	}

	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ? OR subcategory_id = ?", f.CategoryID, f.CategoryID)
	}
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", needle, needle)
	}
	if f.IsFeatured != nil {
		q = q.Where("is_featured = ?", *f.IsFeatured)
	}
	if f.IsOnSale != nil {
		q = q.Where("is_on_sale = ?", *f.IsOnSale)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case "price_asc":
		q = q.Order("price asc")
	case "price_desc":
		q = q.Order("price desc")
	default: // newest
		q = q.Order("created_at desc")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q = q.Limit(limit)
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
