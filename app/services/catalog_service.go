package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/validate"
)

// maxSlugAttempts bounds the insert-and-retry loop. Hitting the cap means
// either a pathological catalog or a bug, so the request fails loudly.
const maxSlugAttempts = 25

// ProductStore is what the catalog service needs from the product repository.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	UpdateImageURLs(ctx context.Context, id string, urls []string) error
	Delete(ctx context.Context, id string) error
	SKUExists(ctx context.Context, sku string) (bool, error)
	NextSKU(ctx context.Context, prefix, base string) (string, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, f repositories.ListFilter) ([]models.Product, int64, error)
}

// CategoryStore is what the catalog service needs from the category repository.
type CategoryStore interface {
	FindBySlugGender(ctx context.Context, slug, gender string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	All(ctx context.Context) ([]models.Category, error)
}

// CreateProductRequest is a product submission. The same struct backs the
// JSON and the multipart form of POST /api/products.
type CreateProductRequest struct {
	Name              string   `json:"name" validate:"required,max=255"`
	Description       string   `json:"description" validate:"required"`
	Price             float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice     float64  `json:"original_price" validate:"nullable,gt=0"`
	Gender            string   `json:"gender" validate:"required,in=mens,womens,kids"`
	CategoryID        string   `json:"category_id" validate:"required"`
	SubcategoryID     string   `json:"subcategory_id" validate:"nullable"`
	SKU               string   `json:"sku" validate:"nullable,alpha_dash,max=100"`
	Brand             string   `json:"brand" validate:"nullable,max=120"`
	Status            string   `json:"status" validate:"nullable,in=active,draft,archived"`
	StockQuantity     int      `json:"stock_quantity" validate:"nullable,gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	IsFeatured        bool     `json:"is_featured"`
	IsOnSale          bool     `json:"is_on_sale"`
	Sizes             []string `json:"sizes"`
	Colors            []string `json:"colors"`
	Tags              []string `json:"tags"`
	ImageURLs         []string `json:"image_urls"`
}

// CreateResult is what a successful ingestion returns to the client.
type CreateResult struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// ListQuery carries the listing endpoint's filters before category
// resolution. CategorySlug, when set, is resolved against the category
// store; an unresolvable slug yields an empty result, not an error.
type ListQuery struct {
	Gender       string
	CategorySlug string
	CategoryID   string
	Search       string
	Sort         string
	Status       string
	IsFeatured   *bool
	IsOnSale     *bool
	Limit        int
	Offset       int
}

// CatalogService runs the product ingestion pipeline and the read path.
type CatalogService struct {
	products   ProductStore
	categories CategoryStore
	images     *ImageService
}

func NewCatalogService(products ProductStore, categories CategoryStore, images *ImageService) *CatalogService {
	return &CatalogService{products: products, categories: categories, images: images}
}

// Create runs the full ingestion pipeline: validate, resolve the category,
// allocate a unique slug and SKU, insert the row, upload images, and attach
// their URLs. Any failure after the row exists triggers compensation: the
// uploaded objects and the row are removed, and the original error is
// returned.
func (s *CatalogService) Create(ctx context.Context, req CreateProductRequest, files []ImageUpload) (*CreateResult, error) {
	if err := s.validateRequest(req, files); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID, req.Gender)
	if err != nil {
		return nil, err
	}
	subcategoryID := ""
	if req.SubcategoryID != "" {
		subcategoryID, err = s.resolveCategory(ctx, req.SubcategoryID, req.Gender)
		if err != nil {
			return nil, err
		}
	}

	prefix := skuPrefix(req.Gender)
	sku, err := s.products.NextSKU(ctx, prefix, strings.ToUpper(strings.TrimSpace(req.SKU)))
	if err != nil {
		logger.Warn("catalog: sku generator failed, using fallback", "error", err)
		sku = fallbackSKU(prefix)
	}

	product := s.buildProduct(req, categoryID, subcategoryID)
	if err := s.insertWithUniqueSlug(ctx, product, Slugify(req.Name), sku, prefix); err != nil {
		return nil, err
	}

	uploadedURLs, paths, err := s.images.Upload(ctx, product.ID, files)
	if err != nil {
		s.compensate(ctx, "upload", product.ID, paths)
		return nil, err
	}

	allURLs := append(append([]string{}, req.ImageURLs...), uploadedURLs...)
	if len(allURLs) > 0 {
		if err := s.products.UpdateImageURLs(ctx, product.ID, allURLs); err != nil {
			s.compensate(ctx, "attach", product.ID, paths)
			return nil, fmt.Errorf("catalog: attach image urls: %w", err)
		}
	}

	metrics.ProductsCreated.Inc()
	logger.Info("catalog: product created",
		"id", product.ID, "slug", product.Slug, "sku", product.SKU, "images", len(allURLs))

	return &CreateResult{ID: product.ID, Slug: product.Slug}, nil
}

// List returns products matching the query plus the total match count.
func (s *CatalogService) List(ctx context.Context, q ListQuery) ([]models.Product, int64, error) {
	categoryID := q.CategoryID
	if categoryID == "" && q.CategorySlug != "" {
		cat, err := s.lookupCategory(ctx, q.CategorySlug, q.Gender)
		if err != nil {
			return nil, 0, err
		}
		if cat == nil {
			return []models.Product{}, 0, nil
		}
		categoryID = cat.ID
	}

	products, total, err := s.products.List(ctx, repositories.ListFilter{
		Gender:     q.Gender,
		CategoryID: categoryID,
		Search:     q.Search,
		Sort:       q.Sort,
		Status:     q.Status,
		IsFeatured: q.IsFeatured,
		IsOnSale:   q.IsOnSale,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, total, nil
}

// Show returns a single product by slug, or (nil, nil) when absent.
func (s *CatalogService) Show(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

// Categories returns every category.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.All(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CatalogService) validateRequest(req CreateProductRequest, files []ImageUpload) error {
	errs := validate.Struct(req)
	ve := newValidationError(errs)

	for i, raw := range req.ImageURLs {
		u, err := url.ParseRequestURI(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			ve.Details = append(ve.Details, FieldError{
				Field:   fmt.Sprintf("image_urls.%d", i),
				Message: "The image URL must be a valid URL.",
			})
		}
	}
	if req.LowStockThreshold != nil && *req.LowStockThreshold < 0 {
		ve.Details = append(ve.Details, FieldError{
			Field:   "low_stock_threshold",
			Message: "The low_stock_threshold must be at least 0.",
		})
	}
	ve.Details = append(ve.Details, s.images.Validate(files)...)

	if len(ve.Details) > 0 {
		return ve
	}
	return nil
}

// resolveCategory turns a submitted category reference into a category id.
// A well-formed UUID passes through untouched; anything else is treated as
// a slug and looked up, gender-scoped first.
func (s *CatalogService) resolveCategory(ctx context.Context, ref, gender string) (string, error) {
	if uuid.Validate(ref) == nil {
		return ref, nil
	}

	cat, err := s.lookupCategory(ctx, Slugify(ref), gender)
	if err != nil {
		return "", err
	}
	if cat == nil {
		return "", ErrNoCategory
	}
	return cat.ID, nil
}

// lookupCategory finds a category by slug, preferring the gender-scoped
// entry when a gender is given. Returns (nil, nil) when nothing matches.
func (s *CatalogService) lookupCategory(ctx context.Context, slug, gender string) (*models.Category, error) {
	if gender != "" {
		cat, err := s.categories.FindBySlugGender(ctx, slug, gender)
		if err != nil || cat != nil {
			return cat, err
		}
	}
	return s.categories.FindBySlug(ctx, slug)
}

func (s *CatalogService) buildProduct(req CreateProductRequest, categoryID, subcategoryID string) *models.Product {
	brand := strings.TrimSpace(req.Brand)
	if brand == "" {
		brand = models.DefaultBrand
	}
	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	threshold := models.DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}

	p := &models.Product{
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Price:             decimal.NewFromFloat(req.Price),
		Gender:            req.Gender,
		CategoryID:        categoryID,
		SubcategoryID:     subcategoryID,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: threshold,
		Brand:             brand,
		Status:            status,
		IsFeatured:        req.IsFeatured,
		IsOnSale:          req.IsOnSale,
		Sizes:             models.StringList(req.Sizes),
		Colors:            models.StringList(req.Colors),
		Tags:              models.StringList(req.Tags),
		ImageURLs:         models.StringList{},
	}
	if req.OriginalPrice > 0 {
		op := decimal.NewFromFloat(req.OriginalPrice)
		p.OriginalPrice = &op
	}
	return p
}

// insertWithUniqueSlug inserts the row, retrying on duplicate-key errors.
// A slug collision advances the suffix (base, base-2, base-3, ...); a SKU
// collision regenerates the SKU and retries the same slug. The unique
// indexes arbitrate, so two concurrent submissions of the same name can
// never both claim one slug.
func (s *CatalogService) insertWithUniqueSlug(ctx context.Context, p *models.Product, slugBase, sku, skuPfx string) error {
	slug := slugBase
	suffix := 2

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		p.Slug = slug
		p.SKU = sku

		err := s.products.Create(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("catalog: insert product: %w", err)
		}

		// The duplicate error does not say which index fired.
		taken, checkErr := s.products.SKUExists(ctx, sku)
		if checkErr != nil {
			// Treat the collision as a slug conflict, but say so.
			logger.Warn("catalog: sku collision check failed, retrying slug",
				"sku", sku, "error", checkErr)
		}
		if checkErr == nil && taken {
			sku = fallbackSKU(skuPfx)
			continue
		}
		slug = fmt.Sprintf("%s-%d", slugBase, suffix)
		suffix++
	}

	return fmt.Errorf("catalog: could not allocate a unique slug for %q after %d attempts", slugBase, maxSlugAttempts)
}

// compensate undoes a partially ingested product: uploaded objects first,
// then the row. Failures are counted and logged but never propagated, so
// the caller always reports the original pipeline error.
func (s *CatalogService) compensate(ctx context.Context, trigger, productID string, paths []string) {
	metrics.Compensations.WithLabelValues(trigger).Inc()
	logger.Warn("catalog: compensating failed ingestion",
		"product_id", productID, "trigger", trigger, "objects", len(paths))

	// Cleanup must survive a cancelled request context.
	ctx = context.WithoutCancel(ctx)

	s.images.Remove(ctx, paths)

	if err := s.products.Delete(ctx, productID); err != nil {
		metrics.CompensationFailures.WithLabelValues("row").Inc()
		logger.Error("catalog: compensation row delete failed", "product_id", productID, "error", err)
	}
}
