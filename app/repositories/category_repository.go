package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
)

const categoryCacheTTL = 10 * time.Minute

// CategoryRepository handles category lookups. Slug lookups are cached in
// Redis because the listing endpoint resolves a category slug on every
// filtered request; a nil cache store disables caching.
type CategoryRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewCategoryRepository(db *gorm.DB, store *cache.Store) *CategoryRepository {
	return &CategoryRepository{db: db, cache: store}
}

// FindBySlugGender looks up a category by its (slug, gender) pair.
// Returns (nil, nil) when absent.
func (r *CategoryRepository) FindBySlugGender(ctx context.Context, slug, gender string) (*models.Category, error) {
	key := "category:" + gender + ":" + slug

	var cached models.Category
	if r.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues("category").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("category").Inc()

	var c models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND gender = ?", slug, gender).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, c, categoryCacheTTL)
	return &c, nil
}

// FindBySlug looks up a category by slug alone, ignoring gender. When the
// slug exists under several genders the first match wins.
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	key := "category::" + slug

	var cached models.Category
	if r.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues("category").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("category").Inc()

	var c models.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, c, categoryCacheTTL)
	return &c, nil
}

// All returns every category ordered by gender then name.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Order("gender asc, name asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
