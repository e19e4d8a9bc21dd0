package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
)

// pngBytes is a minimal payload that content-sniffs as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\nfakepixels")

// fakeProductStore enforces slug and SKU uniqueness in memory, surfacing
// collisions the same way the real repository does.
type fakeProductStore struct {
	mu           sync.Mutex
	rows         map[string]*models.Product
	updateErr    error
	skuExistsErr error
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{rows: map[string]*models.Product{}}
}

func (s *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.Slug == p.Slug || row.SKU == p.SKU {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *fakeProductStore) UpdateImageURLs(_ context.Context, id string, urls []string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[id]; ok {
		row.ImageURLs = models.StringList(urls)
	}
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *fakeProductStore) SKUExists(_ context.Context, sku string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.skuExistsErr != nil {
		return false, s.skuExistsErr
	}
	for _, row := range s.rows {
		if row.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeProductStore) NextSKU(_ context.Context, prefix, base string) (string, error) {
	if base != "" {
		return base, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s-%04d", prefix, len(s.rows)), nil
}

func (s *fakeProductStore) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Slug == slug {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeProductStore) List(_ context.Context, f repositories.ListFilter) ([]models.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, row := range s.rows {
		if f.CategoryID != "" && row.CategoryID != f.CategoryID {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (s *fakeProductStore) bySlug(slug string) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Slug == slug {
			return row
		}
	}
	return nil
}

func (s *fakeProductStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type fakeCategoryStore struct {
	categories []models.Category
}

func (s *fakeCategoryStore) add(slug, gender string) string {
	id := uuid.NewString()
	s.categories = append(s.categories, models.Category{ID: id, Slug: slug, Gender: gender, Name: slug})
	return id
}

func (s *fakeCategoryStore) FindBySlugGender(_ context.Context, slug, gender string) (*models.Category, error) {
	for _, c := range s.categories {
		if c.Slug == slug && c.Gender == gender {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeCategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range s.categories {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeCategoryStore) All(_ context.Context) ([]models.Category, error) {
	return s.categories, nil
}

// fakeDisk stores objects in memory and can be told to fail the Nth Put.
type fakeDisk struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	failPut int // fail the Nth Put (1-based); 0 disables
}

func newFakeDisk() *fakeDisk { return &fakeDisk{objects: map[string][]byte{}} }

func (d *fakeDisk) Put(_ context.Context, path string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.puts++
	if d.failPut > 0 && d.puts == d.failPut {
		return errors.New("disk full")
	}
	d.objects[path] = content
	return nil
}

func (d *fakeDisk) PutStream(ctx context.Context, path string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.Put(ctx, path, content)
}

func (d *fakeDisk) Get(_ context.Context, path string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	content, ok := d.objects[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return content, nil
}

func (d *fakeDisk) Exists(_ context.Context, path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.objects[path]
	return ok
}

func (d *fakeDisk) Delete(_ context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.objects, path)
	return nil
}

func (d *fakeDisk) DeleteAll(_ context.Context, prefix string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path := range d.objects {
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			delete(d.objects, path)
		}
	}
	return nil
}

func (d *fakeDisk) URL(path string) string { return "https://cdn.test/" + path }

func newTestCatalog() (*CatalogService, *fakeProductStore, *fakeCategoryStore, *fakeDisk) {
	products := newFakeProductStore()
	categories := &fakeCategoryStore{}
	disk := newFakeDisk()
	svc := NewCatalogService(products, categories, NewImageService(disk))
	return svc, products, categories, disk
}

func validRequest(categoryID string) CreateProductRequest {
	return CreateProductRequest{
		Name:        "Air Jordan 8",
		Description: "Retro high top in white cement",
		Price:       129.99,
		Gender:      models.GenderMens,
		CategoryID:  categoryID,
	}
}

func TestCreateProduct(t *testing.T) {
	svc, products, categories, _ := newTestCatalog()
	catID := categories.add("sneakers", models.GenderMens)

	result, err := svc.Create(context.Background(), validRequest("sneakers"), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "air-jordan-8", result.Slug)

	row := products.bySlug("air-jordan-8")
	require.NotNil(t, row)
	assert.Equal(t, catID, row.CategoryID)
	assert.Equal(t, "MEN", row.SKU[:3])
	assert.Equal(t, models.DefaultBrand, row.Brand)
	assert.Equal(t, models.StatusActive, row.Status)
	assert.Equal(t, models.DefaultLowStockThreshold, row.LowStockThreshold)
}

func TestCreateAllocatesSuffixedSlugs(t *testing.T) {
	svc, _, categories, _ := newTestCatalog()
	categories.add("sneakers", models.GenderMens)

	wantSlugs := []string{"air-jordan-8", "air-jordan-8-2", "air-jordan-8-3"}
	for _, want := range wantSlugs {
		result, err := svc.Create(context.Background(), validRequest("sneakers"), nil)
		require.NoError(t, err)
		assert.Equal(t, want, result.Slug)
	}
}

func TestCreateRetriesSlugWhenSKUCheckFails(t *testing.T) {
	svc, products, categories, _ := newTestCatalog()
	categories.add("sneakers", models.GenderMens)

	_, err := svc.Create(context.Background(), validRequest("sneakers"), nil)
	require.NoError(t, err)

	// A broken collision check must not abort the insert loop; the retry
	// falls back to advancing the slug suffix.
	products.skuExistsErr = errors.New("connection reset")

	result, err := svc.Create(context.Background(), validRequest("sneakers"), nil)
	require.NoError(t, err)
	assert.Equal(t, "air-jordan-8-2", result.Slug)
}

func TestCreateValidationReportsEveryField(t *testing.T) {
	svc, products, _, _ := newTestCatalog()

	_, err := svc.Create(context.Background(), CreateProductRequest{}, nil)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := make(map[string]bool)
	for _, d := range ve.Details {
		fields[d.Field] = true
	}
	for _, want := range []string{"name", "description", "price", "gender", "category_id"} {
		assert.True(t, fields[want], "missing detail for %s", want)
	}
	assert.Zero(t, products.count())
}

func TestCreateRejectsBadImageURL(t *testing.T) {
	svc, _, categories, _ := newTestCatalog()
	categories.add("sneakers", models.GenderMens)

	req := validRequest("sneakers")
	req.ImageURLs = []string{"https://cdn.example.com/a.jpg", "not-a-url"}

	_, err := svc.Create(context.Background(), req, nil)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "image_urls.1", ve.Details[0].Field)
}

func TestCreateUnknownCategory(t *testing.T) {
	svc, products, _, _ := newTestCatalog()

	_, err := svc.Create(context.Background(), validRequest("does-not-exist"), nil)

	assert.ErrorIs(t, err, ErrNoCategory)
	assert.Zero(t, products.count())
}

func TestCreateCategoryGenderPrecedence(t *testing.T) {
	svc, products, categories, _ := newTestCatalog()
	categories.add("jeans", models.GenderMens)
	womensID := categories.add("jeans", models.GenderWomens)

	req := validRequest("jeans")
	req.Gender = models.GenderWomens

	result, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)

	row := products.bySlug(result.Slug)
	require.NotNil(t, row)
	assert.Equal(t, womensID, row.CategoryID)
	assert.Equal(t, "WOM", row.SKU[:3])
}

func TestCreateUUIDCategoryPassesThrough(t *testing.T) {
	svc, products, _, _ := newTestCatalog()
	id := uuid.NewString()

	result, err := svc.Create(context.Background(), validRequest(id), nil)
	require.NoError(t, err)

	row := products.bySlug(result.Slug)
	require.NotNil(t, row)
	assert.Equal(t, id, row.CategoryID)
}

func TestCreateAttachesImagesInOrder(t *testing.T) {
	svc, products, categories, disk := newTestCatalog()
	categories.add("sneakers", models.GenderMens)

	req := validRequest("sneakers")
	req.ImageURLs = []string{"https://cdn.example.com/external.jpg"}
	files := []ImageUpload{
		{Filename: "front.png", Content: pngBytes},
		{Filename: "back.png", Content: pngBytes},
	}

	result, err := svc.Create(context.Background(), req, files)
	require.NoError(t, err)

	row := products.bySlug(result.Slug)
	require.NotNil(t, row)
	require.Len(t, row.ImageURLs, 3)
	assert.Equal(t, "https://cdn.example.com/external.jpg", row.ImageURLs[0])

	// Uploaded URLs point under products/<id>/ and follow submission order.
	prefix := "https://cdn.test/products/" + result.ID + "/"
	for _, u := range row.ImageURLs[1:] {
		assert.Contains(t, u, prefix)
	}
	assert.Len(t, disk.objects, 2)
}

func TestCreateRejectsTooManyImages(t *testing.T) {
	svc, _, categories, _ := newTestCatalog()
	categories.add("sneakers", models.GenderMens)

	files := make([]ImageUpload, MaxImagesPerProduct+1)
	for i := range files {
		files[i] = ImageUpload{Filename: "f.png", Content: pngBytes}
	}

	_, err := svc.Create(context.Background(), validRequest("sneakers"), files)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "images", ve.Details[0].Field)
}

func TestCreateRejectsUnsupportedImageType(t *testing.T) {
	svc, _, categories, _ := newTestCatalog()
	categories.add("sneakers", models.GenderMens)

	files := []ImageUpload{{Filename: "notes.txt", Content: []byte("plain text, not an image")}}

	_, err := svc.Create(context.Background(), validRequest("sneakers"), files)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "images.0", ve.Details[0].Field)
}

func TestCreateCompensatesOnUploadFailure(t *testing.T) {
	for failAt := 1; failAt <= 3; failAt++ {
		t.Run(fmt.Sprintf("fail upload %d", failAt), func(t *testing.T) {
			svc, products, categories, disk := newTestCatalog()
			categories.add("sneakers", models.GenderMens)
			disk.failPut = failAt

			files := []ImageUpload{
				{Filename: "a.png", Content: pngBytes},
				{Filename: "b.png", Content: pngBytes},
				{Filename: "c.png", Content: pngBytes},
			}

			_, err := svc.Create(context.Background(), validRequest("sneakers"), files)
			require.Error(t, err)

			var ue *UploadError
			assert.ErrorAs(t, err, &ue)

			// Rollback leaves nothing behind: no row, no objects.
			assert.Zero(t, products.count())
			assert.Empty(t, disk.objects)
		})
	}
}

func TestCreateCompensatesOnAttachFailure(t *testing.T) {
	svc, products, categories, disk := newTestCatalog()
	categories.add("sneakers", models.GenderMens)
	products.updateErr = errors.New("connection reset")

	files := []ImageUpload{{Filename: "a.png", Content: pngBytes}}

	_, err := svc.Create(context.Background(), validRequest("sneakers"), files)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")

	assert.Zero(t, products.count())
	assert.Empty(t, disk.objects)
}

func TestListResolvesCategorySlug(t *testing.T) {
	svc, _, categories, _ := newTestCatalog()
	catID := categories.add("sneakers", models.GenderMens)

	_, err := svc.Create(context.Background(), validRequest("sneakers"), nil)
	require.NoError(t, err)

	rows, total, err := svc.List(context.Background(), ListQuery{
		Gender:       models.GenderMens,
		CategorySlug: "sneakers",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, catID, rows[0].CategoryID)
}

func TestListUnknownCategorySlugReturnsEmpty(t *testing.T) {
	svc, _, categories, _ := newTestCatalog()
	categories.add("sneakers", models.GenderMens)

	_, err := svc.Create(context.Background(), validRequest("sneakers"), nil)
	require.NoError(t, err)

	rows, total, err := svc.List(context.Background(), ListQuery{CategorySlug: "hats"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}
