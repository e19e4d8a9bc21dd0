package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// maxMultipartMemory bounds the in-memory portion of a multipart parse;
// larger file parts spill to temp files.
const maxMultipartMemory = 32 << 20

// ProductController exposes the product ingestion and read endpoints.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Create handles POST /api/products. Accepts either a JSON body or a
// multipart form (fields plus an "images" file list).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var (
		req   services.CreateProductRequest
		files []services.ImageUpload
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var details []services.FieldError
		req, files, details = parseMultipartSubmission(r)
		if len(details) > 0 {
			response.ValidationError(w, details)
			return
		}
	} else {
		if _, err := bind.JSON(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := c.catalog.Create(r.Context(), req, files)
	if err != nil {
		c.writeCreateError(w, r, err)
		return
	}

	response.Created(w, result, "Product created successfully")
}

func (c *ProductController) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		response.ValidationError(w, ve.Details)
		return
	}
	if errors.Is(err, services.ErrNoCategory) {
		response.ValidationError(w, []services.FieldError{
			{Field: "category_id", Message: "The selected category does not exist."},
		})
		return
	}

	logger.WithCtx(r.Context()).Error("products: create failed", "error", err)
	response.Error(w, http.StatusInternalServerError, "Failed to create product")
}

// List handles GET /api/products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := services.ListQuery{
		Gender:       q.Get("gender"),
		CategorySlug: q.Get("category_slug"),
		CategoryID:   q.Get("category_id"),
		Search:       q.Get("search"),
		Sort:         q.Get("sort"),
		Status:       q.Get("status"),
		IsFeatured:   parseBoolParam(q.Get("is_featured")),
		IsOnSale:     parseBoolParam(q.Get("is_on_sale")),
		Limit:        parseIntParam(q.Get("limit")),
		Offset:       parseIntParam(q.Get("offset")),
	}

	products, total, err := c.catalog.List(r.Context(), query)
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	response.List(w, products, total)
}

// Show handles GET /api/products/{slug}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := c.catalog.Show(r.Context(), slug)
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: show failed", "slug", slug, "error", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	if product == nil {
		response.NotFound(w, "Product not found")
		return
	}

	response.OK(w, product)
}

// parseMultipartSubmission maps the form fields onto the request struct and
// reads the uploaded files. Parse failures (bad numbers, unreadable parts)
// come back as field details; semantic validation stays in the service.
func parseMultipartSubmission(r *http.Request) (services.CreateProductRequest, []services.ImageUpload, []services.FieldError) {
	var req services.CreateProductRequest
	var details []services.FieldError

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return req, nil, []services.FieldError{{Field: "body", Message: "Malformed multipart form."}}
	}

	form := r.MultipartForm

	req.Name = formValue(form, "name")
	req.Description = formValue(form, "description")
	req.Gender = formValue(form, "gender")
	req.CategoryID = formValue(form, "category_id")
	req.SubcategoryID = formValue(form, "subcategory_id")
	req.SKU = formValue(form, "sku")
	req.Brand = formValue(form, "brand")
	req.Status = formValue(form, "status")

	req.Price = parseFloatField(form, "price", &details)
	req.OriginalPrice = parseFloatField(form, "original_price", &details)
	req.StockQuantity = parseIntField(form, "stock_quantity", &details)
	if raw := formValue(form, "low_stock_threshold"); raw != "" {
		n := parseIntField(form, "low_stock_threshold", &details)
		req.LowStockThreshold = &n
	}
	req.IsFeatured = parseBoolField(form, "is_featured", &details)
	req.IsOnSale = parseBoolField(form, "is_on_sale", &details)

	req.Sizes = parseListField(form, "sizes")
	req.Colors = parseListField(form, "colors")
	req.Tags = parseListField(form, "tags")
	req.ImageURLs = parseListField(form, "image_urls")

	var files []services.ImageUpload
	for i, header := range form.File["images"] {
		f, err := header.Open()
		if err != nil {
			details = append(details, services.FieldError{
				Field:   fmt.Sprintf("images.%d", i),
				Message: "Could not read the uploaded file.",
			})
			continue
		}
		content, readErr := io.ReadAll(io.LimitReader(f, services.MaxImageBytes+1))
		f.Close()
		if readErr != nil {
			details = append(details, services.FieldError{
				Field:   fmt.Sprintf("images.%d", i),
				Message: "Could not read the uploaded file.",
			})
			continue
		}
		files = append(files, services.ImageUpload{Filename: header.Filename, Content: content})
	}

	return req, files, details
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

func parseFloatField(form *multipart.Form, key string, details *[]services.FieldError) float64 {
	raw := formValue(form, key)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*details = append(*details, services.FieldError{
			Field:   key,
			Message: fmt.Sprintf("The %s field must be a number.", key),
		})
	}
	return f
}

func parseIntField(form *multipart.Form, key string, details *[]services.FieldError) int {
	raw := formValue(form, key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*details = append(*details, services.FieldError{
			Field:   key,
			Message: fmt.Sprintf("The %s field must be an integer.", key),
		})
	}
	return n
}

func parseBoolField(form *multipart.Form, key string, details *[]services.FieldError) bool {
	raw := strings.ToLower(formValue(form, key))
	switch raw {
	case "", "false", "0":
		return false
	case "true", "1":
		return true
	default:
		*details = append(*details, services.FieldError{
			Field:   key,
			Message: fmt.Sprintf("The %s field must be true or false.", key),
		})
		return false
	}
}

// parseListField accepts either a JSON array in a single field value or the
// field repeated once per item.
func parseListField(form *multipart.Form, key string) []string {
	vals := form.Value[key]
	if len(vals) == 0 {
		return nil
	}

	if len(vals) == 1 && strings.HasPrefix(strings.TrimSpace(vals[0]), "[") {
		var items []string
		if err := json.Unmarshal([]byte(vals[0]), &items); err == nil {
			return items
		}
	}

	items := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, v)
		}
	}
	return items
}

func parseBoolParam(raw string) *bool {
	switch strings.ToLower(raw) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

func parseIntParam(raw string) int {
	n, _ := strconv.Atoi(raw)
	return n
}
