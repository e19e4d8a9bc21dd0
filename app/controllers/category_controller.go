package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// CategoryController exposes the category read endpoints.
type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

// List handles GET /api/categories.
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("categories: list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	response.List(w, categories, int64(len(categories)))
}
