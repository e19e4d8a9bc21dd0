package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_catalog_tables", &CreateCatalogTables{})
}

// CreateCatalogTables creates the categories and products tables with their
// unique indexes (products.slug, products.sku, categories (slug, gender)).
type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("products"); err != nil {
		return err
	}
	return db.Migrator().DropTable("categories")
}
