package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
)

func init() {
	Register("categories", SeedCategories)
}

// SeedCategories inserts the base apparel categories for every gender.
// FirstOrCreate keys on (slug, gender), so reseeding is idempotent.
func SeedCategories(db *gorm.DB) error {
	names := map[string]string{
		"t-shirts":    "T-Shirts",
		"shirts":      "Shirts",
		"jeans":       "Jeans",
		"trousers":    "Trousers",
		"dresses":     "Dresses",
		"ethnic":      "Ethnic Wear",
		"outerwear":   "Outerwear",
		"footwear":    "Footwear",
		"accessories": "Accessories",
	}

	slugsByGender := map[string][]string{
		models.GenderMens:   {"t-shirts", "shirts", "jeans", "trousers", "ethnic", "outerwear", "footwear", "accessories"},
		models.GenderWomens: {"t-shirts", "dresses", "jeans", "trousers", "ethnic", "outerwear", "footwear", "accessories"},
		models.GenderKids:   {"t-shirts", "jeans", "ethnic", "footwear", "accessories"},
	}

	for gender, slugs := range slugsByGender {
		for _, slug := range slugs {
			cat := models.Category{Slug: slug, Gender: gender, Name: names[slug]}
			err := db.Where("slug = ? AND gender = ?", slug, gender).
				FirstOrCreate(&cat).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}
