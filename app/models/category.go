package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a catalog category. Gender is optional: some categories are
// gender-scoped, some are global, and the same slug may be reused across
// genders, which is why the unique index spans (slug, gender).
type Category struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	Slug      string    `gorm:"size:160;not null;uniqueIndex:idx_categories_slug_gender" json:"slug"`
	Gender    string    `gorm:"size:16;uniqueIndex:idx_categories_slug_gender" json:"gender,omitempty"`
	Name      string    `gorm:"size:160;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the store-generated id.
func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
