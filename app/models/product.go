package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product genders.
const (
	GenderMens   = "mens"
	GenderWomens = "womens"
	GenderKids   = "kids"
)

// Product statuses.
const (
	StatusActive   = "active"
	StatusDraft    = "draft"
	StatusArchived = "archived"
)

// DefaultBrand is applied when a submission carries no brand.
const DefaultBrand = "Vastra"

// DefaultLowStockThreshold is applied when a submission carries no threshold.
const DefaultLowStockThreshold = 5

// Product is the persisted catalog entity. Slug and SKU carry unique
// indexes; the slug allocator relies on the index to detect collisions
// at insert time.
type Product struct {
	ID                string           `gorm:"size:36;primaryKey" json:"id"`
	Slug              string           `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	SKU               string           `gorm:"size:100;not null;uniqueIndex" json:"sku"`
	Name              string           `gorm:"size:255;not null" json:"name"`
	Description       string           `gorm:"type:text;not null" json:"description"`
	Price             decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"original_price,omitempty"`
	Gender            string           `gorm:"size:16;not null;index" json:"gender"`
	CategoryID        string           `gorm:"size:36;not null;index" json:"category_id"`
	SubcategoryID     string           `gorm:"size:36" json:"subcategory_id,omitempty"`
	StockQuantity     int              `gorm:"not null;default:0" json:"stock_quantity"`
	LowStockThreshold int              `gorm:"not null;default:5" json:"low_stock_threshold"`
	Brand             string           `gorm:"size:120" json:"brand"`
	Status            string           `gorm:"size:16;not null;default:active;index" json:"status"`
	IsFeatured        bool             `gorm:"not null;default:false" json:"is_featured"`
	IsOnSale          bool             `gorm:"not null;default:false" json:"is_on_sale"`
	Sizes             StringList       `gorm:"type:text" json:"sizes"`
	Colors            StringList       `gorm:"type:text" json:"colors"`
	Tags              StringList       `gorm:"type:text" json:"tags"`
	ImageURLs         StringList       `gorm:"type:text" json:"image_urls"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// BeforeCreate assigns the store-generated id.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
