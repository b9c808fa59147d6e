// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name     string `json:"name" gorm:"size:100;not null"`
	Slug     string `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	ImageURL string `json:"image_url,omitempty" gorm:"size:512"`
}

// CategoryAll is the slug wildcard that disables category filtering.
const CategoryAll = "all"

type Product struct {
	BaseModel
	Name            string         `json:"name" gorm:"size:255;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Price           float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	OriginalPrice   *float64       `json:"original_price,omitempty" gorm:"type:decimal(10,2)"`
	DiscountPercent *int           `json:"discount_percent,omitempty"`
	Images          pq.StringArray `json:"images" gorm:"type:text[]"`
	Rating          float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewsCount    int64          `json:"reviews_count" gorm:"default:0"`
	Stock           int            `json:"stock" gorm:"default:0"`
	Highlights      pq.StringArray `json:"highlights" gorm:"type:text[]"`
	Specifications  StringMap      `json:"specifications,omitempty" gorm:"type:jsonb"`
	CategoryID      uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`

	// Category is only populated when the read expanded the foreign key.
	// Callers must treat a nil Category as "unresolved" and fall back to
	// CategoryID, never assume the join happened.
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// CategoryName returns the expanded category name, or false when the
// association was not loaded.
func (p *Product) CategoryName() (string, bool) {
	if p.Category == nil {
		return "", false
	}
	return p.Category.Name, true
}

// FirstImage returns the primary product image, if any.
func (p *Product) FirstImage() *string {
	if len(p.Images) == 0 {
		return nil
	}
	return &p.Images[0]
}
