package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/storefront/internal/database"
)

// Product represents a product in the catalog.
// A product survives the removal of its category; the reference is cleared.
type Product struct {
	ID          uint             `gorm:"primaryKey"`
	Name        string           `gorm:"size:255;not null"`
	Brand       string           `gorm:"size:255;not null;default:''"`
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null;check:chk_products_price,price >= 0"`
	Description string           `gorm:"type:text"`
	ImageURL    *string          `gorm:"type:text"`
	Rating      *decimal.Decimal `gorm:"type:decimal(3,2);check:chk_products_rating,rating >= 0 AND rating <= 5"`
	CategoryID  *uint            `gorm:"index"`
	Category    *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time        `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time        `gorm:"default:CURRENT_TIMESTAMP"`

	// CategoryName is joined in on reads.
	CategoryName *string `gorm:"-"`
}

func (p *Product) TableName() string {
	return "products"
}

func productFromRow(row database.Row) Product {
	p := Product{
		ID:           uint(row.Int64("id")),
		Name:         row.String("name"),
		Brand:        row.String("brand"),
		Price:        row.Decimal("price"),
		Description:  row.String("description"),
		ImageURL:     row.NullString("image_url"),
		Rating:       row.NullDecimal("rating"),
		CreatedAt:    row.Time("created_at"),
		UpdatedAt:    row.Time("updated_at"),
		CategoryName: row.NullString("category_name"),
	}
	if id := row.NullInt64("category_id"); id != nil {
		categoryID := uint(*id)
		p.CategoryID = &categoryID
	}
	return p
}
