package models

import (
	"time"

	"github.com/mytheresa/storefront/internal/database"
)

// Category represents a product category.
// The slug is unique and is the lookup key for public category pages.
type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex"`
	ImageURL    *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Read-side fields, filled by the repository.
	ProductCount int64     `gorm:"-"`
	Products     []Product `gorm:"-"`
}

func (c *Category) TableName() string {
	return "categories"
}

func categoryFromRow(row database.Row) Category {
	return Category{
		ID:           uint(row.Int64("id")),
		Name:         row.String("name"),
		Description:  row.String("description"),
		Slug:         row.String("slug"),
		ImageURL:     row.NullString("image_url"),
		CreatedAt:    row.Time("created_at"),
		UpdatedAt:    row.Time("updated_at"),
		ProductCount: row.Int64("product_count"),
	}
}
