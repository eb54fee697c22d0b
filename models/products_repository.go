package models

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mytheresa/storefront/internal/database"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidCategory is returned when a product references a missing category.
	ErrInvalidCategory = errors.New("category does not exist")
	// ErrInvalidProduct is returned when the database rejects price or rating.
	ErrInvalidProduct = errors.New("product violates catalog constraints")
)

const selectProducts = `
	SELECT p.*, c.name AS category_name
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id`

type ProductsRepository struct {
	db *database.Pool
}

type ProductFilters struct {
	CategorySlug  string
	CategoryID    *uint
	PriceLessThan *float64
}

func NewProductsRepository(db *database.Pool) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	err := r.db.WithGorm(ctx, func(db *gorm.DB) error {
		query := db.Model(&Product{}).
			Joins("LEFT JOIN categories ON categories.id = products.category_id")

		// Filter
		if filters.CategorySlug != "" {
			query = query.Where("categories.slug = ?", filters.CategorySlug)
		}
		if filters.CategoryID != nil {
			query = query.Where("products.category_id = ?", *filters.CategoryID)
		}
		if filters.PriceLessThan != nil {
			query = query.Where("products.price < ?", *filters.PriceLessThan)
		}
		query = query.Session(&gorm.Session{})

		// Count total after filtering
		if err := query.Count(&total).Error; err != nil {
			return err
		}

		// Apply pagination
		return query.Preload("Category").
			Order("products.created_at DESC").
			Order("products.id DESC").
			Offset(offset).
			Limit(limit).
			Find(&products).Error
	})
	if err != nil {
		return nil, 0, err
	}

	for i := range products {
		if products[i].Category != nil {
			name := products[i].Category.Name
			products[i].CategoryName = &name
		}
	}
	return products, total, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	res, err := r.db.Query(ctx, selectProducts+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if res.RowCount == 0 {
		return nil, ErrProductNotFound
	}
	p := productFromRow(res.First())
	return &p, nil
}

// CreateProduct inserts the product and reads it back with its category name.
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	res, err := r.db.Query(ctx, `
		WITH inserted AS (
			INSERT INTO products (name, brand, price, description, image_url, rating, category_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			RETURNING *
		)
		SELECT i.*, c.name AS category_name
		FROM inserted i
		LEFT JOIN categories c ON i.category_id = c.id`,
		product.Name, product.Brand, product.Price, product.Description,
		product.ImageURL, product.Rating, product.CategoryID)
	if err != nil {
		return translateProductError(err)
	}

	*product = productFromRow(res.First())
	return nil
}

// UpdateProduct replaces every editable column of the product.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *Product) error {
	res, err := r.db.Query(ctx, `
		WITH updated AS (
			UPDATE products
			SET name = $1, brand = $2, price = $3, description = $4, image_url = $5,
				rating = $6, category_id = $7, updated_at = CURRENT_TIMESTAMP
			WHERE id = $8
			RETURNING *
		)
		SELECT u.*, c.name AS category_name
		FROM updated u
		LEFT JOIN categories c ON u.category_id = c.id`,
		product.Name, product.Brand, product.Price, product.Description,
		product.ImageURL, product.Rating, product.CategoryID, product.ID)
	if err != nil {
		return translateProductError(err)
	}
	if res.RowCount == 0 {
		return ErrProductNotFound
	}

	*product = productFromRow(res.First())
	return nil
}

func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	res, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func translateProductError(err error) error {
	switch {
	case database.IsForeignKeyViolation(err):
		return ErrInvalidCategory
	case database.KindOf(err) == database.KindConstraintViolation, database.IsDataException(err):
		return ErrInvalidProduct
	default:
		return err
	}
}
