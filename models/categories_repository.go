package models

import (
	"context"
	"errors"

	"github.com/mytheresa/storefront/internal/database"
)

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrSlugExists is returned when another category already uses the slug.
	ErrSlugExists = errors.New("slug already exists")
)

const selectCategoriesWithCount = `
	SELECT c.*,
		(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count
	FROM categories c`

type CategoriesRepository struct {
	db *database.Pool
}

func NewCategoriesRepository(db *database.Pool) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	res, err := r.db.Query(ctx, selectCategoriesWithCount+` ORDER BY c.name ASC`)
	if err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(res.Rows))
	for _, row := range res.Rows {
		categories = append(categories, categoryFromRow(row))
	}
	return categories, nil
}

func (r *CategoriesRepository) GetByID(ctx context.Context, id uint) (*Category, error) {
	res, err := r.db.Query(ctx, selectCategoriesWithCount+` WHERE c.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if res.RowCount == 0 {
		return nil, ErrCategoryNotFound
	}
	c := categoryFromRow(res.First())
	return &c, nil
}

// GetBySlug returns the category with its products, newest first.
func (r *CategoriesRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	res, err := r.db.Query(ctx, selectCategoriesWithCount+` WHERE c.slug = $1`, slug)
	if err != nil {
		return nil, err
	}
	if res.RowCount == 0 {
		return nil, ErrCategoryNotFound
	}
	c := categoryFromRow(res.First())

	products, err := r.db.Query(ctx, selectProducts+` WHERE p.category_id = $1 ORDER BY p.created_at DESC`, c.ID)
	if err != nil {
		return nil, err
	}
	c.Products = make([]Product, 0, len(products.Rows))
	for _, row := range products.Rows {
		c.Products = append(c.Products, productFromRow(row))
	}
	return &c, nil
}

// CreateCategory inserts the category and refreshes it from the stored row.
func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	taken, err := r.slugTaken(ctx, category.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugExists
	}

	res, err := r.db.Query(ctx, `
		INSERT INTO categories (name, description, slug, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING *`,
		category.Name, category.Description, category.Slug, category.ImageURL)
	if err != nil {
		// Lost a race with a concurrent insert of the same slug.
		if database.IsUniqueViolation(err) {
			return ErrSlugExists
		}
		return err
	}

	*category = categoryFromRow(res.First())
	return nil
}

// UpdateCategory replaces every editable column of the category.
func (r *CategoriesRepository) UpdateCategory(ctx context.Context, category *Category) error {
	taken, err := r.slugTaken(ctx, category.Slug, category.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugExists
	}

	res, err := r.db.Query(ctx, `
		UPDATE categories
		SET name = $1, description = $2, slug = $3, image_url = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING *`,
		category.Name, category.Description, category.Slug, category.ImageURL, category.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrSlugExists
		}
		return err
	}
	if res.RowCount == 0 {
		return ErrCategoryNotFound
	}

	*category = categoryFromRow(res.First())
	return nil
}

// DeleteCategory detaches the category's products and removes the category
// in one transaction. It returns the deleted row and how many products
// were detached. Nothing changes if either step fails.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id uint) (*Category, int64, error) {
	var (
		deleted  Category
		detached int64
	)

	err := r.db.WithTx(ctx, func(q database.Querier) error {
		res, err := q.Exec(ctx, `UPDATE products SET category_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE category_id = $1`, id)
		if err != nil {
			return err
		}
		detached = res.RowCount

		res, err = q.Query(ctx, `DELETE FROM categories WHERE id = $1 RETURNING *`, id)
		if err != nil {
			return err
		}
		if res.RowCount == 0 {
			return ErrCategoryNotFound
		}
		deleted = categoryFromRow(res.First())
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &deleted, detached, nil
}

func (r *CategoriesRepository) slugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	res, err := r.db.Query(ctx, `SELECT id FROM categories WHERE slug = $1 AND id <> $2`, slug, exceptID)
	if err != nil {
		return false, err
	}
	return res.RowCount > 0, nil
}
