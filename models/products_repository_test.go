package models

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/storefront/internal/database"
)

func silkTie(categoryID *uint) *Product {
	return &Product{
		Name:       "Silk Tie",
		Brand:      "Hermes",
		Price:      decimal.RequireFromString("49.99"),
		CategoryID: categoryID,
	}
}

func TestGetProductByID(t *testing.T) {
	pool, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(int64(10), "Silk Tie", "Hermes", "49.99", "Pure silk", nil, nil, nil, fixedTime, fixedTime, nil))

	p, err := NewProductsRepository(pool).GetByID(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, uint(10), p.ID)
	assert.Nil(t, p.CategoryID)
	assert.Nil(t, p.CategoryName)
	assert.Nil(t, p.Rating)
	assert.Equal(t, "Pure silk", p.Description)
}

func TestGetProductByIDNotFound(t *testing.T) {
	pool, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
		WillReturnRows(sqlmock.NewRows(productColumns))

	_, err := NewProductsRepository(pool).GetByID(context.Background(), 10)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateProduct(t *testing.T) {
	pool, mock := newMockDB(t)
	categoryID := uint(1)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("Silk Tie", "Hermes", "49.99", "", nil, nil, 1).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(int64(5), "Silk Tie", "Hermes", "49.99", "", nil, nil, int64(1), fixedTime, fixedTime, "Neckties"))

	product := silkTie(&categoryID)
	require.NoError(t, NewProductsRepository(pool).CreateProduct(context.Background(), product))

	assert.Equal(t, uint(5), product.ID)
	assert.Equal(t, "Neckties", *product.CategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductConstraintErrors(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"unknown category (pgx)", &pgconn.PgError{Code: database.CodeForeignKeyViolation}, ErrInvalidCategory},
		{"unknown category (pq)", &pq.Error{Code: database.CodeForeignKeyViolation}, ErrInvalidCategory},
		{"negative price", &pgconn.PgError{Code: database.CodeCheckViolation, ConstraintName: "chk_products_price"}, ErrInvalidProduct},
		{"price overflows column", &pgconn.PgError{Code: database.CodeNumericOutOfRange}, ErrInvalidProduct},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pool, mock := newMockDB(t)
			categoryID := uint(404)
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).WillReturnError(tc.err)

			err := NewProductsRepository(pool).CreateProduct(context.Background(), silkTie(&categoryID))
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 0, pool.Stats().InUse)
		})
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	pool, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE products")).
		WillReturnRows(sqlmock.NewRows(productColumns))

	product := silkTie(nil)
	product.ID = 77
	err := NewProductsRepository(pool).UpdateProduct(context.Background(), product)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	pool, mock := newMockDB(t)
	repo := NewProductsRepository(pool)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteProduct(context.Background(), 5))
	assert.ErrorIs(t, repo.DeleteProduct(context.Background(), 5), ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFilteredProducts(t *testing.T) {
	pool, mock := newMockDB(t)
	columns := productColumns[:len(productColumns)-1]

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" LEFT JOIN categories ON categories.id = products.category_id WHERE categories.slug = \$1`).
		WithArgs("neckties").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT .* FROM "products" LEFT JOIN categories .* ORDER BY products.created_at DESC,products.id DESC`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(12), "Silk Tie", "Hermes", "49.99", "", nil, nil, int64(1), fixedTime, fixedTime))
	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE "categories"."id" = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(int64(1), "Neckties", "", "neckties", nil, fixedTime, fixedTime))

	products, total, err := NewProductsRepository(pool).GetFilteredProducts(context.Background(), 2, 1,
		ProductFilters{CategorySlug: "neckties"})
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	require.Len(t, products, 1)
	assert.Equal(t, "49.99", products[0].Price.StringFixed(2))
	require.NotNil(t, products[0].CategoryName)
	assert.Equal(t, "Neckties", *products[0].CategoryName)
	assert.Equal(t, 0, pool.Stats().InUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}
