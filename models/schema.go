package models

import (
	"context"

	"gorm.io/gorm"

	"github.com/mytheresa/storefront/internal/database"
)

// DefaultCategories are inserted when the catalog schema is (re)initialised.
var DefaultCategories = []Category{
	{Name: "Neckties", Description: "Classic neckties for formal occasions", Slug: "neckties"},
	{Name: "Bow Ties", Description: "Elegant bow ties for special events", Slug: "bow-ties"},
	{Name: "Pocket Squares", Description: "Complementary pocket squares", Slug: "pocket-squares"},
}

// TableInfo describes one catalog table.
type TableInfo struct {
	Name    string
	Columns []string
}

// SchemaStatus is a snapshot of the catalog tables.
type SchemaStatus struct {
	Initialized      bool
	Tables           []TableInfo
	CategoryCount    int64
	ProductCount     int64
	SampleCategories []Category
	SampleProducts   []Product
}

type SchemaRepository struct {
	db *database.Pool
}

func NewSchemaRepository(db *database.Pool) *SchemaRepository {
	return &SchemaRepository{db: db}
}

// Migrate creates or updates the catalog tables. With reset it drops both
// tables first and seeds DefaultCategories. Everything runs in one
// transaction.
func (r *SchemaRepository) Migrate(ctx context.Context, reset bool) error {
	return r.db.WithGorm(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if reset {
				if err := tx.Migrator().DropTable(&Product{}, &Category{}); err != nil {
					return err
				}
			}
			if err := tx.AutoMigrate(&Category{}, &Product{}); err != nil {
				return err
			}
			if !reset {
				return nil
			}
			seed := make([]Category, len(DefaultCategories))
			copy(seed, DefaultCategories)
			return tx.Create(&seed).Error
		})
	})
}

// Status reports whether the tables exist, their columns, row counts and
// up to three sample rows of each.
func (r *SchemaRepository) Status(ctx context.Context) (*SchemaStatus, error) {
	status := &SchemaStatus{}

	err := r.db.WithGorm(ctx, func(db *gorm.DB) error {
		migrator := db.Migrator()
		if !migrator.HasTable(&Category{}) || !migrator.HasTable(&Product{}) {
			return nil
		}
		status.Initialized = true

		for _, model := range []any{&Category{}, &Product{}} {
			columns, err := migrator.ColumnTypes(model)
			if err != nil {
				return err
			}
			info := TableInfo{Name: tableName(model)}
			for _, col := range columns {
				info.Columns = append(info.Columns, col.Name())
			}
			status.Tables = append(status.Tables, info)
		}

		if err := db.Model(&Category{}).Count(&status.CategoryCount).Error; err != nil {
			return err
		}
		if err := db.Model(&Product{}).Count(&status.ProductCount).Error; err != nil {
			return err
		}
		if err := db.Limit(3).Find(&status.SampleCategories).Error; err != nil {
			return err
		}
		return db.Limit(3).Find(&status.SampleProducts).Error
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func tableName(model any) string {
	if t, ok := model.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return ""
}
