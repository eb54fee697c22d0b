package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/storefront/models"
)

type MockSchemaRepo struct {
	Snapshot  *models.SchemaStatus
	Err       error
	migrated  int
	lastReset bool
}

func (m *MockSchemaRepo) Migrate(ctx context.Context, reset bool) error {
	m.migrated++
	m.lastReset = reset
	return m.Err
}

func (m *MockSchemaRepo) Status(ctx context.Context) (*models.SchemaStatus, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snapshot, nil
}

func TestHandleInitDB(t *testing.T) {
	testCases := []struct {
		name               string
		repoErr            error
		expectedStatusCode int
	}{
		{"Success", nil, http.StatusOK},
		{"Migration failure", errors.New("permission denied"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := &MockSchemaRepo{Err: tc.repoErr}
			handler := NewAdminHandler(repo)
			req := httptest.NewRequest("POST", "/api/admin/init-db", nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleInitDB(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, 1, repo.migrated)
			assert.True(t, repo.lastReset, "init-db always resets the catalog")
		})
	}
}

func TestHandleSchema(t *testing.T) {
	categoryID := uint(1)
	status := &models.SchemaStatus{
		Initialized: true,
		Tables: []models.TableInfo{
			{Name: "categories", Columns: []string{"id", "name", "slug"}},
			{Name: "products", Columns: []string{"id", "name", "price"}},
		},
		CategoryCount:    3,
		ProductCount:     1,
		SampleCategories: []models.Category{{ID: 1, Name: "Neckties", Slug: "neckties"}},
		SampleProducts:   []models.Product{{ID: 9, Name: "Silk Tie", Price: decimal.RequireFromString("49.99"), CategoryID: &categoryID}},
	}

	t.Run("Initialized", func(t *testing.T) {
		handler := NewAdminHandler(&MockSchemaRepo{Snapshot: status})
		rec := httptest.NewRecorder()

		handler.HandleSchema(rec, httptest.NewRequest("GET", "/api/admin/schema", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var env struct {
			Data    SchemaResponse `json:"data"`
			Message string         `json:"message"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		assert.True(t, env.Data.Initialized)
		assert.Len(t, env.Data.Tables, 2)
		assert.Equal(t, int64(3), env.Data.CategoryCount)
		assert.Equal(t, "neckties", env.Data.SampleCategories[0].Slug)
		assert.Equal(t, 49.99, env.Data.SampleProducts[0].Price)
		assert.Equal(t, "Schema is initialized", env.Message)
	})

	t.Run("Not initialized", func(t *testing.T) {
		handler := NewAdminHandler(&MockSchemaRepo{Snapshot: &models.SchemaStatus{}})
		rec := httptest.NewRecorder()

		handler.HandleSchema(rec, httptest.NewRequest("GET", "/api/admin/schema", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Schema is not initialized")
	})

	t.Run("Failure", func(t *testing.T) {
		handler := NewAdminHandler(&MockSchemaRepo{Err: errors.New("timeout")})
		rec := httptest.NewRecorder()

		handler.HandleSchema(rec, httptest.NewRequest("GET", "/api/admin/schema", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
