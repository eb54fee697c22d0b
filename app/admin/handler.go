package admin

import (
	"context"
	"net/http"

	"github.com/mytheresa/storefront/app/response"
	"github.com/mytheresa/storefront/internal/logger"
	"github.com/mytheresa/storefront/models"
)

type TableResponse struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

type SampleCategory struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type SampleProduct struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID *uint   `json:"category_id"`
}

type SchemaResponse struct {
	Initialized      bool             `json:"initialized"`
	Tables           []TableResponse  `json:"tables"`
	CategoryCount    int64            `json:"category_count"`
	ProductCount     int64            `json:"product_count"`
	SampleCategories []SampleCategory `json:"sample_categories"`
	SampleProducts   []SampleProduct  `json:"sample_products"`
}

type SchemaProvider interface {
	Migrate(ctx context.Context, reset bool) error
	Status(ctx context.Context) (*models.SchemaStatus, error)
}

type AdminHandler struct {
	repo SchemaProvider
}

func NewAdminHandler(r SchemaProvider) *AdminHandler {
	return &AdminHandler{repo: r}
}

// HandleInitDB drops, recreates and seeds the catalog tables.
func (h *AdminHandler) HandleInitDB(w http.ResponseWriter, r *http.Request) {
	log := logger.Get().WithContext(r.Context())

	if err := h.repo.Migrate(r.Context(), true); err != nil {
		log.ErrorWithErr("database initialization failed", err)
		response.Error(w, http.StatusInternalServerError, "Failed to initialize database")
		return
	}
	log.Info("database initialized", "seeded_categories", len(models.DefaultCategories))

	response.JSON(w, http.StatusOK, map[string]int{
		"seeded_categories": len(models.DefaultCategories),
	}, "Database initialized successfully")
}

func (h *AdminHandler) HandleSchema(w http.ResponseWriter, r *http.Request) {
	status, err := h.repo.Status(r.Context())
	if err != nil {
		logger.Get().WithContext(r.Context()).ErrorWithErr("failed to read schema status", err)
		response.Error(w, http.StatusInternalServerError, "Failed to read schema status")
		return
	}

	resp := SchemaResponse{
		Initialized:      status.Initialized,
		Tables:           make([]TableResponse, len(status.Tables)),
		CategoryCount:    status.CategoryCount,
		ProductCount:     status.ProductCount,
		SampleCategories: make([]SampleCategory, len(status.SampleCategories)),
		SampleProducts:   make([]SampleProduct, len(status.SampleProducts)),
	}
	for i, t := range status.Tables {
		resp.Tables[i] = TableResponse{Name: t.Name, Columns: t.Columns}
	}
	for i, c := range status.SampleCategories {
		resp.SampleCategories[i] = SampleCategory{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}
	for i, p := range status.SampleProducts {
		resp.SampleProducts[i] = SampleProduct{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price.InexactFloat64(),
			CategoryID: p.CategoryID,
		}
	}

	msg := "Schema is initialized"
	if !status.Initialized {
		msg = "Schema is not initialized"
	}
	response.JSON(w, http.StatusOK, resp, msg)
}
