package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/mytheresa/storefront/app/response"
	"github.com/mytheresa/storefront/internal/logger"
	"github.com/mytheresa/storefront/models"
)

type CategoryResponse struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Slug         string            `json:"slug"`
	ImageURL     *string           `json:"image_url"`
	ProductCount int64             `json:"product_count"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Products     []ProductResponse `json:"products,omitempty"`
}

type ProductResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	ImageURL    *string  `json:"image_url"`
	Rating      *float64 `json:"rating"`
}

type DeleteResponse struct {
	Category         CategoryResponse `json:"category"`
	DetachedProducts int64            `json:"detached_products"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) (*models.Category, int64, error)
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		logger.Get().WithContext(r.Context()).ErrorWithErr("failed to fetch categories", err)
		response.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	response.JSON(w, http.StatusOK, resp, "")
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := response.ParseID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, r, err, "Failed to fetch category")
		return
	}
	response.JSON(w, http.StatusOK, toCategoryResponse(*category), "")
}

func (h *CategoryHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	s := r.PathValue("slug")
	if s == "" {
		response.Error(w, http.StatusBadRequest, "Slug parameter is required")
		return
	}

	category, err := h.repo.GetBySlug(r.Context(), s)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			response.Error(w, http.StatusNotFound, "Category not found: "+s)
			return
		}
		h.writeRepoError(w, r, err, "Internal server error while fetching category")
		return
	}

	resp := toCategoryResponse(*category)
	resp.Products = make([]ProductResponse, len(category.Products))
	for i, p := range category.Products {
		resp.Products[i] = toProductResponse(p)
	}
	response.JSON(w, http.StatusOK, resp, "")
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	category, msg := decodeCategory(r)
	if msg != "" {
		response.Error(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		h.writeRepoError(w, r, err, "Failed to create category")
		return
	}

	response.JSON(w, http.StatusCreated, toCategoryResponse(*category), "Category created successfully")
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := response.ParseID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, msg := decodeCategory(r)
	if msg != "" {
		response.Error(w, http.StatusBadRequest, msg)
		return
	}
	category.ID = id

	if err := h.repo.UpdateCategory(r.Context(), category); err != nil {
		h.writeRepoError(w, r, err, "Failed to update category")
		return
	}

	response.JSON(w, http.StatusOK, toCategoryResponse(*category), "Category updated successfully")
}

// HandleDelete removes the category; its products are kept and detached.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := response.ParseID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	deleted, detached, err := h.repo.DeleteCategory(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, r, err, "Failed to delete category")
		return
	}

	logger.Get().WithContext(r.Context()).Info("category deleted",
		"category_id", id, "detached_products", detached)

	response.JSON(w, http.StatusOK, DeleteResponse{
		Category:         toCategoryResponse(*deleted),
		DetachedProducts: detached,
	}, "Category deleted successfully")
}

func (h *CategoryHandler) writeRepoError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrCategoryNotFound):
		response.Error(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, models.ErrSlugExists):
		response.Error(w, http.StatusConflict, "Slug already exists")
	default:
		logger.Get().WithContext(r.Context()).ErrorWithErr(fallback, err)
		response.Error(w, http.StatusInternalServerError, fallback)
	}
}

type categoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	ImageURL    string `json:"image_url"`
}

// decodeCategory returns a user-facing message when the body is unusable.
// A missing slug is derived from the name.
func decodeCategory(r *http.Request) (*models.Category, string) {
	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, "Invalid JSON body"
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, "Name is required"
	}

	s := strings.TrimSpace(input.Slug)
	if s == "" {
		s = slug.Make(input.Name)
	}
	if !slug.IsSlug(s) {
		return nil, "Slug must contain only lowercase letters, digits and hyphens"
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		Slug:        s,
	}
	if input.ImageURL != "" {
		imageURL := input.ImageURL
		category.ImageURL = &imageURL
	}
	return category, ""
}

func toCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Slug:         c.Slug,
		ImageURL:     c.ImageURL,
		ProductCount: c.ProductCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toProductResponse(p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
	if p.Rating != nil {
		rating := p.Rating.InexactFloat64()
		resp.Rating = &rating
	}
	return resp
}
