package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/storefront/app/response"
	"github.com/mytheresa/storefront/internal/logger"
	"github.com/mytheresa/storefront/models"
)

var maxRating = decimal.NewFromInt(5)

// priceLimit is the smallest value a decimal(10,2) column cannot hold.
var priceLimit = decimal.NewFromInt(100000000)

type Response struct {
	Total    int       `json:"total"`
	Offset   int       `json:"offset"`
	Limit    int       `json:"limit"`
	Products []Product `json:"products"`
}

type Product struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	ImageURL     *string   `json:"image_url"`
	Rating       *float64  `json:"rating"`
	CategoryID   *uint     `json:"category_id"`
	CategoryName *string   `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

type CatalogHandler struct {
	repo ProductProvider
}

func NewCatalogHandler(r ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		repo: r,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := q.Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := q.Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	// Parse filters; a numeric category is an id, anything else a slug
	var filters models.ProductFilters
	if category := q.Get("category"); category != "" {
		if id, err := strconv.ParseUint(category, 10, 64); err == nil && id > 0 {
			categoryID := uint(id)
			filters.CategoryID = &categoryID
		} else {
			filters.CategorySlug = category
		}
	}

	if idStr := q.Get("category_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			response.Error(w, http.StatusBadRequest, "Invalid category ID")
			return
		}
		categoryID := uint(id)
		filters.CategoryID = &categoryID
	}

	if priceStr := q.Get("price_lt"); priceStr != "" {
		if val, err := strconv.ParseFloat(priceStr, 64); err == nil {
			filters.PriceLessThan = &val
		}
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), offset, limit, filters)
	if err != nil {
		logger.Get().WithContext(r.Context()).ErrorWithErr("failed to fetch products", err)
		response.Error(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	response.JSON(w, http.StatusOK, Response{
		Total:    int(total),
		Offset:   offset,
		Limit:    limit,
		Products: products,
	}, "")
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := response.ParseID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "Failed to fetch product")
		return
	}
	response.JSON(w, http.StatusOK, toProduct(*product), "")
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	product, msg := decodeProduct(r)
	if msg != "" {
		response.Error(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.CreateProduct(r.Context(), product); err != nil {
		writeRepoError(w, r, err, "Failed to create product")
		return
	}
	response.JSON(w, http.StatusCreated, toProduct(*product), "Product created successfully")
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := response.ParseID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, msg := decodeProduct(r)
	if msg != "" {
		response.Error(w, http.StatusBadRequest, msg)
		return
	}
	product.ID = id

	if err := h.repo.UpdateProduct(r.Context(), product); err != nil {
		writeRepoError(w, r, err, "Failed to update product")
		return
	}
	response.JSON(w, http.StatusOK, toProduct(*product), "Product updated successfully")
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := response.ParseID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "Failed to delete product")
		return
	}
	response.JSON(w, http.StatusOK, nil, "Product deleted successfully")
}

func writeRepoError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, models.ErrInvalidCategory):
		response.Error(w, http.StatusBadRequest, "Category does not exist")
	case errors.Is(err, models.ErrInvalidProduct):
		response.Error(w, http.StatusBadRequest, "Product violates catalog constraints")
	default:
		logger.Get().WithContext(r.Context()).ErrorWithErr(fallback, err)
		response.Error(w, http.StatusInternalServerError, fallback)
	}
}

type productInput struct {
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
	Rating      *decimal.Decimal `json:"rating"`
	CategoryID  *uint            `json:"category_id"`
}

func decodeProduct(r *http.Request) (*models.Product, string) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, "Invalid JSON body"
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.Price == nil {
		return nil, "Name and price are required"
	}
	if input.Price.IsNegative() {
		return nil, "Price must not be negative"
	}
	if input.Price.GreaterThanOrEqual(priceLimit) {
		return nil, "Price must be less than 100000000"
	}
	if input.Rating != nil && (input.Rating.IsNegative() || input.Rating.GreaterThan(maxRating)) {
		return nil, "Rating must be between 0 and 5"
	}

	product := &models.Product{
		Name:        input.Name,
		Brand:       strings.TrimSpace(input.Brand),
		Price:       *input.Price,
		Description: input.Description,
		Rating:      input.Rating,
	}
	// A zero category id means uncategorized.
	if input.CategoryID != nil && *input.CategoryID != 0 {
		product.CategoryID = input.CategoryID
	}
	if input.ImageURL != "" {
		imageURL := input.ImageURL
		product.ImageURL = &imageURL
	}
	return product, ""
}

func toProduct(p models.Product) Product {
	resp := Product{
		ID:           p.ID,
		Name:         p.Name,
		Brand:        p.Brand,
		Price:        p.Price.InexactFloat64(),
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Rating != nil {
		rating := p.Rating.InexactFloat64()
		resp.Rating = &rating
	}
	return resp
}
