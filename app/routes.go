// Package app wires the HTTP handlers into a single router.
package app

import (
	"net/http"

	"github.com/mytheresa/storefront/app/admin"
	"github.com/mytheresa/storefront/app/auth"
	"github.com/mytheresa/storefront/app/catalog"
	"github.com/mytheresa/storefront/app/categories"
	"github.com/mytheresa/storefront/app/health"
	"github.com/mytheresa/storefront/app/middleware"
)

type Handlers struct {
	Categories *categories.CategoryHandler
	Catalog    *catalog.CatalogHandler
	Admin      *admin.AdminHandler
	Login      *auth.LoginHandler
	Health     *health.HealthHandler
}

// NewRouter registers every route. Mutating and admin routes require an
// admin bearer token.
func NewRouter(h Handlers, tokens middleware.TokenValidator) http.Handler {
	mux := http.NewServeMux()
	protect := middleware.RequireAdmin(tokens)
	protected := func(fn http.HandlerFunc) http.Handler { return protect(fn) }

	mux.HandleFunc("GET /healthz", h.Health.HandleHealth)
	mux.HandleFunc("POST /api/auth/login", h.Login.HandleLogin)

	mux.HandleFunc("GET /api/categories", h.Categories.HandleGetAll)
	mux.HandleFunc("GET /api/categories/{id}", h.Categories.HandleGet)
	mux.HandleFunc("GET /api/categories/by-slug/{slug}", h.Categories.HandleGetBySlug)
	mux.Handle("POST /api/categories", protected(h.Categories.HandleCreate))
	mux.Handle("PUT /api/categories/{id}", protected(h.Categories.HandleUpdate))
	mux.Handle("DELETE /api/categories/{id}", protected(h.Categories.HandleDelete))

	mux.HandleFunc("GET /api/products", h.Catalog.HandleGet)
	mux.HandleFunc("GET /api/products/{id}", h.Catalog.HandleGetProduct)
	mux.Handle("POST /api/products", protected(h.Catalog.HandleCreate))
	mux.Handle("PUT /api/products/{id}", protected(h.Catalog.HandleUpdate))
	mux.Handle("DELETE /api/products/{id}", protected(h.Catalog.HandleDelete))

	mux.Handle("POST /api/admin/init-db", protected(h.Admin.HandleInitDB))
	mux.Handle("GET /api/admin/schema", protected(h.Admin.HandleSchema))

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging,
		middleware.Recover,
		middleware.CORS,
	)
}
