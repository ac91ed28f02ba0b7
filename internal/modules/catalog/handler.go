package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/httpx"
)

// Gate builds middleware that admits only callers holding a capability.
type Gate interface {
	Require(c access.Capability) func(http.Handler) http.Handler
}

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service Service
	gate    Gate
	errors  httpx.ErrorWriter
}

func NewHandler(service Service, gate Gate, ew httpx.ErrorWriter) *Handler {
	return &Handler{service: service, gate: gate, errors: ew}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(h.gate.Require(access.ManageProducts))
			r.Post("/", h.createProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})
	})
	router.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Get("/{category}/products", h.listByCategory)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{Category: q.Get("category"), Query: q.Get("q")}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			h.errors.Write(w, r, apperr.Validation("active must be true or false"))
			return
		}
		f.Active = &active
	}

	products, err := h.service.ListProducts(r.Context(), f)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if err := httpx.Decode(r, &in); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if err := httpx.Decode(r, &in); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, categories)
}

func (h *Handler) listByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}
