package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/httpx"
)

// Gate builds middleware that admits only callers holding a capability.
type Gate interface {
	Require(c access.Capability) func(http.Handler) http.Handler
}

// Handler exposes inventory HTTP endpoints.
type Handler struct {
	service Service
	gate    Gate
	errors  httpx.ErrorWriter
}

func NewHandler(service Service, gate Gate, ew httpx.ErrorWriter) *Handler {
	return &Handler{service: service, gate: gate, errors: ew}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/inventory", func(r chi.Router) {
		r.Use(h.gate.Require(access.ManageInventory))
		r.Patch("/products/{id}/stock", h.updateStock)
		r.Get("/summary", h.summary)
	})
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	var body StockAdjustment
	if err := httpx.Decode(r, &body); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if body.Delta == nil {
		h.errors.Write(w, r, apperr.Validation("delta is required"))
		return
	}
	p, err := h.service.AdjustStock(r.Context(), chi.URLParam(r, "id"), *body.Delta)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sum)
}
