package order

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

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	gate    Gate
	errors  httpx.ErrorWriter
}

func NewHandler(service Service, gate Gate, ew httpx.ErrorWriter) *Handler {
	return &Handler{service: service, gate: gate, errors: ew}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/orders", func(r chi.Router) {
		r.Use(h.gate.Require(access.PlaceOrders))
		r.Get("/", h.listOrders)                                                   // GET    /api/orders?status=&userId=
		r.Post("/", h.placeOrder)                                                  // POST   /api/orders
		r.Get("/{id}", h.getOrder)                                                 // GET    /api/orders/{id}
		r.With(h.gate.Require(access.ManageOrders)).Put("/{id}", h.updateOrder)    // PUT    /api/orders/{id}
		r.With(h.gate.Require(access.ManageOrders)).Delete("/{id}", h.deleteOrder) // DELETE /api/orders/{id}
	})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (access.Principal, bool) {
	p, ok := access.PrincipalFrom(r.Context())
	if !ok {
		h.errors.Write(w, r, apperr.Unauthorized("access token required"))
	}
	return p, ok
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	f := Filter{UserID: r.URL.Query().Get("userId")}
	if v := r.URL.Query().Get("status"); v != "" {
		st, ok := ParseStatus(v)
		if !ok {
			h.errors.Write(w, r, apperr.Validation("unknown status %q", v))
			return
		}
		f.Status = st
	}

	orders, err := h.service.ListOrders(r.Context(), caller, f)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, orders)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), caller, req)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	o, err := h.service.GetOrder(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	o, err := h.service.UpdateOrder(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
