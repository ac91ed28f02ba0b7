package user

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

type Handler struct {
	service Service
	gate    Gate
	errors  httpx.ErrorWriter
}

func NewHandler(service Service, gate Gate, ew httpx.ErrorWriter) *Handler {
	return &Handler{service: service, gate: gate, errors: ew}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/users", func(r chi.Router) {
		r.With(h.gate.Require(access.ViewUsers)).Get("/", h.listUsers)
		r.With(h.gate.Require(access.ViewUsers)).Get("/{id}", h.getUser)
		r.With(h.gate.Require(access.ManageUsers)).Post("/", h.createUser)
		r.With(h.gate.Require(access.ManageUsers)).Put("/{id}", h.updateUser)
		r.With(h.gate.Require(access.ManageUsers)).Delete("/{id}", h.deleteUser)
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	var f Filter
	if v := r.URL.Query().Get("userType"); v != "" {
		role, ok := access.ParseRole(v)
		if !ok {
			h.errors.Write(w, r, apperr.Validation("unknown userType %q", v))
			return
		}
		f.Role = role
	}

	users, err := h.service.ListUsers(r.Context(), f)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, user)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
