package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/httpx"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
)

type Handler struct {
	service Service
	gate    *Gate
	errors  httpx.ErrorWriter
}

func NewHandler(service Service, gate *Gate, ew httpx.ErrorWriter) *Handler {
	return &Handler{service: service, gate: gate, errors: ew}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.With(h.gate.Authenticate).Get("/me", h.me)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	sess, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, sess)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	sess, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sess)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := access.PrincipalFrom(r.Context())
	if !ok {
		h.errors.Write(w, r, apperr.Unauthorized("access token required"))
		return
	}
	u, err := h.service.Me(r.Context(), p.UserID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, u)
}
