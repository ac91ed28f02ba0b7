// Package server assembles the HTTP router: middleware, module handlers,
// health and metrics endpoints.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/georgemunganga/storefront-backend/internal/config"
	"github.com/georgemunganga/storefront-backend/internal/httpx"
	"github.com/georgemunganga/storefront-backend/internal/logging"
	"github.com/georgemunganga/storefront-backend/internal/modules/auth"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/modules/inventory"
	"github.com/georgemunganga/storefront-backend/internal/modules/order"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
	"github.com/georgemunganga/storefront-backend/internal/monitoring"
)

// Repositories are the storage backends the server runs on.
type Repositories struct {
	Users    user.Repository
	Products catalog.Repository
	Orders   order.Repository
}

// Server is the assembled API.
type Server struct {
	Router *chi.Mux
	Users  user.Service
}

// New wires every module over repos.
func New(cfg *config.Config, log logr.Logger, repos Repositories) *Server {
	ew := httpx.ErrorWriter{ExposeDetail: cfg.Development()}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.Middleware(log))
	router.Use(monitoring.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.RequestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/api/health", health)
	router.Handle("/metrics", promhttp.HandlerFor(monitoring.Registry, promhttp.HandlerOpts{}))

	// ── Identity ────────────────────────────────────────────
	hasher := user.NewHasher(cfg.BcryptCost, cfg.HashConcurrency)
	userService := user.NewService(repos.Users, hasher)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, nil)
	gate := auth.NewGate(tokens, ew)

	auth.NewHandler(auth.NewService(userService, tokens), gate, ew).RegisterRoutes(router)
	user.NewHandler(userService, gate, ew).RegisterRoutes(router)

	// ── Catalog & Inventory ─────────────────────────────────
	catalogService := catalog.NewService(repos.Products)
	catalog.NewHandler(catalogService, gate, ew).RegisterRoutes(router)
	inventory.NewHandler(inventory.NewService(catalogService), gate, ew).RegisterRoutes(router)

	// ── Orders ──────────────────────────────────────────────
	orderService := order.NewService(repos.Orders, catalogService)
	order.NewHandler(orderService, gate, ew).RegisterRoutes(router)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Respond(w, http.StatusNotFound, map[string]string{"error": "route not found"})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Respond(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	return &Server{Router: router, Users: userService}
}

func health(w http.ResponseWriter, r *http.Request) {
	httpx.Respond(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "storefront API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
