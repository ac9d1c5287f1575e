// Package httpserver exposes the storefront stores and services as a JSON
// surface for the single-page client.
package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/platform/observability"
	"github.com/WappTienda/frontend/internal/storefront/admin"
	"github.com/WappTienda/frontend/internal/storefront/apierr"
	"github.com/WappTienda/frontend/internal/storefront/auth"
	"github.com/WappTienda/frontend/internal/storefront/cart"
	"github.com/WappTienda/frontend/internal/storefront/catalog"
	"github.com/WappTienda/frontend/internal/storefront/checkout"
	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/notify"
	"github.com/WappTienda/frontend/internal/storefront/storage"
)

const defaultRequestTimeout = 60 * time.Second

// Config wires the router to the storefront components. Every field except
// Logger, LoginPath and RequestTimeout is required.
type Config struct {
	Durable   storage.Store
	Cart      *cart.Store
	Catalog   *catalog.Service
	Checkout  *checkout.Service
	Auth      *auth.Service
	Toasts    *notify.Store
	Confirm   *confirm.Store
	Messages  *apierr.Translator
	Orders    *admin.Orders
	Products  *admin.Products
	Settings  *admin.Settings
	Dashboard *admin.Dashboard

	LoginPath      string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

func (c Config) validate() error {
	switch {
	case c.Durable == nil:
		return errors.New("httpserver: durable storage is required")
	case c.Cart == nil, c.Catalog == nil, c.Checkout == nil:
		return errors.New("httpserver: storefront services are required")
	case c.Auth == nil:
		return errors.New("httpserver: auth service is required")
	case c.Toasts == nil, c.Confirm == nil:
		return errors.New("httpserver: ui stores are required")
	case c.Orders == nil, c.Products == nil, c.Settings == nil, c.Dashboard == nil:
		return errors.New("httpserver: admin services are required")
	}
	return nil
}

// NewRouter builds the chi router with the middleware stack and every route.
func NewRouter(cfg Config) (http.Handler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Messages == nil {
		cfg.Messages = apierr.New(nil)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	h := &handlers{cfg: cfg, logger: cfg.Logger.Named("httpserver")}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.RequestLogger(cfg.Logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(cfg.RequestTimeout))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorBody(r.Context(), w, errorBody{Code: "not_found", Message: cfg.Messages.T("errors.http.404"), Status: http.StatusNotFound})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorBody(r.Context(), w, errorBody{Code: "method_not_allowed", Message: http.StatusText(http.StatusMethodNotAllowed), Status: http.StatusMethodNotAllowed})
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(chimw.NoCache)

		r.Route("/cart", h.cartRoutes)
		r.Post("/checkout", h.submitCheckout)
		r.Get("/orders/{publicID}", h.publicOrder)
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/categories", h.listCategories)
		r.Get("/settings", h.publicSettings)

		r.Get("/toasts", h.listToasts)
		r.Delete("/toasts/{id}", h.dismissToast)
		r.Get("/confirm", h.currentConfirm)
		r.Post("/confirm/accept", h.acceptConfirm)
		r.Post("/confirm/cancel", h.cancelConfirm)

		r.Post("/admin/login", h.login)
		r.Post("/admin/logout", h.logout)
		r.Group(func(r chi.Router) {
			r.Use(auth.Guard(cfg.Durable, cfg.LoginPath, cfg.Logger))
			r.Route("/admin", h.adminRoutes)
		})
	})

	return router, nil
}
