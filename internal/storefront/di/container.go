// Package di assembles the storefront runtime from configuration.
package di

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/platform/config"
	"github.com/WappTienda/frontend/internal/storefront/admin"
	"github.com/WappTienda/frontend/internal/storefront/api"
	"github.com/WappTienda/frontend/internal/storefront/apierr"
	"github.com/WappTienda/frontend/internal/storefront/auth"
	"github.com/WappTienda/frontend/internal/storefront/cart"
	"github.com/WappTienda/frontend/internal/storefront/catalog"
	"github.com/WappTienda/frontend/internal/storefront/checkout"
	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/form"
	"github.com/WappTienda/frontend/internal/storefront/httpserver"
	"github.com/WappTienda/frontend/internal/storefront/i18n"
	"github.com/WappTienda/frontend/internal/storefront/notify"
	"github.com/WappTienda/frontend/internal/storefront/query"
	"github.com/WappTienda/frontend/internal/storefront/storage"
)

// Stores bundles the client-side state holders.
type Stores struct {
	Durable storage.Store
	Cart    *cart.Store
	Auth    *auth.Store
	Toasts  *notify.Store
	Confirm *confirm.Store
	Cache   *query.Cache
}

// Services bundles the flows the JSON surface drives.
type Services struct {
	Catalog   *catalog.Service
	Checkout  *checkout.Service
	Auth      *auth.Service
	Orders    *admin.Orders
	Products  *admin.Products
	Settings  *admin.Settings
	Dashboard *admin.Dashboard
}

// Deps lets callers replace infrastructure. Zero values are built from Config.
type Deps struct {
	Durable    storage.Store
	HTTPClient api.HTTPClient
	Logger     *zap.Logger
}

// Container wires storage, the REST client, stores and services for runtime use.
type Container struct {
	Config   config.Config
	Client   *api.Client
	Stores   Stores
	Services Services
	Messages *apierr.Translator
	Router   http.Handler
}

// NewContainer constructs the runtime dependencies.
func NewContainer(cfg config.Config, deps Deps) (*Container, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	durable := deps.Durable
	if durable == nil {
		var err error
		durable, err = buildStorage(cfg.State)
		if err != nil {
			return nil, err
		}
	}

	bundle, err := i18n.Default(cfg.UI.Locale)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	messages := apierr.New(bundle)
	validator := form.NewValidator(bundle)

	stores := Stores{
		Durable: durable,
		Cart:    cart.NewStore(cart.Options{Storage: durable, Logger: logger.Named("cart")}),
		Auth:    auth.NewStore(auth.Options{Storage: durable, Logger: logger.Named("auth")}),
		Toasts:  notify.NewStore(notify.Options{Duration: cfg.UI.ToastDuration, Logger: logger.Named("notify")}),
		Confirm: confirm.NewStore(),
		Cache:   query.NewCache(query.Options{StaleTime: cfg.State.CacheStaleTime, Logger: logger.Named("query")}),
	}

	client, err := api.NewClient(api.Options{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: deps.HTTPClient,
		Timeout:    cfg.API.Timeout,
		Tokens:     stores.Auth,
		OnUnauthorized: func() {
			if err := stores.Auth.Logout(); err != nil {
				logger.Warn("session eviction failed", zap.Error(err))
			}
			stores.Cache.Clear()
		},
		Logger: logger.Named("api"),
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	svc, err := buildServices(client, stores, messages, validator, logger)
	if err != nil {
		return nil, err
	}

	router, err := httpserver.NewRouter(httpserver.Config{
		Durable:        durable,
		Cart:           stores.Cart,
		Catalog:        svc.Catalog,
		Checkout:       svc.Checkout,
		Auth:           svc.Auth,
		Toasts:         stores.Toasts,
		Confirm:        stores.Confirm,
		Messages:       messages,
		Orders:         svc.Orders,
		Products:       svc.Products,
		Settings:       svc.Settings,
		Dashboard:      svc.Dashboard,
		LoginPath:      cfg.Server.LoginPath,
		RequestTimeout: cfg.Server.WriteTimeout,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return &Container{
		Config:   cfg,
		Client:   client,
		Stores:   stores,
		Services: svc,
		Messages: messages,
		Router:   router,
	}, nil
}

// Close stops pending toast timers.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	c.Stores.Toasts.Close()
	c.Stores.Confirm.Close()
	return nil
}

func buildStorage(cfg config.StateConfig) (storage.Store, error) {
	if cfg.Dir == "" {
		return storage.NewMemoryStore(), nil
	}
	fs, err := storage.NewFileStore(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("open state dir: %w", err)
	}
	return fs, nil
}

func buildServices(client *api.Client, stores Stores, messages *apierr.Translator, validator *form.Validator, logger *zap.Logger) (Services, error) {
	if client == nil {
		return Services{}, errors.New("api client is required")
	}
	var svc Services
	var err error

	if svc.Catalog, err = catalog.NewService(client, stores.Cache); err != nil {
		return Services{}, fmt.Errorf("build catalog service: %w", err)
	}
	if svc.Checkout, err = checkout.NewService(checkout.Options{
		Cart:      stores.Cart,
		Client:    client,
		Validator: validator,
		Cache:     stores.Cache,
		Logger:    logger.Named("checkout"),
	}); err != nil {
		return Services{}, fmt.Errorf("build checkout service: %w", err)
	}
	if svc.Auth, err = auth.NewService(stores.Auth, client, validator, logger.Named("auth")); err != nil {
		return Services{}, fmt.Errorf("build auth service: %w", err)
	}

	deps := admin.Deps{
		Cache:    stores.Cache,
		Toasts:   stores.Toasts,
		Confirm:  stores.Confirm,
		Messages: messages,
		Logger:   logger.Named("admin"),
	}
	if svc.Orders, err = admin.NewOrders(client, deps); err != nil {
		return Services{}, fmt.Errorf("build orders service: %w", err)
	}
	if svc.Products, err = admin.NewProducts(client, deps); err != nil {
		return Services{}, fmt.Errorf("build products service: %w", err)
	}
	if svc.Settings, err = admin.NewSettings(client, deps); err != nil {
		return Services{}, fmt.Errorf("build settings service: %w", err)
	}
	if svc.Dashboard, err = admin.NewDashboard(client, deps); err != nil {
		return Services{}, fmt.Errorf("build dashboard service: %w", err)
	}
	return svc, nil
}
