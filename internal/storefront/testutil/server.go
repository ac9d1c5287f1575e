// Package testutil runs the storefront stack against a fake REST API for tests.
package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/WappTienda/frontend/internal/platform/config"
	"github.com/WappTienda/frontend/internal/storefront/di"
	"github.com/WappTienda/frontend/internal/storefront/storage"
)

// Server is a running storefront wired to a fake backend.
type Server struct {
	*httptest.Server
	Backend   *Backend
	Container *di.Container
	Durable   storage.Store
}

// ServerOption customises the configuration used by NewServer.
type ServerOption func(*config.Config)

// WithLoginPath overrides the admin login redirect target.
func WithLoginPath(path string) ServerOption {
	return func(cfg *config.Config) {
		cfg.Server.LoginPath = path
	}
}

// WithToastDuration overrides how long toasts stay visible.
func WithToastDuration(d time.Duration) ServerOption {
	return func(cfg *config.Config) {
		cfg.UI.ToastDuration = d
	}
}

// NewServer starts a fake backend and a storefront pointed at it. Both are
// closed when the test ends.
func NewServer(t testing.TB, opts ...ServerOption) *Server {
	t.Helper()

	backend := NewBackend()
	api := httptest.NewServer(backend.Handler())
	t.Cleanup(api.Close)

	cfg := config.Config{
		Server: config.ServerConfig{Address: ":0", LoginPath: "/admin/login", WriteTimeout: 10 * time.Second},
		API:    config.APIConfig{BaseURL: api.URL, Timeout: 5 * time.Second},
		UI:     config.UIConfig{ToastDuration: time.Minute, Locale: "es"},
		Log:    config.LogConfig{Level: "error"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	durable := storage.NewMemoryStore()
	container, err := di.NewContainer(cfg, di.Deps{Durable: durable})
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	ts := httptest.NewServer(container.Router)
	t.Cleanup(ts.Close)
	return &Server{Server: ts, Backend: backend, Container: container, Durable: durable}
}
