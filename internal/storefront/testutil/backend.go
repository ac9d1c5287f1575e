package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
)

// Credentials accepted by the fake backend.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "secret1"
	AdminToken    = "tok-admin"
)

// Backend is an in-memory stand-in for the WappTienda REST API.
type Backend struct {
	mu       sync.Mutex
	products map[string]domain.Product
	orders   map[string]domain.Order
	settings map[string]string
	created  []domain.CreateOrder
	idemKeys []string
	calls    map[string]int
	revoked  bool
}

// NewBackend seeds a backend with two products, one pending order and a few settings.
func NewBackend() *Backend {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := &Backend{
		products: map[string]domain.Product{},
		orders:   map[string]domain.Order{},
		settings: map[string]string{
			"store_name":      "Tienda Demo",
			"whatsapp_number": "+54 9 11 1234-5678",
			"currency":        "ARS",
		},
		calls: map[string]int{},
	}
	b.products["p-1"] = domain.Product{ID: "p-1", SKU: "SKU-1", Name: "Mate", Price: decimal.NewFromInt(1000), IsVisible: true, IsActive: true, StockQuantity: 5, CreatedAt: now, UpdatedAt: now}
	b.products["p-2"] = domain.Product{ID: "p-2", SKU: "SKU-2", Name: "Bombilla", Price: decimal.NewFromInt(500), SalePrice: decimal.NewNullDecimal(decimal.NewFromInt(400)), IsVisible: true, IsActive: true, StockQuantity: 3, CreatedAt: now, UpdatedAt: now}
	b.orders["o-1"] = domain.Order{ID: "o-1", PublicID: "WT-0001", Status: orderstatus.Pending, TotalAmount: decimal.NewFromInt(1000), CreatedAt: now, UpdatedAt: now}
	return b
}

// Calls reports how often the route "METHOD /path-pattern" was served.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// CreatedOrders returns every public order submission received.
func (b *Backend) CreatedOrders() []domain.CreateOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.CreateOrder(nil), b.created...)
}

// IdempotencyKeys returns the keys sent with public order submissions.
func (b *Backend) IdempotencyKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.idemKeys...)
}

// Order returns the stored admin order.
func (b *Backend) Order(id string) (domain.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	return o, ok
}

// Setting returns a stored setting value.
func (b *Backend) Setting(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings[key]
}

// RevokeTokens makes every authenticated call fail with 401.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	b.revoked = true
	b.mu.Unlock()
}

// Handler returns the chi router serving the fake API.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(b.count)

	r.Post("/auth/login", b.login)
	r.Get("/products", b.listProducts)
	r.Get("/products/{id}", b.getProduct)
	r.Get("/categories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Category{{ID: "c-1", Name: "Yerba", Slug: "yerba", IsActive: true}})
	})
	r.Get("/settings/public", b.publicSettings)
	r.Post("/orders/public", b.createOrder)
	r.Get("/orders/public/{publicID}", b.publicOrder)

	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)
		r.Get("/orders", b.listOrders)
		r.Get("/orders/{id}", b.getOrder)
		r.Patch("/orders/{id}", b.patchOrder)
		r.Delete("/orders/{id}", b.deleteOrder)
		r.Get("/products/admin", b.listProducts)
		r.Delete("/products/{id}", b.deleteProduct)
		r.Get("/settings", b.listSettings)
		r.Patch("/settings", b.patchSettings)
		r.Get("/analytics/dashboard", b.dashboard)
	})
	return r
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		route := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()
		b.mu.Lock()
		b.calls[route]++
		b.mu.Unlock()
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		revoked := b.revoked
		b.mu.Unlock()
		if revoked || r.Header.Get("Authorization") != "Bearer "+AdminToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"statusCode": 401, "message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Email != AdminEmail || req.Password != AdminPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"statusCode": 401, "message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthResponse{
		AccessToken: AdminToken,
		User:        domain.User{ID: "u-1", Email: AdminEmail, Role: domain.RoleAdmin},
	})
}

func (b *Backend) listProducts(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.products))
	for id := range b.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	page := domain.Page[domain.Product]{Data: []domain.Product{}}
	for _, id := range ids {
		page.Data = append(page.Data, b.products[id])
	}
	page.Meta = domain.PaginationMeta{Total: len(page.Data), Page: 1, Limit: 20, TotalPages: 1}
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) getProduct(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	p, ok := b.products[chi.URLParam(r, "id")]
	b.mu.Unlock()
	if !ok || p.Deleted() {
		writeJSON(w, http.StatusNotFound, map[string]any{"statusCode": 404, "message": "Product not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) deleteProduct(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.products[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Product not found"})
		return
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	b.products[p.ID] = p
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) publicSettings(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := map[string]string{}
	for k, v := range b.settings {
		if strings.HasPrefix(k, "store_") || strings.HasPrefix(k, "whatsapp_") {
			out[k] = v
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateOrder
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, in)
	b.idemKeys = append(b.idemKeys, r.Header.Get("Idempotency-Key"))

	summary := domain.OrderSummary{
		OrderID:  fmt.Sprintf("WT-%04d", len(b.orders)+1),
		Status:   orderstatus.Pending,
		Customer: &domain.SummaryCustomer{Name: in.CustomerName, Phone: in.CustomerPhone},
	}
	total := decimal.Zero
	for _, line := range in.Items {
		p, ok := b.products[line.ProductID]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"product not found: " + line.ProductID}})
			return
		}
		sub := p.EffectivePrice().Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(sub)
		summary.Items = append(summary.Items, domain.OrderSummaryItem{
			Name: p.Name, SKU: p.SKU, Quantity: line.Quantity, UnitPrice: p.EffectivePrice(), Subtotal: sub,
		})
	}
	summary.TotalAmount = total
	id := fmt.Sprintf("o-%d", len(b.orders)+1)
	b.orders[id] = domain.Order{ID: id, PublicID: summary.OrderID, Status: orderstatus.Pending, TotalAmount: total}

	link := "https://wa.me/5491112345678?text=Pedido%20" + summary.OrderID
	writeJSON(w, http.StatusCreated, domain.PublicOrder{Order: summary, WhatsAppLink: &link})
}

func (b *Backend) publicOrder(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	publicID := chi.URLParam(r, "publicID")
	for _, o := range b.orders {
		if o.PublicID == publicID {
			writeJSON(w, http.StatusOK, domain.PublicOrder{Order: domain.OrderSummary{OrderID: o.PublicID, Status: o.Status, Items: []domain.OrderSummaryItem{}, TotalAmount: decimal.Zero}})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "Order not found"})
}

func (b *Backend) listOrders(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	status := r.URL.Query().Get("status")
	ids := make([]string, 0, len(b.orders))
	for id := range b.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	page := domain.Page[domain.Order]{Data: []domain.Order{}}
	for _, id := range ids {
		o := b.orders[id]
		if status != "" && string(o.Status) != status {
			continue
		}
		page.Data = append(page.Data, o)
	}
	page.Meta.Total = len(page.Data)
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) dashboard(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var stats domain.DashboardStats
	stats.Revenue.Total = decimal.Zero
	for _, o := range b.orders {
		stats.Orders.Total++
		if o.Status == orderstatus.Pending {
			stats.Orders.Pending++
		}
		stats.Revenue.Total = stats.Revenue.Total.Add(o.TotalAmount)
	}
	stats.Products.Total = len(b.products)
	writeJSON(w, http.StatusOK, stats)
}

func (b *Backend) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := b.Order(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Order not found"})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (b *Backend) patchOrder(w http.ResponseWriter, r *http.Request) {
	var patch domain.UpdateOrder
	_ = json.NewDecoder(r.Body).Decode(&patch)
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Order not found"})
		return
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.AdminNote != nil {
		o.AdminNote = patch.AdminNote
	}
	b.orders[o.ID] = o
	writeJSON(w, http.StatusOK, o)
}

func (b *Backend) deleteOrder(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := b.orders[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Order not found"})
		return
	}
	delete(b.orders, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) settingsLocked() []domain.Setting {
	keys := make([]string, 0, len(b.settings))
	for k := range b.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]domain.Setting, 0, len(keys))
	for _, k := range keys {
		v := b.settings[k]
		out = append(out, domain.Setting{ID: "s-" + k, Key: k, Value: &v})
	}
	return out
}

func (b *Backend) listSettings(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.settingsLocked())
}

func (b *Backend) patchSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Settings []domain.SettingUpdate `json:"settings"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range req.Settings {
		b.settings[s.Key] = s.Value
	}
	writeJSON(w, http.StatusOK, b.settingsLocked())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
