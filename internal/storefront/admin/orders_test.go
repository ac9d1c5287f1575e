package admin_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/WappTienda/frontend/internal/storefront/admin"
	"github.com/WappTienda/frontend/internal/storefront/api"
	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/notify"
	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

// fakeBackend is an in-memory orders API.
type fakeBackend struct {
	mu       sync.Mutex
	orders   map[string]domain.Order
	lists    int
	patches  []domain.UpdateOrder
	deleted  []string
	failNext int
}

func newFakeBackend(orders ...domain.Order) *fakeBackend {
	b := &fakeBackend{orders: map[string]domain.Order{}}
	for _, o := range orders {
		b.orders[o.ID] = o
	}
	return b
}

func (b *fakeBackend) listCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lists
}

func (b *fakeBackend) patchLog() []domain.UpdateOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.UpdateOrder(nil), b.patches...)
}

func (b *fakeBackend) deletedIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

func (b *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lists++
		status := r.URL.Query().Get("status")
		page := domain.Page[domain.Order]{Data: []domain.Order{}}
		for _, id := range []string{"o-1", "o-2"} {
			o, ok := b.orders[id]
			if !ok || (status != "" && string(o.Status) != status) {
				continue
			}
			page.Data = append(page.Data, o)
		}
		page.Meta.Total = len(page.Data)
		_ = json.NewEncoder(w).Encode(page)
	})
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		o, ok := b.orders[chi.URLParam(r, "id")]
		if !ok {
			http.Error(w, `{"message":"Order not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(o)
	})
	r.Patch("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failNext > 0 {
			w.WriteHeader(b.failNext)
			b.failNext = 0
			return
		}
		var patch domain.UpdateOrder
		_ = json.NewDecoder(r.Body).Decode(&patch)
		b.patches = append(b.patches, patch)
		o := b.orders[chi.URLParam(r, "id")]
		if patch.Status != nil {
			o.Status = *patch.Status
		}
		if patch.AdminNote != nil {
			o.AdminNote = patch.AdminNote
		}
		b.orders[o.ID] = o
		_ = json.NewEncoder(w).Encode(o)
	})
	r.Delete("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id := chi.URLParam(r, "id")
		delete(b.orders, id)
		b.deleted = append(b.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

var errNotRun = errors.New("callback not run")

type token string

func (t token) Token() string { return string(t) }

type harness struct {
	orders  *admin.Orders
	cache   *query.Cache
	toasts  *notify.Store
	confirm *confirm.Store
	backend *fakeBackend
}

func newHarness(t *testing.T, backend *fakeBackend) harness {
	t.Helper()
	ts := httptest.NewServer(backend.router())
	t.Cleanup(ts.Close)

	client, err := api.NewClient(api.Options{BaseURL: ts.URL, HTTPClient: ts.Client(), Tokens: token("tok")})
	require.NoError(t, err)

	h := harness{
		cache:   query.NewCache(query.Options{}),
		toasts:  notify.NewStore(notify.Options{AfterFunc: func(_ time.Duration, _ func()) notify.Timer { return noopTimer{} }}),
		confirm: confirm.NewStore(),
		backend: backend,
	}
	h.orders, err = admin.NewOrders(client, admin.Deps{Cache: h.cache, Toasts: h.toasts, Confirm: h.confirm})
	require.NoError(t, err)
	t.Cleanup(h.toasts.Close)
	return h
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func order(id string, st orderstatus.Status) domain.Order {
	return domain.Order{ID: id, PublicID: "pub-" + id, Status: st, TotalAmount: decimal.NewFromInt(1000)}
}

func TestUpdateStatusInvalidatesOrderAndEveryList(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeBackend(order("o-1", orderstatus.Pending), order("o-2", orderstatus.Pending)))
	ctx := context.Background()

	all, err := h.orders.List(ctx, admin.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all.Data, 2)
	pending, err := h.orders.List(ctx, admin.OrderFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending.Data, 2)
	_, err = h.orders.Get(ctx, "o-1")
	require.NoError(t, err)
	_, err = h.orders.Get(ctx, "o-2")
	require.NoError(t, err)
	require.Equal(t, 2, h.backend.listCalls())

	updated, err := h.orders.UpdateStatus(ctx, "o-1", "confirmed")
	require.NoError(t, err)
	require.Equal(t, orderstatus.Confirmed, updated.Status)

	require.True(t, h.cache.Stale(query.One(query.ResourceAdminOrder, "o-1")))
	require.False(t, h.cache.Stale(query.One(query.ResourceAdminOrder, "o-2")))
	require.True(t, h.cache.Stale(admin.OrdersKey(domain.OrderQuery{Limit: admin.DefaultOrderLimit})))
	require.True(t, h.cache.Stale(admin.OrdersKey(domain.OrderQuery{Limit: admin.DefaultOrderLimit, Status: orderstatus.Pending})))

	all, err = h.orders.List(ctx, admin.OrderFilter{})
	require.NoError(t, err)
	require.Equal(t, orderstatus.Confirmed, all.Data[0].Status)
	pending, err = h.orders.List(ctx, admin.OrderFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending.Data, 1)
	require.Equal(t, "o-2", pending.Data[0].ID)

	toasts := h.toasts.Toasts()
	require.Len(t, toasts, 1)
	require.Equal(t, notify.TypeSuccess, toasts[0].Type)
}

func TestUpdateStatusRejectsInvalidValue(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeBackend(order("o-1", orderstatus.Pending)))
	_, err := h.orders.UpdateStatus(context.Background(), "o-1", "Confirmed")
	require.ErrorIs(t, err, orderstatus.ErrInvalidStatus)
	require.Empty(t, h.backend.patchLog())

	toasts := h.toasts.Toasts()
	require.Len(t, toasts, 1)
	require.Equal(t, notify.TypeError, toasts[0].Type)
	require.Equal(t, "El estado seleccionado no es válido.", toasts[0].Message)
}

func TestListRejectsInvalidFilter(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeBackend())
	_, err := h.orders.List(context.Background(), admin.OrderFilter{Status: "shipped"})
	require.ErrorIs(t, err, orderstatus.ErrInvalidStatus)
	require.Zero(t, h.backend.listCalls())
}

func TestFailedUpdateLeavesCache(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(order("o-1", orderstatus.Pending))
	backend.failNext = http.StatusConflict
	h := newHarness(t, backend)
	ctx := context.Background()

	_, err := h.orders.Get(ctx, "o-1")
	require.NoError(t, err)

	_, err = h.orders.UpdateStatus(ctx, "o-1", "delivered")
	require.Equal(t, http.StatusConflict, api.StatusOf(err))
	require.False(t, h.cache.Stale(query.One(query.ResourceAdminOrder, "o-1")))

	toasts := h.toasts.Toasts()
	require.Len(t, toasts, 1)
	require.Equal(t, "Ya existe un recurso con los mismos datos.", toasts[0].Message)
}

func TestAnyStatusMayFollowAnyOther(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeBackend(order("o-1", orderstatus.Delivered)))
	for _, st := range []string{"pending", "cancelled", "contacted", "delivered", "confirmed"} {
		out, err := h.orders.UpdateStatus(context.Background(), "o-1", st)
		require.NoError(t, err)
		require.Equal(t, orderstatus.Status(st), out.Status)
	}
}

func TestUpdateSanitizesAdminNote(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeBackend(order("o-1", orderstatus.Pending)))
	note := "<i>llamar</i> después de las 18"
	out, err := h.orders.Update(context.Background(), "o-1", admin.OrderEdit{AdminNote: &note})
	require.NoError(t, err)
	require.Equal(t, "llamar después de las 18", *out.AdminNote)
	require.Nil(t, h.backend.patchLog()[0].Status)
	require.Equal(t, "Pedido actualizado.", h.toasts.Toasts()[0].Message)
}

func TestDeleteGoesThroughConfirm(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeBackend(order("o-1", orderstatus.Pending)))
	ctx := context.Background()

	var outcome error = errNotRun
	h.orders.RequestDelete("o-1", func(err error) { outcome = err })
	pending, ok := h.confirm.Current()
	require.True(t, ok)
	require.Equal(t, "Eliminar pedido", pending.Title)
	require.Equal(t, "Eliminar", pending.ConfirmLabel)
	require.True(t, strings.HasPrefix(pending.Message, "¿Estás seguro"))
	require.Empty(t, h.backend.deletedIDs())

	require.NoError(t, h.confirm.Accept(ctx))
	require.NoError(t, outcome)
	require.Equal(t, []string{"o-1"}, h.backend.deletedIDs())
	require.False(t, h.confirm.IsOpen())
}

func TestDeleteCancelled(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeBackend(order("o-1", orderstatus.Pending)))
	h.orders.RequestDelete("o-1", nil)
	h.confirm.Close()
	require.Empty(t, h.backend.deletedIDs())
}
