package admin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WappTienda/frontend/internal/storefront/admin"
	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/notify"
	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

func ptr(s string) *string { return &s }

type fakeSettings struct {
	list    []domain.Setting
	updates []domain.SettingUpdate
	err     error
}

func (f *fakeSettings) Settings(context.Context) ([]domain.Setting, error) {
	return f.list, nil
}

func (f *fakeSettings) UpdateSettings(_ context.Context, updates []domain.SettingUpdate) ([]domain.Setting, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updates = updates
	return f.list, nil
}

func TestSettingsAllGroups(t *testing.T) {
	t.Parallel()

	client := &fakeSettings{list: []domain.Setting{
		{Key: "store_name", Value: ptr("Tienda")},
		{Key: "whatsapp_number", Value: ptr("123")},
		{Key: "currency", Value: ptr("ARS")},
	}}
	svc, err := admin.NewSettings(client, newDeps())
	require.NoError(t, err)

	groups, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, groups.General, 1)
	require.Len(t, groups.WhatsApp, 1)
	require.Len(t, groups.System, 1)
}

func TestSettingsSave(t *testing.T) {
	t.Parallel()

	deps := newDeps()
	client := &fakeSettings{}
	svc, err := admin.NewSettings(client, deps)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.All(ctx)
	require.NoError(t, err)

	_, err = svc.Save(ctx, map[string]string{"whatsapp_number": "123", "store_name": "Tienda"})
	require.NoError(t, err)
	require.Equal(t, []domain.SettingUpdate{{Key: "store_name", Value: "Tienda"}, {Key: "whatsapp_number", Value: "123"}}, client.updates)
	require.True(t, deps.Cache.Stale(query.All(query.ResourceAdminSettings)))

	toasts := deps.Toasts.Toasts()
	require.Equal(t, notify.Toast{ID: toasts[0].ID, Type: notify.TypeSuccess, Message: "Configuración guardada correctamente."}, toasts[0])
}

func TestSettingsSaveFailure(t *testing.T) {
	t.Parallel()

	deps := newDeps()
	svc, err := admin.NewSettings(&fakeSettings{err: errors.New("boom")}, deps)
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), map[string]string{"a": "b"})
	require.Error(t, err)
	toasts := deps.Toasts.Toasts()
	require.Equal(t, notify.TypeError, toasts[0].Type)
	require.Equal(t, "Error al guardar la configuración. Inténtelo de nuevo.", toasts[0].Message)
}

type fakeAnalytics struct{ statsDays []int }

func (f *fakeAnalytics) Dashboard(context.Context) (domain.DashboardStats, error) {
	var s domain.DashboardStats
	s.Orders.Total = 4
	return s, nil
}

func (f *fakeAnalytics) OrderStats(_ context.Context, days int) (domain.OrderStats, error) {
	f.statsDays = append(f.statsDays, days)
	return domain.OrderStats{ByStatus: map[orderstatus.Status]int{orderstatus.Pending: 3, orderstatus.Cancelled: 1}}, nil
}

func (f *fakeAnalytics) TopProducts(context.Context, int) ([]domain.TopProduct, error) {
	return []domain.TopProduct{}, nil
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	client := &fakeAnalytics{}
	svc, err := admin.NewDashboard(client, newDeps())
	require.NoError(t, err)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Orders.Total)

	for _, days := range []int{7, 7, 30} {
		_, err := svc.OrderStats(ctx, days)
		require.NoError(t, err)
	}
	require.Equal(t, []int{7, 30}, client.statsDays)

	top, err := svc.TopProducts(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, top)

	st, _ := svc.OrderStats(ctx, 7)
	dist := admin.Distribution(st)
	require.Len(t, dist, 5)
	require.Equal(t, admin.StatusCount{Status: orderstatus.Pending, Label: "Nuevos", Count: 3}, dist[0])
	require.Equal(t, 0, dist[2].Count)
	require.Equal(t, "Cancelados", dist[4].Label)
}
