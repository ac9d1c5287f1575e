package admin

import (
	"context"
	"errors"
	"strconv"

	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

// AnalyticsClient is the subset of the REST client used by the dashboard.
type AnalyticsClient interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
	OrderStats(ctx context.Context, days int) (domain.OrderStats, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
}

// StatusCount is one slice of the status distribution chart.
type StatusCount struct {
	Status orderstatus.Status `json:"status"`
	Label  string             `json:"label"`
	Count  int                `json:"count"`
}

// Dashboard reads analytics for the admin home screen.
type Dashboard struct {
	client AnalyticsClient
	deps   Deps
}

// NewDashboard constructs the dashboard service.
func NewDashboard(client AnalyticsClient, deps Deps) (*Dashboard, error) {
	if client == nil {
		return nil, errors.New("admin: analytics client is required")
	}
	deps, err := deps.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Dashboard{client: client, deps: deps}, nil
}

// Stats returns the dashboard counters.
func (d *Dashboard) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return query.Fetch(ctx, d.deps.Cache, query.All(query.ResourceDashboard), d.client.Dashboard)
}

// OrderStats returns order counts for the last days.
func (d *Dashboard) OrderStats(ctx context.Context, days int) (domain.OrderStats, error) {
	key := query.List(query.ResourceOrderStats, map[string]string{"days": positive(days)})
	return query.Fetch(ctx, d.deps.Cache, key, func(ctx context.Context) (domain.OrderStats, error) {
		return d.client.OrderStats(ctx, days)
	})
}

// TopProducts returns the best sellers.
func (d *Dashboard) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	key := query.List(query.ResourceTopProducts, map[string]string{"limit": positive(limit)})
	return query.Fetch(ctx, d.deps.Cache, key, func(ctx context.Context) ([]domain.TopProduct, error) {
		return d.client.TopProducts(ctx, limit)
	})
}

// Distribution lists the count per status in canonical status order, using
// plural labels.
func Distribution(stats domain.OrderStats) []StatusCount {
	out := make([]StatusCount, 0, len(orderstatus.All()))
	for _, st := range orderstatus.All() {
		out = append(out, StatusCount{Status: st, Label: st.PluralLabel(), Count: stats.ByStatus[st]})
	}
	return out
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
