package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/WappTienda/frontend/internal/storefront/domain"
)

// Dashboard returns the admin counters.
func (c *Client) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	err := c.do(ctx, call{op: "analytics.dashboard", method: http.MethodGet, endpoint: "/analytics/dashboard", auth: true}, &out)
	return out, err
}

// OrderStats returns per-status and per-day order counts. days <= 0 uses the server default.
func (c *Client) OrderStats(ctx context.Context, days int) (domain.OrderStats, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	var out domain.OrderStats
	err := c.do(ctx, call{op: "analytics.orders", method: http.MethodGet, endpoint: "/analytics/orders", query: q, auth: true}, &out)
	return out, err
}

// TopProducts returns the best sellers. limit <= 0 uses the server default.
func (c *Client) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []domain.TopProduct
	err := c.do(ctx, call{op: "analytics.products", method: http.MethodGet, endpoint: "/analytics/products", query: q, auth: true}, &out)
	return out, err
}
