package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/WappTienda/frontend/internal/storefront/domain"
)

// CreatePublicOrder submits a checkout. Every call carries a fresh
// Idempotency-Key so the API can drop duplicate deliveries of one submission.
func (c *Client) CreatePublicOrder(ctx context.Context, in domain.CreateOrder) (domain.PublicOrder, error) {
	body, err := jsonBody(in)
	if err != nil {
		return domain.PublicOrder{}, err
	}
	var out domain.PublicOrder
	err = c.do(ctx, call{
		op:         "orders.create_public",
		method:     http.MethodPost,
		endpoint:   "/orders/public",
		body:       body,
		idempotent: true,
	}, &out)
	return out, err
}

// PublicOrder looks up an order by its public id.
func (c *Client) PublicOrder(ctx context.Context, publicID string) (domain.PublicOrder, error) {
	var out domain.PublicOrder
	err := c.do(ctx, call{op: "orders.get_public", method: http.MethodGet, endpoint: "/orders/public/{id}", id: publicID}, &out)
	return out, err
}

func orderParams(q domain.OrderQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// Orders lists orders for the admin panel.
func (c *Client) Orders(ctx context.Context, q domain.OrderQuery) (domain.Page[domain.Order], error) {
	var out domain.Page[domain.Order]
	err := c.do(ctx, call{op: "orders.list", method: http.MethodGet, endpoint: "/orders", query: orderParams(q), auth: true}, &out)
	return out, err
}

// Order fetches one order.
func (c *Client) Order(ctx context.Context, id string) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, call{op: "orders.get", method: http.MethodGet, endpoint: "/orders/{id}", id: id, auth: true}, &out)
	return out, err
}

// UpdateOrder patches status and/or admin note.
func (c *Client) UpdateOrder(ctx context.Context, id string, in domain.UpdateOrder) (domain.Order, error) {
	body, err := jsonBody(in)
	if err != nil {
		return domain.Order{}, err
	}
	var out domain.Order
	err = c.do(ctx, call{op: "orders.update", method: http.MethodPatch, endpoint: "/orders/{id}", id: id, body: body, auth: true}, &out)
	return out, err
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "orders.delete", method: http.MethodDelete, endpoint: "/orders/{id}", id: id, auth: true}, nil)
}
