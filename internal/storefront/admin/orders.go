package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

// DefaultOrderLimit is the page size of the orders screen.
const DefaultOrderLimit = 100

// OrdersClient is the subset of the REST client used for orders.
type OrdersClient interface {
	Orders(ctx context.Context, q domain.OrderQuery) (domain.Page[domain.Order], error)
	Order(ctx context.Context, id string) (domain.Order, error)
	UpdateOrder(ctx context.Context, id string, in domain.UpdateOrder) (domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// OrderFilter is the raw filter state of the orders screen. Status is free
// form because it arrives from a select element.
type OrderFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// OrderEdit is the order detail form. Empty fields are left unchanged.
type OrderEdit struct {
	Status    string  `json:"status"`
	AdminNote *string `json:"adminNote"`
}

// Orders manages orders.
type Orders struct {
	client OrdersClient
	deps   Deps
	policy *bluemonday.Policy
}

// NewOrders constructs the orders service.
func NewOrders(client OrdersClient, deps Deps) (*Orders, error) {
	if client == nil {
		return nil, errors.New("admin: orders client is required")
	}
	deps, err := deps.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Orders{client: client, deps: deps, policy: bluemonday.StrictPolicy()}, nil
}

func (f OrderFilter) query() (domain.OrderQuery, error) {
	q := domain.OrderQuery{Page: f.Page, Limit: f.Limit, Search: strings.TrimSpace(f.Search)}
	if q.Limit <= 0 {
		q.Limit = DefaultOrderLimit
	}
	if f.Status != "" {
		st, err := orderstatus.Parse(f.Status)
		if err != nil {
			return q, err
		}
		q.Status = st
	}
	return q, nil
}

// OrdersKey is the cache key of one filtered orders list.
func OrdersKey(q domain.OrderQuery) query.Key {
	params := map[string]string{"status": string(q.Status), "search": q.Search}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	return query.List(query.ResourceAdminOrders, params)
}

// List returns orders matching f. Each distinct filter is its own cache entry.
func (o *Orders) List(ctx context.Context, f OrderFilter) (domain.Page[domain.Order], error) {
	q, err := f.query()
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}
	return query.Fetch(ctx, o.deps.Cache, OrdersKey(q), func(ctx context.Context) (domain.Page[domain.Order], error) {
		return o.client.Orders(ctx, q)
	})
}

// Get returns one order.
func (o *Orders) Get(ctx context.Context, id string) (domain.Order, error) {
	return query.Fetch(ctx, o.deps.Cache, query.One(query.ResourceAdminOrder, id), func(ctx context.Context) (domain.Order, error) {
		return o.client.Order(ctx, id)
	})
}

// UpdateStatus sets the status of order id. Any status may follow any other.
// raw is validated locally and an invalid value never reaches the API.
func (o *Orders) UpdateStatus(ctx context.Context, id, raw string) (domain.Order, error) {
	return o.Update(ctx, id, OrderEdit{Status: raw})
}

// Update saves the order detail form.
func (o *Orders) Update(ctx context.Context, id string, edit OrderEdit) (domain.Order, error) {
	var patch domain.UpdateOrder
	if edit.Status != "" {
		st, err := orderstatus.Parse(edit.Status)
		if err != nil {
			o.deps.Logger.Warn("order status rejected", zap.String("order_id", id), zap.String("status", edit.Status))
			o.deps.Toasts.Error(o.deps.Messages.Message(err))
			return domain.Order{}, err
		}
		patch.Status = &st
	}
	if edit.AdminNote != nil {
		note := plainText(o.policy, *edit.AdminNote)
		patch.AdminNote = &note
	}

	order, err := query.Mutate(ctx, o.deps.Cache, func(ctx context.Context) (domain.Order, error) {
		return o.client.UpdateOrder(ctx, id, patch)
	}, query.OrderChangedKeys(id)...)
	if err != nil {
		o.deps.Toasts.Error(o.deps.Messages.Message(err))
		return domain.Order{}, err
	}
	if patch.Status != nil {
		o.deps.Toasts.Success(o.deps.Messages.T("orders.status_updated"))
	} else {
		o.deps.Toasts.Success(o.deps.Messages.T("orders.saved"))
	}
	return order, nil
}

// RequestDelete opens a confirmation for deleting order id. The order is
// deleted only when the dialog is accepted. done, if set, receives the outcome.
func (o *Orders) RequestDelete(id string, done func(error)) uint64 {
	return o.deps.Confirm.Confirm(confirm.Request{
		Title:        o.deps.Messages.T("orders.delete_title"),
		Message:      o.deps.Messages.T("orders.delete_message"),
		ConfirmLabel: o.deps.Messages.T("orders.delete_label"),
		OnConfirm: func(ctx context.Context) error {
			err := o.Delete(ctx, id)
			if done != nil {
				done(err)
			}
			return err
		},
	})
}

// Delete removes order id immediately.
func (o *Orders) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, o.deps.Cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.client.DeleteOrder(ctx, id)
	}, query.OrderChangedKeys(id)...)
	if err != nil {
		o.deps.Toasts.Error(o.deps.Messages.Message(err))
		return err
	}
	o.deps.Toasts.Success(o.deps.Messages.T("orders.deleted"))
	return nil
}
