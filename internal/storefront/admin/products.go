package admin

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

// ProductsClient is the subset of the REST client used for products.
type ProductsClient interface {
	AdminProducts(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error)
	AdminProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, in domain.CreateProduct) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.UpdateProduct) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	RestoreProduct(ctx context.Context, id string) (domain.Product, error)
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Products manages the catalog from the admin panel.
type Products struct {
	client ProductsClient
	deps   Deps
	policy *bluemonday.Policy
}

// NewProducts constructs the products service.
func NewProducts(client ProductsClient, deps Deps) (*Products, error) {
	if client == nil {
		return nil, errors.New("admin: products client is required")
	}
	deps, err := deps.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Products{client: client, deps: deps, policy: bluemonday.StrictPolicy()}, nil
}

// AdminProductsKey is the cache key of one admin product listing.
func AdminProductsKey(q domain.ProductQuery) query.Key {
	params := map[string]string{"categoryId": q.CategoryID, "search": q.Search}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.OnlyInStock {
		params["onlyInStock"] = "true"
	}
	return query.List(query.ResourceAdminProducts, params)
}

// List returns products including hidden and deleted ones.
func (p *Products) List(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error) {
	return query.Fetch(ctx, p.deps.Cache, AdminProductsKey(q), func(ctx context.Context) (domain.Page[domain.Product], error) {
		return p.client.AdminProducts(ctx, q)
	})
}

// Get returns one product.
func (p *Products) Get(ctx context.Context, id string) (domain.Product, error) {
	return query.Fetch(ctx, p.deps.Cache, query.One(query.ResourceAdminProduct, id), func(ctx context.Context) (domain.Product, error) {
		return p.client.AdminProduct(ctx, id)
	})
}

// Create adds a product.
func (p *Products) Create(ctx context.Context, in domain.CreateProduct) (domain.Product, error) {
	in.Description = plainText(p.policy, in.Description)
	out, err := query.Mutate(ctx, p.deps.Cache, func(ctx context.Context) (domain.Product, error) {
		return p.client.CreateProduct(ctx, in)
	}, query.ProductKeys("")...)
	return out, p.report(err, "products.saved")
}

// Update patches product id.
func (p *Products) Update(ctx context.Context, id string, in domain.UpdateProduct) (domain.Product, error) {
	if in.Description != nil {
		d := plainText(p.policy, *in.Description)
		in.Description = &d
	}
	out, err := query.Mutate(ctx, p.deps.Cache, func(ctx context.Context) (domain.Product, error) {
		return p.client.UpdateProduct(ctx, id, in)
	}, query.ProductKeys(id)...)
	return out, p.report(err, "products.saved")
}

// RequestDelete opens a confirmation for deleting product id.
func (p *Products) RequestDelete(id string, done func(error)) uint64 {
	return p.deps.Confirm.Confirm(confirm.Request{
		Title:        p.deps.Messages.T("products.delete_title"),
		Message:      p.deps.Messages.T("products.delete_message"),
		ConfirmLabel: p.deps.Messages.T("products.delete_label"),
		OnConfirm: func(ctx context.Context) error {
			err := p.Delete(ctx, id)
			if done != nil {
				done(err)
			}
			return err
		},
	})
}

// Delete soft-deletes product id.
func (p *Products) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, p.deps.Cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.client.DeleteProduct(ctx, id)
	}, query.ProductKeys(id)...)
	return p.report(err, "products.deleted")
}

// Restore undoes a soft delete.
func (p *Products) Restore(ctx context.Context, id string) (domain.Product, error) {
	out, err := query.Mutate(ctx, p.deps.Cache, func(ctx context.Context) (domain.Product, error) {
		return p.client.RestoreProduct(ctx, id)
	}, query.ProductKeys(id)...)
	return out, p.report(err, "products.restored")
}

// UploadImage uploads a product image and returns its URL. Nothing is cached.
func (p *Products) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	url, err := p.client.UploadImage(ctx, filename, r)
	if err != nil {
		p.deps.Toasts.Error(p.deps.Messages.Message(err))
		return "", err
	}
	return url, nil
}

func (p *Products) report(err error, successKey string) error {
	if err != nil {
		p.deps.Toasts.Error(p.deps.Messages.Message(err))
		return err
	}
	p.deps.Toasts.Success(p.deps.Messages.T(successKey))
	return nil
}
