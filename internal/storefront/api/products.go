package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/WappTienda/frontend/internal/storefront/domain"
)

func productParams(q domain.ProductQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.CategoryID != "" {
		v.Set("categoryId", q.CategoryID)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.OnlyInStock {
		v.Set("onlyInStock", "true")
	}
	return v
}

// Products lists the public catalog.
func (c *Client) Products(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	err := c.do(ctx, call{op: "products.list", method: http.MethodGet, endpoint: "/products", query: productParams(q)}, &out)
	return out, err
}

// Product fetches one public product.
func (c *Client) Product(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{op: "products.get", method: http.MethodGet, endpoint: "/products/{id}", id: id}, &out)
	return out, err
}

// Categories lists product categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, call{op: "categories.list", method: http.MethodGet, endpoint: "/categories"}, &out)
	return out, err
}

// AdminProducts lists every product including hidden and deleted ones.
func (c *Client) AdminProducts(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	err := c.do(ctx, call{op: "products.admin_list", method: http.MethodGet, endpoint: "/products/admin", query: productParams(q), auth: true}, &out)
	return out, err
}

// AdminProduct fetches one product through the admin mirror.
func (c *Client) AdminProduct(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{op: "products.admin_get", method: http.MethodGet, endpoint: "/products/admin/{id}", id: id, auth: true}, &out)
	return out, err
}

// CreateProduct adds a product.
func (c *Client) CreateProduct(ctx context.Context, in domain.CreateProduct) (domain.Product, error) {
	body, err := jsonBody(in)
	if err != nil {
		return domain.Product{}, err
	}
	var out domain.Product
	err = c.do(ctx, call{op: "products.create", method: http.MethodPost, endpoint: "/products", body: body, auth: true}, &out)
	return out, err
}

// UpdateProduct patches a product.
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.UpdateProduct) (domain.Product, error) {
	body, err := jsonBody(in)
	if err != nil {
		return domain.Product{}, err
	}
	var out domain.Product
	err = c.do(ctx, call{op: "products.update", method: http.MethodPatch, endpoint: "/products/{id}", id: id, body: body, auth: true}, &out)
	return out, err
}

// DeleteProduct soft-deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "products.delete", method: http.MethodDelete, endpoint: "/products/{id}", id: id, auth: true}, nil)
}

// RestoreProduct undoes a soft delete.
func (c *Client) RestoreProduct(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{op: "products.restore", method: http.MethodPost, endpoint: "/products/{id}/restore", id: id, auth: true}, &out)
	return out, err
}
