// Package catalog serves the public product listing and storefront settings.
package catalog

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

// Client is the subset of the REST client used by the catalog.
type Client interface {
	Products(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error)
	Product(ctx context.Context, id string) (domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	PublicSettings(ctx context.Context) (map[string]string, error)
}

// Service reads public data through the shared query cache.
type Service struct {
	client Client
	cache  *query.Cache
}

// NewService constructs a Service.
func NewService(client Client, cache *query.Cache) (*Service, error) {
	if client == nil {
		return nil, errors.New("catalog: client is required")
	}
	if cache == nil {
		cache = query.NewCache(query.Options{})
	}
	return &Service{client: client, cache: cache}, nil
}

// ProductsKey is the cache key of a public listing.
func ProductsKey(q domain.ProductQuery) query.Key {
	params := map[string]string{
		"categoryId": q.CategoryID,
		"search":     q.Search,
	}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.OnlyInStock {
		params["onlyInStock"] = "true"
	}
	return query.List(query.ResourceProducts, params)
}

// Products lists visible products.
func (s *Service) Products(ctx context.Context, q domain.ProductQuery) (domain.Page[domain.Product], error) {
	return query.Fetch(ctx, s.cache, ProductsKey(q), func(ctx context.Context) (domain.Page[domain.Product], error) {
		return s.client.Products(ctx, q)
	})
}

// Product fetches a single product.
func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	return query.Fetch(ctx, s.cache, query.One(query.ResourceProduct, id), func(ctx context.Context) (domain.Product, error) {
		return s.client.Product(ctx, id)
	})
}

// Categories lists product categories.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return query.Fetch(ctx, s.cache, query.All(query.ResourceCategories), s.client.Categories)
}

// Settings returns the public storefront settings.
func (s *Service) Settings(ctx context.Context) (map[string]string, error) {
	return query.Fetch(ctx, s.cache, query.All(query.ResourcePublicSettings), s.client.PublicSettings)
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// WhatsAppLink builds a wa.me link. The phone keeps only its digits.
func WhatsAppLink(phone, message string) string {
	link := "https://wa.me/" + nonDigits.ReplaceAllString(phone, "")
	if message == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
