package admin_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/WappTienda/frontend/internal/storefront/admin"
	"github.com/WappTienda/frontend/internal/storefront/api"
	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/notify"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

type fakeProducts struct {
	listCalls int
	created   []domain.CreateProduct
	deleted   []string
	restored  []string
	err       error
}

func (f *fakeProducts) AdminProducts(context.Context, domain.ProductQuery) (domain.Page[domain.Product], error) {
	f.listCalls++
	return domain.Page[domain.Product]{Data: []domain.Product{{ID: "p-1"}}}, nil
}

func (f *fakeProducts) AdminProduct(_ context.Context, id string) (domain.Product, error) {
	return domain.Product{ID: id}, nil
}

func (f *fakeProducts) CreateProduct(_ context.Context, in domain.CreateProduct) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	f.created = append(f.created, in)
	return domain.Product{ID: "p-2", Name: in.Name, Price: in.Price}, nil
}

func (f *fakeProducts) UpdateProduct(_ context.Context, id string, in domain.UpdateProduct) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	p := domain.Product{ID: id}
	if in.Description != nil {
		p.Description = in.Description
	}
	return p, nil
}

func (f *fakeProducts) DeleteProduct(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProducts) RestoreProduct(_ context.Context, id string) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	f.restored = append(f.restored, id)
	return domain.Product{ID: id}, nil
}

func (f *fakeProducts) UploadImage(_ context.Context, filename string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(r)
	return "https://cdn.example.com/" + filename, nil
}

func newDeps() admin.Deps {
	return admin.Deps{
		Cache:   query.NewCache(query.Options{}),
		Toasts:  notify.NewStore(notify.Options{AfterFunc: func(_ time.Duration, _ func()) notify.Timer { return noopTimer{} }}),
		Confirm: confirm.NewStore(),
	}
}

func TestProductMutationsInvalidateProductKeys(t *testing.T) {
	t.Parallel()

	deps := newDeps()
	client := &fakeProducts{}
	svc, err := admin.NewProducts(client, deps)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.List(ctx, domain.ProductQuery{})
	require.NoError(t, err)
	_, err = svc.Get(ctx, "p-1")
	require.NoError(t, err)
	_, err = svc.Get(ctx, "p-3")
	require.NoError(t, err)

	_, err = svc.Restore(ctx, "p-1")
	require.NoError(t, err)
	require.True(t, deps.Cache.Stale(admin.AdminProductsKey(domain.ProductQuery{})))
	require.True(t, deps.Cache.Stale(query.One(query.ResourceAdminProduct, "p-1")))
	require.False(t, deps.Cache.Stale(query.One(query.ResourceAdminProduct, "p-3")))

	_, err = svc.List(ctx, domain.ProductQuery{})
	require.NoError(t, err)
	require.Equal(t, 2, client.listCalls)
	require.Equal(t, "Producto restaurado.", deps.Toasts.Toasts()[0].Message)
}

func TestProductCreateSanitizesDescription(t *testing.T) {
	t.Parallel()

	deps := newDeps()
	client := &fakeProducts{}
	svc, err := admin.NewProducts(client, deps)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateProduct{
		SKU:         "MATE",
		Name:        "Mate",
		Description: `<img src=x onerror=alert(1)>Calabaza "curada"`,
		Price:       decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	require.Equal(t, `Calabaza "curada"`, client.created[0].Description)

	desc := "<p>nuevo</p>"
	out, err := svc.Update(context.Background(), "p-1", domain.UpdateProduct{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "nuevo", *out.Description)
	require.Equal(t, "Producto guardado.", deps.Toasts.Toasts()[1].Message)
}

func TestProductDeleteThroughConfirm(t *testing.T) {
	t.Parallel()

	deps := newDeps()
	client := &fakeProducts{}
	svc, err := admin.NewProducts(client, deps)
	require.NoError(t, err)

	first := svc.RequestDelete("p-1", nil)
	second := svc.RequestDelete("p-2", nil)
	require.NotEqual(t, first, second)

	require.NoError(t, deps.Confirm.Accept(context.Background()))
	require.Equal(t, []string{"p-2"}, client.deleted)
}

func TestProductFailuresToastMappedMessage(t *testing.T) {
	t.Parallel()

	deps := newDeps()
	client := &fakeProducts{err: &api.HTTPError{Status: 403}}
	svc, err := admin.NewProducts(client, deps)
	require.NoError(t, err)

	require.Error(t, svc.Delete(context.Background(), "p-1"))
	_, err = svc.UploadImage(context.Background(), "a.png", strings.NewReader("x"))
	require.Error(t, err)

	toasts := deps.Toasts.Toasts()
	require.Len(t, toasts, 2)
	for _, toast := range toasts {
		require.Equal(t, notify.TypeError, toast.Type)
		require.Equal(t, "No tienes permisos para realizar esta acción.", toast.Message)
	}
}

func TestUploadImage(t *testing.T) {
	t.Parallel()

	svc, err := admin.NewProducts(&fakeProducts{}, newDeps())
	require.NoError(t, err)
	url, err := svc.UploadImage(context.Background(), "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/a.png", url)
}

func TestNewProductsRequiresDeps(t *testing.T) {
	t.Parallel()

	_, err := admin.NewProducts(&fakeProducts{}, admin.Deps{})
	require.Error(t, err)
	_, err = admin.NewProducts(nil, newDeps())
	require.Error(t, err)
}
