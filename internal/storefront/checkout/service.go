// Package checkout submits the cart as a public order.
package checkout

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/cart"
	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/form"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

// Form is the customer data collected at checkout.
type Form struct {
	CustomerName    string `json:"customerName" validate:"required,min=2"`
	CustomerPhone   string `json:"customerPhone" validate:"required,phone"`
	CustomerAddress string `json:"customerAddress"`
	CustomerNote    string `json:"customerNote"`
}

// Client is the subset of the REST client used by checkout.
type Client interface {
	CreatePublicOrder(ctx context.Context, in domain.CreateOrder) (domain.PublicOrder, error)
	PublicOrder(ctx context.Context, publicID string) (domain.PublicOrder, error)
}

// Result is what the confirmation view renders.
type Result struct {
	Order        domain.OrderSummary `json:"order"`
	WhatsAppLink *string             `json:"whatsappLink"`
	Items        []domain.CartItem   `json:"items"`
	Total        decimal.Decimal     `json:"total"`
}

// Options configures a Service.
type Options struct {
	Cart      *cart.Store
	Client    Client
	Validator *form.Validator
	Cache     *query.Cache
	Logger    *zap.Logger
}

// Service runs the checkout flow.
type Service struct {
	cart      *cart.Store
	client    Client
	validator *form.Validator
	cache     *query.Cache
	policy    *bluemonday.Policy
	logger    *zap.Logger
}

// NewService constructs a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Cart == nil {
		return nil, errors.New("checkout: cart is required")
	}
	if opts.Client == nil {
		return nil, errors.New("checkout: client is required")
	}
	s := &Service{
		cart:      opts.Cart,
		client:    opts.Client,
		validator: opts.Validator,
		cache:     opts.Cache,
		policy:    bluemonday.StrictPolicy(),
		logger:    opts.Logger,
	}
	if s.validator == nil {
		s.validator = form.NewValidator(nil)
	}
	if s.cache == nil {
		s.cache = query.NewCache(query.Options{})
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

// Submit validates f, snapshots the cart and posts the order. The cart is
// cleared only after the API accepts the order; a failure leaves it as it was.
func (s *Service) Submit(ctx context.Context, f Form) (Result, error) {
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.CustomerPhone = strings.TrimSpace(f.CustomerPhone)
	if err := s.validator.Struct(f); err != nil {
		return Result{}, err
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return Result{}, form.NewValidationError("cart", s.validator.Message("cart"))
	}
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{ProductID: item.Product.ID, Quantity: item.Quantity})
	}

	in := domain.CreateOrder{
		CustomerName:    f.CustomerName,
		CustomerPhone:   f.CustomerPhone,
		CustomerAddress: s.clean(f.CustomerAddress),
		CustomerNote:    s.clean(f.CustomerNote),
		Items:           lines,
	}
	resp, err := query.Mutate(ctx, s.cache, func(ctx context.Context) (domain.PublicOrder, error) {
		return s.client.CreatePublicOrder(ctx, in)
	}, query.OrderCreatedKeys()...)
	if err != nil {
		s.logger.Warn("order submission failed", zap.Int("lines", len(lines)), zap.Error(err))
		return Result{}, err
	}

	if err := s.cart.Clear(); err != nil {
		s.logger.Warn("cart clear after checkout not persisted", zap.Error(err))
	}
	if !resp.Order.Consistent() {
		s.logger.Warn("order summary totals do not add up", zap.String("order_id", resp.Order.OrderID))
	}
	s.logger.Info("order submitted", zap.String("order_id", resp.Order.OrderID))

	return Result{
		Order:        resp.Order,
		WhatsAppLink: resp.WhatsAppLink,
		Items:        items,
		Total:        cart.Total(items),
	}, nil
}

// Lookup fetches a public order by id.
func (s *Service) Lookup(ctx context.Context, publicID string) (domain.PublicOrder, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return domain.PublicOrder{}, form.NewValidationError("publicId", s.validator.Message("publicId"))
	}
	return query.Fetch(ctx, s.cache, query.One(query.ResourcePublicOrder, publicID), func(ctx context.Context) (domain.PublicOrder, error) {
		return s.client.PublicOrder(ctx, publicID)
	})
}

// clean strips markup. The result is plain text, so entities are decoded again.
func (s *Service) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}
