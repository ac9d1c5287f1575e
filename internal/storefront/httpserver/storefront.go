package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/apierr"
	"github.com/WappTienda/frontend/internal/storefront/cart"
	"github.com/WappTienda/frontend/internal/storefront/checkout"
	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/form"
)

type handlers struct {
	cfg    Config
	logger *zap.Logger
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	body := errorFor(h.cfg.Messages, err)
	if apierr.Classify(err) == apierr.KindUnknown && body.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeErrorBody(r.Context(), w, body)
}

type cartResponse struct {
	Items     []domain.CartItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func (h *handlers) cartRoutes(r chi.Router) {
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Post("/items", h.addCartItem)
	r.Patch("/items/{productID}", h.updateCartItem)
	r.Delete("/items/{productID}", h.removeCartItem)
}

// writeCart renders the cart after a mutation. A persist failure has already
// been applied in memory, so it is logged rather than reported.
func (h *handlers) writeCart(w http.ResponseWriter, r *http.Request, status int, err error) {
	if err != nil {
		if !errors.Is(err, cart.ErrPersist) {
			h.fail(w, r, err)
			return
		}
		h.logger.Warn("cart not persisted", zap.Error(err))
	}
	items := h.cfg.Cart.Items()
	writeJSON(w, status, cartResponse{Items: items, Total: cart.Total(items), ItemCount: cart.ItemCount(items)})
}

func (h *handlers) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, http.StatusOK, nil)
}

func (h *handlers) clearCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, http.StatusOK, h.cfg.Cart.Clear())
}

func (h *handlers) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	id := strings.TrimSpace(req.ProductID)
	if id == "" {
		h.fail(w, r, form.NewValidationError("productId", h.cfg.Messages.T("validation.default")))
		return
	}
	product, err := h.cfg.Catalog.Product(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeCart(w, r, http.StatusOK, h.cfg.Cart.AddItem(product))
}

func (h *handlers) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Quantity == nil {
		h.fail(w, r, form.NewValidationError("quantity", h.cfg.Messages.T("validation.default")))
		return
	}
	h.writeCart(w, r, http.StatusOK, h.cfg.Cart.UpdateQuantity(chi.URLParam(r, "productID"), *req.Quantity))
}

func (h *handlers) removeCartItem(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, http.StatusOK, h.cfg.Cart.RemoveItem(chi.URLParam(r, "productID")))
}

func (h *handlers) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var f checkout.Form
	if err := decodeJSON(r, &f); err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.cfg.Checkout.Submit(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *handlers) publicOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.cfg.Checkout.Lookup(r.Context(), chi.URLParam(r, "publicID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.cfg.Catalog.Products(r.Context(), productQuery(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.cfg.Catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.cfg.Catalog.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *handlers) publicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.cfg.Catalog.Settings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func productQuery(r *http.Request) domain.ProductQuery {
	q := r.URL.Query()
	inStock, _ := strconv.ParseBool(q.Get("inStock"))
	return domain.ProductQuery{
		Page:        intParam(q.Get("page")),
		Limit:       intParam(q.Get("limit")),
		CategoryID:  strings.TrimSpace(q.Get("categoryId")),
		Search:      strings.TrimSpace(q.Get("search")),
		OnlyInStock: inStock,
	}
}

func intParam(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
