package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/WappTienda/frontend/internal/storefront/admin"
	"github.com/WappTienda/frontend/internal/storefront/api"
	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/form"
)

const maxUploadBody = api.MaxImageSize + 1<<20

func (h *handlers) adminRoutes(r chi.Router) {
	r.Get("/session", h.session)

	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Patch("/orders/{id}", h.updateOrder)
	r.Delete("/orders/{id}", h.deleteOrder)

	r.Get("/products", h.listAdminProducts)
	r.Post("/products", h.createProduct)
	r.Get("/products/{id}", h.getAdminProduct)
	r.Patch("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
	r.Post("/products/{id}/restore", h.restoreProduct)
	r.Post("/uploads/image", h.uploadImage)

	r.Get("/settings", h.getSettings)
	r.Patch("/settings", h.saveSettings)

	r.Get("/dashboard", h.dashboard)
	r.Get("/analytics/orders", h.orderStats)
	r.Get("/analytics/top-products", h.topProducts)
}

func (h *handlers) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.cfg.Orders.List(r.Context(), admin.OrderFilter{
		Status: strings.TrimSpace(q.Get("status")),
		Search: q.Get("search"),
		Page:   intParam(q.Get("page")),
		Limit:  intParam(q.Get("limit")),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.cfg.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *handlers) updateOrder(w http.ResponseWriter, r *http.Request) {
	var edit admin.OrderEdit
	if err := decodeJSON(r, &edit); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.cfg.Orders.Update(r.Context(), chi.URLParam(r, "id"), edit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// deleteOrder only opens the confirmation; the order is removed by
// POST /api/confirm/accept.
func (h *handlers) deleteOrder(w http.ResponseWriter, r *http.Request) {
	h.cfg.Orders.RequestDelete(chi.URLParam(r, "id"), nil)
	writeJSON(w, http.StatusAccepted, h.confirmState())
}

func (h *handlers) listAdminProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.cfg.Products.List(r.Context(), productQuery(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) getAdminProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.cfg.Products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateProduct
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	product, err := h.cfg.Products.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *handlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.UpdateProduct
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	product, err := h.cfg.Products.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *handlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	h.cfg.Products.RequestDelete(chi.URLParam(r, "id"), nil)
	writeJSON(w, http.StatusAccepted, h.confirmState())
}

func (h *handlers) restoreProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.cfg.Products.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *handlers) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		h.fail(w, r, form.NewValidationError("file", h.cfg.Messages.T("validation.default")))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, form.NewValidationError("file", h.cfg.Messages.T("validation.default")))
		return
	}
	defer file.Close()

	url, err := h.cfg.Products.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	groups, err := h.cfg.Settings.All(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *handlers) saveSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := decodeJSON(r, &values); err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := h.cfg.Settings.Save(r.Context(), values)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GroupSettings(saved))
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cfg.Dashboard.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) orderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cfg.Dashboard.OrderStats(r.Context(), intParam(r.URL.Query().Get("days")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"byStatus":     stats.ByStatus,
		"byDate":       stats.ByDate,
		"distribution": admin.Distribution(stats),
	})
}

func (h *handlers) topProducts(w http.ResponseWriter, r *http.Request) {
	top, err := h.cfg.Dashboard.TopProducts(r.Context(), intParam(r.URL.Query().Get("limit")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}
