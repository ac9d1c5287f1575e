package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/auth"
	"github.com/WappTienda/frontend/internal/storefront/confirm"
)

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.cfg.Auth.Login(r.Context(), creds); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cfg.Auth.Store().Session())
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Auth.Logout(); err != nil {
		if !errors.Is(err, auth.ErrPersist) {
			h.fail(w, r, err)
			return
		}
		h.logger.Warn("logout not persisted", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.cfg.Auth.Store().Session())
}

func (h *handlers) listToasts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"toasts": h.cfg.Toasts.Toasts()})
}

func (h *handlers) dismissToast(w http.ResponseWriter, r *http.Request) {
	h.cfg.Toasts.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

type confirmResponse struct {
	Open    bool             `json:"open"`
	Pending *confirm.Pending `json:"pending,omitempty"`
}

func (h *handlers) confirmState() confirmResponse {
	pending, ok := h.cfg.Confirm.Current()
	if !ok {
		return confirmResponse{}
	}
	return confirmResponse{Open: true, Pending: &pending}
}

func (h *handlers) currentConfirm(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.confirmState())
}

// acceptConfirm runs the pending action with the accepting request's context.
// An optional ?id= guards against accepting a dialog that was replaced.
func (h *handlers) acceptConfirm(w http.ResponseWriter, r *http.Request) {
	accept := h.cfg.Confirm.Accept
	if raw := r.URL.Query().Get("id"); raw != "" {
		want, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.fail(w, r, confirm.ErrReplaced)
			return
		}
		accept = func(ctx context.Context) error { return h.cfg.Confirm.AcceptID(ctx, want) }
	}
	if err := accept(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.confirmState())
}

func (h *handlers) cancelConfirm(w http.ResponseWriter, _ *http.Request) {
	h.cfg.Confirm.Close()
	w.WriteHeader(http.StatusNoContent)
}
