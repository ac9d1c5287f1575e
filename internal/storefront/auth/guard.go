package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/storage"
)

const (
	// ReasonMissingToken indicates no durable token was found.
	ReasonMissingToken = "missing_token"
	// ReasonStorageUnavailable indicates durable storage could not be read.
	ReasonStorageUnavailable = "storage_unavailable"
)

// Guard blocks admin routes before the handler is constructed when durable
// storage holds no access token. Page navigations are redirected to loginPath
// and API callers receive a 401 JSON envelope.
func Guard(durable storage.Store, loginPath string, logger *zap.Logger) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/admin/login"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok, err := durable.Get(TokenKey)
			reason := ""
			switch {
			case err != nil:
				reason = ReasonStorageUnavailable
			case !ok || strings.TrimSpace(string(token)) == "":
				reason = ReasonMissingToken
			}
			if reason != "" {
				logger.Info("admin route blocked", zap.String("reason", reason), zap.String("path", r.URL.Path), zap.Error(err))
				handleUnauthorized(w, r, loginPath, reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request, loginPath, reason string) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   reason,
			"message": http.StatusText(http.StatusUnauthorized),
			"status":  http.StatusUnauthorized,
		})
		return
	}
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
