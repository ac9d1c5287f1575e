// Package admin holds the logic behind the admin panel screens: orders,
// products, settings and the dashboard.
package admin

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/apierr"
	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/notify"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

// Deps are the collaborators shared by every admin service.
type Deps struct {
	Cache    *query.Cache
	Toasts   *notify.Store
	Confirm  *confirm.Store
	Messages *apierr.Translator
	Logger   *zap.Logger
}

func (d Deps) withDefaults() (Deps, error) {
	if d.Cache == nil {
		return d, errors.New("admin: cache is required")
	}
	if d.Toasts == nil {
		return d, errors.New("admin: toast store is required")
	}
	if d.Confirm == nil {
		d.Confirm = confirm.NewStore()
	}
	if d.Messages == nil {
		d.Messages = apierr.New(nil)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d, nil
}

// plainText strips markup from admin free text.
func plainText(p *bluemonday.Policy, v string) string {
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(v)))
}
