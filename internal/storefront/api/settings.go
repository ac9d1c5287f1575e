package api

import (
	"context"
	"net/http"

	"github.com/WappTienda/frontend/internal/storefront/domain"
)

// PublicSettings returns the settings exposed to the storefront.
func (c *Client) PublicSettings(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := c.do(ctx, call{op: "settings.public", method: http.MethodGet, endpoint: "/settings/public"}, &out)
	return out, err
}

// Settings returns every setting.
func (c *Client) Settings(ctx context.Context) ([]domain.Setting, error) {
	var out []domain.Setting
	err := c.do(ctx, call{op: "settings.list", method: http.MethodGet, endpoint: "/settings", auth: true}, &out)
	return out, err
}

// UpdateSettings saves a batch of key/value pairs and returns the full list.
func (c *Client) UpdateSettings(ctx context.Context, updates []domain.SettingUpdate) ([]domain.Setting, error) {
	body, err := jsonBody(map[string][]domain.SettingUpdate{"settings": updates})
	if err != nil {
		return nil, err
	}
	var out []domain.Setting
	err = c.do(ctx, call{op: "settings.update", method: http.MethodPatch, endpoint: "/settings", body: body, auth: true}, &out)
	return out, err
}
