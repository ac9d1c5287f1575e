package api

import (
	"context"
	"net/http"

	"github.com/WappTienda/frontend/internal/storefront/domain"
)

// Login exchanges admin credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResponse, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return domain.AuthResponse{}, err
	}
	var out domain.AuthResponse
	err = c.do(ctx, call{op: "auth.login", method: http.MethodPost, endpoint: "/auth/login", body: body}, &out)
	return out, err
}
