package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/WappTienda/frontend/internal/storefront/api"
	"github.com/WappTienda/frontend/internal/storefront/apierr"
	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/form"
	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
)

func TestErrorFor(t *testing.T) {
	t.Parallel()

	_, statusErr := orderstatus.Parse("shipped")
	messages := apierr.New(nil)

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "validation", err: form.NewValidationError("customerPhone", "x"), code: "validation_failed", status: http.StatusUnprocessableEntity},
		{name: "invalid status", err: statusErr, code: "invalid_status", status: http.StatusUnprocessableEntity},
		{name: "upstream 404", err: fmt.Errorf("load: %w", &api.HTTPError{Status: 404}), code: "upstream_error", status: http.StatusNotFound},
		{name: "upstream 401", err: &api.HTTPError{Status: 401}, code: "upstream_error", status: http.StatusUnauthorized},
		{name: "network", err: &api.NetworkError{Op: "x", Err: errors.New("refused")}, code: "upstream_unavailable", status: http.StatusBadGateway},
		{name: "not image", err: api.ErrNotImage, code: "invalid_upload", status: http.StatusUnsupportedMediaType},
		{name: "too large", err: api.ErrImageTooLarge, code: "invalid_upload", status: http.StatusRequestEntityTooLarge},
		{name: "nothing pending", err: confirm.ErrNothingPending, code: "nothing_pending", status: http.StatusConflict},
		{name: "confirm replaced", err: confirm.ErrReplaced, code: "confirm_replaced", status: http.StatusConflict},
		{name: "dot id", err: fmt.Errorf("%w: %q", api.ErrInvalidID, ".."), code: "not_found", status: http.StatusNotFound},
		{name: "confirm busy", err: confirm.ErrBusy, code: "confirm_busy", status: http.StatusConflict},
		{name: "unknown", err: errors.New("boom"), code: "internal", status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			body := errorFor(messages, tc.err)
			require.Equal(t, tc.code, body.Code)
			require.Equal(t, tc.status, body.Status)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestWriteErrorBodyEnvelope(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1\n")
	rec := httptest.NewRecorder()
	writeErrorBody(ctx, rec, errorBody{
		Code:    "validation_failed",
		Message: "Revisa los datos ingresados.",
		Status:  http.StatusUnprocessableEntity,
		Fields:  map[string]string{"customerName": "El nombre es requerido"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "validation_failed", got["error"])
	require.Equal(t, "req-1", got["request_id"])
	require.EqualValues(t, http.StatusUnprocessableEntity, got["status"])
	require.Equal(t, map[string]any{"customerName": "El nombre es requerido"}, got["fields"])
}

func TestWriteErrorBodyDefaultsToInternal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeErrorBody(context.Background(), rec, errorBody{Code: "internal", Message: "x"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotContains(t, got, "request_id")
	require.NotContains(t, got, "fields")
}

func TestSanitizeKeepsRunesWhole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{in: "válido", limit: 2, want: "v"},
		{in: "válido", limit: 3, want: "vá"},
		{in: "¿Estás?", limit: 1, want: ""},
		{in: "línea\nnueva", limit: 64, want: "línea nueva"},
	}
	for _, tc := range tests {
		got := sanitize(tc.in, tc.limit)
		require.Equal(t, tc.want, got)
		require.True(t, utf8.ValidString(got))
	}
}
