package apierr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WappTienda/frontend/internal/storefront/api"
	"github.com/WappTienda/frontend/internal/storefront/form"
	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	_, statusErr := orderstatus.Parse("shipped")
	tr := New(nil)

	tests := []struct {
		name string
		err  error
		kind Kind
		want string
	}{
		{name: "nil", err: nil, kind: "", want: ""},
		{name: "401", err: &api.HTTPError{Status: 401}, kind: KindHTTP, want: "Sesión expirada. Por favor inicia sesión nuevamente."},
		{name: "404 wrapped", err: fmt.Errorf("load: %w", &api.HTTPError{Status: 404}), kind: KindHTTP, want: "El recurso solicitado no fue encontrado."},
		{name: "409", err: &api.HTTPError{Status: 409}, kind: KindHTTP, want: "Ya existe un recurso con los mismos datos."},
		{name: "503", err: &api.HTTPError{Status: 503}, kind: KindHTTP, want: "El servicio no está disponible temporalmente. Por favor intenta más tarde."},
		{name: "unmapped", err: &api.HTTPError{Status: 418}, kind: KindHTTP, want: "Ocurrió un error inesperado. Por favor intenta más tarde."},
		{name: "network", err: &api.NetworkError{Op: "x", Err: errors.New("refused")}, kind: KindNetwork, want: "No se pudo conectar al servidor. Verifica tu conexión a internet."},
		{name: "deadline", err: context.DeadlineExceeded, kind: KindNetwork, want: "No se pudo conectar al servidor. Verifica tu conexión a internet."},
		{name: "invalid status", err: statusErr, kind: KindInvalidStatus, want: "El estado seleccionado no es válido."},
		{name: "validation", err: form.NewValidationError("customerName", "x"), kind: KindValidation, want: "Revisa los datos ingresados."},
		{name: "not image", err: fmt.Errorf("%w: text/plain", api.ErrNotImage), kind: KindUpload, want: "El archivo debe ser una imagen."},
		{name: "too large", err: api.ErrImageTooLarge, kind: KindUpload, want: "La imagen supera el tamaño máximo de 5 MB."},
		{name: "unknown", err: errors.New("boom"), kind: KindUnknown, want: "Ocurrió un error inesperado. Por favor intenta más tarde."},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.kind, Classify(tc.err))
			require.Equal(t, tc.want, tr.Message(tc.err))
		})
	}
}
