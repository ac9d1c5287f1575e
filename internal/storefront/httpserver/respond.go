package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/WappTienda/frontend/internal/storefront/api"
	"github.com/WappTienda/frontend/internal/storefront/apierr"
	"github.com/WappTienda/frontend/internal/storefront/confirm"
	"github.com/WappTienda/frontend/internal/storefront/form"
)

const maxJSONBody = 1 << 20

// errorBody is the JSON error envelope of the storefront surface.
type errorBody struct {
	Code      string
	Message   string
	Status    int
	RequestID string
	Fields    map[string]string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeErrorBody(ctx context.Context, w http.ResponseWriter, e errorBody) {
	if e.Status == 0 {
		e.Status = http.StatusInternalServerError
	}
	payload := map[string]any{
		"error":   e.Code,
		"message": sanitize(e.Message, 512),
		"status":  e.Status,
	}
	if id := middleware.GetReqID(ctx); id != "" {
		payload["request_id"] = sanitize(id, 80)
	}
	if len(e.Fields) > 0 {
		payload["fields"] = e.Fields
	}
	writeJSON(w, e.Status, payload)
}

// errorFor maps the storefront error taxonomy onto the envelope.
func errorFor(messages *apierr.Translator, err error) errorBody {
	out := errorBody{Message: messages.Message(err)}
	switch apierr.Classify(err) {
	case apierr.KindValidation:
		out.Code, out.Status = "validation_failed", http.StatusUnprocessableEntity
		var vErr *form.ValidationError
		if errors.As(err, &vErr) {
			out.Fields = vErr.Fields
		}
	case apierr.KindInvalidStatus:
		out.Code, out.Status = "invalid_status", http.StatusUnprocessableEntity
	case apierr.KindHTTP:
		out.Code, out.Status = "upstream_error", api.StatusOf(err)
	case apierr.KindNetwork:
		out.Code, out.Status = "upstream_unavailable", http.StatusBadGateway
	case apierr.KindUpload:
		out.Code, out.Status = "invalid_upload", http.StatusUnsupportedMediaType
		if errors.Is(err, api.ErrImageTooLarge) {
			out.Status = http.StatusRequestEntityTooLarge
		}
	default:
		out.Code, out.Status = "internal", http.StatusInternalServerError
	}
	switch {
	case errors.Is(err, confirm.ErrNothingPending):
		out.Code, out.Status = "nothing_pending", http.StatusConflict
	case errors.Is(err, confirm.ErrReplaced):
		out.Code, out.Status = "confirm_replaced", http.StatusConflict
		out.Message = messages.T("errors.confirm.replaced")
	case errors.Is(err, api.ErrInvalidID):
		out.Code, out.Status = "not_found", http.StatusNotFound
		out.Message = messages.T("errors.http.404")
	case errors.Is(err, confirm.ErrBusy):
		out.Code, out.Status = "confirm_busy", http.StatusConflict
		out.Message = messages.T("errors.confirm.busy")
	}
	return out
}

func sanitize(value string, limit int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		// Cut on a rune boundary.
		for limit > 0 && !utf8.RuneStart(value[limit]) {
			limit--
		}
		value = value[:limit]
	}
	return value
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return form.NewValidationError("body", "invalid JSON body")
	}
	return nil
}
