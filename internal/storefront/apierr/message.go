// Package apierr turns errors into the one-line messages shown to users.
package apierr

import (
	"context"
	"errors"
	"strconv"

	"github.com/WappTienda/frontend/internal/storefront/api"
	"github.com/WappTienda/frontend/internal/storefront/form"
	"github.com/WappTienda/frontend/internal/storefront/i18n"
	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
)

// Kind classifies an error for display.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindInvalidStatus Kind = "invalid_status"
	KindHTTP          Kind = "http"
	KindNetwork       Kind = "network"
	KindUpload        Kind = "upload"
	KindUnknown       Kind = "unknown"
)

var mappedStatuses = map[int]bool{400: true, 401: true, 403: true, 404: true, 409: true, 422: true, 500: true, 503: true}

// Translator maps errors to catalog messages.
type Translator struct {
	messages *i18n.Bundle
}

// New builds a Translator. A nil bundle uses the embedded catalog.
func New(messages *i18n.Bundle) *Translator {
	if messages == nil {
		messages = i18n.MustDefault()
	}
	return &Translator{messages: messages}
}

// Classify reports which branch of the taxonomy err belongs to.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, orderstatus.ErrInvalidStatus):
		return KindInvalidStatus
	case form.IsValidation(err):
		return KindValidation
	case errors.Is(err, api.ErrNotImage), errors.Is(err, api.ErrImageTooLarge):
		return KindUpload
	case api.StatusOf(err) != 0:
		return KindHTTP
	case api.IsNetwork(err), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// Message returns the localized message for err, or "" for a nil error.
func (t *Translator) Message(err error) string {
	switch Classify(err) {
	case "":
		return ""
	case KindInvalidStatus:
		return t.messages.T("errors.invalid_status")
	case KindValidation:
		return t.messages.T("errors.validation")
	case KindHTTP:
		status := api.StatusOf(err)
		if mappedStatuses[status] {
			return t.messages.T("errors.http." + strconv.Itoa(status))
		}
		return t.messages.T("errors.default")
	case KindNetwork:
		return t.messages.T("errors.network")
	case KindUpload:
		if errors.Is(err, api.ErrImageTooLarge) {
			return t.messages.T("errors.upload.too_large")
		}
		return t.messages.T("errors.upload.not_image")
	default:
		return t.messages.T("errors.default")
	}
}

// T exposes the underlying catalog.
func (t *Translator) T(key string) string {
	return t.messages.T(key)
}
