// Package orderstatus describes the manual order workflow shared by the public
// order page and the admin screens. Any status may be set to any other one; the
// package only fixes the closed set of values and how each is presented.
package orderstatus

import (
	"errors"
	"fmt"
)

// Status is the lifecycle stage of an order.
type Status string

const (
	// Pending is a freshly submitted order nobody has handled yet.
	Pending Status = "pending"
	// Contacted means staff reached out to the customer over WhatsApp.
	Contacted Status = "contacted"
	// Confirmed means the customer confirmed the order.
	Confirmed Status = "confirmed"
	// Delivered means the order reached the customer.
	Delivered Status = "delivered"
	// Cancelled means the order will not be fulfilled.
	Cancelled Status = "cancelled"
)

// ErrInvalidStatus is returned when a value outside the closed status set is supplied.
var ErrInvalidStatus = errors.New("orderstatus: invalid status")

// Option is a selectable entry for status pickers and filters.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AllLabel is the label of the "no filter" entry returned by FilterOptions.
const AllLabel = "Todos los estados"

type presentation struct {
	label  string
	plural string
}

var ordered = []Status{Pending, Contacted, Confirmed, Delivered, Cancelled}

var presentations = map[Status]presentation{
	Pending:   {label: "Nuevo", plural: "Nuevos"},
	Contacted: {label: "Contactado", plural: "Contactados"},
	Confirmed: {label: "Confirmado", plural: "Confirmados"},
	Delivered: {label: "Entregado", plural: "Entregados"},
	Cancelled: {label: "Cancelado", plural: "Cancelados"},
}

// All returns every status in workflow order.
func All() []Status {
	out := make([]Status, len(ordered))
	copy(out, ordered)
	return out
}

// IsValid reports whether value is exactly one of the five statuses.
// Matching is case sensitive.
func IsValid(value string) bool {
	_, ok := presentations[Status(value)]
	return ok
}

// Parse converts free-form input (e.g. a form field) into a Status.
func Parse(value string) (Status, error) {
	if !IsValid(value) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return Status(value), nil
}

// Valid reports whether s belongs to the closed set.
func (s Status) Valid() bool {
	return IsValid(string(s))
}

// Label returns the singular display label, or the raw value for unknown statuses.
func (s Status) Label() string {
	if p, ok := presentations[s]; ok {
		return p.label
	}
	return string(s)
}

// PluralLabel returns the label used next to aggregate counts.
func (s Status) PluralLabel() string {
	if p, ok := presentations[s]; ok {
		return p.plural
	}
	return string(s)
}

// BadgeVariant returns the visual variant key. Variants map 1:1 onto statuses.
func (s Status) BadgeVariant() string {
	if s.Valid() {
		return string(s)
	}
	return ""
}

// Label is the function form of Status.Label.
func Label(s Status) string { return s.Label() }

// PluralLabel is the function form of Status.PluralLabel.
func PluralLabel(s Status) string { return s.PluralLabel() }

// BadgeVariant is the function form of Status.BadgeVariant.
func BadgeVariant(s Status) string { return s.BadgeVariant() }

// Options lists the statuses for a selection control.
func Options() []Option {
	out := make([]Option, 0, len(ordered))
	for _, s := range ordered {
		out = append(out, Option{Value: string(s), Label: s.Label()})
	}
	return out
}

// FilterOptions is Options prefixed with the empty-value "all" sentinel.
func FilterOptions() []Option {
	return append([]Option{{Value: "", Label: AllLabel}}, Options()...)
}
