// Package form validates user input before anything reaches the network.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/WappTienda/frontend/internal/storefront/i18n"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// ValidationError lists per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: [%s]", strings.Join(keys, ", "))
}

// Field returns the message for one field.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Validator wraps go-playground/validator with the storefront's custom rules
// and localized field messages.
type Validator struct {
	validate *validator.Validate
	messages *i18n.Bundle
}

// NewValidator constructs a Validator. A nil bundle uses the embedded catalog.
func NewValidator(messages *i18n.Bundle) *Validator {
	if messages == nil {
		messages = i18n.MustDefault()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v, messages: messages}
}

// Struct validates s and converts failures into a *ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, exists := out.Fields[field]; exists {
			continue
		}
		key := "validation." + field
		if !v.messages.Has(key) {
			key = "validation.default"
		}
		out.Fields[field] = v.messages.T(key)
	}
	return out
}

// Message looks up a localized validation message by field name.
func (v *Validator) Message(field string) string {
	key := "validation." + field
	if !v.messages.Has(key) {
		key = "validation.default"
	}
	return v.messages.T(key)
}
