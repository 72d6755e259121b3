// Package validation checks client payloads before they reach the scorer.
package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "fraudgen/internal/errors"
	"fraudgen/internal/models"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Validator collects missing and invalid fields in the order they are checked.
type Validator struct {
	Missing []string
	Errors  []FieldError
}

// New creates a new validator
func New() *Validator {
	return &Validator{}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Missing) == 0 && len(v.Errors) == 0
}

// AddError adds an error to the validator
func (v *Validator) AddError(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required records every field absent from data. A key that is present with
// a null value is not missing; Number reports it instead.
func (v *Validator) Required(data models.JSON, fields ...string) {
	for _, f := range fields {
		if _, ok := data[f]; !ok {
			v.Missing = append(v.Missing, f)
		}
	}
}

// Number reads data[field] as a float64. Numeric strings are not accepted.
func (v *Validator) Number(data models.JSON, field string) float64 {
	raw, ok := data[field]
	if !ok {
		return 0
	}
	switch n := raw.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err == nil {
			return f
		}
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	v.AddError(field, "must be a number")
	return 0
}

// String reads data[field] as a trimmed string.
func (v *Validator) String(data models.JSON, field string) string {
	raw, ok := data[field]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		v.AddError(field, "must be a string")
		return ""
	}
	return strings.TrimSpace(s)
}

// Err returns nil when valid. Missing fields take precedence over invalid ones.
func (v *Validator) Err() error {
	if len(v.Missing) > 0 {
		return apperrors.ErrValidation.WithMessage("Missing required fields: " + strings.Join(v.Missing, ", "))
	}
	if len(v.Errors) > 0 {
		msgs := make([]string, len(v.Errors))
		for i, e := range v.Errors {
			msgs[i] = e.Error()
		}
		return apperrors.ErrValidation.WithMessage("Invalid fields: " + strings.Join(msgs, "; "))
	}
	return nil
}
