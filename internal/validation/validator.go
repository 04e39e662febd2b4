// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package validation provides struct validation using
// go-playground/validator v10 behind a thread-safe singleton. Handlers
// bind query parameters into small request structs and validate them
// here before touching upstream clients or the snapshot.
//
// Example usage:
//
//	type BrasilQuery struct {
//	    Pais  string `validate:"required,numeric"`
//	    Horas int    `validate:"min=1,max=168"`
//	}
//
//	if err := validation.ValidateStruct(&q); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is a single field validation failure.
type ValidationError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// RequestValidationError collects the validation errors for one request.
type RequestValidationError struct {
	Errors []ValidationError
}

// Error implements the error interface, joining all field messages.
func (ve *RequestValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

// APIError mirrors the API error response shape without importing the
// api package, avoiding an import cycle.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts validation errors to the VALIDATION_ERROR format
// the API returns. A single failed field keeps its message and detail
// verbatim; multiple failures are joined with per-field detail.
func (ve *RequestValidationError) ToAPIError() *APIError {
	out := &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}

	switch len(ve.Errors) {
	case 0:
		return out

	case 1:
		err := ve.Errors[0]
		out.Message = err.Message
		out.Details = map[string]interface{}{
			"field": err.Field,
			"tag":   err.Tag,
			"value": err.Value,
		}
		return out

	default:
		fields := make([]map[string]interface{}, len(ve.Errors))
		messages := make([]string, len(ve.Errors))
		for i, err := range ve.Errors {
			fields[i] = map[string]interface{}{
				"field":   err.Field,
				"tag":     err.Tag,
				"message": err.Message,
			}
			messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
		}
		out.Message = strings.Join(messages, "; ")
		out.Details = map[string]interface{}{"fields": fields}
		return out
	}
}

// GetValidator returns the singleton validator instance. Thread-safe;
// the validator caches struct metadata across calls.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil when validation passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// InvalidValidationError: the caller passed a non-struct
		return &RequestValidationError{Errors: []ValidationError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			Field:   fieldErr.Field(),
			Tag:     fieldErr.Tag(),
			Param:   fieldErr.Param(),
			Value:   fieldErr.Value(),
			Message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{Errors: fieldErrors}
}

// translateError renders a human-readable message for a failed tag. The
// table covers the tags Focomapa's request structs use; anything else
// falls through to a generic message.
func translateError(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()

	switch tag := fe.Tag(); tag {
	case "required":
		return field + " is required"
	case "numeric":
		return field + " must be numeric"
	case "latitude":
		return field + " must be a valid latitude (-90 to 90)"
	case "longitude":
		return field + " must be a valid longitude (-180 to 180)"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "min", "max":
		return translateMinMax(fe, field, tag, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// translateMinMax handles min/max with type-specific wording: character
// counts for strings, plain bounds for numbers.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	bound, unit := "at least", ""
	if tag == "max" {
		bound = "at most"
	}
	if fe.Kind().String() == "string" {
		unit = " characters"
	}
	return fmt.Sprintf("%s must be %s %s%s", field, bound, param, unit)
}
