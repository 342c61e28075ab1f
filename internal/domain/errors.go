package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks input rejected before it reaches the order or catalog core.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned by repositories when a document or record is missing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when the configured transition table forbids a status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrEmptyCart is returned internally when checkout is attempted with nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrLoginRequired is returned when the store only lets signed-in customers check out.
	ErrLoginRequired = errors.New("login required to check out")
	// ErrIDExhausted is returned when no unused identifier could be generated.
	ErrIDExhausted = errors.New("could not generate a unique id")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field problem found in one pass so forms can show them inline.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field was rejected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
