// Package ledgererror defines the typed errors shared by the insights services,
// stores and outer surfaces. Callers branch on them with errors.Is / errors.As.
package ledgererror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError reports a missing entity such as an anomaly, budget or goal.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound builds a NotFoundError.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError represents a rejected input value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s='%s': %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidation builds a ValidationError.
func NewValidation(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// StoreError wraps a persistence failure with the operation that caused it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ClassificationError represents a strategy failure while classifying a merchant.
type ClassificationError struct {
	Merchant string
	Strategy string
	Err      error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed for %s using %s: %v",
		e.Merchant, e.Strategy, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// ImportError represents a row that could not be turned into a transaction.
type ImportError struct {
	File  string
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s row %d: failed to parse %s='%s': %v",
		e.File, e.Row, e.Field, e.Value, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
