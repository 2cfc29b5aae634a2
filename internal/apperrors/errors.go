// Package apperrors holds the error taxonomy shared by the store, upload and form layers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrConfirmationRequired is returned by deletes that were not explicitly confirmed.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// ValidationError reports a required draft field left empty (or failing another tag).
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	if e.Tag == "" || e.Tag == "required" {
		return fmt.Sprintf("field '%s' is required", e.Field)
	}
	return fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field, e.Tag)
}

// StoreError wraps any failure reported by the record store. Its message is the
// store's message verbatim so it can be shown to the user as is.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// UploadError wraps an object storage failure for a single file.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}
func (e *UploadError) Unwrap() error { return e.Err }

// NotFoundError is returned when a single-record read matches no rows.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a *NotFoundError.
func NotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// Store wraps err as a *StoreError unless it already is one or is a not-found error.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsNotFound reports whether err is (or wraps) a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
