// Package errs holds the error taxonomy shared by the store, services and HTTP layers.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)

// NotFoundError names the resource that could not be located. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Message string
	Fields  []FieldError
}

func Validation(msg string, fields ...FieldError) error {
	return &ValidationError{Message: msg, Fields: fields}
}

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
