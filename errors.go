package seinfeld

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotConnected indicates an operation was attempted outside an open
	// connection scope.
	ErrNotConnected = errors.New("not connected")

	// ErrNotFound indicates a lookup found zero rows.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a malformed argument or filter combination.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDataIntegrity indicates a foreign key in the dataset did not resolve.
	ErrDataIntegrity = errors.New("data integrity error")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error for an entity with an integer id.
func NewNotFoundError(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: fmt.Sprintf("%d", id)}
}

// InvalidArgumentError provides context for invalid argument errors.
// These are always caller bugs, never retried.
type InvalidArgumentError struct {
	Argument string
	Message  string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	if e.Argument != "" {
		return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Message)
	}

	return "invalid argument: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// NewInvalidArgumentError creates an invalid argument error with context.
func NewInvalidArgumentError(argument, message string) error {
	return &InvalidArgumentError{Argument: argument, Message: message}
}

// DataIntegrityError reports a dangling reference in the dataset: an entity
// row names a related id that does not resolve to any row. It surfaces a
// corrupt or mismatched dataset and is not recoverable by this library.
type DataIntegrityError struct {
	Entity string
	ID     string
	Detail string
}

// Error implements the error interface.
func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %s: %s", e.Entity, e.ID, e.Detail)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}

// NewDataIntegrityError creates a data integrity error for an entity id.
func NewDataIntegrityError(entity string, id int, detail string) error {
	return &DataIntegrityError{Entity: entity, ID: fmt.Sprintf("%d", id), Detail: detail}
}

// IsNotConnected checks if an error is a not connected error.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgument checks if an error is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsDataIntegrity checks if an error is a data integrity error.
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrDataIntegrity)
}
