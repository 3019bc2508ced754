package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the resolution and calculation pipeline. Error values
// built with the constructors below match these through errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNoDefinitionFound = errors.New("no tariff definition found")
	ErrNoRateData        = errors.New("no rate data available")
	ErrNotFound          = errors.New("not found")
)

// ErrorKind classifies a domain error.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNoDefinition ErrorKind = "no-definition"
	KindNoRateData   ErrorKind = "no-rate-data"
	KindNotFound     ErrorKind = "not-found"
)

// Error carries the kind plus the key the failure relates to: a field
// name for validation errors, a lookup triple for resolution errors.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Key     string    `json:"key,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Key, e.Message)
}

// Is maps each kind to its sentinel so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindValidation:
		return target == ErrValidation
	case KindNoDefinition:
		return target == ErrNoDefinitionFound
	case KindNoRateData:
		return target == ErrNoRateData
	case KindNotFound:
		return target == ErrNotFound
	}
	return false
}

// NewValidationError builds a validation error for one request field.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Key: field, Message: message}
}

// NewNoDefinitionError reports that no definition matched the lookup triple.
func NewNoDefinitionError(product, exportingFrom, importingTo string) *Error {
	return &Error{
		Kind:    KindNoDefinition,
		Key:     DefinitionKey(product, exportingFrom, importingTo),
		Message: fmt.Sprintf("no tariff definition for %s from %s to %s", product, exportingFrom, importingTo),
	}
}

// NewNoRateDataError reports that the catalog has no rates for the pair.
func NewNoRateDataError(exportingFrom, importingTo string) *Error {
	return &Error{
		Kind:    KindNoRateData,
		Key:     exportingFrom + "|" + importingTo,
		Message: fmt.Sprintf("no rate data for %s to %s", exportingFrom, importingTo),
	}
}

// NewNotFoundError reports a missing stored entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Key:     id,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}
