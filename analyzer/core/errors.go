package core

import (
	"errors"
	"fmt"
)

var (
	ErrBadArguments         = errors.New("arguments are not acceptable")
	ErrAlreadyExists        = errors.New("resource or task already exists")
	ErrNotFound             = errors.New("resource is not found")
	ErrServiceUnavailable   = errors.New("service is currently unavailable")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInsufficientData     = errors.New("insufficient data")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrProjection           = errors.New("projection failed")
)

// InsufficientDataError reports a corpus with too few non-empty documents.
type InsufficientDataError struct {
	Observed int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d non-empty documents, at least %d required", e.Observed, e.Required)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// InvalidConfigurationError names the offending parameter. For a rejected
// review batch Param is "reviews", Index points at the record and Reason
// says what is wrong with it.
type InvalidConfigurationError struct {
	Param  string
	Value  any
	Index  int
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Reason != "" {
		if e.Param == "reviews" {
			return fmt.Sprintf("invalid configuration: reviews[%d]: %s", e.Index, e.Reason)
		}
		return fmt.Sprintf("invalid configuration: %s: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s = %v", e.Param, e.Value)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

type ProjectionError struct {
	Op     string
	Reason string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection error: %s: %s", e.Op, e.Reason)
}

func (e *ProjectionError) Unwrap() error {
	return ErrProjection
}
