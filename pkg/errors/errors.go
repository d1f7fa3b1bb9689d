package errors

import (
	"errors"
	"fmt"
)

// Domain error types for the analysis pipeline

var (
	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInsufficientData indicates a price series is shorter than the required minimum.
	// Callers should retry later, the condition is not permanent.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrProviderUnavailable indicates an upstream data provider failed or is circuit-broken
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimitExceeded indicates a provider rate limit was hit
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// InsufficientDataError carries the measured and required bar counts
type InsufficientDataError struct {
	Symbol    string
	Timeframe string
	Got       int
	Required  int
}

// Error implements the error interface
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s %s has %d bars, need %d", e.Symbol, e.Timeframe, e.Got, e.Required)
}

// Unwrap lets errors.Is match ErrInsufficientData
func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// NewInsufficientData creates a new insufficient data error
func NewInsufficientData(symbol, timeframe string, got, required int) *InsufficientDataError {
	return &InsufficientDataError{
		Symbol:    symbol,
		Timeframe: timeframe,
		Got:       got,
		Required:  required,
	}
}

// MultiError wraps multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
}

// Add adds an error to the list
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ToError returns the MultiError as an error, or nil if no errors
func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}
