package helpers

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Sentinel errors
// -----------------------------------------------------------------------------

var (
	// ErrSourceUnavailable means the reference page could not be fetched.
	ErrSourceUnavailable = errors.New("reference source unavailable")
	// ErrNoTable means the reference page has no parseable first table.
	ErrNoTable = errors.New("no parseable table in reference page")
	// ErrMissingColumn means a required column is absent from the first table.
	ErrMissingColumn = errors.New("required column missing from reference table")
	// ErrNoData means the provider returned no usable records for a symbol.
	ErrNoData = errors.New("no data for symbol")
	// ErrUnknownSymbol means a symbol is not in the reference table.
	ErrUnknownSymbol = errors.New("symbol not in reference table")
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type DashboardError struct {
	Message string
	Cause   error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks
type ConfigurationError struct{ DashboardError }
type NetworkError struct{ DashboardError }
type DataSourceError struct{ DashboardError }
type ValidationError struct{ DashboardError }

// -----------------------------------------------------------------------------

// NewNetworkError wraps a transport failure for url.
func NewNetworkError(url string, cause error) error {
	return &NetworkError{DashboardError{Message: fmt.Sprintf("request to %s failed", url), Cause: cause}}
}

// NewDataSourceError wraps a provider failure for symbol.
func NewDataSourceError(symbol string, cause error) error {
	return &DataSourceError{DashboardError{Message: fmt.Sprintf("data source error for %s", symbol), Cause: cause}}
}

// NewValidationError reports a rejected input value.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{DashboardError{Message: fmt.Sprintf(format, args...)}}
}

// -----------------------------------------------------------------------------

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
