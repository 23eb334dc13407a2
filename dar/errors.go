package dar

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound indicates the UUID exists in none of the queried collections
	ErrNotFound = errors.New("address not found in DAR")
	// ErrNoAddressTypes indicates a lookup was attempted with an empty type list
	ErrNoAddressTypes = errors.New("no address types given")
)

// APIError represents an error response from the DAR API
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("DAR API error: %s returned status %d", e.Endpoint, e.StatusCode)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsServerError checks if the error indicates a server-side failure
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}
