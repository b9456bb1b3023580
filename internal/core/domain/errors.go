package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrInteractionNotFound = errors.New("interaction not found")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrInvalidRegistration = errors.New("username, email and password are required")

	// ErrFetchFailed marks any failed call to the CRM API.
	ErrFetchFailed = errors.New("crm api fetch failed")

	ErrAnalyticsUnavailable = errors.New("could not load analytics")
	// ErrStalePass is returned for a pass superseded by a newer generation.
	ErrStalePass = errors.New("aggregation pass superseded")
)

// APIError is a non-success answer from the CRM API. Message is the API's
// own message, shown to the user verbatim.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrFetchFailed) match every API failure.
func (e *APIError) Unwrap() error { return ErrFetchFailed }
