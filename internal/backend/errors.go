package backend

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend rejects the bearer token.
// The gateway reacts by clearing the stored session and forcing a fresh
// login, so no handler ever retries with a dead token.
var ErrUnauthorized = errors.New("backend: unauthorized")

// DuplicateCustomerError is the 207 Multi-Status response to customer
// creation: the backend found an existing customer matching the request.
// It is a distinguishable conflict, not a partial success.
type DuplicateCustomerError struct {
	Name    string
	Contact string
}

func (e *DuplicateCustomerError) Error() string {
	if e.Name == "" && e.Contact == "" {
		return "customer already exists"
	}
	return fmt.Sprintf("customer already exists: %s (%s)", e.Name, e.Contact)
}

// APIError carries a non-2xx backend response, preferring the server's own
// message over a generic one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend: request failed with status %d", e.Status)
}
