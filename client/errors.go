package client

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response carrying the server-supplied detail string.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// TransportError is a connection-level failure (refused, DNS, timeout). Its
// message names the endpoint the client expected so the user knows what to
// start.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot connect to the server at %s (is the backend running?)", e.Endpoint)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 401
}
