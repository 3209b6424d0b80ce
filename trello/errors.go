package trello

import (
	"fmt"
)

// TransportError is a failed request: network error, cancelled context or a non-2xx response.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("trello %v: HTTP %d (%v)", e.Endpoint, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("trello %v: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is a response body that is not JSON or is not shaped as expected.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trello %v: invalid response (%v)", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
