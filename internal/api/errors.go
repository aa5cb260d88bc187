package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteCallError is returned when the remote service answered with anything
// other than HTTP 200. Body holds the response exactly as received.
type RemoteCallError struct {
	Op         string
	StatusCode int
	Body       string
	// Err is set when a 200 response could not be decoded.
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %d - %s", e.Op, e.StatusCode, e.Body)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// TransportError is returned when no HTTP response was received at all,
// e.g. DNS failures, refused connections or timeouts.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err holds no
// remote response.
func StatusCode(err error) int {
	var remote *RemoteCallError
	if errors.As(err, &remote) {
		return remote.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the remote service.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func classify(op string, ex exchange, err error) error {
	if !ex.received {
		if err == nil {
			err = errors.New("no response received")
		}
		return &TransportError{Op: op, Err: err}
	}

	if ex.status != http.StatusOK {
		return &RemoteCallError{Op: op, StatusCode: ex.status, Body: string(ex.body)}
	}

	if err != nil {
		return &RemoteCallError{Op: op, StatusCode: ex.status, Body: string(ex.body), Err: err}
	}

	return nil
}
