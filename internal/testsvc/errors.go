package testsvc

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials indicates the client has no organization URL or
	// personal access token; the operation is not attempted.
	ErrMissingCredentials = errors.New("organization URL and personal access token are required")

	// ErrUnavailable indicates the Test Service is unreachable.
	ErrUnavailable = errors.New("test service unavailable")

	// ErrTimeout indicates a remote call exceeded the configured timeout.
	ErrTimeout = errors.New("test service request timed out")
)

// RemoteError carries a non-2xx response from the Test Service.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("test service returned status %d: %s", e.StatusCode, e.Body)
}
