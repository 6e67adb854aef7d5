package client

import "fmt"

// ValidationError reports a form value rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError reports a request that failed without a backend response.
// Local state is always left unchanged when one is returned.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RejectedError reports a non-success backend response. Message carries the
// backend's own message verbatim when one was provided.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.StatusCode)
}

// Unauthorized reports whether the backend rejected the caller's token or
// credentials. Callers should log out of the session store when it returns
// true for a previously working token.
func (e *RejectedError) Unauthorized() bool {
	return e.StatusCode == 401
}
