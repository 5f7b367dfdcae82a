package remote

import "fmt"

// StoreError is a failed round trip to the remote store: a non-success
// response, a transport failure or an undecodable body.
type StoreError struct {
	Operation  string
	Message    string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the store answered 404
func (e *StoreError) NotFound() bool {
	return e.StatusCode == 404
}
