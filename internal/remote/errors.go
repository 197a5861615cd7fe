package remote

import "fmt"

// SyncError reports a non-2xx or malformed response from a remote
// collaborator. Message carries the server's error text verbatim when the
// envelope includes one.
type SyncError struct {
	Op      string
	Status  int
	Message string
}

func (e *SyncError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.Status)
}

// NetworkError reports a transport-level failure before any HTTP status was
// received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
