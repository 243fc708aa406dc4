package api

import "fmt"

// ConnectError means the initial handshake with the control API failed.
// Startup treats this as fatal: the process aborts instead of launching
// the UI against a dead endpoint.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("control API unreachable at %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// APIError is a single failed request or command. Non-fatal: it is
// reported to the user and the dispatcher keeps running.
type APIError struct {
	Op     string // operation label, e.g. "PUT /proxies/auto"
	Status int    // HTTP status, 0 when the transport itself failed
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// StreamError is delivered as the final item of a streaming sequence when
// its transport dies. The affected feature stays inert until an explicit
// resubscribe.
type StreamError struct {
	Stream string // connections, logs, traffic, memory
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s stream terminated: %v", e.Stream, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
