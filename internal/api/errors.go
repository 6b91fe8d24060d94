package api

import (
	"errors"
	"fmt"
)

// RequestError reports a transport or service failure on a chat or
// model-switch call. It is the only error the client surfaces; payload
// interpretation happens elsewhere.
type RequestError struct {
	Op         string // "chat", "product-details", "switch-model"
	StatusCode int    // 0 when the request never reached the service
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api: %s request failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api: %s request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// PollError reports that the enrichment endpoint was unreachable, returned an
// unexpected status, or did not complete within the attempt budget. The
// conversation controller treats it as a single terminal attempt.
type PollError struct {
	SessionID string
	Status    string // last observed status, "" on transport failure
	Err       error
}

func (e *PollError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("api: detail poll for session %s failed with status %q: %v", e.SessionID, e.Status, e.Err)
	}
	return fmt.Sprintf("api: detail poll for session %s failed: %v", e.SessionID, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// ErrPollTimeout marks a poll loop that exhausted its attempt budget while
// the endpoint still reported "processing". Always wrapped in a PollError.
var ErrPollTimeout = errors.New("detail polling exceeded attempt budget")

// ErrUnexpectedStatus marks an enrichment response whose status was neither
// "processing" nor "completed". Always wrapped in a PollError.
var ErrUnexpectedStatus = errors.New("unexpected status in product details response")
