package snooper

import "fmt"

// InvalidStateError rejects an operation invoked outside its permitted
// source states. Configuration fields are untouched on a rejected call.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("Invalid call on %s when in an illegal state.", e.Op)
}

// JoinFailureError reports a worker goroutine that did not exit within the
// shutdown deadline. The state machine still transitions; the controller
// never gets stuck on dead workers.
type JoinFailureError struct {
	Worker string
}

func (e *JoinFailureError) Error() string {
	return fmt.Sprintf("join failure: %s worker did not exit in time", e.Worker)
}
