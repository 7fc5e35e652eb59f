package execution

import (
	"errors"
	"fmt"
)

var (
	// ErrRunInProgress is returned when a run is started while another one is active
	ErrRunInProgress = errors.New("a run is already in progress")
	// ErrEmptySelection is returned for a request that selects no test
	ErrEmptySelection = errors.New("no tests selected")
	// ErrHeadlessRequired is returned for cloud runs outside headless mode
	ErrHeadlessRequired = errors.New("cloud runs are only supported in headless mode")
)

// Cause tells why a run failed
type Cause int

const (
	CauseNone Cause = iota
	// CauseDispatchFailure means the runner rejected the request, answered
	// with a failure payload or never acknowledged it
	CauseDispatchFailure
	// CausePrematureDisconnect means the progress channel was lost mid-run
	CausePrematureDisconnect
)

func (c Cause) String() string {
	switch c {
	case CauseDispatchFailure:
		return "dispatch failure"
	case CausePrematureDisconnect:
		return "premature disconnect"
	default:
		return "none"
	}
}

// RunError describes a failed run. Details holds the runner's diagnostic
// output with escape sequences removed.
type RunError struct {
	Cause   Cause
	Message string
	Details string
	Err     error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cause, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
