package execution

import (
	"context"
	"encoding/json"
)

// Progress channel event names
const (
	EventProgress   = "progress"
	EventLog        = "log"
	EventDisconnect = "disconnect"
)

// Response is the terminal payload of a run request
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details"`
	UUID    string `json:"uuid,omitempty"`
}

// UnmarshalJSON decodes a runner reply. Only an explicit "success": false
// marks the run as failed; a reply without the field is a success.
func (r *Response) UnmarshalJSON(data []byte) error {
	type plain Response
	decoded := plain{Success: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = Response(decoded)
	return nil
}

// Event is one message received on the progress channel
type Event struct {
	Name    string
	Message string
}

// Runner talks to the external test runner.
//
// Start sends the request and blocks until the runner answers with the
// terminal response. acknowledged is called once the request has been fully
// handed to the runner.
type Runner interface {
	Start(ctx context.Context, req Request, acknowledged func()) (Response, error)
	Stop(ctx context.Context) error
}

// ProgressSource opens the progress channel. Events are delivered in the
// order they were produced. The channel is closed once ctx is done or the
// connection is lost; a lost connection is reported with an EventDisconnect
// before closing.
type ProgressSource interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// Progress receives live run feedback, typically a progress bar
type Progress interface {
	Update(passed, failed int)
	Describe(message string)
	Finish()
}
