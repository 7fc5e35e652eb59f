package execution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pwr/internal/domain"
	"pwr/internal/logging"
	"pwr/internal/parser"
)

const (
	// DefaultStopTimeout bounds the background stop request sent on cancel
	DefaultStopTimeout = 10 * time.Second
	// DefaultDrainTimeout is how long progress is still read once the runner
	// answered. The reply and the progress lines travel on separate
	// connections, so trailing lines may still be in flight.
	DefaultDrainTimeout = time.Second
)

// Dispatcher sends run requests to a runner and follows them through the
// progress channel. It holds at most one active run.
type Dispatcher struct {
	runner       Runner
	source       ProgressSource
	progress     Progress
	ackTimeout   time.Duration
	stopTimeout  time.Duration
	drainTimeout time.Duration

	mu       sync.Mutex
	active   *Run
	starting bool
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(runner Runner, source ProgressSource) *Dispatcher {
	return &Dispatcher{
		runner:       runner,
		source:       source,
		stopTimeout:  DefaultStopTimeout,
		drainTimeout: DefaultDrainTimeout,
	}
}

// SetProgress sets the feedback sink for subsequent runs
func (d *Dispatcher) SetProgress(progress Progress) {
	d.progress = progress
}

// SetAckTimeout fails a run that is not acknowledged within timeout. Zero
// waits forever.
func (d *Dispatcher) SetAckTimeout(timeout time.Duration) {
	d.ackTimeout = timeout
}

// SetStopTimeout bounds the stop request issued by Cancel
func (d *Dispatcher) SetStopTimeout(timeout time.Duration) {
	d.stopTimeout = timeout
}

// SetDrainTimeout bounds how long progress is still read after the runner
// answered
func (d *Dispatcher) SetDrainTimeout(timeout time.Duration) {
	d.drainTimeout = timeout
}

// Run subscribes to the progress channel, then sends req. It returns as
// soon as the request is on its way; follow the run through the returned
// handle.
func (d *Dispatcher) Run(ctx context.Context, req Request) (*Run, error) {
	if req.Body == nil {
		return nil, ErrEmptySelection
	}

	// the slot is reserved while the progress channel is dialed
	d.mu.Lock()
	if d.starting || (d.active != nil && !d.active.State().Terminal()) {
		d.mu.Unlock()
		return nil, ErrRunInProgress
	}
	d.starting = true
	d.mu.Unlock()

	progressCtx, closeProgress := context.WithCancel(ctx)
	events, err := d.source.Subscribe(progressCtx)
	if err != nil {
		closeProgress()
		d.mu.Lock()
		d.starting = false
		d.mu.Unlock()
		return nil, fmt.Errorf("subscribe to progress: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		request:       req,
		state:         StateDispatching,
		stream:        parser.NewStream(),
		progress:      d.progress,
		cancel:        cancel,
		closeProgress: closeProgress,
		drainTimeout:  d.drainTimeout,
		terminal:      make(chan struct{}),
		done:          make(chan struct{}),
	}
	run.stop = func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), d.stopTimeout)
		defer stopCancel()
		if err := d.runner.Stop(stopCtx); err != nil {
			logging.Warn("dispatch", "stop request failed: %v", err)
		}
	}
	d.mu.Lock()
	d.active = run
	d.starting = false
	d.mu.Unlock()
	logging.Debug("dispatch", "starting %s run of %d case(s)", req.Target, req.Total)

	go run.follow(events)
	go func() {
		resp, err := d.runner.Start(runCtx, req, run.acknowledge)
		run.complete(resp, err)
	}()
	if d.ackTimeout > 0 {
		timer := time.AfterFunc(d.ackTimeout, func() {
			run.finishFrom(StateDispatching, StateFailed, &RunError{
				Cause:   CauseDispatchFailure,
				Message: "runner did not acknowledge the run request",
			}, "")
		})
		go func() {
			<-run.terminal
			timer.Stop()
		}()
	}
	return run, nil
}

// Cancel cancels the active run. It reports false when there is nothing to
// cancel, including a run that already finished.
func (d *Dispatcher) Cancel() bool {
	d.mu.Lock()
	run := d.active
	d.mu.Unlock()
	if run == nil {
		return false
	}
	return run.Cancel()
}

// Active returns the current or last run
func (d *Dispatcher) Active() *Run {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Run is one dispatched request. Its results are updated from the progress
// channel in delivery order.
type Run struct {
	request       Request
	progress      Progress
	cancel        context.CancelFunc
	closeProgress context.CancelFunc
	drainTimeout  time.Duration
	stop          func()

	mu       sync.Mutex
	state    State
	err      *RunError
	response Response
	stream   *parser.Stream

	terminal chan struct{}
	done     chan struct{}
}

// Request returns the request this run was started with
func (r *Run) Request() Request {
	return r.request
}

// State returns the current state
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Results returns a copy of the classified results
func (r *Run) Results() []domain.TestResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream.Results()
}

// Summary counts the classified results
func (r *Run) Summary() domain.ResultsSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream.Summary()
}

// Latest returns the latest progress message
func (r *Run) Latest() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream.Latest()
}

// Response returns the runner's terminal response, if any
func (r *Run) Response() Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.response
}

// Err returns the failure of a failed run
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		return nil
	}
	return r.err
}

// Done is closed once the run reached a terminal state and the progress
// channel has been drained. A cancelled or disconnected run stops reading at
// once; otherwise lines keep being classified until the channel closes or
// the drain timeout passes.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run is done or ctx ends
func (r *Run) Wait(ctx context.Context) (State, error) {
	select {
	case <-r.done:
		return r.State(), r.Err()
	case <-ctx.Done():
		return r.State(), ctx.Err()
	}
}

// Cancel moves an active run to Cancelled right away and asks the runner to
// stop in the background. The outcome of the stop request does not change
// the state. Cancelling a finished run does nothing and reports false.
func (r *Run) Cancel() bool {
	if !r.finishActive(StateCancelled, nil, "Tests cancelled") {
		return false
	}
	go r.stop()
	return true
}

func (r *Run) acknowledge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateDispatching {
		r.state = StateStreaming
	}
}

// follow consumes the progress channel until it closes
func (r *Run) follow(events <-chan Event) {
	for ev := range events {
		switch ev.Name {
		case EventProgress:
			r.handleProgress(ev.Message)
		case EventLog:
			r.handleLog(ev.Message)
		case EventDisconnect:
			r.finishActive(StateFailed, prematureDisconnect(ev.Message), "")
		}
	}
	r.closeProgress()

	<-r.terminal
	if r.progress != nil {
		r.progress.Finish()
	}
	close(r.done)
}

func (r *Run) handleProgress(message string) {
	r.mu.Lock()
	r.stream.PushMessage(message)
	if r.state == StateDispatching {
		r.state = StateStreaming
	}
	summary := r.stream.Summary()
	latest := r.stream.Latest()
	r.mu.Unlock()

	if r.progress != nil {
		r.progress.Update(summary.Passed, summary.Failed)
		r.progress.Describe(latest)
	}
}

func (r *Run) handleLog(message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	latest := parser.ExtractLogMessage(message)

	r.mu.Lock()
	r.stream.SetLatest(latest)
	r.mu.Unlock()

	if r.progress != nil {
		r.progress.Describe(latest)
	}
}

// complete records the runner's terminal response
func (r *Run) complete(resp Response, err error) {
	r.mu.Lock()
	r.response = resp
	r.mu.Unlock()

	switch {
	case err != nil:
		r.finishActive(StateFailed, &RunError{
			Cause:   CauseDispatchFailure,
			Message: err.Error(),
			Err:     err,
		}, "")
	case !resp.Success:
		message := resp.Message
		if message == "" {
			message = "Error running tests"
		}
		details := strings.TrimSpace(parser.StripANSI(resp.Details))
		if details == "" {
			details = "No additional details provided"
		}
		r.finishActive(StateFailed, &RunError{
			Cause:   CauseDispatchFailure,
			Message: message,
			Details: details,
		}, "")
	default:
		r.finishActive(StateCompleted, nil, resp.Message)
	}
}

func (r *Run) finishActive(to State, runErr *RunError, latest string) bool {
	return r.finishFrom(StateDispatching, to, runErr, latest) ||
		r.finishFrom(StateStreaming, to, runErr, latest)
}

// finishFrom moves the run from one state to a terminal one. Only the first
// terminal transition takes effect. latest replaces the latest message, a
// failure's own message is used when it is empty.
func (r *Run) finishFrom(from, to State, runErr *RunError, latest string) bool {
	r.mu.Lock()
	if r.state != from {
		r.mu.Unlock()
		return false
	}
	r.state = to
	r.err = runErr
	if latest == "" && runErr != nil {
		latest = runErr.Message
	}
	r.stream.SetLatest(latest)
	r.mu.Unlock()

	if runErr != nil {
		logging.Info("dispatch", "run %s: %s", to, runErr.Message)
	} else {
		logging.Debug("dispatch", "run %s", to)
	}
	close(r.terminal)
	r.cancel()
	if to == StateCancelled || (runErr != nil && runErr.Cause == CausePrematureDisconnect) {
		r.closeProgress()
	} else {
		time.AfterFunc(r.drainTimeout, r.closeProgress)
	}
	return true
}

func prematureDisconnect(reason string) *RunError {
	err := &RunError{Cause: CausePrematureDisconnect, Message: "progress channel closed before the run finished"}
	if reason != "" {
		err.Details = reason
	}
	return err
}

// IsCause reports whether err is a RunError with the given cause
func IsCause(err error, cause Cause) bool {
	var runErr *RunError
	return errors.As(err, &runErr) && runErr.Cause == cause
}
