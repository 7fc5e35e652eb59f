package execution

import "context"

// Executor starts runs and cancels the active one
type Executor interface {
	Run(ctx context.Context, req Request) (*Run, error)
	Cancel() bool
}

var _ Executor = (*Dispatcher)(nil)
