// Package session turns a single user prompt into a supervised, resumable,
// tool-augmented agent run: it issues the query to the agent runtime, relays
// the event stream, tracks conversation continuity, and persists the
// transcript and derived history.
package session

import (
	"context"

	"gimbal/runtime"
)

// RunResult is the outcome of one runtime invocation.
type RunResult struct {
	// Events is the full ordered event list, for the transcript.
	Events []runtime.Event
	// ResumeToken is the last session token the runtime reported, empty if
	// it reported none this turn.
	ResumeToken string
}

// Runner issues one query per call against the agent runtime.
type Runner struct {
	rt runtime.Runtime
}

// NewRunner creates a runner backed by the given runtime.
func NewRunner(rt runtime.Runtime) *Runner {
	return &Runner{rt: rt}
}

// Run executes the invocation to completion, accumulating every event and
// forwarding each one to out (when non-nil) as it arrives. The last result
// event carrying a session token wins as the new resume candidate.
//
// On a runtime error the events already forwarded to out stay forwarded —
// partial progress remains visible to the consumer even though the query
// failed. The returned RunResult is only meaningful when err is nil.
func (r *Runner) Run(ctx context.Context, inv runtime.Invocation, out chan<- runtime.Event) (*RunResult, error) {
	events := make(chan runtime.Event, 64)
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.rt.Run(ctx, inv, events)
		close(events)
	}()

	res := &RunResult{}
	for ev := range events {
		res.Events = append(res.Events, ev)
		if ev.Result != nil && ev.Result.SessionID != "" {
			res.ResumeToken = ev.Result.SessionID
		}
		if out != nil {
			out <- ev
		}
	}

	if err := <-errCh; err != nil {
		return nil, err
	}
	return res, nil
}
