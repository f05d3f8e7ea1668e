// Package runner dispatches scheduler.Compute calls onto background
// goroutines, one per run id, and rejects reentrant runs for an id
// that is still in flight.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/khryptorgraphics/cpuschedsim/pkg/scheduler"
	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

// Result is the value handed back across the worker/caller boundary
// exactly once. It is immutable once received.
type Result struct {
	Trace types.Trace
	Info  types.Info
	Err   error
}

// request is a single run event submitted to the pool.
type request struct {
	id         string
	input      types.TaskInfo
	responseCh chan Result
}

// Pool runs compute() calls each on its own goroutine while tracking
// in-flight run ids, so that a second submission for the same id is
// rejected rather than silently racing the first.
type Pool struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New returns an idle Pool.
func New() *Pool {
	return &Pool{inFlight: make(map[string]struct{})}
}

// Submit starts a worker goroutine for the given run id and input, and
// returns a channel that receives exactly one Result. It returns an
// error immediately, without starting a worker, if id is already
// running.
func (p *Pool) Submit(ctx context.Context, id string, input types.TaskInfo) (<-chan Result, error) {
	p.mu.Lock()
	if _, busy := p.inFlight[id]; busy {
		p.mu.Unlock()
		return nil, fmt.Errorf("run %q is already in progress", id)
	}
	p.inFlight[id] = struct{}{}
	p.mu.Unlock()

	req := &request{id: id, input: input, responseCh: make(chan Result, 1)}
	go p.work(ctx, req)
	return req.responseCh, nil
}

func (p *Pool) work(ctx context.Context, req *request) {
	defer func() {
		p.mu.Lock()
		delete(p.inFlight, req.id)
		p.mu.Unlock()
	}()

	trace, info, err := scheduler.Compute(req.input)
	select {
	case req.responseCh <- Result{Trace: trace, Info: info, Err: err}:
	case <-ctx.Done():
	}
}

// Await blocks until resultCh delivers a Result or ctx is cancelled,
// whichever comes first. The host discards the worker on cancellation;
// compute() itself has no cancellation support (it is bounded by
// end_time or K and always finishes on its own).
func Await(ctx context.Context, resultCh <-chan Result) (Result, error) {
	select {
	case res := <-resultCh:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// WithTimeout is a convenience wrapper for callers that want a bounded
// wait instead of threading a context through.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}
