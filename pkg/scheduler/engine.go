package scheduler

import "github.com/khryptorgraphics/cpuschedsim/pkg/types"

// Engine runs the shared preemptive event loop of spec.md §4.E against
// a TaskSet and a Policy. It is constructed fresh for each Compute call
// and owns no state beyond the run it performs (spec.md §3 Lifecycle).
type Engine struct {
	ts     *TaskSet
	policy Policy
}

// NewEngine binds a TaskSet to a Policy for a single run.
func NewEngine(ts *TaskSet, policy Policy) *Engine {
	return &Engine{ts: ts, policy: policy}
}

// terminator reports whether the loop should stop given the current
// simulation time and per-task invocation counters. RM/EDF terminate
// at the horizon; CC-EDF terminates once every task has completed K
// invocations.
type terminator func(currentTime float64, invCounter []int) bool

func rmEDFTerminator(endTime float64) terminator {
	return func(currentTime float64, _ []int) bool {
		return currentTime >= endTime
	}
}

func ccEDFTerminator(k int) terminator {
	return func(_ float64, invCounter []int) bool {
		for _, c := range invCounter {
			if c < k {
				return false
			}
		}
		return true
	}
}

// Run executes the event loop to completion (horizon reached, or all
// CC-EDF invocations consumed) or to the first detected deadline miss,
// whichever comes first.
func (e *Engine) Run() (types.Trace, types.Info) {
	ts := e.ts
	n := ts.N

	var term terminator
	if ts.Invocations != nil {
		term = ccEDFTerminator(ts.K())
	} else {
		term = rmEDFTerminator(ts.EndTime)
	}

	info := e.policy.CheckSchedulability(ts)
	trace := NewTraceBuilder()
	queue := e.policy.InitialReadyQueue(ts)

	periodCounter := make([]int, n)
	invCounter := make([]int, n)
	for i := range periodCounter {
		periodCounter[i] = 1
	}

	currentTime := 0.0

	for !term(currentTime, invCounter) {
		nextDeadlines := make([]float64, n)
		for i := 0; i < n; i++ {
			nextDeadlines[i] = ts.Periods[i] * float64(periodCounter[i])
		}

		entry, ok := queue.PopHighest()
		if !ok {
			// Idle case: advance the clock to the nearest pending release.
			j := argmin(nextDeadlines)
			if ts.Invocations != nil && invCounter[j] >= ts.K() {
				// No further invocations of j will ever run; nothing to
				// wait for on this task, but the idle clock must still
				// advance so the loop can reach its termination
				// condition (spec.md §9, open question on idle progress).
				periodCounter[j]++
				continue
			}
			currentTime = nextDeadlines[j]
			queue.Insert(e.policy.InsertOnRelease(ts, j, periodCounter, NearestIdle))
			periodCounter[j]++
			continue
		}

		execTime, freq := e.policy.ComputeFrequency(entry.RemainingExec, entry.TaskID)
		tEnd := currentTime + execTime

		preempted := false
		for i := 0; i < n; i++ {
			if tEnd >= nextDeadlines[i] {
				preempted = true
				break
			}
		}

		if !preempted {
			trace.Append(types.Segment{
				TaskID:    entry.TaskID,
				Start:     currentTime,
				End:       tEnd,
				Frequency: freq,
			})
			currentTime = tEnd
			invCounter[entry.TaskID]++
			continue
		}

		j := argmin(nextDeadlines)
		tRel := nextDeadlines[j]
		remainingAfter := (tEnd - tRel) * freq

		if ts.Invocations == nil || invCounter[j] < ts.K() {
			queue.Insert(e.policy.InsertOnRelease(ts, j, periodCounter, Interrupting))
		}
		periodCounter[j]++

		if remainingAfter > 0 {
			queue.Insert(ReadyEntry{
				TaskID:        entry.TaskID,
				PriorityKey:   entry.PriorityKey,
				RemainingExec: remainingAfter,
				OriginalExec:  entry.OriginalExec,
			})
		} else {
			invCounter[entry.TaskID]++
		}

		if currentTime != tRel {
			trace.Append(types.Segment{
				TaskID:    entry.TaskID,
				Start:     currentTime,
				End:       tRel,
				Frequency: freq,
			})
		}
		currentTime = tRel

		if dup, found := queue.ContainsDuplicateTaskID(); found {
			info.MissedTaskNum = dup + 1
			info.MissOccurance = tRel
			return trace.Trace(), info
		}
	}

	return trace.Trace(), info
}

// argmin returns the index of the smallest value in xs.
func argmin(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[best] {
			best = i
		}
	}
	return best
}
