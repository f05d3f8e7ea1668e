package scheduler

import (
	"fmt"
	"math"

	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

// ReleaseFlavor distinguishes the two circumstances under which a task
// instance enters the ready queue: because the CPU went idle waiting
// for it, or because its release interrupted whatever was running.
// CC-EDF consults the invocation matrix at a different row depending on
// which flavor triggered the insert (spec.md §4.D item 3).
type ReleaseFlavor int

const (
	NearestIdle ReleaseFlavor = iota
	Interrupting
)

// Policy is the capability set §4.D asks each algorithm to provide to
// the shared preemptive loop in engine.go. RM and EDF share almost all
// of CC-EDF's shape except frequency scaling, which is why a single
// capability record (rather than subclassing) keeps the loop
// monomorphic: engine.go never type-switches on the algorithm.
type Policy interface {
	// InitialReadyQueue returns the queue populated at t=0.
	InitialReadyQueue(ts *TaskSet) *ReadyQueue

	// ComputeFrequency returns how long the remaining work takes to
	// execute and at what frequency.
	ComputeFrequency(remaining float64, taskID int) (execTime, freq float64)

	// InsertOnRelease returns the entry to add when taskID is released,
	// given the flavor of release and the period counters observed so
	// far (not yet incremented for this release).
	InsertOnRelease(ts *TaskSet, taskID int, periodCounter []int, flavor ReleaseFlavor) ReadyEntry

	// CheckSchedulability populates the feasibility verdict. It never
	// aborts the run.
	CheckSchedulability(ts *TaskSet) types.Info
}

// RMPolicy implements Rate-Monotonic: static priority equal to the
// task's period, unit frequency throughout.
type RMPolicy struct{}

func NewRMPolicy() *RMPolicy { return &RMPolicy{} }

func (RMPolicy) InitialReadyQueue(ts *TaskSet) *ReadyQueue {
	q := NewReadyQueue(ts.N)
	for i := 0; i < ts.N; i++ {
		q.Insert(ReadyEntry{
			TaskID:        i,
			PriorityKey:   ts.Periods[i],
			RemainingExec: ts.WCExecTime[i],
			OriginalExec:  ts.WCExecTime[i],
		})
	}
	return q
}

func (RMPolicy) ComputeFrequency(remaining float64, taskID int) (float64, float64) {
	return remaining, 1
}

func (RMPolicy) InsertOnRelease(ts *TaskSet, taskID int, periodCounter []int, flavor ReleaseFlavor) ReadyEntry {
	return ReadyEntry{
		TaskID:        taskID,
		PriorityKey:   ts.Periods[taskID],
		RemainingExec: ts.WCExecTime[taskID],
		OriginalExec:  ts.WCExecTime[taskID],
	}
}

func (RMPolicy) CheckSchedulability(ts *TaskSet) types.Info {
	return AnalyzeRM(ts)
}

// EDFPolicy implements Earliest-Deadline-First: dynamic priority equal
// to the absolute deadline of the current instance, unit frequency.
type EDFPolicy struct{}

func NewEDFPolicy() *EDFPolicy { return &EDFPolicy{} }

func (EDFPolicy) InitialReadyQueue(ts *TaskSet) *ReadyQueue {
	q := NewReadyQueue(ts.N)
	for i := 0; i < ts.N; i++ {
		q.Insert(ReadyEntry{
			TaskID:        i,
			PriorityKey:   ts.Periods[i] * 1, // period_counter[i] initialized to 1
			RemainingExec: ts.WCExecTime[i],
			OriginalExec:  ts.WCExecTime[i],
		})
	}
	return q
}

func (EDFPolicy) ComputeFrequency(remaining float64, taskID int) (float64, float64) {
	return remaining, 1
}

func (EDFPolicy) InsertOnRelease(ts *TaskSet, taskID int, periodCounter []int, flavor ReleaseFlavor) ReadyEntry {
	deadline := ts.Periods[taskID] * float64(periodCounter[taskID]+1)
	return ReadyEntry{
		TaskID:        taskID,
		PriorityKey:   deadline,
		RemainingExec: ts.WCExecTime[taskID],
		OriginalExec:  ts.WCExecTime[taskID],
	}
}

func (EDFPolicy) CheckSchedulability(ts *TaskSet) types.Info {
	return AnalyzeEDF(ts)
}

// CCEDFPolicy implements Cycle-Conservative EDF: the frequency of each
// dispatch is scaled down using the best-case execution times learned
// from prior invocations, clamped so the system never runs a task
// slower than its worst-case budget would require (spec.md §4.D.CC).
// Unlike RM/EDF, it carries mutable per-run state (bcExecTime) across
// calls, so a fresh instance is built per Compute invocation.
type CCEDFPolicy struct {
	bcExecTime []float64 // bc_exec_time[i], seeded to C_i
	wcExecTime []float64 // C_i, for the worst-case restore at dispatch
	periods    []float64
}

func NewCCEDFPolicy(ts *TaskSet) *CCEDFPolicy {
	bc := make([]float64, ts.N)
	copy(bc, ts.WCExecTime)
	return &CCEDFPolicy{
		bcExecTime: bc,
		wcExecTime: ts.WCExecTime,
		periods:    ts.Periods,
	}
}

func (p *CCEDFPolicy) InitialReadyQueue(ts *TaskSet) *ReadyQueue {
	q := NewReadyQueue(ts.N)
	for i := 0; i < ts.N; i++ {
		remaining := ts.Invocations[0][i]
		q.Insert(ReadyEntry{
			TaskID:        i,
			PriorityKey:   ts.Periods[i] * 1,
			RemainingExec: remaining,
			OriginalExec:  ts.WCExecTime[i],
		})
	}
	return q
}

// ComputeFrequency implements the cycle-conservative update of
// spec.md §4.D.CC: the worst case is assumed at dispatch by
// temporarily restoring bc_exec_time[k] to C_k before computing the
// scaling factor, then the best case learned from this dispatch's
// actual remaining work is committed, clamped to never exceed the
// previously learned best case.
func (p *CCEDFPolicy) ComputeFrequency(remaining float64, taskID int) (float64, float64) {
	prior := p.bcExecTime[taskID]
	p.bcExecTime[taskID] = p.wcExecTimeOf(taskID)

	var sum float64
	for i := range p.bcExecTime {
		sum += p.bcExecTime[i] / p.periods[i]
	}
	freq := math.Min(1, sum)
	execTime := remaining / freq

	if remaining < prior {
		p.bcExecTime[taskID] = remaining
	} else {
		p.bcExecTime[taskID] = prior
	}
	return execTime, freq
}

// wcExecTimeOf reads C_taskID without requiring a TaskSet argument on
// ComputeFrequency (the Policy interface intentionally omits one there,
// matching spec.md §4.D item 2); the value is bound once at construction.
func (p *CCEDFPolicy) wcExecTimeOf(taskID int) float64 { return p.wcExecTime[taskID] }

func (p *CCEDFPolicy) InsertOnRelease(ts *TaskSet, taskID int, periodCounter []int, flavor ReleaseFlavor) ReadyEntry {
	deadline := ts.Periods[taskID] * float64(periodCounter[taskID]+1)
	row := periodCounter[taskID]
	if flavor == Interrupting {
		row = periodCounter[taskID] - 1
	}
	if row < 0 || row >= len(ts.Invocations) {
		panic(fmt.Sprintf("scheduler: invocation row %d out of range for task %d", row, taskID))
	}
	remaining := ts.Invocations[row][taskID]
	return ReadyEntry{
		TaskID:        taskID,
		PriorityKey:   deadline,
		RemainingExec: remaining,
		OriginalExec:  ts.WCExecTime[taskID],
	}
}

func (p *CCEDFPolicy) CheckSchedulability(ts *TaskSet) types.Info {
	return AnalyzeCCEDF(ts)
}
