package scheduler

import (
	"sort"

	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

// FCFSTask is the minimal per-task input FCFS needs: release time and
// worst-case execution time, plus an optional deadline (the UI never
// supplies deadlines; spec.md §9 says to treat their absence as
// "always schedulable").
type FCFSTask struct {
	ReleaseTime float64
	WCExecTime  float64
	Deadline    *float64
}

// RunFCFS implements the non-preemptive release-ordered engine of
// spec.md §4.G. Unlike RM/EDF/CC-EDF it does not share the preemptive
// event loop: there is nothing to preempt with, only a single pass over
// tasks sorted by release time.
func RunFCFS(tasks []FCFSTask) (types.Trace, types.Info) {
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tasks[order[a]].ReleaseTime < tasks[order[b]].ReleaseTime
	})

	trace := NewTraceBuilder()
	currentTime := 0.0

	for _, i := range order {
		t := tasks[i]
		start := currentTime
		if t.ReleaseTime > start {
			start = t.ReleaseTime
		}

		if t.Deadline != nil && start+t.WCExecTime > *t.Deadline {
			trace.Append(types.Segment{TaskID: i, Start: start, End: *t.Deadline, Frequency: 1})
			return trace.Trace(), types.Info{
				Schedulability: types.SchedNo,
				MissedTaskNum:  i + 1,
				MissOccurance:  *t.Deadline,
			}
		}

		trace.Append(types.Segment{TaskID: i, Start: start, End: start + t.WCExecTime, Frequency: 1})
		currentTime = start + t.WCExecTime
	}

	return trace.Trace(), types.Info{Schedulability: types.SchedYes}
}
