package scheduler

import (
	"fmt"

	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

// Compute is the single pure entry point of the core: it reads a tagged
// TaskInfo, normalizes it into the per-algorithm parameter record,
// constructs and runs the matching engine, and returns the trace and
// info record by value. All data it touches is created here and owned
// exclusively by this call (spec.md §3 Lifecycle, §5 Concurrency).
func Compute(in types.TaskInfo) (types.Trace, types.Info, error) {
	switch in.SchedulingAlgo {
	case types.FCFS:
		return computeFCFS(in)
	case types.RM:
		return computePreemptive(in, NewRMPolicy())
	case types.EDF:
		return computePreemptive(in, NewEDFPolicy())
	case types.CCEDF:
		return computeCCEDF(in)
	case "":
		return nil, types.Info{}, fmt.Errorf("%w: scheduling_algo not set", ErrMissingField)
	default:
		return nil, types.Info{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, in.SchedulingAlgo)
	}
}

func computeFCFS(in types.TaskInfo) (types.Trace, types.Info, error) {
	if len(in.ReleaseTime) == 0 {
		return nil, types.Info{}, fmt.Errorf("%w: release_time", ErrMissingField)
	}
	if len(in.WCExecTime) == 0 {
		return nil, types.Info{}, fmt.Errorf("%w: wc_exec_time", ErrMissingField)
	}
	n := len(in.ReleaseTime)
	if len(in.WCExecTime) != n {
		return nil, types.Info{}, fmt.Errorf("%w: wc_exec_time length %d != release_time length %d", ErrInvalidTaskSet, len(in.WCExecTime), n)
	}
	if n == 0 {
		return nil, types.Info{}, fmt.Errorf("%w: no tasks", ErrInvalidTaskSet)
	}
	if len(in.Deadlines) != 0 && len(in.Deadlines) != n {
		return nil, types.Info{}, fmt.Errorf("%w: deadlines length %d != %d", ErrInvalidTaskSet, len(in.Deadlines), n)
	}

	tasks := make([]FCFSTask, n)
	for i := 0; i < n; i++ {
		if in.WCExecTime[i] <= 0 {
			return nil, types.Info{}, fmt.Errorf("%w: task %d wc_exec_time %v must be > 0", ErrInvalidTaskSet, i, in.WCExecTime[i])
		}
		tasks[i] = FCFSTask{ReleaseTime: in.ReleaseTime[i], WCExecTime: in.WCExecTime[i]}
		if len(in.Deadlines) == n {
			d := in.Deadlines[i]
			tasks[i].Deadline = &d
		}
	}

	trace, info := RunFCFS(tasks)
	return trace, info, nil
}

func computePreemptive(in types.TaskInfo, policy Policy) (types.Trace, types.Info, error) {
	if len(in.Periods) == 0 {
		return nil, types.Info{}, fmt.Errorf("%w: periods", ErrMissingField)
	}
	if len(in.WCExecTime) == 0 {
		return nil, types.Info{}, fmt.Errorf("%w: wc_exec_time", ErrMissingField)
	}
	if in.EndTime <= 0 {
		return nil, types.Info{}, fmt.Errorf("%w: end_time", ErrMissingField)
	}

	ts, err := NewTaskSet(in.Periods, in.WCExecTime, nil, in.EndTime)
	if err != nil {
		return nil, types.Info{}, err
	}

	trace, info := NewEngine(ts, policy).Run()
	return trace, info, nil
}

func computeCCEDF(in types.TaskInfo) (types.Trace, types.Info, error) {
	if len(in.Periods) == 0 {
		return nil, types.Info{}, fmt.Errorf("%w: periods", ErrMissingField)
	}
	if len(in.WCExecTime) == 0 {
		return nil, types.Info{}, fmt.Errorf("%w: wc_exec_time", ErrMissingField)
	}
	if len(in.Invocations) == 0 {
		return nil, types.Info{}, fmt.Errorf("%w: invocations", ErrMissingField)
	}

	ts, err := NewTaskSet(in.Periods, in.WCExecTime, in.Invocations, 0)
	if err != nil {
		return nil, types.Info{}, err
	}

	policy := NewCCEDFPolicy(ts)
	trace, info := NewEngine(ts, policy).Run()
	return trace, info, nil
}
