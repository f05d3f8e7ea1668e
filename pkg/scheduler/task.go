package scheduler

import "fmt"

// Task holds the immutable per-task timing parameters shared by the
// preemptive algorithms (RM, EDF, CC-EDF). ReleaseTime and Deadline are
// only meaningful for FCFS.
type Task struct {
	Period      float64
	WCExecTime  float64
	ReleaseTime float64
	Deadline    float64
}

// TaskSet is the immutable, validated collection of tasks an engine runs
// against, plus the CC-EDF invocation matrix when present. It is built
// once by the facade at Compute entry and never mutated afterward.
type TaskSet struct {
	N int

	Periods    []float64
	WCExecTime []float64

	// Invocations[k][i] is the actual execution time of the k-th
	// invocation of task i. Nil for RM/EDF/FCFS.
	Invocations [][]float64

	// EndTime is the simulation horizon for RM/EDF. Zero for FCFS/CC-EDF.
	EndTime float64
}

// K returns the number of recorded invocations (CC-EDF only).
func (ts *TaskSet) K() int {
	return len(ts.Invocations)
}

// NewTaskSet validates and constructs a TaskSet for RM/EDF/CC-EDF from
// periods and worst-case execution times, and an optional invocation
// matrix. Pass a nil invocations matrix for RM/EDF.
func NewTaskSet(periods, wcExecTime []float64, invocations [][]float64, endTime float64) (*TaskSet, error) {
	n := len(periods)
	if n == 0 {
		return nil, fmt.Errorf("%w: no tasks", ErrInvalidTaskSet)
	}
	if len(wcExecTime) != n {
		return nil, fmt.Errorf("%w: wc_exec_time length %d != periods length %d", ErrInvalidTaskSet, len(wcExecTime), n)
	}
	for i := 0; i < n; i++ {
		if periods[i] <= 0 {
			return nil, fmt.Errorf("%w: task %d period %v must be > 0", ErrInvalidTaskSet, i, periods[i])
		}
		if wcExecTime[i] <= 0 || wcExecTime[i] > periods[i] {
			return nil, fmt.Errorf("%w: task %d wc_exec_time %v must satisfy 0 < C <= P (%v)", ErrInvalidTaskSet, i, wcExecTime[i], periods[i])
		}
	}
	for k, row := range invocations {
		if len(row) != n {
			return nil, fmt.Errorf("%w: invocation row %d has length %d, want %d", ErrInvalidTaskSet, k, len(row), n)
		}
		for i, v := range row {
			if v < 0 || v > wcExecTime[i] {
				return nil, fmt.Errorf("%w: invocation[%d][%d]=%v out of range [0, %v]", ErrInvalidTaskSet, k, i, v, wcExecTime[i])
			}
		}
	}
	return &TaskSet{
		N:           n,
		Periods:     periods,
		WCExecTime:  wcExecTime,
		Invocations: invocations,
		EndTime:     endTime,
	}, nil
}

// Utilization returns the worst-case utilization sum(C_i/P_i).
func (ts *TaskSet) Utilization() float64 {
	var u float64
	for i := 0; i < ts.N; i++ {
		u += ts.WCExecTime[i] / ts.Periods[i]
	}
	return u
}
