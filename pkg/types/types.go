package types

// TaskInfo is the tagged-union input record accepted by the facade. Only
// the fields required by SchedulingAlgo are consulted; the rest are
// ignored by the facade.
type TaskInfo struct {
	SchedulingAlgo Algorithm `json:"scheduling_algo" yaml:"scheduling_algo"`

	// FCFS
	ReleaseTime []float64 `json:"release_time,omitempty" yaml:"release_time,omitempty"`
	WCExecTime  []float64 `json:"wc_exec_time,omitempty" yaml:"wc_exec_time,omitempty"`
	Deadlines   []float64 `json:"deadlines,omitempty" yaml:"deadlines,omitempty"`

	// RM / EDF
	Periods []float64 `json:"periods,omitempty" yaml:"periods,omitempty"`
	EndTime float64   `json:"end_time,omitempty" yaml:"end_time,omitempty"`

	// CC-EDF
	Invocations [][]float64 `json:"invocations,omitempty" yaml:"invocations,omitempty"`
}

// N returns the task count implied by the populated parameter slices.
func (t *TaskInfo) N() int {
	switch {
	case len(t.WCExecTime) > 0 && t.SchedulingAlgo == FCFS:
		return len(t.WCExecTime)
	case len(t.Periods) > 0:
		return len(t.Periods)
	default:
		return 0
	}
}
