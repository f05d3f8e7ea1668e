package scheduler

import "errors"

// Sentinel errors returned by the facade. All three are fatal to a
// Compute call; no partial trace or info is returned alongside them.
var (
	// ErrInvalidTaskSet covers N=0, length mismatches, non-positive
	// periods, execution times outside (0, P_i], and CC-EDF invocation
	// rows that disagree with N or exceed the task's worst-case time.
	ErrInvalidTaskSet = errors.New("scheduler: invalid task set")

	// ErrMissingField covers a required field for the chosen algorithm
	// being absent from the input record.
	ErrMissingField = errors.New("scheduler: missing required field")

	// ErrUnknownAlgorithm covers a SchedulingAlgo outside {FCFS, RM, EDF, CC_EDF}.
	ErrUnknownAlgorithm = errors.New("scheduler: unknown scheduling algorithm")
)
