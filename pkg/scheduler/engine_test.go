package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

func TestEngine_RM_TwoTasksUnderBound(t *testing.T) {
	ts, err := NewTaskSet([]float64{4, 6}, []float64{1, 2}, nil, 12)
	require.NoError(t, err)

	trace, info := NewEngine(ts, NewRMPolicy()).Run()

	assert.Equal(t, types.SchedYes, info.Schedulability)
	require.Len(t, trace, 5)

	want := []types.Segment{
		{TaskID: 0, Start: 0, End: 1, Frequency: 1},
		{TaskID: 1, Start: 1, End: 3, Frequency: 1},
		{TaskID: 0, Start: 4, End: 5, Frequency: 1},
		{TaskID: 1, Start: 6, End: 8, Frequency: 1},
		{TaskID: 0, Start: 8, End: 9, Frequency: 1},
	}
	assert.Equal(t, want, []types.Segment(trace))
}

func TestEngine_EDF_DetectsOverloadMiss(t *testing.T) {
	// U = 1.5/2 + 1.5/2 = 1.5, strictly infeasible: the second task's
	// second release collides with its own still-pending first instance.
	ts, err := NewTaskSet([]float64{2, 2}, []float64{1.5, 1.5}, nil, 10)
	require.NoError(t, err)

	trace, info := NewEngine(ts, NewEDFPolicy()).Run()

	assert.Equal(t, types.SchedNo, info.Schedulability)
	assert.Equal(t, 2, info.MissedTaskNum)
	assert.Equal(t, 2.0, info.MissOccurance)

	want := []types.Segment{
		{TaskID: 0, Start: 0, End: 1.5, Frequency: 1},
		{TaskID: 1, Start: 1.5, End: 2, Frequency: 1},
	}
	assert.Equal(t, want, []types.Segment(trace))
}

func TestEngine_CCEDF_ScalesFrequencyDownToWorstCaseUtilization(t *testing.T) {
	ts, err := NewTaskSet([]float64{4}, []float64{2}, [][]float64{{1}, {2}}, 0)
	require.NoError(t, err)

	trace, info := NewEngine(ts, NewCCEDFPolicy(ts)).Run()

	assert.Empty(t, info.Warning)
	require.Len(t, trace, 2)

	assert.Equal(t, 0, trace[0].TaskID)
	assert.Equal(t, 0.0, trace[0].Start)
	assert.Equal(t, 2.0, trace[0].End)
	assert.Equal(t, 0.5, trace[0].Frequency)

	assert.Equal(t, 0, trace[1].TaskID)
	assert.Equal(t, 4.0, trace[1].Start)
	assert.Equal(t, 8.0, trace[1].End)
	assert.Equal(t, 0.5, trace[1].Frequency)
}

func TestEngine_CCEDF_ExhaustedTaskIsNotReReleasedOnPreemptOrIdle(t *testing.T) {
	// Task 0's short period (2) keeps it at the front of every deadline
	// comparison long after its K=2 invocations are spent, exercising
	// both the interrupting-insert guard and the idle-advance guard in
	// engine.go: neither may hand task 0 a phantom third invocation.
	ts, err := NewTaskSet([]float64{2, 14}, []float64{1, 1}, [][]float64{{1, 1}, {1, 1}}, 0)
	require.NoError(t, err)

	trace, info := NewEngine(ts, NewCCEDFPolicy(ts)).Run()

	assert.Empty(t, info.Warning)
	require.Len(t, trace, 5)

	freq := 1.0/2.0 + 1.0/14.0
	const tol = 1e-9

	wantTasks := []int{0, 1, 0, 1, 1}
	wantStarts := []float64{0, 1.75, 2, 3.75, 14}
	wantEnds := []float64{1.75, 2, 3.75, 5.25, 15.75}

	for i, seg := range trace {
		assert.Equal(t, wantTasks[i], seg.TaskID, "segment %d task", i)
		assert.InDelta(t, wantStarts[i], seg.Start, tol, "segment %d start", i)
		assert.InDelta(t, wantEnds[i], seg.End, tol, "segment %d end", i)
		assert.InDelta(t, freq, seg.Frequency, tol, "segment %d frequency", i)
	}

	// A phantom re-release of task 0 would have produced a sixth segment
	// and driven info.MissedTaskNum/MissOccurance to a spurious miss
	// instead of letting the run reach its natural K-invocation end.
	assert.Zero(t, info.MissedTaskNum)
}

func TestEngine_CCEDF_FrequencyNeverExceedsOne(t *testing.T) {
	// Worst-case utilization is 1.5, above 1, so ComputeFrequency must
	// clamp rather than ever request a frequency above the unit rate.
	ts, err := NewTaskSet([]float64{2, 2}, []float64{1.5, 1.5}, [][]float64{{1.5, 1.5}, {1.5, 1.5}}, 0)
	require.NoError(t, err)

	policy := NewCCEDFPolicy(ts)
	_, freq := policy.ComputeFrequency(1.5, 0)
	assert.LessOrEqual(t, freq, 1.0)
}
