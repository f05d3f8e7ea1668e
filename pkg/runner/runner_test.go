package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

func TestPool_SubmitAndAwait(t *testing.T) {
	pool := New()
	input := types.TaskInfo{
		SchedulingAlgo: types.FCFS,
		ReleaseTime:    []float64{0},
		WCExecTime:     []float64{1},
	}

	ctx := context.Background()
	resultCh, err := pool.Submit(ctx, "run-1", input)
	require.NoError(t, err)

	res, err := Await(ctx, resultCh)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, types.SchedYes, res.Info.Schedulability)
}

func TestPool_RejectsReentrantSameID(t *testing.T) {
	pool := New()
	input := types.TaskInfo{
		SchedulingAlgo: types.RM,
		Periods:        []float64{4, 6},
		WCExecTime:     []float64{1, 2},
		EndTime:        12,
	}

	ctx := context.Background()
	resultCh, err := pool.Submit(ctx, "run-2", input)
	require.NoError(t, err)

	_, err = pool.Submit(ctx, "run-2", input)
	assert.Error(t, err, "a second submission for the same run id must be rejected while the first is in flight")

	_, err = Await(ctx, resultCh)
	require.NoError(t, err)
}

func TestPool_AllowsReuseOfIDAfterCompletion(t *testing.T) {
	pool := New()
	input := types.TaskInfo{
		SchedulingAlgo: types.FCFS,
		ReleaseTime:    []float64{0},
		WCExecTime:     []float64{1},
	}
	ctx := context.Background()

	resultCh, err := pool.Submit(ctx, "run-3", input)
	require.NoError(t, err)
	_, err = Await(ctx, resultCh)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := pool.Submit(ctx, "run-3", input)
		return err == nil
	}, time.Second, time.Millisecond)
}
