package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

func TestRunFCFS_OrdersByReleaseTimeAndRuns(t *testing.T) {
	tasks := []FCFSTask{
		{ReleaseTime: 2, WCExecTime: 3},
		{ReleaseTime: 0, WCExecTime: 2},
	}

	trace, info := RunFCFS(tasks)

	require.Len(t, trace, 2)
	assert.Equal(t, types.SchedYes, info.Schedulability)

	assert.Equal(t, 1, trace[0].TaskID)
	assert.Equal(t, 0.0, trace[0].Start)
	assert.Equal(t, 2.0, trace[0].End)

	assert.Equal(t, 0, trace[1].TaskID)
	assert.Equal(t, 2.0, trace[1].Start)
	assert.Equal(t, 5.0, trace[1].End)
}

func TestRunFCFS_WaitsForReleaseWhenIdle(t *testing.T) {
	tasks := []FCFSTask{
		{ReleaseTime: 5, WCExecTime: 1},
	}
	trace, _ := RunFCFS(tasks)
	require.Len(t, trace, 1)
	assert.Equal(t, 5.0, trace[0].Start)
}

func TestRunFCFS_MissingDeadlineNeverMisses(t *testing.T) {
	tasks := []FCFSTask{
		{ReleaseTime: 0, WCExecTime: 100},
		{ReleaseTime: 0, WCExecTime: 100},
	}
	_, info := RunFCFS(tasks)
	assert.Equal(t, types.SchedYes, info.Schedulability)
}

func TestRunFCFS_DetectsDeadlineMiss(t *testing.T) {
	deadline := 1.0
	tasks := []FCFSTask{
		{ReleaseTime: 0, WCExecTime: 2, Deadline: &deadline},
	}
	trace, info := RunFCFS(tasks)

	assert.Equal(t, types.SchedNo, info.Schedulability)
	assert.Equal(t, 1, info.MissedTaskNum)
	assert.Equal(t, 1.0, info.MissOccurance)
	require.Len(t, trace, 1)
	assert.Equal(t, 1.0, trace[0].End)
}

func TestRunFCFS_StopsAtFirstMiss(t *testing.T) {
	deadline := 1.0
	tasks := []FCFSTask{
		{ReleaseTime: 0, WCExecTime: 2, Deadline: &deadline},
		{ReleaseTime: 0, WCExecTime: 1},
	}
	trace, info := RunFCFS(tasks)

	assert.Equal(t, types.SchedNo, info.Schedulability)
	require.Len(t, trace, 1, "the second task never gets a segment once the first misses")
}
