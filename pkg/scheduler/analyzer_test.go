package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

func TestAnalyzeRM_WithinBoundIsYes(t *testing.T) {
	// U = 1/4 + 1/5 = 0.45, bound for N=2 is ~0.828
	ts, err := NewTaskSet([]float64{4, 5}, []float64{1, 1}, nil, 20)
	require.NoError(t, err)
	info := AnalyzeRM(ts)
	assert.Equal(t, types.SchedYes, info.Schedulability)
}

func TestAnalyzeRM_AboveBoundIsMaybe(t *testing.T) {
	// U = 2/4 + 3/5 = 1.1, above any N=2 bound
	ts, err := NewTaskSet([]float64{4, 5}, []float64{2, 3}, nil, 20)
	require.NoError(t, err)
	info := AnalyzeRM(ts)
	assert.Equal(t, types.SchedMaybe, info.Schedulability)
}

func TestAnalyzeEDF_UtilizationAboveOneIsNo(t *testing.T) {
	ts, err := NewTaskSet([]float64{4, 5}, []float64{2, 3}, nil, 20)
	require.NoError(t, err)
	// U = 2/4 + 3/5 = 1.1 > 1
	info := AnalyzeEDF(ts)
	assert.Equal(t, types.SchedNo, info.Schedulability)
}

func TestAnalyzeEDF_UtilizationBelowOneIsYes(t *testing.T) {
	ts, err := NewTaskSet([]float64{4, 5}, []float64{2, 1}, nil, 20)
	require.NoError(t, err)
	// U = 2/4 + 1/5 = 0.7
	info := AnalyzeEDF(ts)
	assert.Equal(t, types.SchedYes, info.Schedulability)
}

func TestAnalyzeCCEDF_WarnsOnOverutilization(t *testing.T) {
	ts, err := NewTaskSet([]float64{4, 5}, []float64{2, 3}, [][]float64{{2, 3}}, 0)
	require.NoError(t, err)
	info := AnalyzeCCEDF(ts)
	assert.NotEmpty(t, info.Warning)
}

func TestAnalyzeCCEDF_NoWarningWithinBudget(t *testing.T) {
	ts, err := NewTaskSet([]float64{4, 5}, []float64{1, 1}, [][]float64{{1, 1}}, 0)
	require.NoError(t, err)
	info := AnalyzeCCEDF(ts)
	assert.Empty(t, info.Warning)
}
