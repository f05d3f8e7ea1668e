package scheduler

import (
	"math"

	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

// AnalyzeRM implements the RM utilization-based test of spec.md §4.D:
// U <= N*(2^(1/N)-1) is sufficient for "yes"; otherwise the test is
// inconclusive ("maybe") and only the simulation itself can confirm a
// miss.
func AnalyzeRM(ts *TaskSet) types.Info {
	if ts.Utilization() <= rmBound(ts.N) {
		return types.Info{Schedulability: types.SchedYes}
	}
	return types.Info{Schedulability: types.SchedMaybe}
}

// AnalyzeEDF implements the necessary-and-sufficient EDF test: U <= 1.
func AnalyzeEDF(ts *TaskSet) types.Info {
	if ts.Utilization() <= 1 {
		return types.Info{Schedulability: types.SchedYes}
	}
	return types.Info{Schedulability: types.SchedNo}
}

// AnalyzeCCEDF reports a warning (not a verdict) when worst-case
// utilization exceeds 1; the run still proceeds with frequency clamped
// at 1 by ComputeFrequency's math.Min.
func AnalyzeCCEDF(ts *TaskSet) types.Info {
	if ts.Utilization() > 1 {
		return types.Info{Warning: "worst-case utilization exceeds 1"}
	}
	return types.Info{}
}

// rmBound is the Liu & Layland utilization bound N*(2^(1/N)-1).
func rmBound(n int) float64 {
	return float64(n) * (math.Pow(2, 1/float64(n)) - 1)
}
