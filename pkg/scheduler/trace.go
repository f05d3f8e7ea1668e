package scheduler

import "github.com/khryptorgraphics/cpuschedsim/pkg/types"

// TraceBuilder accumulates execution segments and merges contiguous
// blocks run by the same task at the same frequency, per spec.md §4.C.
type TraceBuilder struct {
	segments []types.Segment
}

// NewTraceBuilder returns an empty builder.
func NewTraceBuilder() *TraceBuilder {
	return &TraceBuilder{}
}

// Append adds a segment, extending the most recent segment in place
// when it shares TaskID and Frequency and abuts exactly at Start.
// Empty segments (start == end) are silently dropped.
func (b *TraceBuilder) Append(seg types.Segment) {
	if seg.Start == seg.End {
		return
	}
	if n := len(b.segments); n > 0 {
		last := &b.segments[n-1]
		if last.TaskID == seg.TaskID && last.Frequency == seg.Frequency && last.End == seg.Start {
			last.End = seg.End
			return
		}
	}
	b.segments = append(b.segments, seg)
}

// Trace returns the accumulated, merged trace.
func (b *TraceBuilder) Trace() types.Trace {
	return types.Trace(b.segments)
}
