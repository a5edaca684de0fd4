// Package timeline implements the versioned interval map the planner
// queries: the non-overshadowed view of a datasource's segments, plus a
// virtual regranulated timeline used to drive iteration under a
// reconfigured target granularity.
package timeline

import (
	"time"

	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/segment"
)

// Eternity is a sentinel interval wide enough to contain any realistic
// segment timeline; used to ask a Timeline for every non-overshadowed
// segment it holds, e.g. when building the virtual regranulated
// timeline (§4.4).
var Eternity = interval.Interval{
	Start: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC),
}

// Holder is a contiguous time-chunk at a single version, holding one or
// more partition chunks (segments). Exactly the non-overshadowed holders
// of a Timeline are ever returned to a caller.
type Holder struct {
	Interval interval.Interval
	Version  string
	Chunks   []segment.Segment
}

// TotalSize sums the size of this holder's chunks.
func (h Holder) TotalSize() int64 {
	return segment.TotalSize(h.Chunks)
}

// IsComplete reports whether the chunk set covers [0, NumPartitions) for
// this holder's shard spec.
func (h Holder) IsComplete() bool {
	if len(h.Chunks) == 0 {
		return false
	}
	n := h.Chunks[0].Shard.NumPartitions
	if n <= 0 {
		return false
	}
	seen := make([]bool, n)
	for _, c := range h.Chunks {
		if c.Shard.NumPartitions != n {
			return false
		}
		if c.Shard.Partition < 0 || c.Shard.Partition >= n {
			return false
		}
		seen[c.Shard.Partition] = true
	}
	for _, ok := range seen {
		if !ok {
			return false
		}
	}
	return true
}

// Timeline is the external contract the planner consumes: a
// per-datasource versioned interval map. Implementations are not
// required to be safe for concurrent use; the planner itself is
// single-threaded (§5).
type Timeline interface {
	// First and Last return the earliest/latest visible holder by
	// interval start/end, and false if the timeline holds no visible
	// holder at all.
	First() (Holder, bool)
	Last() (Holder, bool)

	// Lookup returns the visible (non-overshadowed) holders whose
	// interval overlaps i, ordered ascending by holder interval.
	Lookup(i interval.Interval) []Holder

	// FindNonOvershadowed returns the segments belonging to a winning
	// version within each time-chunk touched by i. When onlyComplete is
	// true, only segments whose winning version is itself complete are
	// returned.
	FindNonOvershadowed(i interval.Interval, onlyComplete bool) []segment.Segment
}
