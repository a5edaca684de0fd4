package planner

import (
	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/segment"
	"github.com/segmentdb/compactionplanner/pkg/timeline"
)

// HolderCursor precomputes the compactible holders for one datasource,
// newest-first, and drains them one at a time.
//
// A holder is compactible when (a) it has at least one chunk, (b) its
// interval is contained in the search interval it came from — preserved
// verbatim per the design notes' open question, rather than generalized
// — and (c) its chunks' total size is strictly positive.
type HolderCursor struct {
	// holders is kept oldest-first internally; Next pops from the end so
	// the externally observed order is newest-first.
	holders  []timeline.Holder
	original timeline.Timeline // nil unless a virtual regranulated timeline drives this cursor
}

// NewHolderCursor builds a cursor over tl, restricted to the given
// search intervals (already ascending, non-overlapping, per
// BuildSearchWindow). original is the physical timeline a virtual
// holder's candidates get re-resolved against; nil when tl is already
// physical.
func NewHolderCursor(tl timeline.Timeline, searchIntervals []interval.Interval, original timeline.Timeline) *HolderCursor {
	var holders []timeline.Holder
	for _, searchInterval := range searchIntervals {
		for _, h := range tl.Lookup(searchInterval) {
			if len(h.Chunks) == 0 {
				continue
			}
			if !interval.Contains(searchInterval, h.Chunks[0].Interval) {
				continue
			}
			if h.TotalSize() <= 0 {
				continue
			}
			holders = append(holders, h)
		}
	}
	return &HolderCursor{holders: holders, original: original}
}

func (c *HolderCursor) HasNext() bool {
	return len(c.holders) > 0
}

// Next pops the newest remaining holder and returns its segments. When
// original is set, the holder's candidates (which may be synthetic,
// virtual-timeline segments) are re-resolved against it so the returned
// segments carry their true version and shard spec.
func (c *HolderCursor) Next() ([]segment.Segment, error) {
	n := len(c.holders)
	if n == 0 {
		return nil, ErrEndOfIteration
	}
	h := c.holders[n-1]
	c.holders = c.holders[:n-1]

	if len(h.Chunks) == 0 {
		return nil, &InvariantViolationError{Msg: "holder cursor produced a holder with no chunks"}
	}

	if c.original == nil {
		return h.Chunks, nil
	}

	umbrella := segment.Umbrella(h.Chunks)
	resolved := c.original.FindNonOvershadowed(umbrella, true)
	if len(resolved) == 0 {
		return nil, &InvariantViolationError{Msg: "virtual holder resolved to no segments against the original timeline"}
	}
	return resolved, nil
}
