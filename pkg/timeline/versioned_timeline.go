package timeline

import (
	"sort"

	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/segment"
)

// VersionedIntervalTimeline groups segments into time-chunks keyed by
// their exact interval, and resolves overshadow within each chunk:
// walking versions newest to oldest, the first complete version found
// hides every strictly older version in that chunk; versions newer than
// it stay visible too, since only a complete version hides anything.
// When no version in a chunk is complete, every version in it is
// visible.
type VersionedIntervalTimeline struct {
	chunks []*timeChunk // sorted by interval start, then end
}

type timeChunk struct {
	interval interval.Interval
	versions map[string][]segment.Segment
}

func (tc *timeChunk) isVersionComplete(version string) bool {
	h := Holder{Interval: tc.interval, Version: version, Chunks: tc.versions[version]}
	return h.IsComplete()
}

// sortedVersionsDesc returns this chunk's version strings, lexicographically
// descending (versions are lexicographically comparable per spec).
func (tc *timeChunk) sortedVersionsDesc() []string {
	out := make([]string, 0, len(tc.versions))
	for v := range tc.versions {
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// visibleHolders returns this chunk's non-overshadowed holders, newest
// first.
func (tc *timeChunk) visibleHolders() []Holder {
	versions := tc.sortedVersionsDesc()

	var out []Holder
	for _, v := range versions {
		out = append(out, Holder{Interval: tc.interval, Version: v, Chunks: tc.versions[v]})
		if tc.isVersionComplete(v) {
			break
		}
	}
	return out
}

// chunkKey identifies a time-chunk by wall-clock instants rather than by
// comparing time.Time values directly: two equal instants built through
// different code paths (time.Date vs. a parsed timestamp) can carry
// different monotonic readings and compare unequal with ==, which would
// wrongly split one time-chunk into two.
type chunkKey struct {
	startNano int64
	endNano   int64
}

func keyOf(i interval.Interval) chunkKey {
	return chunkKey{startNano: i.Start.UnixNano(), endNano: i.End.UnixNano()}
}

// New builds a VersionedIntervalTimeline from a flat set of segments,
// grouping them into time-chunks by their exact interval.
func New(segments []segment.Segment) *VersionedIntervalTimeline {
	byInterval := make(map[chunkKey]*timeChunk)
	var order []interval.Interval

	for _, s := range segments {
		k := keyOf(s.Interval)
		tc, ok := byInterval[k]
		if !ok {
			tc = &timeChunk{interval: s.Interval, versions: make(map[string][]segment.Segment)}
			byInterval[k] = tc
			order = append(order, s.Interval)
		}
		tc.versions[s.Version] = append(tc.versions[s.Version], s)
	}

	sort.Slice(order, func(i, j int) bool {
		if !order[i].Start.Equal(order[j].Start) {
			return order[i].Start.Before(order[j].Start)
		}
		return order[i].End.Before(order[j].End)
	})

	chunks := make([]*timeChunk, 0, len(order))
	for _, iv := range order {
		chunks = append(chunks, byInterval[keyOf(iv)])
	}

	return &VersionedIntervalTimeline{chunks: chunks}
}

func (t *VersionedIntervalTimeline) allVisibleHolders() []Holder {
	var out []Holder
	for _, tc := range t.chunks {
		out = append(out, tc.visibleHolders()...)
	}
	return out
}

func (t *VersionedIntervalTimeline) First() (Holder, bool) {
	holders := t.allVisibleHolders()
	if len(holders) == 0 {
		return Holder{}, false
	}
	best := holders[0]
	for _, h := range holders[1:] {
		if h.Interval.Start.Before(best.Interval.Start) {
			best = h
		}
	}
	return best, true
}

func (t *VersionedIntervalTimeline) Last() (Holder, bool) {
	holders := t.allVisibleHolders()
	if len(holders) == 0 {
		return Holder{}, false
	}
	best := holders[0]
	for _, h := range holders[1:] {
		if h.Interval.End.After(best.Interval.End) {
			best = h
		}
	}
	return best, true
}

func (t *VersionedIntervalTimeline) Lookup(i interval.Interval) []Holder {
	var out []Holder
	for _, tc := range t.chunks {
		if !interval.Overlaps(tc.interval, i) {
			continue
		}
		out = append(out, tc.visibleHolders()...)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].Interval.Start.Equal(out[b].Interval.Start) {
			return out[a].Interval.Start.Before(out[b].Interval.Start)
		}
		return out[a].Interval.End.Before(out[b].Interval.End)
	})
	return out
}

func (t *VersionedIntervalTimeline) FindNonOvershadowed(i interval.Interval, onlyComplete bool) []segment.Segment {
	var out []segment.Segment
	for _, tc := range t.chunks {
		if !interval.Overlaps(tc.interval, i) {
			continue
		}
		for _, h := range tc.visibleHolders() {
			if onlyComplete && !h.IsComplete() {
				continue
			}
			for _, s := range h.Chunks {
				if interval.Overlaps(s.Interval, i) {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
