package planner

import (
	"container/heap"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/segmentdb/compactionplanner/internal/metrics"
	"github.com/segmentdb/compactionplanner/pkg/compaction"
	"github.com/segmentdb/compactionplanner/pkg/granularity"
	"github.com/segmentdb/compactionplanner/pkg/interval"
	"github.com/segmentdb/compactionplanner/pkg/segment"
	"github.com/segmentdb/compactionplanner/pkg/timeline"
)

// Input is everything New needs for one datasource.
type Input struct {
	Timeline      timeline.Timeline
	Config        *compaction.Config
	SkipIntervals []interval.Interval
}

// Planner iterates compaction batches newest-first across every
// configured datasource, per the priority queue described in queue.go.
// It is single-threaded and holds no I/O handle; Close only releases
// in-memory state.
type Planner struct {
	logger  log.Logger
	decoder segment.Decoder

	cursors map[string]*HolderCursor
	configs map[string]*compaction.Config

	// originals holds, per datasource, the physical timeline a virtual
	// holder's candidates get re-resolved against; nil entries mean that
	// datasource iterates its physical timeline directly.
	originals map[string]timeline.Timeline

	alreadyEmitted map[string]map[chunkKey]struct{}

	queue priorityQueue

	compactedStats map[string]*Statistics
	skippedStats   map[string]*Statistics

	err error
}

type chunkKey struct{ startNano, endNano int64 }

func keyOf(i interval.Interval) chunkKey {
	return chunkKey{i.Start.UnixNano(), i.End.UnixNano()}
}

// New builds a planner over the given per-datasource inputs. A
// datasource whose timeline is empty, or whose entire span falls inside
// a skip interval, is dropped silently — it simply never produces a
// batch. New returns UnknownDatasourceError for a caller-supplied Input
// with a nil Timeline, and returns any error met while seeding a
// datasource's first batch (a corrupt compaction state or an invariant
// violation).
func New(logger log.Logger, decoder segment.Decoder, inputs map[string]Input) (*Planner, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if decoder == nil {
		decoder = segment.NewMapstructureDecoder()
	}

	p := &Planner{
		logger:         logger,
		decoder:        decoder,
		cursors:        make(map[string]*HolderCursor),
		configs:        make(map[string]*compaction.Config),
		originals:      make(map[string]timeline.Timeline),
		alreadyEmitted: make(map[string]map[chunkKey]struct{}),
		compactedStats: make(map[string]*Statistics),
		skippedStats:   make(map[string]*Statistics),
	}

	for ds, in := range inputs {
		if in.Timeline == nil {
			return nil, &UnknownDatasourceError{Datasource: ds}
		}

		p.configs[ds] = in.Config
		p.compactedStats[ds] = &Statistics{}
		p.skippedStats[ds] = &Statistics{}

		if _, ok := in.Timeline.First(); !ok {
			level.Debug(logger).Log("msg", "skipping empty timeline", "datasource", ds)
			continue
		}

		effective := in.Timeline
		var original timeline.Timeline
		var target granularity.Granularity
		if in.Config.GranularitySpec != nil && in.Config.GranularitySpec.SegmentGranularity != nil {
			target = in.Config.GranularitySpec.SegmentGranularity
			original = in.Timeline
			effective = timeline.BuildVirtual(in.Timeline, target, time.Now())
			if _, ok := effective.First(); !ok {
				continue
			}
		}

		searchIntervals := BuildSearchWindow(effective, in.Config.SkipOffsetFromLatest, target, in.SkipIntervals, p.skippedStats[ds])
		metrics.SkippedBytesTotal.WithLabelValues(ds).Add(float64(p.skippedStats[ds].Bytes))
		metrics.SkippedSegmentsTotal.WithLabelValues(ds).Add(float64(p.skippedStats[ds].SegmentCount))
		if len(searchIntervals) == 0 {
			continue
		}

		cursor := NewHolderCursor(effective, searchIntervals, original)
		p.cursors[ds] = cursor
		if original != nil {
			p.originals[ds] = original
			p.alreadyEmitted[ds] = make(map[chunkKey]struct{})
		}

		batch, err := p.findNextBatch(ds, cursor)
		if err != nil {
			return nil, err
		}
		if !batch.Empty() {
			heap.Push(&p.queue, &queueEntry{datasource: ds, batch: batch})
			metrics.QueueDepth.Set(float64(p.queue.Len()))
		}
	}

	return p, nil
}

// HasNext reports whether Next would yield a batch.
func (p *Planner) HasNext() bool {
	return p.queue.Len() > 0
}

// Err returns the first non-fatal error encountered while refilling the
// queue after a previous Next call. It never invalidates the batch Next
// already returned; it only means that datasource's iteration stopped
// early. Callers that care about per-datasource faults should check Err
// after each Next call, bufio.Scanner-style.
func (p *Planner) Err() error {
	return p.err
}

// Next pops the batch with the newest umbrella interval across every
// datasource, refills that datasource's slot in the queue, and returns
// the popped batch's segments.
func (p *Planner) Next() ([]segment.Segment, error) {
	if p.queue.Len() == 0 {
		return nil, ErrEndOfIteration
	}

	entry := heap.Pop(&p.queue).(*queueEntry)
	metrics.QueueDepth.Set(float64(p.queue.Len()))
	ds := entry.datasource

	next, err := p.findNextBatch(ds, p.cursors[ds])
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		level.Warn(p.logger).Log("msg", "halting iteration for datasource after error", "datasource", ds, "err", err)
	} else if !next.Empty() {
		heap.Push(&p.queue, &queueEntry{datasource: ds, batch: next})
		metrics.QueueDepth.Set(float64(p.queue.Len()))
	}

	return entry.batch.Segments, nil
}

// findNextBatch drains cursor until it finds a batch that fits the
// configured input size and still needs compaction, accumulating
// compacted/skipped statistics for everything it passes over along the
// way. Returns an empty SegmentBatch once the cursor is drained.
func (p *Planner) findNextBatch(ds string, cursor *HolderCursor) (SegmentBatch, error) {
	cfg := p.configs[ds]

	for cursor.HasNext() {
		candidates, err := cursor.Next()
		if err != nil {
			return SegmentBatch{}, err
		}
		if len(candidates) == 0 {
			return SegmentBatch{}, &InvariantViolationError{Datasource: ds, Msg: "holder cursor yielded an empty candidate set"}
		}

		batch := NewSegmentBatch(ds, candidates)

		needs, err := compaction.NeedsCompaction(cfg, p.decoder, candidates)
		if err != nil {
			return SegmentBatch{}, err
		}

		fits := batch.TotalSize() <= cfg.InputSegmentSizeBytes

		switch {
		case fits && needs:
			if seen, tracking := p.alreadyEmitted[ds]; tracking {
				k := keyOf(batch.Umbrella())
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
			}
			metrics.EmittedBatchesTotal.WithLabelValues(ds).Inc()
			return batch, nil

		case !needs:
			p.compactedStats[ds].addBatch(batch)
			metrics.CompactedBytesTotal.WithLabelValues(ds).Add(float64(batch.TotalSize()))
			metrics.CompactedSegmentsTotal.WithLabelValues(ds).Add(float64(len(batch.Segments)))

		default: // needs && !fits
			p.skippedStats[ds].addBatch(batch)
			metrics.SkippedBytesTotal.WithLabelValues(ds).Add(float64(batch.TotalSize()))
			metrics.SkippedSegmentsTotal.WithLabelValues(ds).Add(float64(len(batch.Segments)))
		}
	}

	return SegmentBatch{}, nil
}

// CompactedStatistics returns a snapshot copy of the running
// already-compacted counters for ds.
func (p *Planner) CompactedStatistics(ds string) Statistics {
	if s, ok := p.compactedStats[ds]; ok {
		return *s
	}
	return Statistics{}
}

// SkippedStatistics returns a snapshot copy of the running skipped
// counters (tail/operator skip and oversized-batch skip, combined) for
// ds.
func (p *Planner) SkippedStatistics(ds string) Statistics {
	if s, ok := p.skippedStats[ds]; ok {
		return *s
	}
	return Statistics{}
}

// Close releases the planner's in-memory state. The planner holds no
// I/O handles; Close exists so callers can defer it uniformly alongside
// other resources.
func (p *Planner) Close() error {
	p.cursors = nil
	p.queue = nil
	return nil
}
