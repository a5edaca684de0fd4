// Package metrics holds the planner's prometheus instrumentation,
// registered once at package init the way friggdb and friggdb/pool
// register theirs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CompactedBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compactionplanner",
		Name:      "compacted_bytes_total",
		Help:      "Total size of segments counted as already in the desired compaction state, by datasource.",
	}, []string{"datasource"})

	CompactedSegmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compactionplanner",
		Name:      "compacted_segments_total",
		Help:      "Total segments counted as already in the desired compaction state, by datasource.",
	}, []string{"datasource"})

	SkippedBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compactionplanner",
		Name:      "skipped_bytes_total",
		Help:      "Total size of segments skipped (tail/operator skip or oversized batch), by datasource.",
	}, []string{"datasource"})

	SkippedSegmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compactionplanner",
		Name:      "skipped_segments_total",
		Help:      "Total segments skipped, by datasource.",
	}, []string{"datasource"})

	EmittedBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compactionplanner",
		Name:      "emitted_batches_total",
		Help:      "Total batches yielded by next(), by datasource.",
	}, []string{"datasource"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "compactionplanner",
		Name:      "queue_depth",
		Help:      "Current number of datasources with a pending batch in the global priority queue.",
	})
)
