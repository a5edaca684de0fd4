// Package compaction holds the operator-declared compaction policy and
// the multi-field predicate that decides whether a candidate batch of
// segments still needs to be compacted under it.
package compaction

import (
	"time"

	"github.com/segmentdb/compactionplanner/pkg/granularity"
	"github.com/segmentdb/compactionplanner/pkg/segment"
)

// GranularitySpec is the operator's desired time-bucket/query-granularity/
// rollup policy. A nil *GranularitySpec on Config means "do not constrain
// on granularity at all".
type GranularitySpec struct {
	// SegmentGranularity, if non-nil, drives both the virtual
	// regranulated timeline (pkg/timeline) and the alignment check in
	// needs-compaction. Name is the comparable label stored in
	// LastCompactionState (e.g. "DAY", "MONTH") and must agree with
	// SegmentGranularity's own bucketing.
	SegmentGranularity     granularity.Granularity
	SegmentGranularityName string

	QueryGranularity *string
	Rollup           *bool
}

// Config is a datasource's compaction policy. Any nil/zero-value field
// (besides InputSegmentSizeBytes and SkipOffsetFromLatest, which are
// always meaningful, and the index/partitions fields, whose nil/zero
// values select the defaults noted below) means "do not constrain on
// this dimension".
type Config struct {
	InputSegmentSizeBytes int64
	SkipOffsetFromLatest  time.Duration

	GranularitySpec *GranularitySpec
	DimensionsSpec  []string
	TransformFilter segment.RawDoc // nil means "no filter configured"
	MetricsSpec     []segment.MetricSpec

	IndexSpec      *segment.IndexSpecState // nil means "use the default"
	PartitionsSpec *segment.PartitionsSpecState // nil means "derive a dynamic spec from Max*Rows"

	MaxRowsPerSegment int64
	MaxTotalRows      *int64
}

// DefaultIndexSpec is the index spec assumed for a config that omits one,
// and for a stored LastCompactionState that omits one.
var DefaultIndexSpec = segment.IndexSpecState{
	BitmapEncoding: "roaring",
}

// EffectivePartitionsSpec returns the config's explicit PartitionsSpec if
// set, otherwise a dynamic spec built from MaxRowsPerSegment/MaxTotalRows
// with MaxTotalRows normalized to "unbounded" (nil) when absent, per
// spec §4.6.3.
func (c *Config) EffectivePartitionsSpec() segment.PartitionsSpecState {
	if c.PartitionsSpec != nil {
		return normalizePartitionsSpec(*c.PartitionsSpec)
	}
	rows := c.MaxRowsPerSegment
	return segment.PartitionsSpecState{
		Type:              "dynamic",
		MaxRowsPerSegment: &rows,
		MaxTotalRows:      c.MaxTotalRows,
	}
}

// normalizePartitionsSpec normalizes a dynamic spec's MaxTotalRows so an
// absent field and an explicit non-positive "unbounded" sentinel both
// compare equal as nil. Non-dynamic specs pass through unchanged.
func normalizePartitionsSpec(p segment.PartitionsSpecState) segment.PartitionsSpecState {
	if p.Type != "dynamic" {
		return p
	}
	if p.MaxTotalRows != nil && *p.MaxTotalRows <= 0 {
		p.MaxTotalRows = nil
	}
	return p
}
