package compaction

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/segmentdb/compactionplanner/pkg/segment"
)

// ErrCorruptCompactionState is the sentinel wrapped by CorruptStateError;
// compare with errors.Is.
var ErrCorruptCompactionState = fmt.Errorf("compaction state document failed to decode")

// CorruptStateError reports a LastCompactionState sub-document that a
// Decoder could not decode into its expected shape.
type CorruptStateError struct {
	Datasource string
	SegmentID  string
	Field      string
	Cause      error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("datasource %s segment %s: corrupt %s in last compaction state: %v",
		e.Datasource, e.SegmentID, e.Field, e.Cause)
}

func (e *CorruptStateError) Unwrap() error { return ErrCorruptCompactionState }

// NeedsCompaction implements §4.6: true if any of the ten diff
// conditions between cfg and the non-empty candidate batch's recorded
// last-compaction state holds. candidates must be non-empty; callers
// (pkg/planner's HolderCursor-driven loop) already guarantee this.
func NeedsCompaction(cfg *Config, decoder segment.Decoder, candidates []segment.Segment) (bool, error) {
	// 1: any candidate never compacted.
	for _, c := range candidates {
		if c.LastCompactionState == nil {
			return true, nil
		}
	}

	// 2: candidates disagree on LastCompactionState.
	first := candidates[0].LastCompactionState
	for _, c := range candidates[1:] {
		if !rawDocsEqual(first.PartitionsSpec, c.LastCompactionState.PartitionsSpec) ||
			!rawDocsEqual(first.IndexSpec, c.LastCompactionState.IndexSpec) ||
			!rawDocsEqual(first.GranularitySpec, c.LastCompactionState.GranularitySpec) ||
			!rawDocsEqual(first.DimensionsSpec, c.LastCompactionState.DimensionsSpec) ||
			!rawDocsEqual(first.TransformSpec, c.LastCompactionState.TransformSpec) ||
			!rawDocsEqual(first.MetricsSpec, c.LastCompactionState.MetricsSpec) {
			return true, nil
		}
	}

	state := first
	ds := candidates[0].Datasource
	segID := candidates[0].ID()

	// 3: effective partitionsSpec differs.
	var storedPartitions segment.PartitionsSpecState
	if err := decoder.Decode(state.PartitionsSpec, &storedPartitions); err != nil {
		return false, wrapCorrupt(ds, segID, "partitionsSpec", err)
	}
	wantPartitions := normalizePartitionsSpec(cfg.EffectivePartitionsSpec())
	gotPartitions := normalizePartitionsSpec(storedPartitions)
	if !cmp.Equal(wantPartitions, gotPartitions) {
		return true, nil
	}

	// 4: effective indexSpec differs.
	var storedIndex segment.IndexSpecState
	if err := decoder.Decode(state.IndexSpec, &storedIndex); err != nil {
		return false, wrapCorrupt(ds, segID, "indexSpec", err)
	}
	wantIndex := DefaultIndexSpec
	if cfg.IndexSpec != nil {
		wantIndex = *cfg.IndexSpec
	}
	gotIndex := storedIndex
	if state.IndexSpec == nil {
		gotIndex = DefaultIndexSpec
	}
	if !cmp.Equal(wantIndex, gotIndex) {
		return true, nil
	}

	// 5: segment granularity.
	if cfg.GranularitySpec != nil && cfg.GranularitySpec.SegmentGranularity != nil {
		var storedGran segment.GranularitySpecState
		if err := decoder.Decode(state.GranularitySpec, &storedGran); err != nil {
			return false, wrapCorrupt(ds, segID, "granularitySpec", err)
		}
		if state.GranularitySpec == nil {
			for _, c := range candidates {
				if !cfg.GranularitySpec.SegmentGranularity.IsAligned(c.Interval) {
					return true, nil
				}
			}
		} else if storedGran.SegmentGranularity != cfg.GranularitySpec.SegmentGranularityName {
			return true, nil
		}
	}

	// 6: rollup.
	if cfg.GranularitySpec != nil && cfg.GranularitySpec.Rollup != nil {
		var storedGran segment.GranularitySpecState
		if err := decoder.Decode(state.GranularitySpec, &storedGran); err != nil {
			return false, wrapCorrupt(ds, segID, "granularitySpec", err)
		}
		if storedGran.Rollup == nil || *storedGran.Rollup != *cfg.GranularitySpec.Rollup {
			return true, nil
		}
	}

	// 7: queryGranularity.
	if cfg.GranularitySpec != nil && cfg.GranularitySpec.QueryGranularity != nil {
		var storedGran segment.GranularitySpecState
		if err := decoder.Decode(state.GranularitySpec, &storedGran); err != nil {
			return false, wrapCorrupt(ds, segID, "granularitySpec", err)
		}
		if storedGran.QueryGranularity != *cfg.GranularitySpec.QueryGranularity {
			return true, nil
		}
	}

	// 8: dimensions.
	if len(cfg.DimensionsSpec) > 0 {
		var storedDims segment.DimensionsSpecState
		if err := decoder.Decode(state.DimensionsSpec, &storedDims); err != nil {
			return false, wrapCorrupt(ds, segID, "dimensionsSpec", err)
		}
		if !cmp.Equal(cfg.DimensionsSpec, storedDims.Dimensions) {
			return true, nil
		}
	}

	// 9: filter.
	if cfg.TransformFilter != nil {
		var storedTransform segment.TransformSpecState
		if err := decoder.Decode(state.TransformSpec, &storedTransform); err != nil {
			return false, wrapCorrupt(ds, segID, "transformSpec", err)
		}
		if !cmp.Equal(map[string]interface{}(cfg.TransformFilter), map[string]interface{}(storedTransform.Filter)) {
			return true, nil
		}
	}

	// 10: metrics, compared as an ordered array.
	if len(cfg.MetricsSpec) > 0 {
		var storedMetrics segment.MetricsSpecState
		if err := decoder.Decode(state.MetricsSpec, &storedMetrics); err != nil {
			return false, wrapCorrupt(ds, segID, "metricsSpec", err)
		}
		if !cmp.Equal(cfg.MetricsSpec, storedMetrics.Metrics) {
			return true, nil
		}
	}

	return false, nil
}

func wrapCorrupt(ds, segID, field string, cause error) error {
	return errors.WithStack(&CorruptStateError{Datasource: ds, SegmentID: segID, Field: field, Cause: cause})
}

func rawDocsEqual(a, b segment.RawDoc) bool {
	return cmp.Equal(map[string]interface{}(a), map[string]interface{}(b))
}
