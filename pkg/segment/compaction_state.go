package segment

// RawDoc is an opaque key-value document as it arrives over the wire,
// e.g. unmarshaled JSON. The concrete shape of each field in
// LastCompactionState is only known to the Decoder that the caller
// injects at construction time (see Decoder below).
type RawDoc map[string]interface{}

// LastCompactionState records the policy a segment was last compacted
// under. Each field is carried as an opaque document and decoded on
// demand into a typed shape by a Decoder; a nil field means that
// dimension was not recorded (or not applicable) for this segment's last
// compaction.
type LastCompactionState struct {
	PartitionsSpec  RawDoc
	IndexSpec       RawDoc
	GranularitySpec RawDoc
	DimensionsSpec  RawDoc
	TransformSpec   RawDoc
	MetricsSpec     RawDoc
}

// PartitionsSpecState is the decoded shape of LastCompactionState.PartitionsSpec.
// Type distinguishes "dynamic" (row-count based) from other partitioning
// strategies (e.g. "hashed", "range"); only dynamic specs carry
// MaxRowsPerSegment/MaxTotalRows, the fields the needs-compaction
// predicate normalizes and compares.
type PartitionsSpecState struct {
	Type              string `mapstructure:"type"`
	MaxRowsPerSegment *int64 `mapstructure:"maxRowsPerSegment,omitempty"`
	MaxTotalRows      *int64 `mapstructure:"maxTotalRows,omitempty"`
	NumShards         *int   `mapstructure:"numShards,omitempty"`
	Partitions        *int   `mapstructure:"partitions,omitempty"`
}

// IndexSpecState is the decoded shape of LastCompactionState.IndexSpec.
type IndexSpecState struct {
	BitmapEncoding   string `mapstructure:"bitmap,omitempty"`
	DimensionCompression string `mapstructure:"dimensionCompression,omitempty"`
	MetricCompression    string `mapstructure:"metricCompression,omitempty"`
	LongEncoding     string `mapstructure:"longEncoding,omitempty"`
}

// GranularitySpecState is the decoded shape of LastCompactionState.GranularitySpec.
type GranularitySpecState struct {
	SegmentGranularity string `mapstructure:"segmentGranularity,omitempty"`
	QueryGranularity   string `mapstructure:"queryGranularity,omitempty"`
	Rollup             *bool  `mapstructure:"rollup,omitempty"`
}

// DimensionsSpecState is the decoded shape of LastCompactionState.DimensionsSpec.
type DimensionsSpecState struct {
	Dimensions []string `mapstructure:"dimensions,omitempty"`
}

// TransformSpecState is the decoded shape of LastCompactionState.TransformSpec.
type TransformSpecState struct {
	Filter RawDoc `mapstructure:"filter,omitempty"`
}

// MetricSpec is one entry of MetricsSpecState.Metrics.
type MetricSpec struct {
	Name      string `mapstructure:"name"`
	Type      string `mapstructure:"type"`
	FieldName string `mapstructure:"fieldName,omitempty"`
}

// MetricsSpecState is the decoded shape of LastCompactionState.MetricsSpec.
// Order matters: the needs-compaction predicate compares this as an
// ordered array, per spec.
type MetricsSpecState struct {
	Metrics []MetricSpec `mapstructure:"metrics,omitempty"`
}
