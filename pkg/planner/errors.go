package planner

import (
	"errors"
	"fmt"
)

// ErrEndOfIteration is returned by Next once the queue is empty. It is
// the normal terminal signal, not a fault.
var ErrEndOfIteration = errors.New("planner: end of iteration")

// UnknownDatasourceError is returned by New when a configured datasource
// has no corresponding timeline. Fatal to construction.
type UnknownDatasourceError struct {
	Datasource string
}

func (e *UnknownDatasourceError) Error() string {
	return fmt.Sprintf("planner: datasource %q has a compaction config but no timeline", e.Datasource)
}

// InvariantViolationError reports a timeline-library bug: a cursor
// yielded an empty batch, or First()/Last() returned nothing for a
// timeline that should be non-empty. It aborts iteration for the
// affected datasource only, never the whole process.
type InvariantViolationError struct {
	Datasource string
	Msg        string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("planner: invariant violation for datasource %q: %s", e.Datasource, e.Msg)
}
