package metrics

import "time"

// ResolverMetrics provides observability for mount table loading and path
// resolution.
//
// This interface is optional - if not provided, a no-op implementation is
// used.
type ResolverMetrics interface {
	// RecordOperation records a completed resolver operation.
	//
	// Parameters:
	//   - operation: operation name (e.g., "resolve", "classify", "origin")
	//   - duration: time taken
	//   - err: error if the operation failed, nil if successful
	RecordOperation(operation string, duration time.Duration, err error)

	// RecordClassification counts a locality decision for a filesystem type.
	RecordClassification(fsType string, locality string)

	// RecordTableLoad records a mount table load from source with the number
	// of entries kept.
	RecordTableLoad(source string, entries int, err error)
}

// NewNoopResolverMetrics returns a ResolverMetrics that discards everything.
func NewNoopResolverMetrics() ResolverMetrics {
	return noopResolverMetrics{}
}

// OrNoop returns m, or the no-op implementation when m is nil.
func OrNoop(m ResolverMetrics) ResolverMetrics {
	if m == nil {
		return noopResolverMetrics{}
	}
	return m
}

type noopResolverMetrics struct{}

func (noopResolverMetrics) RecordOperation(operation string, duration time.Duration, err error) {}
func (noopResolverMetrics) RecordClassification(fsType string, locality string)                {}
func (noopResolverMetrics) RecordTableLoad(source string, entries int, err error)              {}
