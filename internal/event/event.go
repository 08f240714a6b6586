// Package event defines the measurement event carried from instrumented
// call sites to the aggregator.
package event

// Kind identifies what a measurement value represents. Exactly one kind
// is active per session; the kinds are mutually exclusive profiling modes.
type Kind int

const (
	// KindTiming measures elapsed time in nanoseconds.
	KindTiming Kind = iota

	// KindAllocBytesTotal measures total bytes allocated within a scope.
	KindAllocBytesTotal

	// KindAllocBytesMax measures the high-water mark of bytes held within a scope.
	KindAllocBytesMax

	// KindAllocCountTotal measures the total number of allocations within a scope.
	KindAllocCountTotal

	// KindAllocCountMax measures the peak number of live allocations within a scope.
	KindAllocCountMax
)

// String returns the wire identifier used in JSON reports.
func (k Kind) String() string {
	switch k {
	case KindTiming:
		return "timing"
	case KindAllocBytesTotal:
		return "alloc-bytes-total"
	case KindAllocBytesMax:
		return "alloc-bytes-max"
	case KindAllocCountTotal:
		return "alloc-count-total"
	case KindAllocCountMax:
		return "alloc-count-max"
	default:
		return "unknown"
	}
}

// ParseKind converts a wire identifier back into a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "timing":
		return KindTiming, true
	case "alloc-bytes-total":
		return KindAllocBytesTotal, true
	case "alloc-bytes-max":
		return KindAllocBytesMax, true
	case "alloc-count-total":
		return KindAllocCountTotal, true
	case "alloc-count-max":
		return KindAllocCountMax, true
	default:
		return 0, false
	}
}

// IsAlloc reports whether the kind measures allocator activity rather than time.
func (k Kind) IsAlloc() bool {
	return k != KindTiming
}

// Event is one immutable observation submitted by an instrumented call
// site. Ownership transfers to the channel on send; the aggregator
// consumes each event exactly once.
type Event struct {
	Label string
	Kind  Kind
	Value uint64
}
