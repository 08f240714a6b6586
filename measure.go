package hotpath

import (
	"time"

	"github.com/hotpath-go/hotpath/internal/alloctrack"
)

func noop() {}

// Measure instruments one call or block. The returned function must be
// invoked when the scope ends, typically via defer:
//
//	defer hotpath.Measure("parse_header")()
//
// In timing mode it records the elapsed time; in allocation modes it
// pushes a scope marker and records the scope's allocation metric on
// release. With no active session both paths are no-ops.
//
// Multiple call sites may share a label; their measurements merge into
// one aggregate.
func Measure(label string) func() {
	s := active.Load()
	if s == nil {
		return noop
	}

	if s.kind.IsAlloc() {
		alloctrack.Enter(label)
		return alloctrack.Exit
	}

	start := time.Now()
	return func() {
		s.submit(label, uint64(time.Since(start).Nanoseconds()))
	}
}

// MeasureBlock runs fn under a measurement scope for label.
func MeasureBlock(label string, fn func()) {
	defer Measure(label)()
	fn()
}
