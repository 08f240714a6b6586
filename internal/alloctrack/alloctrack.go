// Package alloctrack attributes allocator activity to the currently
// executing instrumented scope.
//
// A scope marker is pushed when an instrumented call begins and popped
// when it ends; the allocator hooks OnAlloc and OnDealloc charge every
// allocation to the innermost marker. The popped frame's numbers fold
// into its parent so nested scopes see their children's activity.
//
// # Hard precondition
//
// Attribution is only correct while every instrumented unit of work
// stays on a single goroutine, pinned to one OS thread for its whole
// duration (runtime.LockOSThread, or a strictly single-worker execution
// model). If the scheduler migrates work mid-scope, allocations after
// the migration are charged to the wrong marker and the numbers are
// silently wrong. The tracker has no way to detect this; it is a
// documented limitation, not a recoverable condition.
package alloctrack

import (
	"sync/atomic"

	"github.com/hotpath-go/hotpath/internal/event"
)

// MaxDepth bounds scope nesting. Exceeding it is a usage error and panics.
const MaxDepth = 64

// frame accumulates allocator activity for one active scope.
type frame struct {
	bytesCurrent int64
	bytesMax     uint64
	bytesTotal   uint64
	countCurrent int64
	countMax     uint64
	countTotal   uint64
}

// fold merges a popped child frame into its parent.
func (f *frame) fold(child frame) {
	f.bytesCurrent += child.bytesCurrent
	if child.bytesMax > f.bytesMax {
		f.bytesMax = child.bytesMax
	}
	f.bytesTotal += child.bytesTotal
	f.countCurrent += child.countCurrent
	if child.countMax > f.countMax {
		f.countMax = child.countMax
	}
	f.countTotal += child.countTotal
}

// value extracts the metric for the active kind at scope exit.
func (f *frame) value(kind event.Kind) uint64 {
	switch kind {
	case event.KindAllocBytesTotal:
		return f.bytesTotal
	case event.KindAllocBytesMax:
		return f.bytesMax
	case event.KindAllocCountTotal:
		return f.countTotal
	case event.KindAllocCountMax:
		return f.countMax
	default:
		return 0
	}
}

// Tracker state. The enabled flag keeps the hooks branch-cheap when no
// session is tracking allocations; everything else is unsynchronized
// and relies on the single-worker precondition above.
var (
	enabled atomic.Bool

	kind   event.Kind
	submit func(label string, value uint64)

	depth  int
	frames [MaxDepth + 1]frame
	labels [MaxDepth + 1]string
)

// Enable arms the tracker for one session. kind selects the single
// metric recorded per scope; submitFn receives one event per scope exit.
func Enable(k event.Kind, submitFn func(label string, value uint64)) {
	kind = k
	submit = submitFn
	depth = 0
	frames[0] = frame{}
	enabled.Store(true)
}

// Disable disarms the tracker. Hooks return to the fast no-op path.
func Disable() {
	enabled.Store(false)
	submit = nil
}

// Enabled reports whether a session is currently tracking allocations.
func Enabled() bool {
	return enabled.Load()
}

// Enter pushes a scope marker for label.
func Enter(label string) {
	if !enabled.Load() {
		return
	}
	if depth+1 > MaxDepth {
		panic("hotpath: allocation scope nesting exceeds MaxDepth")
	}
	depth++
	frames[depth] = frame{}
	labels[depth] = label
}

// Exit pops the innermost scope marker, folds its numbers into the
// parent, and submits the scope's metric.
func Exit() {
	if !enabled.Load() || depth == 0 {
		return
	}
	popped := frames[depth]
	label := labels[depth]
	depth--
	frames[depth].fold(popped)

	if submit != nil {
		submit(label, popped.value(kind))
	}
}

// OnAlloc is the allocator hook for one allocation of size bytes. It is
// a single atomic load when tracking is disabled or no scope is active.
func OnAlloc(size uint64) {
	if !enabled.Load() || depth == 0 {
		return
	}
	f := &frames[depth]
	switch kind {
	case event.KindAllocBytesTotal:
		f.bytesTotal += size
	case event.KindAllocBytesMax:
		f.bytesCurrent += int64(size)
		if f.bytesCurrent > 0 && uint64(f.bytesCurrent) > f.bytesMax {
			f.bytesMax = uint64(f.bytesCurrent)
		}
	case event.KindAllocCountTotal:
		f.countTotal++
	case event.KindAllocCountMax:
		f.countCurrent++
		if f.countCurrent > 0 && uint64(f.countCurrent) > f.countMax {
			f.countMax = uint64(f.countCurrent)
		}
	}
}

// OnDealloc is the allocator hook for one deallocation of size bytes.
// Only the high-water kinds care about releases.
func OnDealloc(size uint64) {
	if !enabled.Load() || depth == 0 {
		return
	}
	f := &frames[depth]
	switch kind {
	case event.KindAllocBytesMax:
		f.bytesCurrent -= int64(size)
	case event.KindAllocCountMax:
		f.countCurrent--
	}
}
