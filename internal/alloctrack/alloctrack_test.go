package alloctrack

import (
	"testing"

	"github.com/hotpath-go/hotpath/internal/event"
)

// collector records submitted events for assertions.
type collector struct {
	labels []string
	values []uint64
}

func (c *collector) submit(label string, value uint64) {
	c.labels = append(c.labels, label)
	c.values = append(c.values, value)
}

func track(t *testing.T, kind event.Kind) *collector {
	t.Helper()
	c := &collector{}
	Enable(kind, c.submit)
	t.Cleanup(Disable)
	return c
}

func TestBytesTotal(t *testing.T) {
	c := track(t, event.KindAllocBytesTotal)

	Enter("load")
	OnAlloc(100)
	OnAlloc(28)
	OnDealloc(100) // releases do not reduce the total
	Exit()

	if len(c.values) != 1 {
		t.Fatalf("submitted %d events, want 1 per scope exit", len(c.values))
	}
	if c.labels[0] != "load" || c.values[0] != 128 {
		t.Errorf("got %s=%d, want load=128", c.labels[0], c.values[0])
	}
}

func TestBytesMax_HighWaterMark(t *testing.T) {
	c := track(t, event.KindAllocBytesMax)

	Enter("spike")
	OnAlloc(100)
	OnAlloc(200) // 300 held
	OnDealloc(250)
	OnAlloc(50) // 100 held
	Exit()

	if c.values[0] != 300 {
		t.Errorf("bytes max = %d, want high-water 300", c.values[0])
	}
}

func TestCountTotal(t *testing.T) {
	c := track(t, event.KindAllocCountTotal)

	Enter("loop")
	for i := 0; i < 7; i++ {
		OnAlloc(8)
		OnDealloc(8)
	}
	Exit()

	if c.values[0] != 7 {
		t.Errorf("count total = %d, want 7", c.values[0])
	}
}

func TestCountMax_PeakLiveAllocations(t *testing.T) {
	c := track(t, event.KindAllocCountMax)

	Enter("pool")
	OnAlloc(1)
	OnAlloc(1)
	OnAlloc(1) // 3 live
	OnDealloc(1)
	OnAlloc(1) // back to 3, no new peak
	Exit()

	if c.values[0] != 3 {
		t.Errorf("count max = %d, want peak 3", c.values[0])
	}
}

func TestNestedScopes_FoldIntoParent(t *testing.T) {
	c := track(t, event.KindAllocBytesTotal)

	Enter("outer")
	OnAlloc(10)
	Enter("inner")
	OnAlloc(100)
	Exit() // inner: 100
	OnAlloc(5)
	Exit() // outer: 10 + 100 (folded) + 5

	if len(c.values) != 2 {
		t.Fatalf("submitted %d events, want 2", len(c.values))
	}
	if c.labels[0] != "inner" || c.values[0] != 100 {
		t.Errorf("inner = %d, want 100", c.values[0])
	}
	if c.labels[1] != "outer" || c.values[1] != 115 {
		t.Errorf("outer = %d, want 115 including folded child", c.values[1])
	}
}

func TestNestedScopes_MaxFoldsAsMax(t *testing.T) {
	c := track(t, event.KindAllocBytesMax)

	Enter("outer")
	OnAlloc(50)
	Enter("inner")
	OnAlloc(300)
	OnDealloc(300)
	Exit() // inner high-water 300, net 0
	Exit() // outer held 50, child peak folds in as max

	if c.values[0] != 300 {
		t.Errorf("inner max = %d, want 300", c.values[0])
	}
	if c.values[1] != 300 {
		t.Errorf("outer max = %d, want folded child peak 300", c.values[1])
	}
}

func TestHooksAreNoopWhenDisabled(t *testing.T) {
	if Enabled() {
		t.Fatal("tracker unexpectedly enabled at test start")
	}

	// Must not panic and must not record anything.
	OnAlloc(100)
	OnDealloc(100)
	Enter("ignored")
	Exit()
}

func TestHooksOutsideScopeAreIgnored(t *testing.T) {
	c := track(t, event.KindAllocBytesTotal)

	OnAlloc(999) // no scope active: charged to nothing

	Enter("scoped")
	OnAlloc(1)
	Exit()

	if c.values[0] != 1 {
		t.Errorf("scoped total = %d, want 1 (out-of-scope alloc must not leak in)", c.values[0])
	}
}
