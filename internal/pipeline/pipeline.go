// Package pipeline carries events from instrumented call sites to the
// single aggregator goroutine.
//
// The producer side never blocks: when the buffer is full the event is
// dropped and a per-label drop counter is incremented, so data loss is
// observable in the final report instead of being hidden. The buffered
// channel is the only synchronization boundary; the statistics table is
// touched by the aggregator goroutine alone.
package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/hotpath-go/hotpath/internal/event"
	"github.com/hotpath-go/hotpath/internal/stats"
)

// Pipeline owns the bounded event channel and the aggregator goroutine
// for one session.
type Pipeline struct {
	kind   event.Kind
	events chan event.Event
	stop   chan struct{}
	done   chan *stats.Table

	stopped atomic.Bool

	// label -> *atomic.Uint64; written by arbitrary producers, read at finalize.
	drops sync.Map
}

// New opens a channel with the given capacity and spawns the aggregator
// goroutine. Events whose kind does not match the session kind are
// counted as dropped rather than merged.
func New(kind event.Kind, capacity int, table *stats.Table) *Pipeline {
	p := &Pipeline{
		kind:   kind,
		events: make(chan event.Event, capacity),
		stop:   make(chan struct{}),
		done:   make(chan *stats.Table, 1),
	}
	go p.run(table)
	return p
}

// Send submits one event without blocking. It reports whether the event
// was accepted; a full buffer or a kind mismatch counts as a drop.
// Events submitted after Drain has begun are discarded silently.
func (p *Pipeline) Send(ev event.Event) bool {
	if p.stopped.Load() {
		return false
	}
	if ev.Kind != p.kind {
		p.countDrop(ev.Label)
		return false
	}
	select {
	case p.events <- ev:
		return true
	default:
		p.countDrop(ev.Label)
		return false
	}
}

func (p *Pipeline) countDrop(label string) {
	c, ok := p.drops.Load(label)
	if !ok {
		c, _ = p.drops.LoadOrStore(label, new(atomic.Uint64))
	}
	c.(*atomic.Uint64).Add(1)
}

// run is the aggregator loop: the sole writer of the statistics table.
func (p *Pipeline) run(table *stats.Table) {
	for {
		select {
		case ev := <-p.events:
			table.Merge(ev.Label, ev.Value)
		case <-p.stop:
			// Drain whatever is still buffered before finalizing.
			for {
				select {
				case ev := <-p.events:
					table.Merge(ev.Label, ev.Value)
				default:
					p.done <- table
					return
				}
			}
		}
	}
}

// Drain signals the aggregator to stop, waits for it to consume every
// buffered event, and returns the finalized table. This is the one
// intentional blocking point in the system. Drain must be called
// exactly once.
func (p *Pipeline) Drain() *stats.Table {
	p.stopped.Store(true)
	close(p.stop)
	return <-p.done
}

// Drops returns the per-label dropped-event counts accumulated so far.
func (p *Pipeline) Drops() map[string]uint64 {
	out := make(map[string]uint64)
	p.drops.Range(func(key, value any) bool {
		if n := value.(*atomic.Uint64).Load(); n > 0 {
			out[key.(string)] = n
		}
		return true
	})
	return out
}
