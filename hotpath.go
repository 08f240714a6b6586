package hotpath

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hotpath-go/hotpath/internal/alloctrack"
	"github.com/hotpath-go/hotpath/internal/event"
	"github.com/hotpath-go/hotpath/internal/pipeline"
	"github.com/hotpath-go/hotpath/internal/report"
	"github.com/hotpath-go/hotpath/internal/stats"
)

// active is the process-wide session slot. Compare-and-swap keeps two
// concurrent Start calls from both succeeding.
var active atomic.Pointer[Session]

// Session owns the event channel's consumer side and the aggregator
// goroutine for one bounded measurement period.
//
// The lifecycle is Uninitialized -> Active -> Finalized: Start
// transitions to Active, Stop to Finalized. A finalized session is
// inert; a new one may be started afterwards. If the process exits
// without Stop running (os.Exit, a fatal signal), no report is
// produced. That is documented behavior, not an error.
type Session struct {
	cfg      config
	name     string
	kind     event.Kind
	pipe     *pipeline.Pipeline
	started  time.Time
	stopOnce sync.Once
}

// Start opens a session and spawns the aggregator goroutine.
//
// It panics if a session is already active anywhere in the process, or
// if any configured percentile is outside [0, 100]. Both are fatal
// usage errors: crashing loudly beats silently mixing two sessions'
// statistics.
func Start(name string, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, p := range cfg.percentiles {
		if p < 0 || p > 100 {
			panic(fmt.Sprintf("hotpath: percentile %d out of range [0, 100]", p))
		}
	}

	kind := cfg.mode.kind()
	s := &Session{
		cfg:     cfg,
		name:    name,
		kind:    kind,
		pipe:    pipeline.New(kind, cfg.capacity, stats.NewTable(cfg.newStore)),
		started: time.Now(),
	}

	// Publish the session only when it is fully constructed: a losing
	// CAS is fatal, so the spare aggregator goroutine never matters.
	if !active.CompareAndSwap(nil, s) {
		panic("hotpath: a session is already active; only one session may run at a time")
	}

	if kind.IsAlloc() {
		alloctrack.Enable(kind, s.submit)
	}

	cfg.logger.Debug("session started",
		zap.String("session", name),
		zap.String("mode", kind.String()),
		zap.Int("capacity", cfg.capacity))

	return s
}

// Stop finalizes the session: it signals the aggregator to stop after
// draining every buffered event, waits for it to finish, computes the
// requested percentiles and renders the report synchronously. Stop is
// idempotent and safe to defer on every exit path; only the first call
// does anything.
//
// A reporter failure panics rather than leaving a half-written report
// behind: a session runs once and is not retried.
func (s *Session) Stop() {
	s.stopOnce.Do(s.finalize)
}

func (s *Session) finalize() {
	elapsed := time.Since(s.started)

	active.CompareAndSwap(s, nil)
	if s.kind.IsAlloc() {
		alloctrack.Disable()
	}

	table := s.pipe.Drain()
	drops := s.pipe.Drops()

	for label, n := range drops {
		s.cfg.logger.Warn("events dropped",
			zap.String("session", s.name),
			zap.String("label", label),
			zap.Uint64("count", n))
	}

	summary := report.Build(s.name, s.kind, elapsed, s.cfg.percentiles, table, drops, s.cfg.limit)

	if err := s.reporter().Report(s.cfg.writer, summary); err != nil {
		panic(fmt.Sprintf("hotpath: rendering report: %v", err))
	}
}

func (s *Session) reporter() report.Reporter {
	switch s.cfg.format {
	case FormatJSON:
		return report.JSONReporter{}
	case FormatJSONPretty:
		return report.JSONPrettyReporter{}
	default:
		return &report.TableReporter{ForceColor: s.cfg.forceColor, NoColor: s.cfg.noColor}
	}
}

// submit is the internal fire-and-forget path used by guards.
func (s *Session) submit(label string, value uint64) {
	s.pipe.Send(event.Event{Label: label, Kind: s.kind, Value: value})
}

// Submit records one measurement for label in the active session's
// kind. It never blocks and never fails observably: with no active
// session it is a no-op, and a full buffer counts as a drop surfaced in
// the end-of-session diagnostics.
func Submit(label string, value uint64) {
	if s := active.Load(); s != nil {
		s.submit(label, value)
	}
}

// OnAlloc is the allocator integration hook for one allocation of size
// bytes. Call it from the host's allocation instrumentation. It is
// branch-cheap when no allocation session is active.
func OnAlloc(size uint64) {
	alloctrack.OnAlloc(size)
}

// OnDealloc is the allocator integration hook for one deallocation of
// size bytes.
func OnDealloc(size uint64) {
	alloctrack.OnDealloc(size)
}
