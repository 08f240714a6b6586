package hotpath

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/hotpath-go/hotpath/internal/event"
	"github.com/hotpath-go/hotpath/internal/stats"
)

// Format selects how the final report is rendered.
type Format int

const (
	// FormatTable renders an aligned text table (the default).
	FormatTable Format = iota

	// FormatJSON renders a single-line JSON object.
	FormatJSON

	// FormatJSONPretty renders indented JSON.
	FormatJSONPretty
)

// ParseFormat converts a format name ("table", "json", "json-pretty")
// into a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "table", "":
		return FormatTable, true
	case "json":
		return FormatJSON, true
	case "json-pretty":
		return FormatJSONPretty, true
	default:
		return 0, false
	}
}

// Mode selects the measurement kind for a session. Exactly one kind is
// active per session: tracking several allocation metrics at once would
// double the hook cost on every allocation in the process.
type Mode int

const (
	// ModeTiming measures call durations (the default).
	ModeTiming Mode = iota

	// ModeAllocBytesTotal measures total bytes allocated per scope.
	ModeAllocBytesTotal

	// ModeAllocBytesMax measures the high-water mark of bytes held per scope.
	ModeAllocBytesMax

	// ModeAllocCountTotal measures total allocations per scope.
	ModeAllocCountTotal

	// ModeAllocCountMax measures peak live allocations per scope.
	ModeAllocCountMax
)

// ParseMode converts a mode name into a Mode. Names match the JSON
// profiling_mode identifiers.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "timing", "":
		return ModeTiming, true
	case "alloc-bytes-total":
		return ModeAllocBytesTotal, true
	case "alloc-bytes-max":
		return ModeAllocBytesMax, true
	case "alloc-count-total":
		return ModeAllocCountTotal, true
	case "alloc-count-max":
		return ModeAllocCountMax, true
	default:
		return 0, false
	}
}

func (m Mode) kind() event.Kind {
	switch m {
	case ModeAllocBytesTotal:
		return event.KindAllocBytesTotal
	case ModeAllocBytesMax:
		return event.KindAllocBytesMax
	case ModeAllocCountTotal:
		return event.KindAllocCountTotal
	case ModeAllocCountMax:
		return event.KindAllocCountMax
	default:
		return event.KindTiming
	}
}

// DefaultCapacity is the channel capacity used when WithCapacity is not given.
const DefaultCapacity = 10000

type config struct {
	percentiles []int
	format      Format
	mode        Mode
	capacity    int
	limit       int
	writer      io.Writer
	logger      *zap.Logger
	newStore    func() stats.SampleStore
	forceColor  bool
	noColor     bool
}

func defaultConfig() config {
	return config{
		percentiles: []int{95},
		format:      FormatTable,
		mode:        ModeTiming,
		capacity:    DefaultCapacity,
		writer:      os.Stdout,
		logger:      zap.NewNop(),
		newStore:    stats.NewExactStore,
	}
}

// Option configures a session at start.
type Option func(*config)

// WithPercentiles sets the percentile points included in the report, in
// the given order. Values must be within [0, 100]; an out-of-range
// value is a fatal configuration error and Start panics.
func WithPercentiles(percentiles ...int) Option {
	return func(c *config) { c.percentiles = percentiles }
}

// WithFormat selects the output format.
func WithFormat(f Format) Option {
	return func(c *config) { c.format = f }
}

// WithMode selects the measurement kind.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithCapacity sets the event channel capacity, fixed for the session's
// lifetime. Larger buffers reduce drops under bursty load at the cost
// of memory.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithLimit keeps only the top n rows of the report, annotated with the
// shown/total count. n <= 0 keeps every row.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// WithWriter directs the report to w instead of standard output.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.writer = w
		}
	}
}

// WithLogger sets the logger used for session diagnostics, such as
// dropped-event warnings at finalize. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// SketchConfig configures the HDR histogram percentile sketch enabled
// by WithSketch. Zero values fall back to defaults (recordable range
// 1ns to 1 hour, 3 significant figures).
type SketchConfig struct {
	MinValue int64
	MaxValue int64
	SigFigs  int
}

// WithSketch replaces the exact retained-sample percentile store with
// an HDR histogram sketch. Percentiles become approximate to the
// configured significant figures, but memory stays constant regardless
// of call volume. This is a deliberate scalability trade-off for very
// high call volumes; the default exact store is preferable otherwise.
func WithSketch(cfg SketchConfig) Option {
	return func(c *config) {
		c.newStore = stats.NewSketchStore(stats.SketchConfig{
			MinValue: cfg.MinValue,
			MaxValue: cfg.MaxValue,
			SigFigs:  cfg.SigFigs,
		})
	}
}

// WithColor forces colorized table output even when the writer is not a
// terminal.
func WithColor() Option {
	return func(c *config) { c.forceColor = true }
}

// WithoutColor disables colorized table output unconditionally.
func WithoutColor() Option {
	return func(c *config) { c.noColor = true }
}
