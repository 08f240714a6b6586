package stats

import (
	"math"
	"sort"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// SampleStore retains enough of the per-label sample multiset to answer
// percentile queries at finalize time.
//
// The exact store keeps every sample and interpolates over the sorted
// set; the sketch store trades exactness for bounded memory on very
// high call volumes.
type SampleStore interface {
	// Record adds one sample.
	Record(value uint64)

	// Percentile returns the value at percentile p for 0 < p < 100.
	// The caller handles p == 0 and p == 100 from the exact min/max.
	Percentile(p int) float64
}

// exactStore retains the full sample set. Percentiles are computed by
// linear interpolation between the two nearest ranks of the sorted set,
// which is deterministic and exact. Memory grows with call volume.
type exactStore struct {
	samples []uint64
	sorted  bool
}

// NewExactStore returns the default sample store.
func NewExactStore() SampleStore {
	return &exactStore{}
}

func (s *exactStore) Record(value uint64) {
	s.samples = append(s.samples, value)
	s.sorted = false
}

func (s *exactStore) Percentile(p int) float64 {
	n := len(s.samples)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return float64(s.samples[0])
	}
	if !s.sorted {
		sort.Slice(s.samples, func(i, j int) bool { return s.samples[i] < s.samples[j] })
		s.sorted = true
	}

	rank := float64(p) / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return float64(s.samples[lo])
	}
	frac := rank - float64(lo)
	return float64(s.samples[lo]) + frac*(float64(s.samples[hi])-float64(s.samples[lo]))
}

// SketchConfig configures the HDR histogram sample store.
type SketchConfig struct {
	// MinValue is the lowest recordable value (default: 1).
	MinValue int64

	// MaxValue is the highest recordable value (default: 1 hour in
	// nanoseconds, which also comfortably covers byte counts).
	MaxValue int64

	// SigFigs is the number of significant figures (default: 3).
	SigFigs int
}

// DefaultSketchConfig returns the default sketch configuration.
func DefaultSketchConfig() SketchConfig {
	return SketchConfig{
		MinValue: 1,
		MaxValue: 3_600_000_000_000, // 1 hour in nanoseconds
		SigFigs:  3,
	}
}

// sketchStore answers percentile queries from an HDR histogram instead
// of retained samples. Values are accurate to the configured number of
// significant figures; memory is constant regardless of call volume.
type sketchStore struct {
	hist *hdrhistogram.Histogram
	min  int64
	max  int64
}

// NewSketchStore returns a store factory for the given configuration.
func NewSketchStore(cfg SketchConfig) func() SampleStore {
	if cfg.MinValue <= 0 {
		cfg.MinValue = 1
	}
	if cfg.MaxValue <= cfg.MinValue {
		cfg.MaxValue = DefaultSketchConfig().MaxValue
	}
	if cfg.SigFigs < 1 || cfg.SigFigs > 5 {
		cfg.SigFigs = 3
	}
	return func() SampleStore {
		return &sketchStore{
			hist: hdrhistogram.New(cfg.MinValue, cfg.MaxValue, cfg.SigFigs),
			min:  cfg.MinValue,
			max:  cfg.MaxValue,
		}
	}
}

func (s *sketchStore) Record(value uint64) {
	v := int64(value)
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	// RecordValue only fails for out-of-range values, which are clamped above.
	_ = s.hist.RecordValue(v)
}

func (s *sketchStore) Percentile(p int) float64 {
	return float64(s.hist.ValueAtQuantile(float64(p)))
}
