// Package stats maintains per-label running aggregates and computes
// percentile distributions at finalize time.
package stats

// LabelStats is the running aggregate for one label.
//
// It is created on the first event for a label and mutated exclusively
// by the aggregator goroutine, so no locking is needed on the struct
// itself. Count, Sum, Min and Max are exact regardless of the sample
// store in use; only percentiles depend on the store.
type LabelStats struct {
	Count uint64
	Sum   uint64
	Min   uint64
	Max   uint64

	store SampleStore
}

// Merge folds one measurement value into the aggregate.
func (s *LabelStats) Merge(value uint64) {
	if s.Count == 0 || value < s.Min {
		s.Min = value
	}
	if s.Count == 0 || value > s.Max {
		s.Max = value
	}
	s.Count++
	s.Sum += value
	s.store.Record(value)
}

// Avg returns the exact mean of all merged values, truncated to an integer.
func (s *LabelStats) Avg() uint64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / s.Count
}

// Percentile returns the requested percentile over the merged values.
// P0 is the exact minimum and P100 the exact maximum for any store.
func (s *LabelStats) Percentile(p int) float64 {
	switch {
	case s.Count == 0:
		return 0
	case p <= 0:
		return float64(s.Min)
	case p >= 100:
		return float64(s.Max)
	default:
		return s.store.Percentile(p)
	}
}

// Table is the label statistics table owned by the aggregator.
//
// Single-writer: only the aggregator goroutine touches it while a
// session is active. It is frozen and handed off at finalize.
type Table struct {
	labels   map[string]*LabelStats
	newStore func() SampleStore
}

// NewTable creates an empty table whose entries use the given sample store.
func NewTable(newStore func() SampleStore) *Table {
	return &Table{
		labels:   make(map[string]*LabelStats),
		newStore: newStore,
	}
}

// Merge folds one measurement into the entry for label, creating the
// entry if this is the label's first event.
func (t *Table) Merge(label string, value uint64) {
	s, ok := t.labels[label]
	if !ok {
		s = &LabelStats{store: t.newStore()}
		t.labels[label] = s
	}
	s.Merge(value)
}

// Get returns the stats for a label, or nil if the label never received
// an event.
func (t *Table) Get(label string) *LabelStats {
	return t.labels[label]
}

// Len returns the number of labels with at least one merged event.
func (t *Table) Len() int {
	return len(t.labels)
}

// Labels returns the label set in map order.
func (t *Table) Labels() []string {
	out := make([]string, 0, len(t.labels))
	for label := range t.labels {
		out = append(out, label)
	}
	return out
}

// SumTotals returns the sum of every label's total, used as the
// percent-of-total base when no root scope is distinguished.
func (t *Table) SumTotals() uint64 {
	var sum uint64
	for _, s := range t.labels {
		sum += s.Sum
	}
	return sum
}
