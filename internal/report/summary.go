// Package report renders finalized session statistics as a text table
// or a JSON payload.
package report

import (
	"io"
	"sort"
	"time"

	"github.com/hotpath-go/hotpath/internal/event"
	"github.com/hotpath-go/hotpath/internal/stats"
)

// Row is the finalized, render-ready view of one label.
type Row struct {
	Label       string
	Calls       uint64
	Avg         uint64
	Percentiles []float64
	Total       uint64
	Percent     float64
	Dropped     uint64
}

// Summary is the finalized report content handed to a Reporter.
type Summary struct {
	// Name is the session name, shown in the report header.
	Name string

	// Mode is the measurement kind that was active for the session.
	Mode event.Kind

	// Elapsed is the wall-clock duration of the session.
	Elapsed time.Duration

	// Percentiles are the requested percentile points, in request order.
	Percentiles []int

	// Rows are sorted by descending percent-of-total contribution,
	// truncated to the configured limit.
	Rows []Row

	// TotalLabels is the label count before the limit was applied.
	TotalLabels int

	// TotalDropped is the number of events dropped across all labels,
	// including labels that never had an event merged.
	TotalDropped uint64
}

// Reporter renders a summary to a writer.
type Reporter interface {
	Report(w io.Writer, s *Summary) error
}

// Build freezes a statistics table into a Summary.
//
// For timing sessions the percent-of-total base is the session's
// elapsed time (the root scope); for allocation sessions it is the sum
// of all labels' totals. limit <= 0 keeps every row.
func Build(name string, mode event.Kind, elapsed time.Duration, percentiles []int, table *stats.Table, drops map[string]uint64, limit int) *Summary {
	base := float64(elapsed.Nanoseconds())
	if mode.IsAlloc() {
		base = float64(table.SumTotals())
	}

	rows := make([]Row, 0, table.Len())
	for _, label := range table.Labels() {
		s := table.Get(label)
		row := Row{
			Label:       label,
			Calls:       s.Count,
			Avg:         s.Avg(),
			Percentiles: make([]float64, 0, len(percentiles)),
			Total:       s.Sum,
			Dropped:     drops[label],
		}
		for _, p := range percentiles {
			row.Percentiles = append(row.Percentiles, s.Percentile(p))
		}
		if base > 0 {
			row.Percent = float64(s.Sum) / base * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Percent != rows[j].Percent {
			return rows[i].Percent > rows[j].Percent
		}
		return rows[i].Label < rows[j].Label
	})

	total := len(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	var totalDropped uint64
	for _, n := range drops {
		totalDropped += n
	}

	return &Summary{
		Name:         name,
		Mode:         mode,
		Elapsed:      elapsed,
		Percentiles:  percentiles,
		Rows:         rows,
		TotalLabels:  total,
		TotalDropped: totalDropped,
	}
}

// Description returns the human heading for the summary's mode.
func (s *Summary) Description() string {
	switch s.Mode {
	case event.KindAllocBytesTotal:
		return "Bytes allocated"
	case event.KindAllocBytesMax:
		return "Max bytes held"
	case event.KindAllocCountTotal:
		return "Total allocation count"
	case event.KindAllocCountMax:
		return "Max live allocations"
	default:
		return "Time metrics"
	}
}
