package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// jsonReport is the wire shape of a JSON report. Values are raw
// integers in the session's unit (nanoseconds, bytes or counts);
// percent_total is in basis points (1% = 100) so the payload
// round-trips without float formatting loss.
type jsonReport struct {
	ProfilingMode string                       `json:"profiling_mode"`
	TotalElapsed  uint64                       `json:"total_elapsed"`
	Description   string                       `json:"description"`
	CallerName    string                       `json:"caller_name"`
	Output        map[string]map[string]uint64 `json:"output"`
}

func buildJSON(s *Summary) *jsonReport {
	out := make(map[string]map[string]uint64, len(s.Rows))
	for _, row := range s.Rows {
		entry := map[string]uint64{
			"calls":         row.Calls,
			"avg":           row.Avg,
			"total":         row.Total,
			"percent_total": uint64(math.Round(row.Percent * 100)),
			"dropped":       row.Dropped,
		}
		for i, p := range s.Percentiles {
			entry[fmt.Sprintf("p%d", p)] = uint64(math.Round(row.Percentiles[i]))
		}
		out[row.Label] = entry
	}
	return &jsonReport{
		ProfilingMode: s.Mode.String(),
		TotalElapsed:  uint64(s.Elapsed.Nanoseconds()),
		Description:   s.Description(),
		CallerName:    s.Name,
		Output:        out,
	}
}

// JSONReporter renders a summary as a single-line JSON object.
type JSONReporter struct{}

func (JSONReporter) Report(w io.Writer, s *Summary) error {
	data, err := json.Marshal(buildJSON(s))
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// JSONPrettyReporter renders a summary as indented JSON.
type JSONPrettyReporter struct{}

func (JSONPrettyReporter) Report(w io.Writer, s *Summary) error {
	data, err := json.MarshalIndent(buildJSON(s), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
