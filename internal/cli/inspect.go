package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/hotpath-go/hotpath/internal/report"
)

var inspectValidate bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <report.json>",
	Short: "Re-render a previously emitted JSON report",
	Long: `Parse a JSON report emitted by a session and render it as a table.

  hotpath inspect report.json
  hotpath inspect --validate report.json

With --validate the report is first checked against the canonical
report schema.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspectReport(cmd, args[0])
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectValidate, "validate", false, "validate the report against the schema first")
}

// inspectRow is one label's metrics parsed back out of a JSON report.
type inspectRow struct {
	label   string
	fields  map[string]uint64
	percent float64
}

// isPercentileKey matches p<N> field names like "p50" or "p99".
func isPercentileKey(key string) bool {
	if len(key) < 2 || key[0] != 'p' {
		return false
	}
	for _, c := range key[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func inspectReport(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	if inspectValidate {
		if err := report.ValidateJSON(data); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "report is valid")
	}

	doc := gjson.ParseBytes(data)
	mode := doc.Get("profiling_mode")
	output := doc.Get("output")
	if !mode.Exists() || !output.IsObject() {
		return fmt.Errorf("%s: not a hotpath report", path)
	}

	// Percentile columns are recovered from the first entry's p<N> keys.
	var percentiles []string
	for _, entry := range output.Map() {
		for key := range entry.Map() {
			if isPercentileKey(key) {
				percentiles = append(percentiles, key)
			}
		}
		break
	}
	sort.Slice(percentiles, func(i, j int) bool {
		return len(percentiles[i]) < len(percentiles[j]) ||
			(len(percentiles[i]) == len(percentiles[j]) && percentiles[i] < percentiles[j])
	})

	rows := make([]inspectRow, 0, len(output.Map()))
	for label, entry := range output.Map() {
		fields := make(map[string]uint64)
		entry.ForEach(func(key, value gjson.Result) bool {
			fields[key.String()] = value.Uint()
			return true
		})
		rows = append(rows, inspectRow{
			label:   label,
			fields:  fields,
			percent: float64(fields["percent_total"]) / 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].percent != rows[j].percent {
			return rows[i].percent > rows[j].percent
		}
		return rows[i].label < rows[j].label
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[hotpath] %s - %s (%s)\n",
		mode.String(), doc.Get("description").String(), doc.Get("caller_name").String())

	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	headers := []string{"Function", "Calls", "Avg"}
	for _, p := range percentiles {
		headers = append(headers, strings.ToUpper(p))
	}
	headers = append(headers, "Total", "% Total", "Dropped")
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range rows {
		cells := []string{
			row.label,
			fmt.Sprintf("%d", row.fields["calls"]),
			fmt.Sprintf("%d", row.fields["avg"]),
		}
		for _, p := range percentiles {
			cells = append(cells, fmt.Sprintf("%d", row.fields[p]))
		}
		cells = append(cells,
			fmt.Sprintf("%d", row.fields["total"]),
			fmt.Sprintf("%.2f%%", row.percent),
			fmt.Sprintf("%d", row.fields["dropped"]),
		)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
