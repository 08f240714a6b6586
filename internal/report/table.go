package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// TableReporter renders a summary as an aligned text table, colorized
// when the writer is a terminal.
type TableReporter struct {
	// ForceColor and NoColor override terminal detection.
	ForceColor bool
	NoColor    bool
}

// Report writes the table. Rows are already sorted by descending
// percent-of-total; a Dropped column appears only when any label
// dropped events.
func (r *TableReporter) Report(w io.Writer, s *Summary) error {
	useColor := r.useColor(w)

	title := color.New(color.FgBlue, color.Bold)
	name := color.New(color.FgYellow, color.Bold)
	if !useColor {
		title.DisableColor()
		name.DisableColor()
	}

	if len(s.Rows) == 0 {
		return writeNoMeasurements(w, s, title, name)
	}

	fmt.Fprintf(w, "\n%s %s - %s\n", title.Sprint("[hotpath]"), s.Mode, s.Description())
	if len(s.Rows) < s.TotalLabels {
		fmt.Fprintf(w, "%s: %s (%d/%d)\n", name.Sprint(s.Name), formatDuration(float64(s.Elapsed.Nanoseconds())), len(s.Rows), s.TotalLabels)
	} else {
		fmt.Fprintf(w, "%s: %s\n", name.Sprint(s.Name), formatDuration(float64(s.Elapsed.Nanoseconds())))
	}

	withDropped := s.TotalDropped > 0

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	headers := []string{"Function", "Calls", "Avg"}
	for _, p := range s.Percentiles {
		headers = append(headers, fmt.Sprintf("P%d", p))
	}
	headers = append(headers, "Total", "% Total")
	if withDropped {
		headers = append(headers, "Dropped")
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range s.Rows {
		cells := []string{
			row.Label,
			fmt.Sprintf("%d", row.Calls),
			formatValue(s.Mode, float64(row.Avg)),
		}
		for _, v := range row.Percentiles {
			cells = append(cells, formatValue(s.Mode, v))
		}
		cells = append(cells,
			formatValue(s.Mode, float64(row.Total)),
			fmt.Sprintf("%.2f%%", row.Percent),
		)
		if withDropped {
			cells = append(cells, fmt.Sprintf("%d", row.Dropped))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	if withDropped {
		fmt.Fprintf(w, "\n%d event(s) dropped: channel full. Increase the channel capacity to reduce loss.\n", s.TotalDropped)
	}
	return nil
}

func (r *TableReporter) useColor(w io.Writer) bool {
	if r.NoColor {
		return false
	}
	if r.ForceColor {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func writeNoMeasurements(w io.Writer, s *Summary, title, name *color.Color) error {
	fmt.Fprintf(w, "\n%s No measurements recorded from %s (Total time: %s)\n\n",
		title.Sprint("[hotpath]"), name.Sprint(s.Name), formatDuration(float64(s.Elapsed.Nanoseconds())))
	fmt.Fprintln(w, "To start measuring, wrap calls with hotpath.Measure:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `  defer hotpath.Measure("your_function")()`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Or measure a block:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `  hotpath.MeasureBlock("your_block", func() {`)
	fmt.Fprintln(w, "      // your code here")
	fmt.Fprintln(w, "  })")
	return nil
}
