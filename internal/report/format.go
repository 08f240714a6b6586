package report

import (
	"fmt"
	"strconv"

	"github.com/hotpath-go/hotpath/internal/event"
)

// formatBytes renders a byte count with binary units and one decimal.
func formatBytes(bytes uint64) string {
	const threshold = 1024.0
	units := []string{"B", "KB", "MB", "GB", "TB"}

	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes)
	idx := 0
	for size >= threshold && idx < len(units)-1 {
		size /= threshold
		idx++
	}
	return fmt.Sprintf("%.1f %s", size, units[idx])
}

// formatDuration renders nanoseconds with two decimals in the largest
// fitting unit, e.g. "1.50ms".
func formatDuration(ns float64) string {
	switch {
	case ns < 1_000:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.2fµs", ns/1_000)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.2fms", ns/1_000_000)
	default:
		return fmt.Sprintf("%.2fs", ns/1_000_000_000)
	}
}

// formatValue renders one measurement value for the active kind.
func formatValue(kind event.Kind, v float64) string {
	switch kind {
	case event.KindAllocBytesTotal, event.KindAllocBytesMax:
		return formatBytes(uint64(v + 0.5))
	case event.KindAllocCountTotal, event.KindAllocCountMax:
		return strconv.FormatUint(uint64(v+0.5), 10)
	default:
		return formatDuration(v)
	}
}
