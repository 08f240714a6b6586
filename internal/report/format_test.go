package report

import (
	"testing"

	"github.com/hotpath-go/hotpath/internal/event"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{2048, "2.0 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
		{1099511627776, "1.0 TB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ns   float64
		want string
	}{
		{500, "500ns"},
		{1500, "1.50µs"},
		{1500000, "1.50ms"},
		{2500000000, "2.50s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.ns); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.ns, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	if got := formatValue(event.KindTiming, 1500000); got != "1.50ms" {
		t.Errorf("timing value = %q, want 1.50ms", got)
	}
	if got := formatValue(event.KindAllocBytesTotal, 2048); got != "2.0 KB" {
		t.Errorf("bytes value = %q, want 2.0 KB", got)
	}
	if got := formatValue(event.KindAllocCountTotal, 42); got != "42" {
		t.Errorf("count value = %q, want 42", got)
	}
}
