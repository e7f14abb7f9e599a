package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/report"
	"github.com/stretchr/testify/assert"
)

func TestRenderSummary(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	records := []model.SalesRecord{
		{Date: day1, RoomType: "Standard", Revenue: 100},
		{Date: day1, RoomType: "Deluxe", Revenue: 200},
		{Date: day2, RoomType: "Standard", Revenue: 150},
	}

	out := RenderSummary(report.SummarizeDefault(records), "manager", "xlsx")

	for _, want := range []string{"manager", "xlsx", "¥450", "7.5%", "2024-01-01", "2024-01-02", "Standard", "Deluxe", "Daily revenue", "Rooms sold by type"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderSummary_Empty(t *testing.T) {
	out := RenderSummary(report.SummarizeDefault(nil), "staff", "sheets")

	assert.Contains(t, out, "No sales data")
	assert.NotContains(t, out, "Occupancy")
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		pct    float64
		filled int
	}{
		{name: "empty", pct: 0, filled: 0, suffix: "0.0%"},
		{name: "half", pct: 50, filled: 5, suffix: "50.0%"},
		{name: "over target is clamped", pct: 250, filled: 10, suffix: "100.0%"},
		{name: "negative is clamped", pct: -5, filled: 0, suffix: "0.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.pct, 10)
			assert.Equal(t, tt.filled, strings.Count(bar, "█"))
			assert.Equal(t, 10-tt.filled, strings.Count(bar, "░"))
			assert.Contains(t, bar, tt.suffix)
		})
	}
	assert.Empty(t, ProgressBar(50, 0))
}
