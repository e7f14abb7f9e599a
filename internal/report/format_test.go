package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name string
		want string
		in   float64
	}{
		{name: "zero", in: 0, want: "¥0"},
		{name: "small", in: 450, want: "¥450"},
		{name: "thousands", in: 1234, want: "¥1,234"},
		{name: "target", in: 1_000_000, want: "¥1,000,000"},
		{name: "fraction", in: 1234.5, want: "¥1,234.50"},
		{name: "negative", in: -98765, want: "-¥98,765"},
		{name: "nan", in: math.NaN(), want: NoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.in))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "7.5%", FormatPercent(7.5))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "125.0%", FormatPercent(125))
	assert.Equal(t, NoData, FormatPercent(math.Inf(1)))
}

func TestSummary_OccupancyLabel(t *testing.T) {
	assert.Equal(t, NoData, SummarizeDefault(nil).OccupancyLabel())

	s := Summary{Occupancy: 7.5, HasOccupancy: true}
	assert.Equal(t, "7.5%", s.OccupancyLabel())
}
