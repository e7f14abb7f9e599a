package report

import (
	"math"
	"strconv"
	"strings"
)

// NoData is shown in place of a metric that has no meaningful value.
const NoData = "no data"

// FormatCurrency renders v in yen with thousands separators, e.g. ¥1,234.
// Fractional amounts keep two decimals.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoData
	}

	neg := v < 0
	v = math.Abs(v)

	var s string
	if v == math.Trunc(v) {
		s = strconv.FormatFloat(v, 'f', 0, 64)
	} else {
		s = strconv.FormatFloat(v, 'f', 2, 64)
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("¥")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatPercent renders v with one decimal, e.g. 7.5%.
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoData
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// OccupancyLabel is the occupancy tile text, falling back to NoData.
func (s Summary) OccupancyLabel() string {
	if !s.HasOccupancy {
		return NoData
	}
	return FormatPercent(s.Occupancy)
}
