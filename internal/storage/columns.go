package storage

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/xuri/excelize/v2"
)

// Header is the header row written by every backend.
var Header = []string{"date", "roomType", "revenue"}

var columnAliases = map[string]string{
	"date":      "date",
	"day":       "date",
	"날짜":        "date",
	"roomtype":  "roomType",
	"room_type": "roomType",
	"room type": "roomType",
	"객실타입":      "roomType",
	"revenue":   "revenue",
	"sales":     "revenue",
	"매출":        "revenue",
}

var dateLayouts = []string{
	model.DayLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
}

// Columns holds the position of each field in a row.
type Columns struct {
	Date     int
	RoomType int
	Revenue  int
}

// MapHeader locates the record fields in a header row.
func MapHeader(header []string) (Columns, error) {
	cols := Columns{Date: -1, RoomType: -1, Revenue: -1}
	for i, name := range header {
		field, ok := columnAliases[normalizeColumnName(name)]
		if !ok {
			continue
		}
		switch field {
		case "date":
			if cols.Date < 0 {
				cols.Date = i
			}
		case "roomType":
			if cols.RoomType < 0 {
				cols.RoomType = i
			}
		case "revenue":
			if cols.Revenue < 0 {
				cols.Revenue = i
			}
		}
	}

	var missing []string
	if cols.Date < 0 {
		missing = append(missing, "date")
	}
	if cols.RoomType < 0 {
		missing = append(missing, "roomType")
	}
	if cols.Revenue < 0 {
		missing = append(missing, "revenue")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: header is missing %s", common.ErrInvalidRecord, strings.Join(missing, ", "))
	}
	return cols, nil
}

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
	return strings.ToLower(name)
}

// ParseRow coerces one data row. blank is true when every mapped cell is empty.
func ParseRow(cols Columns, row []string) (rec model.SalesRecord, blank bool, err error) {
	dateRaw := cell(row, cols.Date)
	roomType := cell(row, cols.RoomType)
	revenueRaw := cell(row, cols.Revenue)

	if dateRaw == "" && roomType == "" && revenueRaw == "" {
		return rec, true, nil
	}

	date, err := ParseDate(dateRaw)
	if err != nil {
		return rec, false, err
	}
	revenue, err := ParseRevenue(revenueRaw)
	if err != nil {
		return rec, false, err
	}

	return model.SalesRecord{Date: date, RoomType: roomType, Revenue: revenue}, false, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseDate accepts the common text layouts and spreadsheet serial numbers.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", common.ErrInvalidRecord)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.Day(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return model.Day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", common.ErrInvalidRecord, raw)
}

// ParseRevenue parses an amount, ignoring currency symbols and thousands separators.
// An empty cell is zero.
func ParseRevenue(raw string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "¥", "", "₩", "", "$", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: unrecognized revenue %q", common.ErrInvalidRecord, raw)
	}
	return v, nil
}

// ParseRows maps the header row and converts the remaining rows into a table.
// Blank rows are skipped. Rows that fail coercion are kept as unreadable rows and
// logged, so a caller that saves the table back can refuse to drop them.
func ParseRows(rows [][]string, logger *slog.Logger) (model.Table, error) {
	var table model.Table
	if len(rows) == 0 {
		return table, nil
	}

	cols, err := MapHeader(rows[0])
	if err != nil {
		return table, err
	}

	table.Records = make([]model.SalesRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, blank, err := ParseRow(cols, row)
		if blank {
			continue
		}
		if err != nil {
			logger.Warn("unreadable row", "row", i+2, "error", err)
			table.Unreadable = append(table.Unreadable, model.UnreadableRow{
				Date:     cell(row, cols.Date),
				RoomType: cell(row, cols.RoomType),
				Revenue:  cell(row, cols.Revenue),
				Reason:   rowErrorReason(cols, row),
				Line:     i + 2,
				Position: len(table.Records),
			})
			continue
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

// rowErrorReason names the first cell of row that fails coercion.
func rowErrorReason(cols Columns, row []string) string {
	if _, err := ParseDate(cell(row, cols.Date)); err != nil {
		return ReasonInvalidDate
	}
	return ReasonInvalidRevenue
}

// Reasons attached to rows that fail coercion.
const (
	ReasonInvalidDate    = "invalid date"
	ReasonInvalidRevenue = "invalid revenue"
)

// FormatRow renders a record in header order for text-based backends.
func FormatRow(r model.SalesRecord) []string {
	return []string{
		model.DayKey(r.Date),
		r.RoomType,
		strconv.FormatFloat(r.Revenue, 'f', -1, 64),
	}
}
