package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/hotelpro/internal/model"
)

// utf8BOM lets spreadsheet applications detect the encoding of the export.
const utf8BOM = "\uFEFF"

// CSVHeader is the header row of the CSV export.
var CSVHeader = []string{"date", "roomType", "revenue"}

// WriteCSV writes records as a UTF-8 CSV with a byte order mark.
func WriteCSV(w io.Writer, records []model.SalesRecord) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			model.DayKey(r.Date),
			r.RoomType,
			strconv.FormatFloat(r.Revenue, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
