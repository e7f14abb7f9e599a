package web

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/storage"
)

// blankRows is how many empty lines the editor offers for additions.
const blankRows = 3

// rowsFromTable renders the loaded table as grid rows followed by blank rows for additions.
// Unreadable rows keep their place and raw text so they can be fixed or deleted.
func rowsFromTable(table model.Table) []EditRow {
	rows := make([]EditRow, 0, len(table.Records)+len(table.Unreadable)+blankRows)
	bad := table.Unreadable
	for i, r := range table.Records {
		for len(bad) > 0 && bad[0].Position <= i {
			rows = append(rows, unreadableRow(bad[0], len(rows)))
			bad = bad[1:]
		}
		formatted := storage.FormatRow(r)
		rows = append(rows, EditRow{
			Index:    len(rows),
			Date:     formatted[0],
			RoomType: formatted[1],
			Revenue:  formatted[2],
		})
	}
	for _, u := range bad {
		rows = append(rows, unreadableRow(u, len(rows)))
	}
	return appendBlankRows(rows)
}

func unreadableRow(u model.UnreadableRow, index int) EditRow {
	return EditRow{
		Index:    index,
		Date:     u.Date,
		RoomType: u.RoomType,
		Revenue:  u.Revenue,
		Error:    u.Reason,
	}
}

// tableVersion fingerprints a loaded table. The editor posts it back so a save can
// tell that the form came from a successful load of the table still stored.
func tableVersion(table model.Table) string {
	h := sha256.New()
	for _, r := range table.Records {
		writeCells(h, storage.FormatRow(r)...)
	}
	for _, u := range table.Unreadable {
		writeCells(h, "!", strconv.Itoa(u.Position), u.Date, u.RoomType, u.Revenue)
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func writeCells(w io.Writer, cells ...string) {
	for _, c := range cells {
		_, _ = io.WriteString(w, c)
		_, _ = w.Write([]byte{0})
	}
	_, _ = w.Write([]byte{'\n'})
}

func appendBlankRows(rows []EditRow) []EditRow {
	for range blankRows {
		rows = append(rows, EditRow{Index: len(rows)})
	}
	return rows
}

func trimTrailingBlank(rows []EditRow) []EditRow {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		if last.Date != "" || last.RoomType != "" || last.Revenue != "" {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}

// parseEditForm reads the submitted grid. date, roomType and revenue arrive as parallel
// arrays; delete carries the indexes of rows marked for removal.
func parseEditForm(dates, roomTypes, revenues, deletes []string) []EditRow {
	n := max(len(dates), len(roomTypes), len(revenues))
	marked := make(map[int]bool, len(deletes))
	for _, d := range deletes {
		if i, err := strconv.Atoi(d); err == nil {
			marked[i] = true
		}
	}

	rows := make([]EditRow, n)
	for i := range rows {
		rows[i] = EditRow{
			Index:    i,
			Date:     strings.TrimSpace(at(dates, i)),
			RoomType: strings.TrimSpace(at(roomTypes, i)),
			Revenue:  strings.TrimSpace(at(revenues, i)),
			Delete:   marked[i],
		}
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// recordsFromRows coerces the working copy into records. Rows marked for deletion and
// blank rows are dropped. Rows that fail coercion get an Error and make the whole
// submission invalid.
func recordsFromRows(rows []EditRow) ([]model.SalesRecord, error) {
	records := make([]model.SalesRecord, 0, len(rows))
	invalid := 0
	for i := range rows {
		row := &rows[i]
		row.Error = ""
		if row.Delete || (row.Date == "" && row.RoomType == "" && row.Revenue == "") {
			continue
		}

		date, err := storage.ParseDate(row.Date)
		if err != nil {
			row.Error = storage.ReasonInvalidDate
			invalid++
			continue
		}
		revenue, err := storage.ParseRevenue(row.Revenue)
		if err != nil {
			row.Error = storage.ReasonInvalidRevenue
			invalid++
			continue
		}
		records = append(records, model.SalesRecord{Date: date, RoomType: row.RoomType, Revenue: revenue})
	}

	if invalid > 0 {
		return nil, fmt.Errorf("%w: %d row(s) could not be read", common.ErrInvalidRecord, invalid)
	}
	return records, nil
}
