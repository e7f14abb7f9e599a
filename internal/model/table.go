package model

// UnreadableRow is a stored row whose cells could not be coerced into a SalesRecord.
// The raw cell text is kept so it can be shown and corrected instead of silently dropped.
type UnreadableRow struct {
	Date     string
	RoomType string
	Revenue  string
	Reason   string
	// Line is the 1-based row number in the backend, header included.
	Line int
	// Position is the index in Table.Records the row sat in front of.
	Position int
}

// Table is a loaded sales table: the readable records in backend order plus any rows
// that could not be read.
type Table struct {
	Records    []SalesRecord
	Unreadable []UnreadableRow
}

// Complete reports whether every stored row was readable.
func (t Table) Complete() bool {
	return len(t.Unreadable) == 0
}
