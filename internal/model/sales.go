// Package model defines the core data types shared by every layer of the dashboard.
package model

import "time"

// DayLayout is the calendar-day format used for grouping, storage and display.
const DayLayout = "2006-01-02"

// SalesRecord is a single sold room.
type SalesRecord struct {
	Date     time.Time
	RoomType string
	Revenue  float64
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats the calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// CloneRecords returns a copy of records that can be edited without touching the original.
func CloneRecords(records []SalesRecord) []SalesRecord {
	if records == nil {
		return nil
	}
	out := make([]SalesRecord, len(records))
	copy(out, records)
	return out
}
