package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleRecords() []model.SalesRecord {
	return []model.SalesRecord{
		{Date: day("2024-01-01"), RoomType: "Standard", Revenue: 100},
		{Date: day("2024-01-01"), RoomType: "Deluxe", Revenue: 200},
		{Date: day("2024-01-02"), RoomType: "Standard", Revenue: 150.5},
	}
}

// createTestStorage opens a migrated SQLite store in a temp directory.
func createTestStorage(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStore(context.Background(), dbPath, nil)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
