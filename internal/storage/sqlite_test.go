package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	records := sampleRecords()
	require.NoError(t, store.Save(ctx, records))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestSQLiteStore_SavePreservesOrderAndOverwrites(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	require.NoError(t, store.Save(ctx, sampleRecords()))

	reordered := []model.SalesRecord{
		{Date: day("2024-01-09"), RoomType: "Suite", Revenue: 500},
		{Date: day("2024-01-01"), RoomType: "Standard", Revenue: 90},
	}
	require.NoError(t, store.Save(ctx, reordered))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, reordered, loaded)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Save(ctx, sampleRecords()))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
	assert.Equal(t, "sqlite", store.Name())
}

func TestSQLiteStore_Migrate(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	var indexCount int
	err = store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_sales_records_date'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestSQLiteStore_SaveRejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	require.NoError(t, store.Save(ctx, sampleRecords()))

	err := store.Save(ctx, []model.SalesRecord{{RoomType: "Suite"}})
	require.Error(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), loaded)
}

func TestSQLiteStore_LoadTableKeepsUnreadableRows(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	require.NoError(t, store.Save(ctx, sampleRecords()))

	_, err := store.db.ExecContext(ctx, `UPDATE sales_records SET date = '24/01/02' WHERE position = 1`)
	require.NoError(t, err)

	table, err := store.LoadTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.SalesRecord{sampleRecords()[0], sampleRecords()[2]}, table.Records)
	require.Len(t, table.Unreadable, 1)
	assert.Equal(t, model.UnreadableRow{
		Date:     "24/01/02",
		RoomType: sampleRecords()[1].RoomType,
		Revenue:  FormatRow(sampleRecords()[1])[2],
		Reason:   ReasonInvalidDate,
		Line:     2,
		Position: 1,
	}, table.Unreadable[0])

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, table.Records, loaded)
}
