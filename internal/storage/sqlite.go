package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps sales records in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and migrates it.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, common.Unavailable("The database directory could not be created.", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, common.Unavailable("The database could not be opened.", err)
	}

	// SQLite doesn't benefit from multiple connections, and :memory: needs exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.Unavailable("The database could not be opened.", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Name implements service.RecordStore.
func (s *SQLiteStore) Name() string {
	return "sqlite"
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns all readable records in saved order.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.SalesRecord, error) {
	table, err := s.LoadTable(ctx)
	return table.Records, err
}

// LoadTable returns every stored row in saved order. Rows whose date no longer parses
// are reported as unreadable instead of being skipped.
func (s *SQLiteStore) LoadTable(ctx context.Context) (model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return model.Table{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, date, room_type, revenue FROM sales_records ORDER BY position`)
	if err != nil {
		return model.Table{}, common.Unavailable("The database could not be read.", err)
	}
	defer func() { _ = rows.Close() }()

	var table model.Table
	for rows.Next() {
		var (
			position int
			date     string
			roomType string
			revenue  float64
		)
		if err := rows.Scan(&position, &date, &roomType, &revenue); err != nil {
			return model.Table{}, common.Unavailable("The database could not be read.", err)
		}
		parsed, err := time.Parse(model.DayLayout, date)
		if err != nil {
			s.logger.Warn("unreadable record", "position", position, "date", date, "error", err)
			table.Unreadable = append(table.Unreadable, model.UnreadableRow{
				Date:     date,
				RoomType: roomType,
				Revenue:  strconv.FormatFloat(revenue, 'f', -1, 64),
				Reason:   ReasonInvalidDate,
				Line:     position + 1,
				Position: len(table.Records),
			})
			continue
		}
		table.Records = append(table.Records, model.SalesRecord{Date: parsed, RoomType: roomType, Revenue: revenue})
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, common.Unavailable("The database could not be read.", err)
	}
	return table, nil
}

// Save replaces every stored record inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []model.SalesRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := ValidateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Unavailable("The database is busy. Please save again.", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sales_records`); err != nil {
		return common.Unavailable("The database could not be written.", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sales_records (position, date, room_type, revenue) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return common.Unavailable("The database could not be written.", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, model.DayKey(r.Date), r.RoomType, r.Revenue); err != nil {
			return common.Unavailable("The database could not be written.", fmt.Errorf("row %d: %w", i+1, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return common.Unavailable("The database could not be written.", err)
	}

	s.logger.Info("saved records", "path", s.dbPath, "rows", len(records))
	return nil
}
