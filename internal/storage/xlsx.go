package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the worksheet created when saving a new workbook.
const DefaultSheetName = "Sales"

// defaultFileMode is the permission of a newly created workbook.
const defaultFileMode os.FileMode = 0o644

// XLSXStore keeps sales records in the first worksheet of a local workbook.
type XLSXStore struct {
	logger *slog.Logger
	path   string
	mu     sync.Mutex
}

// NewXLSXStore creates a store for the workbook at path. The file does not need to exist yet.
func NewXLSXStore(path string, logger *slog.Logger) (*XLSXStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXStore{path: path, logger: logger}, nil
}

// Name implements service.RecordStore.
func (s *XLSXStore) Name() string {
	return "xlsx"
}

// Path returns the workbook location.
func (s *XLSXStore) Path() string {
	return s.path
}

// Load reads every readable record from the first worksheet.
func (s *XLSXStore) Load(ctx context.Context) ([]model.SalesRecord, error) {
	table, err := s.LoadTable(ctx)
	return table.Records, err
}

// LoadTable reads the first worksheet, keeping rows that could not be read.
func (s *XLSXStore) LoadTable(ctx context.Context) (model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return model.Table{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Table{}, common.Unavailable(
				fmt.Sprintf("The workbook %s was not found. Run `hotelpro seed` to create it.", filepath.Base(s.path)), err)
		}
		return model.Table{}, common.Unavailable("The workbook could not be opened.", err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return model.Table{}, common.Unavailable("The workbook could not be opened.", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.Table{}, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Table{}, common.Unavailable("The workbook could not be read.", err)
	}

	records, err := ParseRows(rows, s.logger.With("path", s.path))
	if err != nil {
		return model.Table{}, common.NewUserError("The workbook header must contain date, roomType and revenue columns.", err)
	}
	return records, nil
}

// Save replaces the workbook with header and records. The new workbook is written next to the
// target and renamed over it, so readers never see a half-written file.
func (s *XLSXStore) Save(ctx context.Context, records []model.SalesRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := ValidateRecords(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lockedByOffice() {
		return common.Unavailable("The workbook is open in another program. Close it and save again.", nil)
	}

	f, err := buildWorkbook(records)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".hotelpro-*.xlsx")
	if err != nil {
		return s.writeError(err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		return s.writeError(err)
	}
	if err := tmp.Close(); err != nil {
		return s.writeError(err)
	}
	// CreateTemp makes the file 0600; the rename must not tighten the workbook's mode.
	if err := os.Chmod(tmpPath, s.fileMode()); err != nil {
		return s.writeError(err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return s.writeError(err)
	}

	s.logger.Info("saved workbook", "path", s.path, "rows", len(records))
	return nil
}

// fileMode returns the permission bits of the existing workbook, or defaultFileMode.
func (s *XLSXStore) fileMode() os.FileMode {
	if info, err := os.Stat(s.path); err == nil {
		return info.Mode().Perm()
	}
	return defaultFileMode
}

func (s *XLSXStore) writeError(err error) error {
	if errors.Is(err, os.ErrPermission) {
		return common.Unavailable("The workbook is locked or read-only. Close it and save again.", err)
	}
	return common.Unavailable("The workbook could not be written.", err)
}

// lockedByOffice reports whether a spreadsheet application holds the workbook open.
// Excel and LibreOffice leave an owner file next to the workbook while it is open.
func (s *XLSXStore) lockedByOffice() bool {
	dir, name := filepath.Split(s.path)
	for _, owner := range []string{"~$" + name, ".~lock." + name + "#"} {
		if _, err := os.Stat(filepath.Join(dir, owner)); err == nil {
			return true
		}
	}
	return false
}

func buildWorkbook(records []model.SalesRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, DefaultSheetName); err != nil {
		_ = f.Close()
		return nil, err
	}
	sheet = DefaultSheetName

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}

	dateFormat := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, r := range records {
		row := []any{r.Date, r.RoomType, r.Revenue}
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if len(records) > 0 {
		last, err := excelize.CoordinatesToCellName(1, len(records)+1)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A2", last, dateStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}
