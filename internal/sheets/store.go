package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/Veraticus/hotelpro/internal/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

const unavailableMessage = "Google Sheets could not be reached. Check the connection and try again."

// Store keeps the sales table in the first worksheet of a spreadsheet.
type Store struct {
	conn   *Connection
	logger *slog.Logger
}

// NewStore creates a store on top of an owned connection.
func NewStore(conn *Connection, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{conn: conn, logger: logger}
}

// Name returns the backend label.
func (s *Store) Name() string {
	return "sheets"
}

// Load reads the readable records of the first worksheet.
func (s *Store) Load(ctx context.Context) ([]model.SalesRecord, error) {
	table, err := s.LoadTable(ctx)
	return table.Records, err
}

// LoadTable reads the first worksheet. The first row holds the field names.
func (s *Store) LoadTable(ctx context.Context) (model.Table, error) {
	srv, id, err := s.target(ctx)
	if err != nil {
		return model.Table{}, err
	}

	var rows [][]string
	err = common.WithRetry(ctx, s.Name(), func() error {
		sheet, err := firstSheet(ctx, srv, id)
		if err != nil {
			return classify(err)
		}
		resp, err := srv.Spreadsheets.Values.Get(id, quoteSheet(sheet.Title)).Context(ctx).Do()
		if err != nil {
			return classify(err)
		}
		rows = toStrings(resp.Values)
		return nil
	}, s.retryOptions())
	if err != nil {
		return model.Table{}, common.Unavailable(unavailableMessage, err)
	}

	table, err := storage.ParseRows(rows, s.logger.With("spreadsheet_id", id))
	if err != nil {
		return model.Table{}, common.NewUserError("The spreadsheet header must contain date, roomType and revenue columns.", err)
	}
	return table, nil
}

// Save replaces the first worksheet with the header and every record. The write and the
// clearing of leftover rows go out as one batchUpdate request, which Sheets applies
// atomically: a failed Save leaves the worksheet as it was. Rows written by anyone else
// since the last Load are lost.
func (s *Store) Save(ctx context.Context, records []model.SalesRecord) error {
	if err := storage.ValidateRecords(records); err != nil {
		return err
	}
	srv, id, err := s.target(ctx)
	if err != nil {
		return err
	}

	rows := make([]*sheets.RowData, 0, len(records)+1)
	rows = append(rows, headerRow())
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}

	err = common.WithRetry(ctx, s.Name(), func() error {
		sheet, err := firstSheet(ctx, srv, id)
		if err != nil {
			return classify(err)
		}
		req := &sheets.BatchUpdateSpreadsheetRequest{Requests: replaceRequests(sheet, rows)}
		_, err = srv.Spreadsheets.BatchUpdate(id, req).Context(ctx).Do()
		return classify(err)
	}, s.retryOptions())
	if err != nil {
		return common.Unavailable(unavailableMessage, err)
	}

	s.logger.Info("saved records to sheets",
		"spreadsheet_id", id,
		"rows", len(records))
	return nil
}

// target returns the service and spreadsheet, resolving the spreadsheet on first use.
func (s *Store) target(ctx context.Context) (*sheets.Service, string, error) {
	srv, err := s.conn.Service()
	if err != nil {
		return nil, "", common.Unavailable(unavailableMessage, err)
	}
	id, err := s.conn.Spreadsheet(ctx)
	if err != nil {
		return nil, "", err
	}
	return srv, id, nil
}

func (s *Store) retryOptions() service.RetryOptions {
	cfg := s.conn.Config()
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// replaceRequests grows the grid to fit rows when needed, then writes rows from A1 with
// an unbounded range so every cell outside them is cleared.
func replaceRequests(sheet *sheets.SheetProperties, rows []*sheets.RowData) []*sheets.Request {
	var reqs []*sheets.Request
	if grid := sheet.GridProperties; grid != nil {
		if missing := int64(len(rows)) - grid.RowCount; missing > 0 {
			reqs = append(reqs, appendDimension(sheet.SheetId, "ROWS", missing))
		}
		if missing := int64(len(storage.Header)) - grid.ColumnCount; missing > 0 {
			reqs = append(reqs, appendDimension(sheet.SheetId, "COLUMNS", missing))
		}
	}
	return append(reqs, &sheets.Request{
		UpdateCells: &sheets.UpdateCellsRequest{
			Range: &sheets.GridRange{
				SheetId:         sheet.SheetId,
				ForceSendFields: []string{"SheetId"},
			},
			Rows:   rows,
			Fields: "userEnteredValue",
		},
	})
}

func appendDimension(sheetID int64, dimension string, length int64) *sheets.Request {
	return &sheets.Request{
		AppendDimension: &sheets.AppendDimensionRequest{
			SheetId:         sheetID,
			Dimension:       dimension,
			Length:          length,
			ForceSendFields: []string{"SheetId"},
		},
	}
}

func headerRow() *sheets.RowData {
	cells := make([]*sheets.CellData, len(storage.Header))
	for i, h := range storage.Header {
		cells[i] = stringCell(h)
	}
	return &sheets.RowData{Values: cells}
}

func recordRow(r model.SalesRecord) *sheets.RowData {
	revenue := r.Revenue
	return &sheets.RowData{Values: []*sheets.CellData{
		stringCell(model.DayKey(r.Date)),
		stringCell(r.RoomType),
		{UserEnteredValue: &sheets.ExtendedValue{NumberValue: &revenue}},
	}}
}

func stringCell(v string) *sheets.CellData {
	return &sheets.CellData{UserEnteredValue: &sheets.ExtendedValue{StringValue: &v}}
}

// firstSheet returns the properties of the first worksheet.
func firstSheet(ctx context.Context, srv *sheets.Service, id string) (*sheets.SheetProperties, error) {
	ss, err := srv.Spreadsheets.Get(id).
		Fields("sheets.properties(sheetId,title,gridProperties(rowCount,columnCount))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return nil, common.Permanent(fmt.Errorf("spreadsheet %s has no worksheets", id))
	}
	return ss.Sheets[0].Properties, nil
}

// classify marks API errors that retrying cannot fix.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 500:
		return err
	default:
		return common.Permanent(err)
	}
}

// quoteSheet returns title as an A1 sheet reference.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toStrings(values [][]any) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			rows[i][j] = fmt.Sprint(v)
		}
	}
	return rows
}
