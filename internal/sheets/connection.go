package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/Veraticus/hotelpro/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultSheetTitle names the worksheet of a newly created spreadsheet.
const DefaultSheetTitle = "Sales"

// Scopes are the OAuth2 scopes the backend requests. drive.file only exposes files this
// application created, which is enough to find its own spreadsheet by name.
var Scopes = []string{sheets.SpreadsheetsScope, drive.DriveFileScope}

// spreadsheetMimeType is the Drive type of a Google Sheets file.
const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Services are the authenticated API clients behind a connection.
type Services struct {
	Sheets *sheets.Service
	// Drive finds an existing spreadsheet by name before a new one is created.
	Drive  *drive.Service
	Client *http.Client
}

// Dialer builds the authenticated API services.
type Dialer func(ctx context.Context, cfg Config) (*Services, error)

// Connection owns the authenticated Sheets service. It is created once by the
// caller, shared by stores, and released with Close.
type Connection struct {
	service       *sheets.Service
	drive         *drive.Service
	client        *http.Client
	logger        *slog.Logger
	dial          Dialer
	config        Config
	spreadsheetID string
	mu            sync.RWMutex
	// resolveMu serializes Spreadsheet so concurrent first calls create at most one spreadsheet.
	resolveMu sync.Mutex
	closed    bool
}

// NewConnection validates cfg and dials the Sheets API.
func NewConnection(ctx context.Context, cfg Config, logger *slog.Logger) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return NewConnectionWithDialer(ctx, cfg, logger, createServices)
}

// NewConnectionWithDialer is NewConnection with a custom dialer and no
// credential validation. Tests use it to point the client at a fake server.
func NewConnectionWithDialer(ctx context.Context, cfg Config, logger *slog.Logger, dial Dialer) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Connection{
		config:        cfg,
		logger:        logger,
		dial:          dial,
		spreadsheetID: cfg.SpreadsheetID,
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Service returns the current Sheets service.
func (c *Connection) Service() (*sheets.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, common.ErrConnectionClosed
	}
	return c.service, nil
}

// Config returns the configuration the connection was built with.
func (c *Connection) Config() Config {
	return c.config
}

// SpreadsheetID returns the target spreadsheet, which may have been resolved by EnsureSpreadsheet.
func (c *Connection) SpreadsheetID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.spreadsheetID
}

// Refresh rebuilds the service, picking up rotated credentials.
func (c *Connection) Refresh(ctx context.Context) error {
	services, err := c.dial(ctx, c.config)
	if err != nil {
		return common.Unavailable("Could not connect to Google Sheets. Check the credentials.", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return common.ErrConnectionClosed
	}
	if c.client != nil && c.client != services.Client {
		c.client.CloseIdleConnections()
	}
	c.service = services.Sheets
	c.drive = services.Drive
	c.client = services.Client
	c.logger.Debug("sheets connection ready", "spreadsheet_id", c.spreadsheetID)
	return nil
}

// Close releases the connection. Further calls to Service fail with ErrConnectionClosed.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	c.service = nil
	c.drive = nil
	c.client = nil
	return nil
}

// Spreadsheet returns the target spreadsheet ID, resolving it with EnsureSpreadsheet
// on first use when none is configured. Nothing touches the network until a store
// operation needs the spreadsheet.
func (c *Connection) Spreadsheet(ctx context.Context) (string, error) {
	if id := c.SpreadsheetID(); id != "" {
		return id, nil
	}

	c.resolveMu.Lock()
	defer c.resolveMu.Unlock()
	if id := c.SpreadsheetID(); id != "" {
		return id, nil
	}
	return c.EnsureSpreadsheet(ctx)
}

// EnsureSpreadsheet verifies the configured spreadsheet. When no ID is set it reuses
// the spreadsheet named in the configuration, creating it only if Drive has none.
func (c *Connection) EnsureSpreadsheet(ctx context.Context) (string, error) {
	srv, err := c.Service()
	if err != nil {
		return "", common.Unavailable("Google Sheets could not be reached. Check the connection and try again.", err)
	}

	if id := c.SpreadsheetID(); id != "" {
		if _, err := srv.Spreadsheets.Get(id).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
			return "", common.Unavailable("The configured spreadsheet could not be opened.",
				fmt.Errorf("unable to access spreadsheet %s: %w", id, err))
		}
		return id, nil
	}

	id, err := c.findSpreadsheet(ctx)
	if err != nil {
		return "", common.Unavailable(
			"Google Drive could not be searched for the spreadsheet. Set sheets.spreadsheet_id or run `hotelpro auth sheets --force`.", err)
	}
	if id != "" {
		c.setSpreadsheetID(id)
		c.logger.Info("using existing spreadsheet", "id", id, "name", c.config.SpreadsheetName)
		return id, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    c.config.SpreadsheetName,
			TimeZone: c.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: DefaultSheetTitle,
				},
			},
		},
	}

	created, err := srv.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", common.Unavailable("The spreadsheet could not be created.",
			fmt.Errorf("unable to create spreadsheet: %w", err))
	}
	c.setSpreadsheetID(created.SpreadsheetId)

	c.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// findSpreadsheet returns the ID of the most recently modified spreadsheet named
// SpreadsheetName, or "" when there is none.
func (c *Connection) findSpreadsheet(ctx context.Context) (string, error) {
	c.mu.RLock()
	files := c.drive
	c.mu.RUnlock()
	if files == nil {
		return "", fmt.Errorf("no drive service: %w", common.ErrConnectionClosed)
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(c.config.SpreadsheetName), spreadsheetMimeType)
	resp, err := files.Files.List().
		Q(q).
		OrderBy("modifiedTime desc").
		PageSize(10).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("unable to list spreadsheets: %w", err)
	}
	if len(resp.Files) == 0 {
		return "", nil
	}
	if len(resp.Files) > 1 {
		c.logger.Warn("several spreadsheets share the configured name; using the newest",
			"name", c.config.SpreadsheetName,
			"matches", len(resp.Files))
	}
	return resp.Files[0].Id, nil
}

func (c *Connection) setSpreadsheetID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spreadsheetID = id
}

// escapeQuery quotes s for a Drive query string literal.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// createServices creates the Google Sheets and Drive API services over one OAuth2 client.
func createServices(ctx context.Context, cfg Config) (*Services, error) {
	var tokenSource oauth2.TokenSource

	if cfg.hasServiceAccount() {
		jsonKey := []byte(cfg.ServiceAccountJSON)
		if cfg.ServiceAccountPath != "" {
			var err error
			jsonKey, err = os.ReadFile(cfg.ServiceAccountPath)
			if err != nil {
				return nil, fmt.Errorf("unable to read service account key file: %w", err)
			}
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(cfg.ClientID, cfg.ClientSecret, "")
		token := &oauth2.Token{
			RefreshToken: cfg.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	files, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &Services{Sheets: srv, Drive: files, Client: httpClient}, nil
}
