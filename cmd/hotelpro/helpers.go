package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/hotelpro/internal/auth"
	"github.com/Veraticus/hotelpro/internal/cli"
	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/config"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/Veraticus/hotelpro/internal/sheets"
	"github.com/Veraticus/hotelpro/internal/storage"
	"github.com/spf13/viper"
)

// maxLoginAttempts bounds the password prompt when no password comes from the environment.
const maxLoginAttempts = 3

// loadConfig decodes the global viper instance.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// openStore builds the record store for backend. The returned close function releases
// whatever the store holds open and is always safe to call.
func openStore(ctx context.Context, cfg *config.Config, backend string) (service.RecordStore, func() error, error) {
	logger := slog.Default().With("backend", backend)
	noop := func() error { return nil }

	switch backend {
	case config.BackendXLSX:
		store, err := storage.NewXLSXStore(cfg.Backend.XLSXPath, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case config.BackendSQLite:
		store, err := storage.NewSQLiteStore(ctx, cfg.Backend.SQLitePath, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case config.BackendSheets:
		sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
		if err != nil {
			return nil, noop, common.NewUserError(
				"Google Sheets is not configured. Set sheets.* in the config file or run `hotelpro auth sheets`.", err)
		}
		// The spreadsheet is resolved on the first Load or Save, so an unreachable
		// API degrades the dashboard instead of stopping the process.
		conn, err := sheets.NewConnection(ctx, *sheetsCfg, logger)
		if err != nil {
			return nil, noop, err
		}
		return sheets.NewStore(conn, logger), conn.Close, nil
	}

	return nil, noop, fmt.Errorf("%w: unknown backend %q", common.ErrInvalidConfig, backend)
}

// login authenticates userID against the staff table, prompting for the password on
// the terminal. It re-prompts after a failure unless the password came from the environment.
func login(ctx context.Context, in io.Reader, out io.Writer, userID string) (*model.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("--user is required")
	}

	gate := auth.NewGate()
	reader := cli.NewNonBlockingReader(in)
	_, fromEnv := os.LookupEnv(cli.PasswordEnv)

	sess := &model.Session{}
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		secret, err := reader.ReadSecret(ctx, out, userID)
		if err != nil {
			if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to read password: %w", err)
		}

		if gate.Authenticate(sess, userID, secret) {
			slog.Debug("login succeeded", "user", sess.UserID, "session", sess.ID)
			return sess, nil
		}

		slog.Warn("login failed", "user", userID, "attempt", attempt)
		if fromEnv {
			break
		}
		_, _ = fmt.Fprintln(out, cli.FormatError(common.ErrAuthFailure.Error()))
	}

	return nil, common.ErrAuthFailure
}
