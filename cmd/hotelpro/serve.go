package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/Veraticus/hotelpro/internal/auth"
	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long: `Run the web dashboard.

Staff sign in with their ID and password, then see revenue, occupancy and goal
progress, download the table as CSV and edit it. Saving replaces the whole table
in the configured backend.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().Bool("secure-cookies", false, "mark the session cookie Secure (use behind TLS)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := openStore(ctx, cfg, cfg.Backend.Type)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			common.LogError(err, "failed to close backend", common.Fields{"backend": cfg.Backend.Type})
		}
	}()

	secret := cfg.Server.SessionSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		slog.Warn("server.session_secret is not set; sessions will not survive a restart")
	}
	tokens, err := auth.NewTokens(secret, cfg.Server.SessionTTL)
	if err != nil {
		return err
	}

	gate := auth.NewGate()
	slog.Info("staff accounts loaded", "accounts", gate.Users())

	secure, _ := cmd.Flags().GetBool("secure-cookies")
	srv, err := web.NewServer(store, gate, tokens, slog.Default(), web.Options{
		Addr:          cfg.Server.Addr,
		CORSOrigins:   cfg.Server.CORSOrigins,
		EnableMetrics: cfg.Server.Metrics,
		SecureCookies: secure,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
