package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/hotelpro/internal/cli"
	"github.com/Veraticus/hotelpro/internal/config"
	"github.com/Veraticus/hotelpro/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a Google sign-in URL and wait for the redirect
2. Save the refresh token for future use
3. Update your config file with the token

Service account users do not need this; set sheets.service_account_path instead.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", sheets.DefaultCallbackAddr, "address for the OAuth2 redirect listener")
	cmd.Flags().Bool("force", false, "sign in again even if a saved token exists")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}

	callback, _ := cmd.Flags().GetString("callback")
	force, _ := cmd.Flags().GetBool("force")
	tokenFile := filepath.Join(config.Dir(), "sheets-token.json")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	oauthCfg := sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	}
	var token *oauth2.Token
	var err error
	if force {
		token, err = sheets.AuthenticateOAuth2Interactive(ctx, oauthCfg)
	} else {
		token, err = sheets.GetOrCreateToken(ctx, oauthCfg)
	}
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if token.RefreshToken == "" {
		return fmt.Errorf("google returned no refresh token; run again with --force")
	}

	viper.Set("sheets.client_id", clientID)
	viper.Set("sheets.client_secret", clientSecret)
	viper.Set("sheets.refresh_token", token.RefreshToken)

	saved, err := saveConfig()
	if err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Could not save the refresh token. Add it to config.yaml under sheets.refresh_token."))
		return nil
	}

	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.RenderBox(
		cli.FormatSuccess("Google Sheets is configured"),
		fmt.Sprintf("Saved to %s\nSet backend.type: sheets (or pass --backend sheets) to use it.", saved),
	))
	return nil
}

// saveConfig writes the current viper state back to the config file and returns its path.
func saveConfig() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.Dir(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return "", err
	}

	return configFile, viper.WriteConfigAs(configFile)
}
