package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/hotelpro/internal/cli"
	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/report"
	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard metrics in the terminal",
		Long: `Print total revenue, rooms sold, occupancy and goal completion, followed by
the daily revenue and room type tables.

The password is read from HOTELPRO_PASSWORD or prompted for.`,
		RunE: runSummary,
	}

	cmd.Flags().String("user", "", "staff ID to sign in as (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID, _ := cmd.Flags().GetString("user")

	sess, err := login(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), userID)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, cfg, cfg.Backend.Type)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	table, err := service.LoadTable(ctx, store)
	if err != nil {
		if !errors.Is(err, common.ErrBackendUnavailable) {
			return err
		}
		// Same policy as the dashboard: show the message and an empty dataset.
		slog.Error("failed to load records", "backend", store.Name(), "user", sess.UserID, "error", err)
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(common.UserMessage(err)))
		table = model.Table{}
	}
	warnUnreadable(cmd, table)

	_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderSummary(report.SummarizeDefault(table.Records), sess.UserID, store.Name()))
	return err
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the sales table as CSV",
		Long: `Write the sales table as a UTF-8 CSV with a byte order mark, the same file
the dashboard offers for download. Use -o - to write to stdout.`,
		RunE: runExport,
	}

	cmd.Flags().String("user", "", "staff ID to sign in as (required)")
	cmd.Flags().StringP("output", "o", "hotel_report.csv", "output file, or - for stdout")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID, _ := cmd.Flags().GetString("user")
	output, _ := cmd.Flags().GetString("output")

	sess, err := login(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), userID)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, cfg, cfg.Backend.Type)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	table, err := service.LoadTable(ctx, store)
	if err != nil {
		return err
	}
	warnUnreadable(cmd, table)
	records := table.Records

	if err := writeExport(output, records); err != nil {
		return err
	}

	slog.Info("exported records", "backend", store.Name(), "user", sess.UserID, "rows", len(records), "file", output)
	if output != "-" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Wrote %d rows to %s", len(records), output)))
	}
	return nil
}

// warnUnreadable tells the operator about rows the metrics and exports leave out.
func warnUnreadable(cmd *cobra.Command, table model.Table) {
	for _, u := range table.Unreadable {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(
			fmt.Sprintf("Row %d skipped (%s): %s, %s, %s", u.Line, u.Reason, u.Date, u.RoomType, u.Revenue)))
	}
}

func writeExport(output string, records []model.SalesRecord) error {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, records); err != nil {
		return err
	}
	if output == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
