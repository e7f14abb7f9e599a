package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/hotelpro/internal/cli"
	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/spf13/cobra"
)

func copyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy every record from the configured backend to another",
		Long: `Copy every record from the configured backend (backend.type or --backend)
to the backend named by --to. The destination table is replaced.

Rows the source cannot read are not copied, so the command refuses to run while
any exist unless --force is given.`,
		Example: `  hotelpro copy --to sheets
  hotelpro --backend sheets copy --to xlsx`,
		RunE: runCopy,
	}

	cmd.Flags().String("to", "", "destination backend (xlsx, sheets, sqlite)")
	cmd.Flags().Bool("force", false, "copy even if some source rows cannot be read")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runCopy(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	to, _ := cmd.Flags().GetString("to")
	to = strings.ToLower(to)
	force, _ := cmd.Flags().GetBool("force")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if to == cfg.Backend.Type {
		return fmt.Errorf("source and destination are both %s", to)
	}

	src, closeSrc, err := openStore(ctx, cfg, cfg.Backend.Type)
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	dst, closeDst, err := openStore(ctx, cfg, to)
	if err != nil {
		return err
	}
	defer func() { _ = closeDst() }()

	table, err := service.LoadTable(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	if !table.Complete() {
		warnUnreadable(cmd, table)
		if !force {
			return fmt.Errorf("%d row(s) in %s could not be read and would not be copied; fix them or use --force",
				len(table.Unreadable), src.Name())
		}
	}
	records := table.Records
	if err := dst.Save(ctx, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst.Name(), err)
	}

	common.LogInfo("copied records", common.Fields{"from": src.Name(), "to": dst.Name(), "rows": len(records)})
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Copied %d records from %s to %s", len(records), src.Name(), dst.Name())))
	return nil
}
