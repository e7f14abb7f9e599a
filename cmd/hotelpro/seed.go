package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Veraticus/hotelpro/internal/cli"
	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/report"
	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/Veraticus/hotelpro/internal/storage"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the backend with sample sales",
		Long: `Fill the configured backend with generated sales for the last --days days.

A backend that already holds rows, or whose table exists but cannot be read, is
left alone unless --force is given.`,
		RunE: runSeed,
	}

	cmd.Flags().Int("days", 30, "number of days to generate, ending today")
	cmd.Flags().Bool("force", false, "replace existing records")
	cmd.Flags().Uint64("seed", 0, "random seed (0 picks one from the clock)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	days, _ := cmd.Flags().GetInt("days")
	force, _ := cmd.Flags().GetBool("force")
	seed, _ := cmd.Flags().GetUint64("seed")

	if days <= 0 {
		return fmt.Errorf("--days must be positive")
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
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

	if !force {
		existing, err := service.LoadTable(ctx, store)
		switch {
		case err == nil && (len(existing.Records) > 0 || !existing.Complete()):
			return fmt.Errorf("%s already holds %d rows; use --force to replace them",
				store.Name(), len(existing.Records)+len(existing.Unreadable))
		case err != nil && !errors.Is(err, os.ErrNotExist):
			// Only a table that does not exist yet is created without --force.
			return fmt.Errorf("existing data could not be read (use --force to replace it): %w", err)
		}
	}

	records := storage.SampleRecords(rand.New(rand.NewPCG(seed, seed>>1)), time.Now(), days, report.TotalRooms)
	common.LogDebug("generated sample records", common.Fields{"rows": len(records), "seed": seed})
	if err := store.Save(ctx, records); err != nil {
		return err
	}

	common.LogInfo("seeded backend", common.Fields{"backend": store.Name(), "rows": len(records), "days": days, "seed": seed})
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Wrote %d sample records to %s", len(records), store.Name())))
	return nil
}
