package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/heatwatch/core"
	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/internal/iocache"
	"github.com/spf13/cobra"
)

// snapshotCmd focused on daily snapshot management.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage daily CSV snapshots",
	Long: `Manage the daily CSV snapshots of the joined streams.

A snapshot is taken automatically by the first reading after the configured
cutoff of each day. Taking a snapshot prunes every stream down to its newest row.

Subcommands:
  take - Take today's snapshot now
  list - List stored snapshots`,
}

// snapshotTakeCmd takes today's snapshot immediately.
var snapshotTakeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take today's snapshot now, ignoring the cutoff",
	Long: `Write today's snapshot immediately and prune the streams.

Fails when today's snapshot already exists.`,
	PreRunE: sharedSetupWrapper,
	RunE: runWithService(func(ctx context.Context, _ *contract.Config, svc *core.Service) error {
		path, err := svc.TakeSnapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Snapshot written to %s\n", path)
		return nil
	}),
}

// snapshotListCmd lists stored snapshots.
var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored snapshots from oldest to newest",
	PreRunE: sharedSetupWrapper,
	RunE: runWithService(func(_ context.Context, _ *contract.Config, svc *core.Service) error {
		files, err := svc.ListSnapshots()
		if err != nil {
			return err
		}
		iocache.PrintFiles(os.Stdout, files)
		return nil
	}),
}
