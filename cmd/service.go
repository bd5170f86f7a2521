package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/huangsam/heatwatch/core"
	"github.com/huangsam/heatwatch/core/forecast"
	"github.com/huangsam/heatwatch/internal/archive"
	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/internal/forward"
	"github.com/huangsam/heatwatch/internal/iocache"
	"github.com/spf13/cobra"
)

// buildService wires the configured stores, agents, forwarder and archiver into a core.Service.
// The returned cleanup waits for in-flight forwards and closes the forwarder.
func buildService(ctx context.Context, cfg *contract.Config) (*core.Service, func(), error) {
	logger := slog.Default()

	opts := core.Options{
		Store:     iocache.Manager.GetStreamStore(),
		Snapshots: iocache.NewSnapshotDir(cfg.SnapshotDir, cfg.SnapshotMaxFiles, logger),
		Exports:   iocache.NewExportCache(cfg.ExportDir, cfg.ExportMaxFiles, logger),
		Policy: core.SnapshotPolicy{
			Cutoff:   cfg.SnapshotCutoff,
			Window:   cfg.SnapshotWindow,
			Location: cfg.Location,
		},
		LSTM:           forecast.NewLSTM(),
		ARIMA:          forecast.NewARIMA(),
		ForwardTimeout: cfg.ForwardTimeout,
		ForecastWindow: cfg.ForecastWindow,
		Logger:         logger,
	}

	forwarder, err := forward.NewForwarder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up forwarding: %w", err)
	}
	if forwarder != nil {
		opts.Forwarder = forwarder
	}

	if cfg.ArchiveEnabled() {
		archiver, err := archive.NewS3Archiver(cfg)
		if err != nil {
			if forwarder != nil {
				_ = forwarder.Close()
			}
			return nil, nil, fmt.Errorf("failed to set up archiving: %w", err)
		}
		opts.Archiver = archiver
	}

	svc, err := core.NewService(ctx, opts)
	if err != nil {
		if forwarder != nil {
			_ = forwarder.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		svc.Close()
		if forwarder != nil {
			if err := forwarder.Close(); err != nil {
				contract.LogWarn("Cannot close forwarder", err)
			}
		}
	}
	return svc, cleanup, nil
}

// runWithService builds the service and runs the executor against it.
func runWithService(executor core.ExecutorFunc) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		svc, cleanup, err := buildService(rootCtx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		return executor(rootCtx, cfg, svc)
	}
}
