package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/lvsnap/internal/config"
	"github.com/raoulx24/lvsnap/internal/driver"
	"github.com/raoulx24/lvsnap/internal/logging"
	"github.com/raoulx24/lvsnap/internal/lvm"
	"github.com/raoulx24/lvsnap/internal/metrics"
	"github.com/raoulx24/lvsnap/internal/retention"
)

// app carries the process-level collaborators so tests can replace them.
type app struct {
	opts options

	runner lvm.Runner
	now    func() time.Time
	stderr io.Writer

	// configDir is searched when --config is not given. Empty means the
	// directory of the executable.
	configDir string
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lvsnap [flags] <lv_name>",
		Short: "Snapshot an LVM volume and retire old snapshots",
		Long: `lvsnap deletes the snapshots of an LVM logical volume that no configured
target age claims, then creates a new snapshot named after the origin and
today's date.

Each target age (in days) keeps the snapshot whose age is closest to it.
Targets are processed in configuration order and each snapshot can satisfy
only one target.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("expected exactly one logical volume name, got %d", len(args))}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args[0])
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	a.opts.bind(cmd.Flags())
	return cmd
}

func (a *app) run(ctx context.Context, volume string) error {
	// captured once so every age in the run is measured from the same instant
	now := a.now()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Verbose:    a.opts.verbose,
		Quiet:      a.opts.quiet,
		Writer:     a.stderr,
	})
	if err != nil {
		return &config.Error{Err: err}
	}
	defer closer.Close()

	inv := lvm.NewInventory(a.runner, cfg.LVM.LVS, log)
	lc := lvm.NewLifecycle(a.runner, lvm.LifecycleOptions{
		LVCreate: cfg.LVM.LVCreate,
		LVRemove: cfg.LVM.LVRemove,
		Size:     cfg.Snapshot.Size,
		DryRun:   a.opts.dryRun,
	}, log)
	ret := retention.New(cfg.Retention.Times, log)

	d := driver.New(inv, lc, ret, driver.Options{
		NoDelete:  a.opts.noDelete,
		NoCreate:  a.opts.noCreate,
		Separator: cfg.Retention.Separator,
	}, log)

	rep, err := d.Run(ctx, volume, now)
	if err != nil {
		log.Error("run aborted", "volume", volume, "error", err)
		return err
	}
	log.Info("run complete",
		"origin", rep.Origin.Path(),
		"found", rep.Found,
		"kept", rep.Kept,
		"deleted", rep.Deleted,
		"deleteFailures", rep.DeleteFailures,
		"created", rep.Created,
	)

	if path := cfg.Metrics.Textfile; path != "" {
		rec := metrics.New()
		rec.Observe(rep, now)
		if err := rec.WriteTextfile(path); err != nil {
			log.Warn("metrics not written", "error", err)
		}
	}
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	dir := a.configDir
	if dir == "" && a.opts.configFile == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, &config.Error{Err: fmt.Errorf("locating executable: %w", err)}
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Dir(exe)
	}

	path, err := config.Locate(a.opts.configFile, dir)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}
