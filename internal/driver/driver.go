// Package driver runs one retention sweep: list the snapshots of an origin,
// delete the ones the retention engine does not keep, then take a new one.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/raoulx24/lvsnap/internal/logging"
	"github.com/raoulx24/lvsnap/internal/lvm"
	"github.com/raoulx24/lvsnap/internal/retention"
	"github.com/raoulx24/lvsnap/internal/snapshot"
)

// Inventory lists the snapshots derived from an origin volume.
type Inventory interface {
	Snapshots(ctx context.Context, name string) (snapshot.Volume, []snapshot.Snapshot, error)
}

// Lifecycle creates and deletes snapshots.
type Lifecycle interface {
	Delete(ctx context.Context, snap snapshot.Snapshot) error
	Create(ctx context.Context, origin snapshot.Volume, name string) error
}

// Options selects the phases of a run.
type Options struct {
	NoDelete  bool
	NoCreate  bool
	Separator string
}

// Report summarises one run.
type Report struct {
	Origin         snapshot.Volume
	Found          int
	Kept           int
	Deleted        int
	DeleteFailures int
	Created        string // name of the new snapshot, empty if none was made
	CreateFailed   bool
}

// Driver wires the inventory, the retention engine and the lifecycle
// executor together.
type Driver struct {
	inventory Inventory
	lifecycle Lifecycle
	retention *retention.Engine
	opts      Options
	log       logging.Logger
}

// New creates a driver.
func New(inv Inventory, lc Lifecycle, r *retention.Engine, opts Options, log logging.Logger) *Driver {
	return &Driver{
		inventory: inv,
		lifecycle: lc,
		retention: r,
		opts:      opts,
		log:       log,
	}
}

// Run performs one sweep of volume as of now. Only an inventory failure is
// returned; delete and create failures are logged and counted in the report.
func (d *Driver) Run(ctx context.Context, volume string, now time.Time) (Report, error) {
	d.log.Debug("entering Driver.Run()", "volume", volume, "now", now)

	origin, snaps, err := d.inventory.Snapshots(ctx, volume)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Origin: origin, Found: len(snaps)}

	decision := d.retention.Plan(snaps, now)
	toDelete := decision.Snapshots()
	rep.Kept = len(decision.Keep)
	d.log.Info("deletion list", "origin", origin.Path(), "snapshots", names(toDelete))

	if d.opts.NoDelete {
		d.log.Info("skipping deletion")
	} else {
		for _, s := range toDelete {
			if err := d.lifecycle.Delete(ctx, s); err != nil {
				rep.DeleteFailures++
				d.warnDelete(s, err)
				continue
			}
			rep.Deleted++
		}
	}

	if d.opts.NoCreate {
		d.log.Info("skipping creation")
		return rep, nil
	}

	name := snapshot.NewName(origin, d.opts.Separator, now)
	if err := d.lifecycle.Create(ctx, origin, name); err != nil {
		rep.CreateFailed = true
		d.log.Warn("snapshot creation failed", append([]any{"lv", name, "origin", origin.Path()}, failure(err)...)...)
		return rep, nil
	}
	rep.Created = name

	return rep, nil
}

func (d *Driver) warnDelete(s snapshot.Snapshot, err error) {
	if errors.Is(err, lvm.ErrNotSnapshot) {
		d.log.Warn("refusing to delete a volume that is not a snapshot", "lv", s.Path(), "error", err)
		return
	}
	d.log.Warn("snapshot deletion failed", append([]any{"lv", s.Path()}, failure(err)...)...)
}

// failure expands err into log attributes, with the full command output when
// an LVM tool failed.
func failure(err error) []any {
	attrs := []any{"error", err}
	var cerr *lvm.CommandError
	if errors.As(err, &cerr) {
		attrs = append(attrs, "exit", cerr.ExitCode, "stdout", cerr.Stdout, "stderr", cerr.Stderr)
	}
	return attrs
}

func names(snaps []snapshot.Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.Name)
	}
	return out
}
