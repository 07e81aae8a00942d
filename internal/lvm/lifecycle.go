package lvm

import (
	"context"
	"fmt"
	"strings"

	"github.com/raoulx24/lvsnap/internal/logging"
	"github.com/raoulx24/lvsnap/internal/snapshot"
)

// LifecycleOptions configures NewLifecycle.
type LifecycleOptions struct {
	LVCreate string
	LVRemove string
	// Size is the -L argument for snapshots of thick origins.
	Size string
	// DryRun logs the commands instead of running them.
	DryRun bool
}

// Lifecycle creates and removes snapshots with lvcreate and lvremove.
type Lifecycle struct {
	runner Runner
	opts   LifecycleOptions
	log    logging.Logger
}

// NewLifecycle creates a Lifecycle running commands through runner.
func NewLifecycle(runner Runner, opts LifecycleOptions, log logging.Logger) *Lifecycle {
	return &Lifecycle{runner: runner, opts: opts, log: log}
}

// Delete removes snap. An LV without an origin is refused with
// ErrNotSnapshot before any command runs.
func (l *Lifecycle) Delete(ctx context.Context, snap snapshot.Snapshot) error {
	if !snap.IsDerived() {
		return fmt.Errorf("refusing to delete %s: %w", snap.Path(), ErrNotSnapshot)
	}
	l.log.Warn("deleting snapshot", "lv", snap.Path())
	return l.run(ctx, l.opts.LVRemove, "-y", snap.Path())
}

// Create takes a snapshot of origin called name.
func (l *Lifecycle) Create(ctx context.Context, origin snapshot.Volume, name string) error {
	args := []string{"-s"}
	switch {
	case origin.Thin():
		args = append(args, "--thinpool", origin.Pool)
	case l.opts.Size != "":
		args = append(args, "-L", l.opts.Size)
	default:
		return fmt.Errorf("creating %s: %w", name, ErrNoSnapshotSize)
	}
	args = append(args, "--name", name, origin.Path())

	l.log.Info("creating snapshot", "lv", name, "origin", origin.Path())
	return l.run(ctx, l.opts.LVCreate, args...)
}

func (l *Lifecycle) run(ctx context.Context, name string, args ...string) error {
	if l.opts.DryRun {
		l.log.Warn("dry run, not executing", "command", name+" "+strings.Join(args, " "))
		return nil
	}
	out, err := l.runner.Run(ctx, name, args...)
	if err != nil {
		return err
	}
	l.log.Debug("command succeeded", "command", name, "output", strings.TrimSpace(string(out)))
	return nil
}
