package lvm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotSnapshot is returned when asked to delete an LV without an origin.
	ErrNotSnapshot = errors.New("not a snapshot")
	// ErrVolumeNotFound means no LV matched the requested origin.
	ErrVolumeNotFound = errors.New("volume not found")
	// ErrAmbiguousVolume means an unqualified name matched LVs in several VGs.
	ErrAmbiguousVolume = errors.New("volume name is ambiguous")
	// ErrNoSnapshotSize means a thick origin was given no snapshot size.
	ErrNoSnapshotSize = errors.New("origin is not thin provisioned and no snapshot size is configured")
)

// InventoryError reports a failure to enumerate the snapshots of Volume.
type InventoryError struct {
	Volume string
	Err    error
}

func (e *InventoryError) Error() string {
	return fmt.Sprintf("inventory of %s: %v", e.Volume, e.Err)
}

func (e *InventoryError) Unwrap() error { return e.Err }

// CommandError is a failed LVM tool invocation with its full output.
type CommandError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error { return e.Err }
