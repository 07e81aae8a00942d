package lvm

import (
	"context"
	"fmt"
	"strings"

	"github.com/raoulx24/lvsnap/internal/logging"
	"github.com/raoulx24/lvsnap/internal/snapshot"
)

// Inventory lists the snapshots of an origin volume with lvs.
type Inventory struct {
	runner Runner
	lvs    string
	log    logging.Logger
}

// NewInventory creates an inventory that invokes the lvs binary at lvs.
func NewInventory(runner Runner, lvs string, log logging.Logger) *Inventory {
	return &Inventory{runner: runner, lvs: lvs, log: log}
}

// Snapshots resolves name ("lv" or "vg/lv") to its origin volume and returns
// the snapshots derived from it. The origin itself is never among them.
// Every error is an *InventoryError.
func (i *Inventory) Snapshots(ctx context.Context, name string) (snapshot.Volume, []snapshot.Snapshot, error) {
	vg, lv := splitName(name)
	fail := func(err error) (snapshot.Volume, []snapshot.Snapshot, error) {
		return snapshot.Volume{}, nil, &InventoryError{Volume: name, Err: err}
	}

	if lv == "" {
		return fail(fmt.Errorf("%w: empty name", ErrVolumeNotFound))
	}

	out, err := i.runner.Run(ctx, i.lvs, reportArgs(vg)...)
	if err != nil {
		return fail(err)
	}
	lvs, err := parseReport(out)
	if err != nil {
		return fail(err)
	}
	i.log.Debug("listed logical volumes", "count", len(lvs), "vg", vg)

	var matches []snapshot.Snapshot
	for _, l := range lvs {
		if l.Name == lv && (vg == "" || l.VG == vg) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return fail(ErrVolumeNotFound)
	case 1:
	default:
		vgs := make([]string, 0, len(matches))
		for _, m := range matches {
			vgs = append(vgs, m.VG)
		}
		return fail(fmt.Errorf("%w: found in %s, use vg/lv", ErrAmbiguousVolume, strings.Join(vgs, ", ")))
	}

	o := matches[0]
	origin := snapshot.Volume{Name: o.Name, VG: o.VG, UUID: o.UUID, Pool: o.Pool}

	var snaps []snapshot.Snapshot
	for _, l := range lvs {
		if derivedFrom(l, origin) {
			snaps = append(snaps, l)
		}
	}
	return origin, snaps, nil
}

func derivedFrom(l snapshot.Snapshot, origin snapshot.Volume) bool {
	if l.UUID == origin.UUID && l.VG == origin.VG && l.Name == origin.Name {
		return false
	}
	if l.OriginUUID != "" {
		return l.OriginUUID == origin.UUID
	}
	return l.Origin == origin.Name && l.VG == origin.VG
}

func splitName(name string) (vg, lv string) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/dev/")
	if before, after, ok := strings.Cut(name, "/"); ok {
		return before, after
	}
	return "", name
}
