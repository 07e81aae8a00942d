package lvm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/lvsnap/internal/logging"
	"github.com/raoulx24/lvsnap/internal/snapshot"
)

const report = `  vg0$data$ORIG-0$$$thin$2025-03-01 10:00:00 +0000$Vwi-aotz--$10.00g
  vg0$data-snap-20250304$SNAP-1$data$ORIG-0$thin$2025-03-04 03:00:00 +0000$Vwi---tz-k$10.00g
  vg0$data-snap-20250226$SNAP-2$data$ORIG-0$thin$2025-02-26 03:00:00 +0000$Vwi---tz-k$10.00g
  vg0$thin$POOL-0$$$$2024-01-01 00:00:00 +0000$twi-aotz--$100.00g
  vg0$other$OTHER-0$$$thin$2025-01-01 00:00:00 +0000$Vwi-aotz--$1.00g
  vg0$other-snap-20250304$OTHER-1$other$OTHER-0$thin$2025-03-04 03:00:00 +0000$Vwi---tz-k$1.00g
`

const ambiguous = report + `  vg1$data$ORIG-1$$$$1735689600$-wi-ao----$5.00g
`

func TestParseReport(t *testing.T) {
	lvs, err := parseReport([]byte(report))
	require.NoError(t, err)
	require.Len(t, lvs, 6)

	s := lvs[1]
	assert.Equal(t, "data-snap-20250304", s.Name)
	assert.Equal(t, "vg0", s.VG)
	assert.Equal(t, "SNAP-1", s.UUID)
	assert.Equal(t, "data", s.Origin)
	assert.Equal(t, "ORIG-0", s.OriginUUID)
	assert.Equal(t, "thin", s.Pool)
	assert.True(t, s.Created.Equal(time.Date(2025, time.March, 4, 3, 0, 0, 0, time.UTC)))
	assert.Equal(t, map[string]string{"lv_attr": "Vwi---tz-k", "lv_size": "10.00g"}, s.Attrs)

	assert.False(t, lvs[0].IsDerived())
}

func TestParseReportRejectsMalformed(t *testing.T) {
	_, err := parseReport([]byte("  vg0$data$ORIG\n"))
	assert.ErrorContains(t, err, "expected 9 columns")

	_, err = parseReport([]byte("  vg0$data$ORIG-0$$$thin$yesterday$Vwi-aotz--$10.00g\n"))
	assert.ErrorContains(t, err, "unrecognised creation time")
}

func TestParseTime(t *testing.T) {
	got, err := parseTime("1735689600")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))

	got, err = parseTime("2025-01-01 02:00:00 +0200")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))

	_, err = parseTime("")
	assert.Error(t, err)
}

func TestInventorySnapshots(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{"lvs": report}}
	inv := NewInventory(runner, "lvs", logging.Discard())

	origin, snaps, err := inv.Snapshots(context.Background(), "data")
	require.NoError(t, err)

	assert.Equal(t, snapshot.Volume{Name: "data", VG: "vg0", UUID: "ORIG-0", Pool: "thin"}, origin)
	names := []string{}
	for _, s := range snaps {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"data-snap-20250304", "data-snap-20250226"}, names)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "lvs --noheadings --separator=$ -o vg_name,lv_name,lv_uuid,origin,origin_uuid,pool_lv,lv_time,lv_attr,lv_size",
		runner.calls[0].String())
}

func TestInventoryQualifiedName(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{"lvs": ambiguous}}
	inv := NewInventory(runner, "lvs", logging.Discard())

	origin, snaps, err := inv.Snapshots(context.Background(), "vg1/data")
	require.NoError(t, err)
	assert.Equal(t, "ORIG-1", origin.UUID)
	assert.False(t, origin.Thin())
	assert.Empty(t, snaps)
	assert.Equal(t, "vg1", runner.calls[0].args[len(runner.calls[0].args)-1])

	_, _, err = inv.Snapshots(context.Background(), "/dev/vg0/data")
	require.NoError(t, err)
}

func TestInventoryErrors(t *testing.T) {
	ctx := context.Background()

	inv := NewInventory(&fakeRunner{stdout: map[string]string{"lvs": ambiguous}}, "lvs", logging.Discard())
	_, _, err := inv.Snapshots(ctx, "data")
	var ierr *InventoryError
	require.True(t, errors.As(err, &ierr))
	assert.ErrorIs(t, err, ErrAmbiguousVolume)

	_, _, err = inv.Snapshots(ctx, "missing")
	assert.ErrorIs(t, err, ErrVolumeNotFound)

	_, _, err = inv.Snapshots(ctx, "")
	assert.ErrorIs(t, err, ErrVolumeNotFound)

	inv = NewInventory(&fakeRunner{fail: map[string]string{"lvs": "Volume group \"vg9\" not found"}}, "lvs", logging.Discard())
	_, _, err = inv.Snapshots(ctx, "vg9/data")
	require.True(t, errors.As(err, &ierr))
	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, err.Error(), "vg9")
}

func TestDeleteRefusesOrigin(t *testing.T) {
	runner := &fakeRunner{}
	lc := NewLifecycle(runner, LifecycleOptions{LVCreate: "lvcreate", LVRemove: "lvremove"}, logging.Discard())

	err := lc.Delete(context.Background(), snapshot.Snapshot{Name: "data", VG: "vg0"})

	assert.ErrorIs(t, err, ErrNotSnapshot)
	assert.Empty(t, runner.calls)
}

func TestDelete(t *testing.T) {
	runner := &fakeRunner{}
	lc := NewLifecycle(runner, LifecycleOptions{LVCreate: "lvcreate", LVRemove: "/sbin/lvremove"}, logging.Discard())

	err := lc.Delete(context.Background(), snapshot.Snapshot{Name: "data.1", VG: "vg0", Origin: "data"})

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "/sbin/lvremove -y vg0/data.1", runner.calls[0].String())
}

func TestDeleteReportsCommandFailure(t *testing.T) {
	runner := &fakeRunner{fail: map[string]string{"lvremove": "Logical volume vg0/data.1 in use."}}
	lc := NewLifecycle(runner, LifecycleOptions{LVCreate: "lvcreate", LVRemove: "lvremove"}, logging.Discard())

	err := lc.Delete(context.Background(), snapshot.Snapshot{Name: "data.1", VG: "vg0", Origin: "data"})

	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 5, cerr.ExitCode)
	assert.Contains(t, err.Error(), "in use")
}

func TestCreateThin(t *testing.T) {
	runner := &fakeRunner{}
	lc := NewLifecycle(runner, LifecycleOptions{LVCreate: "lvcreate", LVRemove: "lvremove"}, logging.Discard())
	origin := snapshot.Volume{Name: "data", VG: "vg0", Pool: "thin"}

	require.NoError(t, lc.Create(context.Background(), origin, "data-snap-20250305"))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "lvcreate -s --thinpool thin --name data-snap-20250305 vg0/data", runner.calls[0].String())
}

func TestCreateThick(t *testing.T) {
	origin := snapshot.Volume{Name: "data", VG: "vg0"}

	runner := &fakeRunner{}
	lc := NewLifecycle(runner, LifecycleOptions{LVCreate: "lvcreate", LVRemove: "lvremove", Size: "2G"}, logging.Discard())
	require.NoError(t, lc.Create(context.Background(), origin, "data.1"))
	assert.Equal(t, "lvcreate -s -L 2G --name data.1 vg0/data", runner.calls[0].String())

	runner = &fakeRunner{}
	lc = NewLifecycle(runner, LifecycleOptions{LVCreate: "lvcreate", LVRemove: "lvremove"}, logging.Discard())
	assert.ErrorIs(t, lc.Create(context.Background(), origin, "data.1"), ErrNoSnapshotSize)
	assert.Empty(t, runner.calls)
}

func TestDryRunRunsNothing(t *testing.T) {
	runner := &fakeRunner{}
	lc := NewLifecycle(runner, LifecycleOptions{LVCreate: "lvcreate", LVRemove: "lvremove", DryRun: true}, logging.Discard())
	ctx := context.Background()

	require.NoError(t, lc.Delete(ctx, snapshot.Snapshot{Name: "data.1", VG: "vg0", Origin: "data"}))
	require.NoError(t, lc.Create(ctx, snapshot.Volume{Name: "data", VG: "vg0", Pool: "thin"}, "data.2"))
	assert.ErrorIs(t, lc.Delete(ctx, snapshot.Snapshot{Name: "data", VG: "vg0"}), ErrNotSnapshot)
	assert.Empty(t, runner.calls)
}
