// Package retention decides which snapshots survive a run.
//
// Every configured target age claims the closest snapshot still unclaimed,
// in configuration order. Whatever no target claims is deleted. The result
// is greedy: reordering the targets can change which snapshots survive.
package retention

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/raoulx24/lvsnap/internal/logging"
	"github.com/raoulx24/lvsnap/internal/snapshot"
)

// Claim records a kept snapshot and the target that claimed it.
type Claim struct {
	Candidate
	Target   float64
	Distance float64
}

// Decision partitions a pool into kept and deleted snapshots.
type Decision struct {
	Keep   []Claim
	Delete []Candidate
}

// Select assigns each target its nearest remaining candidate and returns the
// partition. Equal distances go to the candidate that comes first in pool.
// pool is not modified.
func Select(pool []Candidate, targets []float64) Decision {
	remaining := slices.Clone(pool)
	var d Decision

	for _, t := range targets {
		if len(remaining) == 0 {
			continue
		}

		best := 0
		bestDiff := math.Abs(t - remaining[0].Age)
		for i := 1; i < len(remaining); i++ {
			if diff := math.Abs(t - remaining[i].Age); diff < bestDiff {
				best, bestDiff = i, diff
			}
		}

		d.Keep = append(d.Keep, Claim{Candidate: remaining[best], Target: t, Distance: bestDiff})
		remaining = slices.Delete(remaining, best, best+1)
	}

	d.Delete = remaining
	return d
}

// Snapshots returns the snapshots of the DELETE set.
func (d Decision) Snapshots() []snapshot.Snapshot {
	out := make([]snapshot.Snapshot, 0, len(d.Delete))
	for _, c := range d.Delete {
		out = append(out, c.Snapshot)
	}
	return out
}

// Engine applies a fixed list of target ages and logs its reasoning.
type Engine struct {
	targets []float64
	log     logging.Logger
}

// New creates an engine for targets, in the order given.
func New(targets []float64, log logging.Logger) *Engine {
	return &Engine{
		targets: slices.Clone(targets),
		log:     log,
	}
}

// Plan computes the retention decision for snaps as of now.
func (e *Engine) Plan(snaps []snapshot.Snapshot, now time.Time) Decision {
	pool := Candidates(snaps, now)
	e.log.Debug("current snapshot list", "snapshots", describe(pool))

	d := Select(pool, e.targets)
	for _, c := range d.Keep {
		e.log.Info(fmt.Sprintf("%s is fine for time %g", c.Snapshot.Name, c.Target),
			"age", c.Age,
			"created", humanize.RelTime(c.Snapshot.Created, now, "ago", "from now"),
		)
	}
	if unclaimed := len(e.targets) - len(d.Keep); unclaimed > 0 {
		e.log.Debug("targets left without a snapshot", "count", unclaimed)
	}
	return d
}

func describe(pool []Candidate) string {
	parts := make([]string, 0, len(pool))
	for _, c := range pool {
		parts = append(parts, fmt.Sprintf("%s:%d", c.Snapshot.Name, int(c.Age)))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
