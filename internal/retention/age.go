package retention

import (
	"cmp"
	"slices"
	"time"

	"github.com/raoulx24/lvsnap/internal/snapshot"
)

const secondsPerDay = 86400

// Age returns the days elapsed between created and now. The value is not
// rounded and is negative for timestamps after now.
func Age(created, now time.Time) float64 {
	return now.Sub(created).Seconds() / secondsPerDay
}

// Candidate is a snapshot paired with its age at the start of the run.
type Candidate struct {
	Snapshot snapshot.Snapshot
	Age      float64
}

// Candidates computes the age of every snapshot against now and returns them
// oldest first, ties by name. Select breaks equal distances by this order.
func Candidates(snaps []snapshot.Snapshot, now time.Time) []Candidate {
	out := make([]Candidate, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, Candidate{Snapshot: s, Age: Age(s.Created, now)})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := a.Snapshot.Created.Compare(b.Snapshot.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.Snapshot.Name, b.Snapshot.Name)
	})
	return out
}
