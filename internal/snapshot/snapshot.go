// Package snapshot holds the logical volume records read from the volume
// manager for the duration of one run.
package snapshot

import "time"

// Snapshot represents a single derived snapshot of an origin volume.
type Snapshot struct {
	Name       string
	VG         string
	UUID       string
	Origin     string // origin LV name, empty when the LV is not a snapshot
	OriginUUID string
	Pool       string
	Created    time.Time

	// Attrs carries every other reported column untouched.
	Attrs map[string]string
}

// Path returns the vg/lv form accepted by the LVM tools.
func (s Snapshot) Path() string {
	return qualify(s.VG, s.Name)
}

// IsDerived reports whether the LV references an origin.
func (s Snapshot) IsDerived() bool {
	return s.Origin != "" || s.OriginUUID != ""
}

func qualify(vg, name string) string {
	if vg == "" {
		return name
	}
	return vg + "/" + name
}
