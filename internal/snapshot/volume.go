package snapshot

// Volume is the origin logical volume new snapshots are taken from.
type Volume struct {
	Name string
	VG   string
	UUID string
	Pool string // thin pool, empty for thick volumes
}

// Path returns the vg/lv form accepted by the LVM tools.
func (v Volume) Path() string {
	return qualify(v.VG, v.Name)
}

// Thin reports whether the volume lives in a thin pool.
func (v Volume) Thin() bool {
	return v.Pool != ""
}
