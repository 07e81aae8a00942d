// Package config loads the lvsnap YAML configuration.
package config

// Config is the complete lvsnap configuration.
type Config struct {
	Retention RetentionConfig `yaml:"retention"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	LVM       LVMConfig       `yaml:"lvm"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type RetentionConfig struct {
	// Times lists target ages in days. Order matters: earlier targets pick
	// their snapshot first. An empty list keeps nothing.
	Times     []float64 `yaml:"times" validate:"required,dive,finite"`
	Separator string    `yaml:"separator" validate:"required,lvchars"`
}

type SnapshotConfig struct {
	// Size is passed to lvcreate -L when the origin is not thin provisioned.
	Size string `yaml:"size"`
}

type LVMConfig struct {
	LVS      string `yaml:"lvs" validate:"required"`
	LVCreate string `yaml:"lvcreate" validate:"required"`
	LVRemove string `yaml:"lvremove" validate:"required"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error critical"`
	Format     string `yaml:"format" validate:"omitempty,oneof=text json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"gte=0"`
}

type MetricsConfig struct {
	// Textfile is where run metrics are written for the node_exporter
	// textfile collector. Empty disables metrics.
	Textfile string `yaml:"textfile"`
}
