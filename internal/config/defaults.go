package config

// Defaults returns the values used for every key the file leaves unset.
// Target ages and the separator have no default.
func Defaults() Config {
	return Config{
		LVM: LVMConfig{
			LVS:      "lvs",
			LVCreate: "lvcreate",
			LVRemove: "lvremove",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
