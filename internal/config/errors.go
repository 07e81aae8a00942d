package config

import "fmt"

// Error reports a missing or malformed configuration. It is always fatal.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
