package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is looked up next to the executable when no path is given.
	FileName = "config.yaml"
	// ExampleFileName is the fallback shipped with the binary.
	ExampleFileName = FileName + ".example"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envPattern.FindStringSubmatch(m)[1])
	})
}

// Locate returns explicit when set. Otherwise it looks for FileName and then
// ExampleFileName in dir.
func Locate(explicit, dir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, name := range []string{FileName, ExampleFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", &Error{Err: fmt.Errorf("no %s or %s in %s", FileName, ExampleFileName, dir)}
}

// Load reads, expands, defaults and validates the file at path. Every
// failure is an *Error.
func Load(path string) (*Config, error) {
	// read raw YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("reading config file: %w", err)}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse is Load without the file access.
func Parse(data []byte) (*Config, error) {
	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	// unmarshal into struct, rejecting unknown keys
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	if err := mergo.Merge(&cfg, Defaults()); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
