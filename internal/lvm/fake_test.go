package lvm

import (
	"context"
	"errors"
	"strings"
)

type call struct {
	name string
	args []string
}

func (c call) String() string {
	return c.name + " " + strings.Join(c.args, " ")
}

// fakeRunner replies with canned output and records every invocation.
type fakeRunner struct {
	calls  []call
	stdout map[string]string
	fail   map[string]string // command name -> stderr
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if stderr, ok := f.fail[name]; ok {
		return nil, &CommandError{
			Args:     append([]string{name}, args...),
			ExitCode: 5,
			Stderr:   stderr,
			Err:      errors.New("exit status 5"),
		}
	}
	return []byte(f.stdout[name]), nil
}
