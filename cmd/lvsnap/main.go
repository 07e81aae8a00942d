package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/raoulx24/lvsnap/internal/lvm"
)

const (
	exitFatal = 1
	exitUsage = 2
)

func main() {
	a := &app{
		runner: lvm.NewExecRunner(),
		now:    time.Now,
		stderr: os.Stderr,
	}

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lvsnap:", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			os.Exit(exitUsage)
		}
		os.Exit(exitFatal)
	}
}
