package main

import (
	"github.com/spf13/pflag"
)

// options are the command line settings of one run.
type options struct {
	noDelete   bool
	noCreate   bool
	dryRun     bool
	verbose    int
	quiet      int
	configFile string
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.noDelete, "no-delete", "D", false, "don't delete old snapshots")
	fs.BoolVarP(&o.noCreate, "no-create", "C", false, "don't create a new snapshot")
	fs.CountVarP(&o.verbose, "verbose", "v", "increase verbosity (repeatable)")
	fs.CountVarP(&o.quiet, "quiet", "q", "decrease verbosity (repeatable)")
	fs.StringVarP(&o.configFile, "config", "c", "", "config file (default: config.yaml, then config.yaml.example, next to the executable)")
	fs.BoolVar(&o.dryRun, "dry-run", false, "log the lvremove/lvcreate commands instead of running them")
}

// usageError marks command line mistakes, which exit with a distinct code.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }
