// Package metrics exports the outcome of a run in the Prometheus text format,
// for pickup by the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/raoulx24/lvsnap/internal/driver"
)

const namespace = "lvsnap"

// Recorder holds the gauges of one run in a private registry.
type Recorder struct {
	reg *prometheus.Registry

	found          *prometheus.GaugeVec
	kept           *prometheus.GaugeVec
	deleted        *prometheus.GaugeVec
	deleteFailures *prometheus.GaugeVec
	created        *prometheus.GaugeVec
	lastRun        *prometheus.GaugeVec
}

func gauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, []string{"origin"})
}

// New creates a Recorder with all lvsnap gauges registered.
func New() *Recorder {
	r := &Recorder{
		reg:            prometheus.NewRegistry(),
		found:          gauge("snapshots_found", "Snapshots of the origin present before the run."),
		kept:           gauge("snapshots_kept", "Snapshots claimed by a retention target."),
		deleted:        gauge("snapshots_deleted", "Snapshots removed by the run."),
		deleteFailures: gauge("delete_failures", "Snapshots the run failed or refused to remove."),
		created:        gauge("snapshot_created", "1 if the run created a new snapshot."),
		lastRun:        gauge("last_run_timestamp_seconds", "Start time of the run."),
	}
	r.reg.MustRegister(r.found, r.kept, r.deleted, r.deleteFailures, r.created, r.lastRun)
	return r
}

// Observe records the report of a run that started at start.
func (r *Recorder) Observe(rep driver.Report, start time.Time) {
	origin := rep.Origin.Path()
	r.found.WithLabelValues(origin).Set(float64(rep.Found))
	r.kept.WithLabelValues(origin).Set(float64(rep.Kept))
	r.deleted.WithLabelValues(origin).Set(float64(rep.Deleted))
	r.deleteFailures.WithLabelValues(origin).Set(float64(rep.DeleteFailures))

	created := 0.0
	if rep.Created != "" {
		created = 1
	}
	r.created.WithLabelValues(origin).Set(created)
	r.lastRun.WithLabelValues(origin).Set(float64(start.Unix()))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// WriteTextfile atomically replaces path with the current metrics.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
