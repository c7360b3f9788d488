// Package metrics exposes harbor activity and occupancy as Prometheus
// metrics on a private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
)

// Arrival results.
const (
	ResultAdmitted   = "admitted"
	ResultTurnedAway = "turned_away"
	ResultDuplicate  = "duplicate"
)

// Collector records harbor metrics.
type Collector struct {
	registry *prometheus.Registry

	arrivals      *prometheus.CounterVec
	removals      *prometheus.CounterVec
	departures    *prometheus.CounterVec
	ticks         prometheus.Counter
	auditFailures prometheus.Counter
	persistence   *prometheus.CounterVec

	boats       prometheus.Gauge
	slots       prometheus.Gauge
	freeSlots   prometheus.Gauge
	docks       prometheus.Gauge
	totalWeight prometheus.Gauge
	date        prometheus.Gauge
	tasks       *prometheus.GaugeVec
}

// NewCollector creates a collector. An empty namespace defaults to
// "harbor".
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "harbor"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.arrivals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arrivals_total",
			Help:      "Boats offered to the harbor by kind and result",
		},
		[]string{"kind", "result"},
	)
	c.removals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removals_total",
			Help:      "Explicit removal requests by result",
		},
		[]string{"result"},
	)
	c.departures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "departures_total",
			Help:      "Boats that left after their berth time, by kind",
		},
		[]string{"kind"},
	)
	c.ticks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "days_total",
		Help:      "Days advanced",
	})
	c.auditFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "write_failures_total",
		Help:      "Audit log writes that failed",
	})
	c.persistence = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "operations_total",
			Help:      "Snapshot saves and loads by result",
		},
		[]string{"op", "result"},
	)

	c.boats = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "boats",
		Help:      "Boats currently berthed",
	})
	c.slots = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "slots",
		Help:      "Total slots across all docks",
	})
	c.freeSlots = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "free_slots",
		Help:      "Completely empty slots",
	})
	c.docks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "docks",
		Help:      "Number of docks",
	})
	c.totalWeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "berthed_weight_kilograms",
		Help:      "Combined weight of berthed boats",
	})
	c.date = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "date_seconds",
		Help:      "Current harbor date as a Unix timestamp",
	})
	c.tasks = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "task_running",
			Help:      "Whether a background task is running (1) or not (0)",
		},
		[]string{"task"},
	)

	c.registry.MustRegister(
		c.arrivals, c.removals, c.departures, c.ticks, c.auditFailures, c.persistence,
		c.boats, c.slots, c.freeSlots, c.docks, c.totalWeight, c.date, c.tasks,
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordArrival counts a boat offered to the harbor.
func (c *Collector) RecordArrival(b *boat.Boat, result string) {
	c.arrivals.WithLabelValues(b.TypeName(), result).Inc()
}

// RecordRemoval counts an explicit removal request.
func (c *Collector) RecordRemoval(found bool) {
	result := "removed"
	if !found {
		result = "not_found"
	}
	c.removals.WithLabelValues(result).Inc()
}

// RecordTick counts a day and its departures.
func (c *Collector) RecordTick(left []*boat.Boat) {
	c.ticks.Inc()
	for _, b := range left {
		c.departures.WithLabelValues(b.TypeName()).Inc()
	}
}

// RecordAuditFailure counts a failed audit log write.
func (c *Collector) RecordAuditFailure() {
	c.auditFailures.Inc()
}

// RecordPersistence counts a snapshot operation.
func (c *Collector) RecordPersistence(op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.persistence.WithLabelValues(op, result).Inc()
}

// ObserveHarbor updates the occupancy gauges from h.
func (c *Collector) ObserveHarbor(h port.Harbor) {
	s := port.Summarize(h)
	c.boats.Set(float64(s.Boats))
	c.slots.Set(float64(s.Slots))
	c.freeSlots.Set(float64(s.FreeSlots))
	c.docks.Set(float64(s.Docks))
	c.totalWeight.Set(float64(s.TotalWeight))
	c.date.Set(float64(h.Date().Unix()))
}

// SetTaskRunning records whether a background task is running.
func (c *Collector) SetTaskRunning(task string, running bool) {
	v := 0.0
	if running {
		v = 1
	}
	c.tasks.WithLabelValues(task).Set(v)
}
