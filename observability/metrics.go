// Package observability exposes simulation metrics to Prometheus.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm-cable/bounce/sim"
)

// SimCollector bundles Prometheus metrics for the tick pipeline.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Events        *prometheus.CounterVec
	Collisions    *prometheus.CounterVec
	TickDurations prometheus.Histogram

	Particles     prometheus.Gauge
	StoreCapacity prometheus.Gauge
	TreeNodes     prometheus.Gauge
	TreeDepth     prometheus.Gauge
	KineticEnergy prometheus.Gauge
}

// NewSimCollector registers simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	events, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bounce_events_total",
		Help: "Simulation events, labeled by kind (spawned, rejected, grows, bounces, dropped).",
	}, []string{"event"}), "bounce_events_total")
	if err != nil {
		return nil, err
	}
	collisions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bounce_collisions_total",
		Help: "Narrow-phase work, labeled by stage (candidates, contacts, resolved, degenerate).",
	}, []string{"stage"}), "bounce_collisions_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bounce_tick_duration_seconds",
		Help:    "Wall-clock time of one simulation tick.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.025, 0.05, 0.1, 0.25},
	}), "bounce_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{nil, "bounce_particles", "Current number of particles."},
		{nil, "bounce_store_capacity", "Current particle store capacity in records."},
		{nil, "bounce_tree_nodes", "Quadtree nodes after the last rebuild."},
		{nil, "bounce_tree_depth", "Deepest quadtree level after the last rebuild."},
		{nil, "bounce_kinetic_energy", "Total kinetic energy of all particles."},
	}
	c := &SimCollector{
		gatherer:      gatherer,
		Events:        events,
		Collisions:    collisions,
		TickDurations: durations,
	}
	gauges[0].dst = &c.Particles
	gauges[1].dst = &c.StoreCapacity
	gauges[2].dst = &c.TreeNodes
	gauges[3].dst = &c.TreeDepth
	gauges[4].dst = &c.KineticEnergy
	for _, g := range gauges {
		gauge, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help}), g.name)
		if err != nil {
			return nil, err
		}
		*g.dst = gauge
	}

	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveTick records one tick's counters and duration.
func (c *SimCollector) ObserveTick(s sim.TickStats, d time.Duration) {
	if c == nil {
		return
	}
	c.Events.WithLabelValues("spawned").Add(float64(s.Spawned))
	c.Events.WithLabelValues("rejected").Add(float64(s.Rejected))
	c.Events.WithLabelValues("grows").Add(float64(s.Grows))
	c.Events.WithLabelValues("bounces").Add(float64(s.Bounces))
	c.Events.WithLabelValues("dropped").Add(float64(s.Dropped))

	c.Collisions.WithLabelValues("candidates").Add(float64(s.Collisions.Candidates))
	c.Collisions.WithLabelValues("contacts").Add(float64(s.Collisions.Contacts))
	c.Collisions.WithLabelValues("resolved").Add(float64(s.Collisions.Resolved))
	c.Collisions.WithLabelValues("degenerate").Add(float64(s.Collisions.Degenerate))

	c.TickDurations.Observe(d.Seconds())
	c.Particles.Set(float64(s.Count))
}

// SetWorld updates the gauges that describe the world between ticks.
func (c *SimCollector) SetWorld(w *sim.World) {
	if c == nil || w == nil {
		return
	}
	c.Particles.Set(float64(w.Count()))
	c.StoreCapacity.Set(float64(w.Store().Capacity()))
	c.TreeNodes.Set(float64(w.Tree().NodeCount()))
	c.TreeDepth.Set(float64(w.Tree().Depth()))
	ke, _, _ := w.Energy()
	c.KineticEnergy.Set(ke)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
