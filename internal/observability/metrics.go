package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// simulation runner and the sensor network.
type Metrics struct {
	SimulationSteps   prometheus.Counter
	ReadingsCollected prometheus.Counter
	PollerRunning     prometheus.Gauge
	ActiveBuoys       prometheus.Gauge
	RunningSims       prometheus.Gauge

	EventsSimulated *prometheus.CounterVec // label: event

	StepDuration prometheus.Histogram
	PollDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SimulationSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oceansim",
			Name:      "simulation_steps_total",
			Help:      "Total simulated weeks advanced across all simulations.",
		}),
		ReadingsCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oceansim",
			Name:      "sensor_readings_total",
			Help:      "Total sensor readings collected from active buoys.",
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "oceansim",
			Name:      "poller_running",
			Help:      "1 when the background runner is active, 0 when shut down.",
		}),
		ActiveBuoys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "oceansim",
			Name:      "active_buoys",
			Help:      "Number of deployed buoys currently producing readings.",
		}),
		RunningSims: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "oceansim",
			Name:      "running_simulations",
			Help:      "Number of simulations being stepped in the background.",
		}),
		EventsSimulated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oceansim",
			Name:      "sensor_events_total",
			Help:      "Injected oceanographic events by type.",
		}, []string{"event"}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "oceansim",
			Name:      "step_duration_seconds",
			Help:      "Duration of one simulation step cycle across all running simulations.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "oceansim",
			Name:      "poll_cycle_duration_seconds",
			Help:      "Duration of one collect-and-store cycle over the buoy network.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	prometheus.MustRegister(
		m.SimulationSteps,
		m.ReadingsCollected,
		m.PollerRunning,
		m.ActiveBuoys,
		m.RunningSims,
		m.EventsSimulated,
		m.StepDuration,
		m.PollDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SimulationSteps:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "oceansim", Name: "simulation_steps_total"}),
		ReadingsCollected: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "oceansim", Name: "sensor_readings_total"}),
		PollerRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "oceansim", Name: "poller_running"}),
		ActiveBuoys:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "oceansim", Name: "active_buoys"}),
		RunningSims:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "oceansim", Name: "running_simulations"}),
		EventsSimulated:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "oceansim", Name: "sensor_events_total"}, []string{"event"}),
		StepDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "oceansim", Name: "step_duration_seconds"}),
		PollDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "oceansim", Name: "poll_cycle_duration_seconds"}),
	}
}
