// Package metrics exposes drop's Prometheus instrumentation: counters for
// entries stored and removed (by reason), a live-entries gauge and a
// latency histogram for HTTP requests, all under a drop_ namespace,
// lazily registered on first use so
// packages can declare a metric at init time without caring whether
// metrics are ever actually read.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "drop"

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	countersMu sync.Mutex
	counters   = map[string]*prometheus.CounterVec{}

	gaugesMu sync.Mutex
	gauges   = map[string]*prometheus.GaugeVec{}

	histogramsMu sync.Mutex
	histograms   = map[string]*prometheus.HistogramVec{}
)

// Registry returns the registry the /metrics handler should serve.
func Registry() *prometheus.Registry {
	registerOnce.Do(func() {
		registry.MustRegister(prometheus.NewGoCollector())
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
	return registry
}

// LazyLoadCounterVec returns the counter vector named name, creating and
// registering it on first call. Safe to call from multiple goroutines and
// from package-level var initializers.
func LazyLoadCounterVec(name string, labels []string) *prometheus.CounterVec {
	countersMu.Lock()
	defer countersMu.Unlock()

	if c, ok := counters[name]; ok {
		return c
	}
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
	}, labels)
	Registry().MustRegister(c)
	counters[name] = c
	return c
}

// LazyLoadGaugeVec returns the gauge vector named name, creating and
// registering it on first call.
func LazyLoadGaugeVec(name string, labels []string) *prometheus.GaugeVec {
	gaugesMu.Lock()
	defer gaugesMu.Unlock()

	if g, ok := gauges[name]; ok {
		return g
	}
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
	}, labels)
	Registry().MustRegister(g)
	gauges[name] = g
	return g
}

// LazyLoadHistogramVec returns the histogram vector named name, creating
// and registering it with buckets on first call; later calls ignore
// buckets and return the existing vector.
func LazyLoadHistogramVec(name string, labels []string, buckets []float64) *prometheus.HistogramVec {
	histogramsMu.Lock()
	defer histogramsMu.Unlock()

	if h, ok := histograms[name]; ok {
		return h
	}
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Buckets:   buckets,
	}, labels)
	Registry().MustRegister(h)
	histograms[name] = h
	return h
}

// Reset clears every registered metric. Exists for tests that need a
// fresh registry between cases; production code never calls this.
func Reset() {
	countersMu.Lock()
	gaugesMu.Lock()
	histogramsMu.Lock()
	defer countersMu.Unlock()
	defer gaugesMu.Unlock()
	defer histogramsMu.Unlock()

	registry = prometheus.NewRegistry()
	registerOnce = sync.Once{}
	counters = map[string]*prometheus.CounterVec{}
	gauges = map[string]*prometheus.GaugeVec{}
	histograms = map[string]*prometheus.HistogramVec{}
}
