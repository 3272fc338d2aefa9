// Package metrics implements core.MetricsRecorder on Prometheus client_golang.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-payhooks/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "payhooks"

// PrometheusRecorder lazily registers one vector per metric name. The label
// set is fixed by the first observation of a name: missing labels are
// recorded as "" and unknown labels are dropped.
type PrometheusRecorder struct {
	namespace  string
	registry   *prometheus.Registry
	mu         sync.Mutex
	counters   map[string]*counterEntry
	histograms map[string]*histogramEntry
}

type counterEntry struct {
	vec    *prometheus.CounterVec
	labels []string
}

type histogramEntry struct {
	vec    *prometheus.HistogramVec
	labels []string
}

var _ core.MetricsRecorder = (*PrometheusRecorder)(nil)

func NewPrometheusRecorder(namespace string, registry *prometheus.Registry) *PrometheusRecorder {
	namespace = sanitizeName(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return &PrometheusRecorder{
		namespace:  namespace,
		registry:   registry,
		counters:   map[string]*counterEntry{},
		histograms: map[string]*histogramEntry{},
	}
}

func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *PrometheusRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value < 0 {
		return
	}
	entry, err := r.counter(name, tags)
	if err != nil {
		return
	}
	entry.vec.WithLabelValues(labelValues(entry.labels, tags)...).Add(float64(value))
}

func (r *PrometheusRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	entry, err := r.histogram(name, tags)
	if err != nil {
		return
	}
	entry.vec.WithLabelValues(labelValues(entry.labels, tags)...).Observe(value)
}

func (r *PrometheusRecorder) counter(name string, tags map[string]string) (*counterEntry, error) {
	fullName := r.metricName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.counters[fullName]; ok {
		return entry, nil
	}
	labels := labelNames(tags)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: fullName,
		Help: "Counter for " + strings.TrimSpace(name) + ".",
	}, labels)
	if err := r.registry.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		vec = existing
	}
	entry := &counterEntry{vec: vec, labels: labels}
	r.counters[fullName] = entry
	return entry, nil
}

func (r *PrometheusRecorder) histogram(name string, tags map[string]string) (*histogramEntry, error) {
	fullName := r.metricName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.histograms[fullName]; ok {
		return entry, nil
	}
	labels := labelNames(tags)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    fullName,
		Help:    "Histogram for " + strings.TrimSpace(name) + ".",
		Buckets: durationBuckets,
	}, labels)
	if err := r.registry.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, err
		}
		vec = existing
	}
	entry := &histogramEntry{vec: vec, labels: labels}
	r.histograms[fullName] = entry
	return entry, nil
}

// millisecond buckets
var durationBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

func (r *PrometheusRecorder) metricName(name string) string {
	return r.namespace + "_" + sanitizeName(name)
}

func labelNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	for key := range tags {
		if sanitized := sanitizeName(key); sanitized != "" {
			names = append(names, sanitized)
		}
	}
	sort.Strings(names)
	return names
}

func labelValues(labels []string, tags map[string]string) []string {
	normalized := make(map[string]string, len(tags))
	for key, value := range tags {
		normalized[sanitizeName(key)] = value
	}
	values := make([]string, len(labels))
	for i, label := range labels {
		values[i] = normalized[label]
	}
	return values
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}
