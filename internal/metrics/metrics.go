// Package metrics exposes Prometheus metrics for the seeding service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trackmeet"

// Manager owns a registry and every collector registered on it. A nil
// *Manager is valid and records nothing.
type Manager struct {
	registry *prometheus.Registry

	autoAssignTotal      *prometheus.CounterVec
	autoAssignDuration   *prometheus.HistogramVec
	heatsCreated         prometheus.Counter
	athletesAssigned     prometheus.Counter
	httpRequests         *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	websocketClients     prometheus.Gauge
	websocketBroadcasts  prometheus.Counter
	websocketDroppedMsgs prometheus.Counter
}

// NewManager registers all collectors on a fresh registry
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Manager{
		registry: registry,
		autoAssignTotal: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seeding",
			Name:      "auto_assign_total",
			Help:      "Auto-assign requests by series method, lane method and outcome",
		}, []string{"series_method", "lane_method", "outcome"}),
		autoAssignDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "seeding",
			Name:      "auto_assign_duration_seconds",
			Help:      "Time spent forming and committing heats",
			Buckets:   prometheus.DefBuckets,
		}, []string{"series_method"}),
		heatsCreated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seeding",
			Name:      "heats_created_total",
			Help:      "Heats written by auto-assign",
		}),
		athletesAssigned: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seeding",
			Name:      "athletes_assigned_total",
			Help:      "Lane assignments written by auto-assign",
		}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		websocketClients: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "clients",
			Help:      "Connected start-list subscribers",
		}),
		websocketBroadcasts: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "broadcasts_total",
			Help:      "Messages fanned out to subscribers",
		}),
		websocketDroppedMsgs: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "dropped_messages_total",
			Help:      "Messages dropped because a client's send buffer was full",
		}),
	}
}

// Registry returns the underlying registry, mainly for tests
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) ObserveAutoAssign(seriesMethod, laneMethod string, err error, elapsed time.Duration, heats, athletes int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.autoAssignTotal.WithLabelValues(seriesMethod, laneMethod, outcome).Inc()
	m.autoAssignDuration.WithLabelValues(seriesMethod).Observe(elapsed.Seconds())
	if err == nil {
		m.heatsCreated.Add(float64(heats))
		m.athletesAssigned.Add(float64(athletes))
	}
}

func (m *Manager) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Manager) SetWebsocketClients(n int) {
	if m == nil {
		return
	}
	m.websocketClients.Set(float64(n))
}

func (m *Manager) IncBroadcast() {
	if m == nil {
		return
	}
	m.websocketBroadcasts.Inc()
}

func (m *Manager) IncDropped() {
	if m == nil {
		return
	}
	m.websocketDroppedMsgs.Inc()
}
