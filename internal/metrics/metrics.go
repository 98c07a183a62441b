// Package metrics exposes the collaboration server's Prometheus collectors.
// All methods are safe on a nil *Collector, which records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "debugcollab"

type Collector struct {
	registry *prometheus.Registry

	connections prometheus.Gauge
	rooms       prometheus.Gauge
	events      *prometheus.CounterVec
	deliveries  *prometheus.CounterVec
	denials     *prometheus.CounterVec
	handshakes  *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Collector{
		registry: reg,
		connections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Live websocket connections.",
		}),
		rooms: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_active",
			Help:      "Session rooms with at least one member.",
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound events by type and outcome.",
		}, []string{"type", "outcome"}),
		deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Outbound frame deliveries by result.",
		}, []string{"result"}),
		denials: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_denials_total",
			Help:      "Rejected joinSession requests by reason.",
		}, []string{"reason"}),
		handshakes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Websocket handshakes by result.",
		}, []string{"result"}),
	}
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) SetConnections(n int) {
	if c == nil {
		return
	}
	c.connections.Set(float64(n))
}

func (c *Collector) SetRooms(n int) {
	if c == nil {
		return
	}
	c.rooms.Set(float64(n))
}

func (c *Collector) Event(eventType, outcome string) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(eventType, outcome).Inc()
}

func (c *Collector) Delivered(sent, dropped int) {
	if c == nil {
		return
	}
	c.deliveries.WithLabelValues("sent").Add(float64(sent))
	c.deliveries.WithLabelValues("dropped").Add(float64(dropped))
}

func (c *Collector) JoinDenied(reason string) {
	if c == nil {
		return
	}
	c.denials.WithLabelValues(reason).Inc()
}

func (c *Collector) Handshake(result string) {
	if c == nil {
		return
	}
	c.handshakes.WithLabelValues(result).Inc()
}
