/*
Package metrics defines the Prometheus collectors exported on /metrics.

All recording methods are safe to call on a nil *Metrics, which lets tests and tools build
the chat components without a registry.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticketchat"

// Metrics groups the collectors recorded by the chat hub and the message store.
type Metrics struct {
	connections     prometheus.Gauge
	registeredUsers prometheus.Gauge
	rooms           prometheus.Gauge
	events          *prometheus.CounterVec
	eventErrors     *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	deliveries      *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open WebSocket connections.",
		}),
		registeredUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_users",
			Help:      "Identities currently bound to a connection.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ticket_rooms",
			Help:      "Ticket rooms with at least one member.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound WebSocket events by type.",
		}, []string{"event"}),
		eventErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_errors_total",
			Help:      "Error events sent back to clients, by inbound event type and error code.",
		}, []string{"event", "code"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Notifications recorded in the ledger.",
		}, []string{"kind"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Outbound frames by result: queued, dropped, or offline when no connection was registered.",
		}, []string{"kind", "result"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_duration_seconds",
			Help:      "Latency of message store calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "outcome"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.connections,
		m.registeredUsers,
		m.rooms,
		m.events,
		m.eventErrors,
		m.notifications,
		m.deliveries,
		m.storeLatency,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.connections.Dec()
	}
}

// SetRegisteredUsers records the registry size.
func (m *Metrics) SetRegisteredUsers(n int) {
	if m != nil {
		m.registeredUsers.Set(float64(n))
	}
}

// SetRooms records the number of live ticket rooms.
func (m *Metrics) SetRooms(n int) {
	if m != nil {
		m.rooms.Set(float64(n))
	}
}

func (m *Metrics) Event(event string) {
	if m != nil {
		m.events.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) EventError(event string, code int) {
	if m != nil {
		m.eventErrors.WithLabelValues(event, strconv.Itoa(code)).Inc()
	}
}

// NotificationCreated counts ledger writes; kind is "direct" or "broadcast".
func (m *Metrics) NotificationCreated(kind string) {
	if m != nil {
		m.notifications.WithLabelValues(kind).Inc()
	}
}

// Delivery counts an outbound frame for kind, queued or dropped because the recipient's queue was full or closing.
func (m *Metrics) Delivery(kind string, queued bool) {
	if m == nil {
		return
	}
	result := "queued"
	if !queued {
		result = "dropped"
	}
	m.deliveries.WithLabelValues(kind, result).Inc()
}

// DeliveryOffline counts a frame for kind whose recipient had no registered connection.
// The record itself is still kept in the ledger.
func (m *Metrics) DeliveryOffline(kind string) {
	if m != nil {
		m.deliveries.WithLabelValues(kind, "offline").Inc()
	}
}

// ObserveStore records the duration of a store call started at start.
func (m *Metrics) ObserveStore(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeLatency.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}
