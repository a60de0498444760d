package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ConnectionOpened()
		m.ConnectionClosed()
		m.SetRegisteredUsers(3)
		m.SetRooms(1)
		m.Event("register")
		m.EventError("register", 1003)
		m.NotificationCreated("direct")
		m.Delivery("notification", true)
		m.DeliveryOffline("notification")
		m.ObserveStore("create_message", time.Now(), nil)
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.Event("privateMessage")
	m.EventError("privateMessage", 5101)
	m.Delivery("privateMessage", true)
	m.Delivery("privateMessage", false)
	m.DeliveryOffline("notification")
	m.ObserveStore("create_message", time.Now(), errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("privateMessage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventErrors.WithLabelValues("privateMessage", "5101")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("privateMessage", "dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("notification", "offline")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.deliveries.WithLabelValues("notification", "dropped")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.storeLatency))
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SetRooms(2)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ticketchat_ticket_rooms 2")
}
