// Package metrics exposes Prometheus counters and gauges for the bot.
// Every helper is a no-op until Init has been called.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Temporary voice rooms
	RoomsCreated prometheus.Counter
	RoomsDeleted *prometheus.CounterVec
	RoomsActive  prometheus.Gauge

	// Tickets
	TicketsOpened prometheus.Counter
	TicketsClosed prometheus.Counter

	// Moderation
	WarnsIssued prometheus.Counter

	// Persistence
	StoreFailures *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec

	// Commands
	CommandsExecuted *prometheus.CounterVec
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{Name: "pancy_rooms_created_total", Help: "Temporary voice rooms created"})
		RoomsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{Name: "pancy_rooms_deleted_total", Help: "Temporary voice rooms deleted, by reason"}, []string{"reason"})
		RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{Name: "pancy_rooms_active", Help: "Temporary voice rooms currently tracked"})
		TicketsOpened = promauto.NewCounter(prometheus.CounterOpts{Name: "pancy_tickets_opened_total", Help: "Tickets opened"})
		TicketsClosed = promauto.NewCounter(prometheus.CounterOpts{Name: "pancy_tickets_closed_total", Help: "Tickets closed"})
		WarnsIssued = promauto.NewCounter(prometheus.CounterOpts{Name: "pancy_warns_issued_total", Help: "Warns issued"})
		StoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{Name: "pancy_store_failures_total", Help: "Swallowed persistence failures, by backend and operation"}, []string{"backend", "op"})
		StoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{Name: "pancy_store_duration_seconds", Help: "Persistence call duration seconds", Buckets: prometheus.DefBuckets}, []string{"backend", "op"})
		CommandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{Name: "pancy_commands_executed_total", Help: "Slash commands executed, by name"}, []string{"command"})
	})
}

// RoomCreated records a new temporary room.
func RoomCreated() {
	if RoomsCreated != nil {
		RoomsCreated.Inc()
		RoomsActive.Inc()
	}
}

// RoomDeleted records a deleted temporary room.
func RoomDeleted(reason string) {
	if RoomsDeleted != nil {
		RoomsDeleted.WithLabelValues(reason).Inc()
		RoomsActive.Dec()
	}
}

// TicketOpened records an opened ticket.
func TicketOpened() {
	if TicketsOpened != nil {
		TicketsOpened.Inc()
	}
}

// TicketClosed records a closed ticket.
func TicketClosed() {
	if TicketsClosed != nil {
		TicketsClosed.Inc()
	}
}

// WarnIssued records a new warn.
func WarnIssued() {
	if WarnsIssued != nil {
		WarnsIssued.Inc()
	}
}

// StoreFailure records a swallowed store error.
func StoreFailure(backend, op string) {
	if StoreFailures != nil {
		StoreFailures.WithLabelValues(backend, op).Inc()
	}
}

// ObserveStore records the duration of a store call started at start.
func ObserveStore(backend, op string, start time.Time) {
	if StoreDuration != nil {
		StoreDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	}
}

// CommandExecuted records a command invocation.
func CommandExecuted(name string) {
	if CommandsExecuted != nil {
		CommandsExecuted.WithLabelValues(name).Inc()
	}
}
