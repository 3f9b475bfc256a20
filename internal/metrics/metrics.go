// =============================
// File: internal/metrics/metrics.go
// =============================
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LogEventsTotal counts log-subscription notifications per program.
	LogEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liqwatch_log_events_total",
			Help: "Total number of log subscription notifications received",
		},
		[]string{"program"},
	)

	// WebhookDeliveriesTotal counts webhook bodies by outcome.
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liqwatch_webhook_deliveries_total",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"outcome"},
	)

	// EventsDecodedTotal counts decoded liquidity instructions per DEX and kind.
	EventsDecodedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liqwatch_events_decoded_total",
			Help: "Total number of liquidity instructions decoded",
		},
		[]string{"dex", "kind"},
	)

	// AlertsSentTotal counts dispatched alerts.
	AlertsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liqwatch_alerts_sent_total",
			Help: "Total number of liquidity alerts dispatched",
		},
	)

	// AlertsSuppressedTotal counts alerts held back, by reason.
	AlertsSuppressedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liqwatch_alerts_suppressed_total",
			Help: "Total number of alerts suppressed before dispatch",
		},
		[]string{"reason"},
	)

	// FetchErrorsTotal counts failed parsed-transaction fetches.
	FetchErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "liqwatch_fetch_errors_total",
			Help: "Total number of failed transaction fetches",
		},
	)

	// WatchlistSize tracks the current number of watched identifiers.
	WatchlistSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "liqwatch_watchlist_size",
			Help: "Current number of watched identifiers",
		},
	)
)
