// Package metrics defines Prometheus metrics for the stats bot.
//
// Metrics are registered with the default registry and served by Handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpdatesTotal counts handled Telegram updates by kind.
	UpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_stats_updates_total",
			Help: "Total number of Telegram updates handled, by kind.",
		},
		[]string{"kind"},
	)

	// QueryDurationSeconds observes user_progress scan latency.
	QueryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "progress_stats_query_duration_seconds",
			Help:    "Duration of user_progress queries in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	QueryErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_stats_query_errors_total",
			Help: "Total number of failed user_progress queries.",
		},
	)

	// MessagesSentTotal counts outbound messages and edits by result.
	MessagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_stats_messages_sent_total",
			Help: "Total outbound messages and edits, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		UpdatesTotal,
		QueryDurationSeconds,
		QueryErrorsTotal,
		MessagesSentTotal,
	)
}

const (
	KindStart    = "start"
	KindStats    = "stats"
	KindCallback = "callback"
	KindIgnored  = "ignored"
)

func RecordUpdate(kind string) {
	UpdatesTotal.WithLabelValues(kind).Inc()
}

func RecordQuery(d time.Duration, err error) {
	QueryDurationSeconds.Observe(d.Seconds())
	if err != nil {
		QueryErrorsTotal.Inc()
	}
}

func RecordSend(err error) {
	if err != nil {
		MessagesSentTotal.WithLabelValues("error").Inc()
		return
	}
	MessagesSentTotal.WithLabelValues("ok").Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
