package httpapi

import (
	"math/big"
	"net/http"
	"time"

	"walletdash/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the Prometheus registry of the service. It implements
// application.PageObserver.
type Metrics struct {
	registry  *prometheus.Registry
	startTime time.Time

	ledgerRefreshes prometheus.Counter
	ledgerFailures  prometheus.Counter
	ledgerEntries   prometheus.Gauge
	ledgerDuration  prometheus.Histogram
	balance         prometheus.Gauge
	actions         *prometheus.CounterVec
	actionDuration  *prometheus.HistogramVec
	notifications   *prometheus.CounterVec
	notifyErrors    prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		ledgerRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletdash_ledger_refreshes_total",
			Help: "Successful ledger projections.",
		}),
		ledgerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletdash_ledger_refresh_failures_total",
			Help: "Ledger projections rejected because an event query failed.",
		}),
		ledgerEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walletdash_ledger_entries",
			Help: "Entries in the last projected ledger.",
		}),
		ledgerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletdash_ledger_refresh_seconds",
			Help:    "Time to fetch and project the ledger.",
			Buckets: prometheus.DefBuckets,
		}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walletdash_balance_base_units",
			Help: "Last contract balance snapshot in base units.",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walletdash_actions_total",
			Help: "Mutating actions by kind and outcome.",
		}, []string{"action", "outcome"}),
		actionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "walletdash_action_seconds",
			Help:    "Time from submission to confirmation and refresh.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"action"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walletdash_notifications_consumed_total",
			Help: "Notification messages consumed by type.",
		}, []string{"type"}),
		notifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletdash_notification_errors_total",
			Help: "Notification messages that failed handling.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ledgerRefreshes,
		m.ledgerFailures,
		m.ledgerEntries,
		m.ledgerDuration,
		m.balance,
		m.actions,
		m.actionDuration,
		m.notifications,
		m.notifyErrors,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

func (m *Metrics) OnLedgerRefreshed(entries int, duration time.Duration) {
	m.ledgerRefreshes.Inc()
	m.ledgerEntries.Set(float64(entries))
	m.ledgerDuration.Observe(duration.Seconds())
}

func (m *Metrics) OnLedgerRefreshFailed() {
	m.ledgerFailures.Inc()
}

func (m *Metrics) OnBalanceRefreshed(account string, balance *big.Int) {
	if balance == nil {
		return
	}
	value, _ := new(big.Float).SetInt(balance).Float64()
	m.balance.Set(value)
}

func (m *Metrics) OnAction(kind domain.ActionKind, outcome string, duration time.Duration) {
	m.actions.WithLabelValues(string(kind), outcome).Inc()
	if outcome == "confirmed" {
		m.actionDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
	}
}

func (m *Metrics) OnNotification(messageType string) {
	m.notifications.WithLabelValues(messageType).Inc()
}

func (m *Metrics) OnNotificationError() {
	m.notifyErrors.Inc()
}
