// Package metrics exposes the guard's counters to Prometheus. The domain
// /stats endpoint stays the source of truth for the extension UI; these
// mirrors exist for standard scraping tools.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the guard.
type Metrics struct {
	TicketsIssued  prometheus.Counter
	Redemptions    *prometheus.CounterVec
	ReplayBlocked  prometheus.Counter
	SecretsCaught  prometheus.Counter
	RiskScore      prometheus.Histogram
	DecideLatency  prometheus.Histogram
	ConsumeLatency prometheus.Histogram
}

// New creates and registers all guard metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		TicketsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kasbah_tickets_issued_total",
			Help: "Total number of decision tickets issued",
		}),
		Redemptions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kasbah_redemptions_total",
			Help: "Total redemption attempts, labeled by decision",
		}, []string{"decision"}),
		ReplayBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kasbah_replays_blocked_total",
			Help: "Total redemptions denied because the ticket was already consumed",
		}),
		SecretsCaught: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kasbah_secrets_caught_total",
			Help: "Total issuance requests whose caller-side scan flagged candidate secrets",
		}),
		RiskScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kasbah_risk_score",
			Help:    "Distribution of server-side risk scores at issuance",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		DecideLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kasbah_decide_latency_seconds",
			Help:    "Latency of decide operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ConsumeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kasbah_consume_latency_seconds",
			Help:    "Latency of consume operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementTicketsIssued increments the issued-ticket counter by 1.
func (m *Metrics) IncrementTicketsIssued() {
	m.TicketsIssued.Inc()
}

// IncrementRedemptions counts one redemption attempt with its decision label.
func (m *Metrics) IncrementRedemptions(decision string) {
	m.Redemptions.WithLabelValues(decision).Inc()
}

// IncrementReplayBlocked increments the replay counter by 1.
func (m *Metrics) IncrementReplayBlocked() {
	m.ReplayBlocked.Inc()
}

// IncrementSecretsCaught increments the secrets counter by 1.
func (m *Metrics) IncrementSecretsCaught() {
	m.SecretsCaught.Inc()
}

// ObserveRiskScore records a risk score computed at issuance.
func (m *Metrics) ObserveRiskScore(score int) {
	m.RiskScore.Observe(float64(score))
}

// ObserveDecideLatency records the duration of a decide operation.
func (m *Metrics) ObserveDecideLatency(d time.Duration) {
	m.DecideLatency.Observe(d.Seconds())
}

// ObserveConsumeLatency records the duration of a consume operation.
func (m *Metrics) ObserveConsumeLatency(d time.Duration) {
	m.ConsumeLatency.Observe(d.Seconds())
}
