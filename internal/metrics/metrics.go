// Package metrics exposes Prometheus counters/gauges for the dialog and
// transaction engine, generalizing the teacher's MetricsCollector
// (pkg/dialog/metrics.go) from sipgo call-session metrics to this engine's
// own Session/Dialog/Transaction/message-codec/auth surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector mirrors the teacher's "Namespace/Subsystem" Prometheus layout
// (sip_dialog_*) reduced to this engine's operations.
type Collector struct {
	DialogsActive      prometheus.Gauge
	TransactionsActive prometheus.Gauge
	MessagesParsed     *prometheus.CounterVec // labels: direction=in|out
	ChallengesComputed prometheus.Counter
}

// New registers the collector's metrics against reg. Passing
// prometheus.NewRegistry() (rather than the global DefaultRegisterer) keeps
// repeated calls in tests from panicking on duplicate registration.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		DialogsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "sip",
			Subsystem: "dialog",
			Name:      "active",
			Help:      "Number of dialogs currently tracked by a Session.",
		}),
		TransactionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "sip",
			Subsystem: "dialog",
			Name:      "transactions_active",
			Help:      "Number of transactions currently open across all dialogs.",
		}),
		MessagesParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sip",
			Subsystem: "core",
			Name:      "messages_total",
			Help:      "SIP messages parsed or written, by direction.",
		}, []string{"direction"}),
		ChallengesComputed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "sip",
			Subsystem: "auth",
			Name:      "challenges_computed_total",
			Help:      "AKA/Digest challenge responses computed.",
		}),
	}
}

// DialogOpened/DialogClosed/TransactionOpened/TransactionClosed/
// MessageParsed/ChallengeComputed are nil-safe: a Session
// built without WithMetrics records nothing instead of requiring every
// call site to guard a possibly-nil *Collector.

func (c *Collector) DialogOpened() {
	if c != nil {
		c.DialogsActive.Inc()
	}
}

func (c *Collector) DialogClosed() {
	if c != nil {
		c.DialogsActive.Dec()
	}
}

func (c *Collector) TransactionOpened() {
	if c != nil {
		c.TransactionsActive.Inc()
	}
}

func (c *Collector) TransactionClosed() {
	if c != nil {
		c.TransactionsActive.Dec()
	}
}

func (c *Collector) MessageParsed(direction string) {
	if c != nil {
		c.MessagesParsed.WithLabelValues(direction).Inc()
	}
}

func (c *Collector) ChallengeComputed() {
	if c != nil {
		c.ChallengesComputed.Inc()
	}
}
