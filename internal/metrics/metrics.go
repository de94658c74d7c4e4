package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AlexZinkM/webthree/wallet"
)

// Metrics counts wallet session activity
type Metrics struct {
	connectTotal  *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	reloadsTotal  prometheus.Counter
}

var _ wallet.Recorder = (*Metrics)(nil)

// New creates the wallet metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webthree",
			Name:      "wallet_connect_total",
			Help:      "Number of wallet connect attempts by outcome",
		}, []string{"outcome"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webthree",
			Name:      "wallet_fetch_failures_total",
			Help:      "Number of failed balance or network fetches",
		}, []string{"kind"}),
		reloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webthree",
			Name:      "wallet_session_reloads_total",
			Help:      "Number of session reloads caused by chain changes",
		}),
	}
	reg.MustRegister(m.connectTotal, m.fetchFailures, m.reloadsTotal)
	return m
}

func (m *Metrics) ConnectAttempt(outcome string) {
	m.connectTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FetchFailed(kind string) {
	m.fetchFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) SessionReloaded() {
	m.reloadsTotal.Inc()
}
