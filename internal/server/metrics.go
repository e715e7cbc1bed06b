package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lox/rpsbot/internal/game"
)

// Metrics tracks session and round counters
type Metrics struct {
	roundsTotal    *prometheus.CounterVec
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	invalidChoices prometheus.Counter
	resetsTotal    prometheus.Counter
}

// NewMetrics creates and registers the server metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		roundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rpsbot",
			Name:      "rounds_total",
			Help:      "Resolved rounds by winner.",
		}, []string{"winner"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rpsbot",
			Name:      "sessions_active",
			Help:      "Connected game sessions.",
		}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rpsbot",
			Name:      "sessions_total",
			Help:      "Game sessions started.",
		}),
		invalidChoices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rpsbot",
			Name:      "invalid_choices_total",
			Help:      "Round requests naming an unknown choice.",
		}),
		resetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rpsbot",
			Name:      "resets_total",
			Help:      "Successful score resets.",
		}),
	}

	// Expose every winner label from the start
	for _, w := range []game.Winner{game.PlayerWins, game.BotWins, game.Draw} {
		m.roundsTotal.WithLabelValues(w.String())
	}

	reg.MustRegister(m.roundsTotal, m.sessionsActive, m.sessionsTotal, m.invalidChoices, m.resetsTotal)
	return m
}

// OnEvent implements game.EventSubscriber
func (m *Metrics) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundResolvedEvent:
		m.roundsTotal.WithLabelValues(e.Outcome.Winner.String()).Inc()
	case game.ScoreResetEvent:
		m.resetsTotal.Inc()
	}
}

func (m *Metrics) sessionOpened() {
	m.sessionsActive.Inc()
	m.sessionsTotal.Inc()
}

func (m *Metrics) sessionClosed() {
	m.sessionsActive.Dec()
}
