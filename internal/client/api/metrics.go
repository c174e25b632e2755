package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// Refresh outcomes recorded by AuthTransport.
const (
	refreshSucceeded      = "success"
	refreshFailed         = "failure"
	refreshNoRefreshToken = "no_refresh_token"
	refreshReused         = "reused"
)

var (
	tokenRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hexsocial",
			Name:      "token_refresh_total",
			Help:      "Refresh attempts triggered by 401 answers, by outcome",
		},
		[]string{"outcome"},
	)

	circuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "hexsocial",
			Name:      "circuit_breaker_state",
			Help:      "Current state of the API circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	circuitBreakerRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hexsocial",
			Name:      "circuit_breaker_rejected_total",
			Help:      "Requests rejected without being sent because the breaker was open",
		},
		[]string{"name"},
	)
)

func init() {
	prometheus.MustRegister(tokenRefreshTotal)
	prometheus.MustRegister(circuitBreakerState)
	prometheus.MustRegister(circuitBreakerRejectedTotal)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
