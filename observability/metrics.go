// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the 2048 server.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wricardo/mcp-training/game2048/game/service"
)

var (
	// RequestsTotal counts HTTP requests by method, route template, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game2048_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "game2048_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// MovesTotal counts move attempts by direction and whether the board changed.
	MovesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game2048_moves_total",
			Help: "Move attempts",
		},
		[]string{"direction", "moved"},
	)

	// ScoreGainedTotal sums the merge gain of all moves.
	ScoreGainedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game2048_score_gained_total",
			Help: "Points scored across all sessions",
		},
	)

	// GamesWonTotal counts rounds that reached the winning tile.
	GamesWonTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game2048_games_won_total",
			Help: "Games that reached 2048",
		},
	)

	// GamesOverTotal counts rounds that ended with no move left.
	GamesOverTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game2048_games_over_total",
			Help: "Games that ended with no possible move",
		},
	)

	// ActiveSessions tracks the number of live sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "game2048_sessions_active",
			Help: "Active sessions",
		},
	)

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "game2048_websocket_clients",
			Help: "Connected WebSocket clients",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		MovesTotal,
		ScoreGainedTotal,
		GamesWonTotal,
		GamesOverTotal,
		ActiveSessions,
		WebSocketClients,
	)
}

// Recorder feeds service gameplay events into the package metrics
type Recorder struct{}

var _ service.MetricsRecorder = Recorder{}

// MoveApplied records one move attempt
func (Recorder) MoveApplied(direction string, moved bool, gain int) {
	MovesTotal.WithLabelValues(direction, strconv.FormatBool(moved)).Inc()
	if gain > 0 {
		ScoreGainedTotal.Add(float64(gain))
	}
}

// GameWon records a round reaching the winning tile
func (Recorder) GameWon() { GamesWonTotal.Inc() }

// GameOver records a round with no move left
func (Recorder) GameOver() { GamesOverTotal.Inc() }

// SessionsActive sets the live session gauge
func (Recorder) SessionsActive(n int) { ActiveSessions.Set(float64(n)) }
