// Package metrics exposes game and server activity to Prometheus.
// Labels are bounded: event kinds and rejection reasons come from fixed sets.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/starblaster/internal/game"
)

// Recorder counts game events. One Recorder is shared by every session.
// It implements game.EventSink and game.StepObserver.
type Recorder struct {
	gamesStarted     prometheus.Counter
	gamesOver        prometheus.Counter
	enemiesDestroyed prometheus.Counter
	powerUpsSpawned  prometheus.Counter
	powerUpsTaken    prometheus.Counter
	shotsFired       prometheus.Counter
	stepFailures     prometheus.Counter
	finalScore       prometheus.Histogram
	stepDuration     prometheus.Histogram
	activeSessions   prometheus.Gauge
	rejected         *prometheus.CounterVec
}

var (
	_ game.EventSink    = (*Recorder)(nil)
	_ game.StepObserver = (*Recorder)(nil)
)

// NewRecorder registers the metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		gamesStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "starblaster_games_started_total",
			Help: "Games started, restarts included",
		}),
		gamesOver: f.NewCounter(prometheus.CounterOpts{
			Name: "starblaster_games_over_total",
			Help: "Games ended by a player hit",
		}),
		enemiesDestroyed: f.NewCounter(prometheus.CounterOpts{
			Name: "starblaster_enemies_destroyed_total",
			Help: "Enemies shot down",
		}),
		powerUpsSpawned: f.NewCounter(prometheus.CounterOpts{
			Name: "starblaster_powerups_spawned_total",
			Help: "Power-ups spawned",
		}),
		powerUpsTaken: f.NewCounter(prometheus.CounterOpts{
			Name: "starblaster_powerups_collected_total",
			Help: "Power-ups collected",
		}),
		shotsFired: f.NewCounter(prometheus.CounterOpts{
			Name: "starblaster_bullets_fired_total",
			Help: "Bullets fired",
		}),
		stepFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "starblaster_step_failures_total",
			Help: "Frames that failed and halted their session",
		}),
		finalScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "starblaster_final_score",
			Help:    "Score at game over",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250},
		}),
		stepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "starblaster_step_duration_seconds",
			Help:    "Time spent in one simulation step",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "starblaster_ssh_sessions_active",
			Help: "Currently connected SSH sessions",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "starblaster_ssh_sessions_rejected_total",
			Help: "SSH sessions refused before the game started",
		}, []string{"reason"}), // Bounded: "rate_limit", "no_pty"
	}
}

// HandleEvent implements game.EventSink.
func (r *Recorder) HandleEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventGameStarted:
		r.gamesStarted.Inc()
	case game.EventGameOver:
		r.gamesOver.Inc()
		r.finalScore.Observe(float64(ev.Score))
	case game.EventEnemyDestroyed:
		r.enemiesDestroyed.Inc()
	case game.EventPowerUpSpawned:
		r.powerUpsSpawned.Inc()
	case game.EventPowerUpCollected:
		r.powerUpsTaken.Inc()
	case game.EventShotFired:
		r.shotsFired.Add(float64(ev.Count))
	case game.EventStepFailed:
		r.stepFailures.Inc()
	}
}

// ObserveStep implements game.StepObserver.
func (r *Recorder) ObserveStep(d time.Duration) {
	r.stepDuration.Observe(d.Seconds())
}

// SessionOpened increments the active session gauge.
func (r *Recorder) SessionOpened() { r.activeSessions.Inc() }

// SessionClosed decrements the active session gauge.
func (r *Recorder) SessionClosed() { r.activeSessions.Dec() }

// SessionRejected counts a refused connection.
// reason must be one of: "rate_limit", "no_pty".
func (r *Recorder) SessionRejected(reason string) {
	r.rejected.WithLabelValues(reason).Inc()
}
