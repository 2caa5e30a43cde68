// Package game implements StarBlaster: the entity model, the simulation
// step, the Start/Playing/GameOver state machine and the frame driver.
// It has no terminal or network dependencies; hosts feed it timestamps and
// input and receive snapshots through the sinks in sinks.go.
package game

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starblaster/internal/config"
	"github.com/vovakirdan/starblaster/internal/core"
)

// ErrNotQualifying is returned when submitting a score that cannot enter the
// leaderboard, or one that was already submitted.
var ErrNotQualifying = errors.New("game: score does not qualify")

// Options configures a Game. Zero values pick silent, in-memory defaults.
type Options struct {
	Config config.StarBlasterConfig
	Seed   int64
	RNG    RNG // Overrides Seed

	Renderer    Renderer
	Display     Display
	Audio       Audio
	Events      []EventSink
	Leaderboard *Leaderboard
	History     HistoryRecorder
	Logger      *log.Logger
}

// Game owns the state machine, the current session and the frame driver.
// It is not safe for concurrent use; one host goroutine drives it.
type Game struct {
	cfg     config.StarBlasterConfig
	rng     RNG
	machine Machine
	driver  Driver
	session *Session

	running   bool
	paused    bool
	soundOn   bool
	submitted bool
	err       error

	renderer Renderer
	display  Display
	audio    Audio
	sinks    []EventSink
	board    *Leaderboard
	history  HistoryRecorder
	logger   *log.Logger
}

// New creates a game in PhaseStart.
func New(opts Options) *Game {
	g := &Game{
		cfg:      opts.Config,
		rng:      opts.RNG,
		renderer: opts.Renderer,
		display:  opts.Display,
		audio:    opts.Audio,
		sinks:    opts.Events,
		board:    opts.Leaderboard,
		history:  opts.History,
		logger:   opts.Logger,
	}
	if g.rng == nil {
		g.rng = NewSimpleRNG(opts.Seed)
	}
	if g.renderer == nil {
		g.renderer = nopRenderer{}
	}
	if g.display == nil {
		g.display = nopDisplay{}
	}
	if g.audio == nil {
		g.audio = SilentAudio{}
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if g.board == nil {
		g.board = NewLeaderboard(nil, g.logger)
	}
	g.soundOn = g.cfg.Audio.Enabled && g.audio.Available()
	g.driver.target = g
	return g
}

// Phase returns the current state machine phase.
func (g *Game) Phase() Phase { return g.machine.Phase() }

// Running reports whether frames advance the simulation (not paused, not
// halted, playing).
func (g *Game) Running() bool { return g.active() }

// Paused reports whether the session is paused.
func (g *Game) Paused() bool { return g.paused }

// Err returns the failure that halted the current session, if any.
func (g *Game) Err() error { return g.err }

// Session returns the current session, or nil before the first start.
func (g *Game) Session() *Session { return g.session }

// Leaderboard returns the shared high score table.
func (g *Game) Leaderboard() *Leaderboard { return g.board }

// Config returns the gameplay configuration.
func (g *Game) Config() config.StarBlasterConfig { return g.cfg }

// Start begins a game from the menu.
func (g *Game) Start() error {
	if err := g.machine.Transition(PhasePlaying); err != nil {
		return err
	}
	g.reset()
	return nil
}

// Restart begins a new game after game over. It also recovers a session
// halted by a failed frame.
func (g *Game) Restart() error {
	switch {
	case g.Phase() == PhasePlaying && g.err != nil:
	case g.Phase() == PhaseGameOver:
		if err := g.machine.Transition(PhasePlaying); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: restart from %s", ErrIllegalTransition, g.Phase())
	}
	g.reset()
	return nil
}

// ReturnToMenu goes from game over back to the start screen.
func (g *Game) ReturnToMenu() error {
	return g.machine.Transition(PhaseStart)
}

func (g *Game) reset() {
	g.session = NewSession(g.cfg, g.rng)
	g.running = true
	g.paused = false
	g.submitted = false
	g.err = nil
	g.driver.Reset()

	g.display.SetScore(g.session.Score)
	g.display.SetLives(g.session.Lives)

	g.logger.Info("game started", "enemies", len(g.session.Enemies))
	g.publish(Event{Kind: EventGameStarted})
}

// TogglePause pauses or resumes a running session. Resuming drops the frame
// baseline so the paused interval is never stepped.
func (g *Game) TogglePause() error {
	if g.Phase() != PhasePlaying || !g.running {
		return ErrNotRunning
	}
	g.paused = !g.paused
	if !g.paused {
		g.driver.Reset()
	}
	return nil
}

// Press starts a level-triggered action. Fire shoots once per press.
// Input outside an active session is ignored.
func (g *Game) Press(a core.Action) {
	if !g.active() {
		return
	}
	p := &g.session.Player
	switch a {
	case core.ActionLeft:
		p.MovingLeft = true
	case core.ActionRight:
		p.MovingRight = true
	case core.ActionFire:
		if p.Shooting {
			return
		}
		p.Shooting = true
		shots := g.session.Fire()
		g.play(SoundLaser)
		g.publish(Event{
			Kind:    EventShotFired,
			X:       p.X + p.W/2,
			Y:       p.Y,
			Score:   g.session.Score,
			Elapsed: g.session.Elapsed,
			Count:   len(shots),
		})
	}
}

// Release ends a level-triggered action. It is always accepted.
func (g *Game) Release(a core.Action) {
	if g.session == nil {
		return
	}
	p := &g.session.Player
	switch a {
	case core.ActionLeft:
		p.MovingLeft = false
	case core.ActionRight:
		p.MovingRight = false
	case core.ActionFire:
		p.Shooting = false
	}
}

// ToggleSound flips the sound flag and returns the new value. It stays off
// when audio is unavailable.
func (g *Game) ToggleSound() bool {
	if !g.audio.Available() {
		g.soundOn = false
		return false
	}
	g.soundOn = !g.soundOn
	return g.soundOn
}

// SoundOn reports whether cues are played.
func (g *Game) SoundOn() bool { return g.soundOn && g.audio.Available() }

// SoundAvailable reports whether the audio sink can play at all.
func (g *Game) SoundAvailable() bool { return g.audio.Available() }

// CanSubmit reports whether the finished game's score may be entered.
func (g *Game) CanSubmit() bool {
	return g.Phase() == PhaseGameOver && !g.submitted && g.session != nil &&
		g.board.IsQualifying(g.session.Score)
}

// Submitted reports whether the finished game's score was entered.
func (g *Game) Submitted() bool { return g.submitted }

// SubmitScore enters the finished game's score under name and returns its
// rank. A blank name is recorded as "Anonymous".
func (g *Game) SubmitScore(name string) (int, error) {
	if !g.CanSubmit() {
		return 0, ErrNotQualifying
	}
	rank := g.board.Submit(name, g.session.Score)
	if rank == 0 {
		return 0, ErrNotQualifying
	}
	g.submitted = true
	g.logger.Info("high score submitted", "rank", rank, "score", g.session.Score)
	return rank, nil
}

// Frame advances the game to the host timestamp now. See Driver.Frame.
func (g *Game) Frame(now time.Time) (bool, error) {
	return g.driver.Frame(now)
}

func (g *Game) active() bool {
	return g.Phase() == PhasePlaying && g.running && !g.paused && g.session != nil
}

func (g *Game) advance(delta time.Duration) {
	began := time.Now()
	res := g.session.Step(delta)
	g.observeStep(time.Since(began))

	for _, ev := range res.Events {
		switch ev.Kind {
		case EventEnemyDestroyed, EventPlayerHit:
			g.play(SoundExplosion)
		case EventPowerUpCollected:
			g.play(SoundPowerUp)
		}
		g.publish(ev)
	}
	if res.ScoreChanged {
		g.display.SetScore(g.session.Score)
	}
	if res.GameOver {
		g.finish()
	}

	g.renderer.Render(g.Snapshot())
}

func (g *Game) finish() {
	g.running = false
	if err := g.machine.Transition(PhaseGameOver); err != nil {
		g.logger.Error("cannot end game", "err", err)
	}

	s := g.session
	g.play(SoundGameOver)
	g.logger.Info("game over", "score", s.Score, "elapsed", s.Elapsed)
	g.publish(Event{Kind: EventGameOver, Score: s.Score, Elapsed: s.Elapsed})

	if g.history != nil {
		if err := g.history.RecordGame(s.Score, s.Elapsed); err != nil {
			g.logger.Warn("cannot record game", "err", err)
		}
	}
}

func (g *Game) halt(err error) {
	g.running = false
	g.err = err
	g.logger.Error("frame failed, game halted", "err", err)
	ev := Event{Kind: EventStepFailed}
	if g.session != nil {
		ev.Score, ev.Elapsed = g.session.Score, g.session.Elapsed
	}
	g.publish(ev)
}

func (g *Game) play(s Sound) {
	if g.SoundOn() {
		g.audio.Trigger(s)
	}
}

func (g *Game) publish(ev Event) {
	for _, sink := range g.sinks {
		sink.HandleEvent(ev)
	}
}

func (g *Game) observeStep(d time.Duration) {
	for _, sink := range g.sinks {
		if o, ok := sink.(StepObserver); ok {
			o.ObserveStep(d)
		}
	}
}
