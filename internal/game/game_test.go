package game

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/starblaster/internal/config"
	"github.com/vovakirdan/starblaster/internal/core"
)

type testRig struct {
	game    *Game
	audio   *recordingAudio
	display *recordingDisplay
	sink    *recordingSink
	history *recordingHistory
	render  *panicRenderer
	store   *MemoryStore
}

func newRig() *testRig {
	r := &testRig{
		audio:   &recordingAudio{available: true},
		display: &recordingDisplay{},
		sink:    &recordingSink{},
		history: &recordingHistory{},
		render:  &panicRenderer{},
		store:   &MemoryStore{},
	}
	r.game = New(Options{
		Config:      config.DefaultStarBlasterConfig(),
		RNG:         fixedRNG(0.5),
		Renderer:    r.render,
		Display:     r.display,
		Audio:       r.audio,
		Events:      []EventSink{r.sink},
		Leaderboard: NewLeaderboard(r.store, nil),
		History:     r.history,
	})
	return r
}

// started returns a rig in PhasePlaying with no enemies.
func started(t *testing.T) *testRig {
	t.Helper()
	r := newRig()
	if err := r.game.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	r.game.Session().Enemies = nil
	return r
}

// crash places an enemy on the player so the next step ends the game.
func crash(g *Game) {
	p := g.Session().Player
	g.Session().Enemies = []Enemy{{X: p.X, Y: p.Y, W: 40, H: 40, Speed: 1}}
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestGameStartsInMenu(t *testing.T) {
	g := newRig().game

	if g.Phase() != PhaseStart || g.Running() || g.Session() != nil {
		t.Error("new game should idle in PhaseStart with no session")
	}
	if resched, err := g.Frame(t0); resched || err != nil {
		t.Errorf("Frame() before start = (%v, %v)", resched, err)
	}
	if err := g.Restart(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Restart() from start = %v", err)
	}
	if err := g.ReturnToMenu(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("ReturnToMenu() from start = %v", err)
	}
	if err := g.TogglePause(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("TogglePause() from start = %v", err)
	}
}

func TestGameStartResetsSession(t *testing.T) {
	r := started(t)
	g := r.game

	if err := g.Start(); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("second Start() = %v", err)
	}
	if len(r.display.scores) != 1 || r.display.scores[0] != 0 {
		t.Errorf("display scores = %v", r.display.scores)
	}
	if len(r.display.lives) != 1 || r.display.lives[0] != 3 {
		t.Errorf("display lives = %v", r.display.lives)
	}
	if r.sink.count(EventGameStarted) != 1 {
		t.Error("expected a game started event")
	}
}

func TestFrameBaselineAndDeltas(t *testing.T) {
	g := started(t).game

	resched, err := g.Frame(t0)
	if !resched || err != nil {
		t.Fatalf("Frame() = (%v, %v)", resched, err)
	}
	if g.Session().Elapsed != 0 {
		t.Errorf("first frame elapsed = %v, expected 0", g.Session().Elapsed)
	}

	g.Frame(t0.Add(16 * time.Millisecond))
	if g.Session().Elapsed != 16*time.Millisecond {
		t.Errorf("elapsed = %v, expected 16ms", g.Session().Elapsed)
	}

	// A timestamp going backwards steps with zero delta.
	g.Frame(t0.Add(10 * time.Millisecond))
	if g.Session().Elapsed != 16*time.Millisecond {
		t.Errorf("elapsed = %v after a backwards timestamp", g.Session().Elapsed)
	}
	g.Frame(t0.Add(20 * time.Millisecond))
	if g.Session().Elapsed != 20*time.Millisecond {
		t.Errorf("elapsed = %v, expected 20ms", g.Session().Elapsed)
	}
}

func TestPauseDoesNotCatchUp(t *testing.T) {
	r := started(t)
	g := r.game
	g.Frame(t0)
	g.Frame(t0.Add(100 * time.Millisecond))

	if err := g.TogglePause(); err != nil {
		t.Fatalf("TogglePause() failed: %v", err)
	}
	if !g.Paused() || g.Running() {
		t.Fatal("game should be paused")
	}
	if resched, _ := g.Frame(t0.Add(time.Second)); resched {
		t.Error("paused frames must not reschedule")
	}
	g.Press(core.ActionFire)
	if len(g.Session().Bullets) != 0 {
		t.Error("input while paused should be ignored")
	}

	if err := g.TogglePause(); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	g.Frame(t0.Add(time.Hour))
	if g.Session().Elapsed != 100*time.Millisecond {
		t.Errorf("elapsed = %v, the paused hour must not be stepped", g.Session().Elapsed)
	}
	g.Frame(t0.Add(time.Hour + 16*time.Millisecond))
	if g.Session().Elapsed != 116*time.Millisecond {
		t.Errorf("elapsed = %v, expected 116ms", g.Session().Elapsed)
	}
}

func TestFireIsEdgeTriggered(t *testing.T) {
	r := started(t)
	g := r.game

	g.Press(core.ActionFire)
	g.Press(core.ActionFire)
	if n := len(g.Session().Bullets); n != 1 {
		t.Fatalf("holding fire created %d bullets, expected 1", n)
	}

	g.Release(core.ActionFire)
	g.Press(core.ActionFire)
	if n := len(g.Session().Bullets); n != 2 {
		t.Errorf("second press created %d bullets total, expected 2", n)
	}
	if len(r.audio.played) != 2 || r.audio.played[0] != SoundLaser {
		t.Errorf("played = %v", r.audio.played)
	}
	if r.sink.count(EventShotFired) != 2 {
		t.Errorf("shot events = %d", r.sink.count(EventShotFired))
	}
}

func TestMovementIsLevelTriggered(t *testing.T) {
	g := started(t).game
	g.Frame(t0)

	g.Press(core.ActionLeft)
	for i := 1; i <= 3; i++ {
		g.Frame(t0.Add(time.Duration(i) * frame))
	}
	g.Release(core.ActionLeft)
	g.Frame(t0.Add(4 * frame))

	if x := g.Session().Player.X; x != 275-3*5 {
		t.Errorf("x = %v, expected 3 steps left", x)
	}
}

func TestGameOverFlow(t *testing.T) {
	r := started(t)
	g := r.game
	g.Frame(t0)
	g.Session().Score = 4
	crash(g)

	resched, err := g.Frame(t0.Add(frame))
	if resched || err != nil {
		t.Fatalf("Frame() = (%v, %v), expected loop to stop", resched, err)
	}
	if g.Phase() != PhaseGameOver {
		t.Fatalf("phase = %s", g.Phase())
	}
	if r.sink.count(EventPlayerHit) != 1 || r.sink.count(EventGameOver) != 1 {
		t.Errorf("events = %+v", r.sink.events)
	}
	want := []Sound{SoundExplosion, SoundGameOver}
	if len(r.audio.played) != 2 || r.audio.played[0] != want[0] || r.audio.played[1] != want[1] {
		t.Errorf("played = %v, expected %v", r.audio.played, want)
	}
	if len(r.history.scores) != 1 || r.history.scores[0] != 4 || r.history.played[0] != frame {
		t.Errorf("history = %+v", r.history)
	}

	// Frozen: no more frames, no input.
	if resched, _ := g.Frame(t0.Add(2 * frame)); resched {
		t.Error("game over must not reschedule")
	}
	g.Press(core.ActionFire)
	if len(g.Session().Bullets) != 0 {
		t.Error("input after game over should be ignored")
	}
	if err := g.TogglePause(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("TogglePause() after game over = %v", err)
	}
}

func TestRestartAndReturnToMenu(t *testing.T) {
	r := started(t)
	g := r.game
	g.Frame(t0)
	g.Session().Score = 9
	crash(g)
	g.Frame(t0.Add(frame))

	if err := g.Restart(); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}
	if g.Phase() != PhasePlaying || g.Session().Score != 0 || g.Session().Elapsed != 0 {
		t.Error("restart should begin a fresh session")
	}
	g.Session().Enemies = nil
	g.Frame(t0.Add(time.Minute))
	if g.Session().Elapsed != 0 {
		t.Error("first frame after restart should be a baseline")
	}

	crash(g)
	g.Frame(t0.Add(time.Minute + frame))
	if err := g.ReturnToMenu(); err != nil {
		t.Fatalf("ReturnToMenu() failed: %v", err)
	}
	if g.Phase() != PhaseStart {
		t.Errorf("phase = %s", g.Phase())
	}
	if err := g.Start(); err != nil {
		t.Errorf("Start() from menu failed: %v", err)
	}
}

func TestPanicHaltsUntilRestart(t *testing.T) {
	r := started(t)
	g := r.game
	g.Frame(t0)
	r.render.armed = true

	resched, err := g.Frame(t0.Add(frame))
	if resched {
		t.Error("a failed frame must not reschedule")
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Frame() error = %v, expected *StepError", err)
	}
	if stepErr.Value != "renderer exploded" || len(stepErr.Stack) == 0 {
		t.Errorf("StepError = %+v", stepErr)
	}
	if g.Running() || g.Err() == nil || g.Phase() != PhasePlaying {
		t.Error("game should be halted in PhasePlaying with the error kept")
	}
	if r.sink.count(EventStepFailed) != 1 {
		t.Error("expected a step failed event")
	}
	if resched, err := g.Frame(t0.Add(2 * frame)); resched || err != nil {
		t.Errorf("halted Frame() = (%v, %v)", resched, err)
	}
	if err := g.TogglePause(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("TogglePause() on a halted game = %v", err)
	}

	r.render.armed = false
	if err := g.Restart(); err != nil {
		t.Fatalf("Restart() after a failure = %v", err)
	}
	if !g.Running() || g.Err() != nil {
		t.Error("restart should clear the failure")
	}
	if resched, err := g.Frame(t0.Add(3 * frame)); !resched || err != nil {
		t.Errorf("Frame() after restart = (%v, %v)", resched, err)
	}
}

func TestSoundToggle(t *testing.T) {
	r := started(t)
	g := r.game

	if !g.SoundOn() {
		t.Fatal("sound should start on")
	}
	if g.ToggleSound() {
		t.Error("toggle should turn sound off")
	}
	g.Press(core.ActionFire)
	if len(r.audio.played) != 0 {
		t.Error("muted game should not trigger audio")
	}

	silent := New(Options{Config: config.DefaultStarBlasterConfig()})
	if silent.SoundOn() || silent.ToggleSound() {
		t.Error("unavailable audio keeps the toggle locked off")
	}
}

func TestSoundDisabledByConfigCanBeToggledOn(t *testing.T) {
	cfg := config.DefaultStarBlasterConfig()
	cfg.Audio.Enabled = false
	a := &recordingAudio{available: true}
	g := New(Options{Config: cfg, RNG: fixedRNG(0.5), Audio: a})

	if g.SoundOn() {
		t.Fatal("sound should start off when disabled by config")
	}
	if !g.SoundAvailable() {
		t.Fatal("loaded audio should stay available")
	}
	if !g.ToggleSound() {
		t.Error("toggle should turn sound on")
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	g.Session().Enemies = nil
	g.Press(core.ActionFire)
	if len(a.played) == 0 {
		t.Error("sound toggled on should trigger audio")
	}
}

func TestSubmitScoreFlow(t *testing.T) {
	r := started(t)
	g := r.game
	g.Frame(t0)

	if _, err := g.SubmitScore("early"); !errors.Is(err, ErrNotQualifying) {
		t.Errorf("SubmitScore() while playing = %v", err)
	}

	g.Session().Score = 12
	crash(g)
	g.Frame(t0.Add(frame))

	if !g.CanSubmit() {
		t.Fatal("first score on an empty board should qualify")
	}
	rank, err := g.SubmitScore("  ")
	if err != nil || rank != 1 {
		t.Fatalf("SubmitScore() = (%d, %v)", rank, err)
	}
	if !g.Submitted() || g.CanSubmit() {
		t.Error("a score can be submitted once")
	}
	if _, err := g.SubmitScore("again"); !errors.Is(err, ErrNotQualifying) {
		t.Errorf("second SubmitScore() = %v", err)
	}
	if len(r.store.Entries) != 1 || r.store.Entries[0] != (Entry{AnonymousName, 12}) {
		t.Errorf("store = %+v", r.store.Entries)
	}
}

func TestScoreDisplayAndSnapshot(t *testing.T) {
	r := started(t)
	g := r.game
	g.Frame(t0)

	s := g.Session()
	s.Enemies = []Enemy{{X: 100, Y: 100, W: 40, H: 40, Speed: 1}}
	s.Bullets = []Bullet{{X: 110, Y: 120, W: 4, H: 15}}
	g.Frame(t0.Add(frame))

	if got := r.display.scores; len(got) != 2 || got[1] != 1 {
		t.Errorf("display scores = %v", got)
	}
	if r.sink.steps != 2 {
		t.Errorf("observed %d steps, expected 2", r.sink.steps)
	}

	snap := g.Snapshot()
	if snap.Score != 1 || len(snap.Explosions) != 1 || snap.Phase != PhasePlaying || !snap.Running {
		t.Errorf("snapshot = %+v", snap)
	}
	snap.Enemies[0].X = -999
	if g.Session().Enemies[0].X == -999 {
		t.Error("snapshot must not alias session slices")
	}
}
