package game

import "time"

// Snapshot is a read-only copy of everything a renderer needs.
// Slices are copies and may be kept after the next frame.
type Snapshot struct {
	Phase   Phase
	Running bool
	Paused  bool
	Err     error

	ArenaW, ArenaH float64

	Player     Player
	Bullets    []Bullet
	Enemies    []Enemy
	PowerUps   []PowerUp
	Explosions []Explosion

	Score   int
	Lives   int
	Elapsed time.Duration

	PowerUpRemaining time.Duration // Zero when no power-up is active
	PowerUpDuration  time.Duration

	SoundOn        bool
	SoundAvailable bool
}

// Snapshot copies the current state. Before the first start it holds only
// the arena size and flags.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:           g.Phase(),
		Running:         g.active(),
		Paused:          g.paused,
		Err:             g.err,
		ArenaW:          g.cfg.Arena.Width,
		ArenaH:          g.cfg.Arena.Height,
		PowerUpDuration: g.cfg.PowerUp.Duration,
		SoundOn:         g.SoundOn(),
		SoundAvailable:  g.SoundAvailable(),
	}

	s := g.session
	if s == nil {
		return snap
	}
	snap.Player = s.Player
	snap.Bullets = append([]Bullet(nil), s.Bullets...)
	snap.Enemies = append([]Enemy(nil), s.Enemies...)
	snap.PowerUps = append([]PowerUp(nil), s.PowerUps...)
	snap.Explosions = append([]Explosion(nil), s.Explosions...)
	snap.Score = s.Score
	snap.Lives = s.Lives
	snap.Elapsed = s.Elapsed
	snap.PowerUpRemaining = s.PowerUpRemaining()
	return snap
}
