package game

import (
	"math"
	"time"

	"github.com/vovakirdan/starblaster/internal/config"
)

// Session is the state of one game, from start until game over.
// It is owned by a single frame driver and is discarded on the next start.
type Session struct {
	cfg config.StarBlasterConfig
	rng RNG

	Player     Player
	Bullets    []Bullet
	Enemies    []Enemy
	PowerUps   []PowerUp
	Explosions []Explosion

	Score   int
	Lives   int
	Elapsed time.Duration // Sum of all step deltas

	LastPowerUpSpawn time.Duration
	Over             bool
}

// NewSession creates a fresh session: player centered at the bottom,
// a new enemy wave staggered above the arena, everything else empty.
func NewSession(cfg config.StarBlasterConfig, rng RNG) *Session {
	s := &Session{
		cfg:   cfg,
		rng:   rng,
		Lives: cfg.Session.Lives,
	}

	s.Player = Player{
		X: cfg.Arena.Width/2 - cfg.Player.Width/2,
		Y: cfg.Arena.Height - cfg.Player.Height - cfg.Player.BottomMargin,
		W: cfg.Player.Width,
		H: cfg.Player.Height,
	}

	s.spawnEnemies()
	return s
}

// spawnEnemies creates the wave: a count in [MinCount, MaxCount], each enemy
// at a random x, up to Stagger units above the arena, with a speed in
// [MinSpeed, MaxSpeed).
func (s *Session) spawnEnemies() {
	ec := s.cfg.Enemy
	spread := ec.MaxCount - ec.MinCount + 1
	count := ec.MinCount + int(math.Floor(s.rng.Float64()*float64(spread)))

	s.Enemies = make([]Enemy, 0, count)
	for range count {
		s.Enemies = append(s.Enemies, Enemy{
			X:     s.rng.Float64() * (s.cfg.Arena.Width - ec.Width),
			Y:     -s.rng.Float64() * ec.Stagger,
			W:     ec.Width,
			H:     ec.Height,
			Speed: uniform(s.rng, ec.MinSpeed, ec.MaxSpeed),
		})
	}
}

// recycle moves an enemy back to just above the arena at a new random x.
// Its speed is kept.
func (s *Session) recycle(e *Enemy) {
	e.Y = -e.H
	e.X = s.rng.Float64() * (s.cfg.Arena.Width - e.W)
}

func (s *Session) spawnPowerUp() PowerUp {
	pc := s.cfg.PowerUp
	p := PowerUp{
		X:    s.rng.Float64() * (s.cfg.Arena.Width - pc.Width),
		Y:    -pc.Height,
		W:    pc.Width,
		H:    pc.Height,
		Kind: PowerUpDoubleShot,
	}
	s.PowerUps = append(s.PowerUps, p)
	s.LastPowerUpSpawn = s.Elapsed
	return p
}

func (s *Session) explode(x, y float64, color string) {
	s.Explosions = append(s.Explosions, Explosion{
		X:         x,
		Y:         y,
		Radius:    s.cfg.Explosion.Radius,
		Color:     color,
		Remaining: s.cfg.Explosion.Lifetime,
		Lifetime:  s.cfg.Explosion.Lifetime,
	})
}

// PowerUpRemaining returns how long the double shot stays active, or 0.
func (s *Session) PowerUpRemaining() time.Duration {
	if !s.Player.PowerUp || s.Player.PowerUpEnd < s.Elapsed {
		return 0
	}
	return s.Player.PowerUpEnd - s.Elapsed
}

// Fire creates one bullet, or two while the double shot is active, at the
// ship's nose. The new bullets are appended to the session and returned.
func (s *Session) Fire() []Bullet {
	bc := s.cfg.Bullet
	centerX := s.Player.X + s.Player.W/2

	offsets := []float64{bc.SingleOffset}
	if s.Player.PowerUp {
		offsets = bc.DoubleOffset[:]
	}

	shots := make([]Bullet, 0, len(offsets))
	for _, off := range offsets {
		shots = append(shots, Bullet{
			X: centerX + off,
			Y: s.Player.Y,
			W: bc.Width,
			H: bc.Height,
		})
	}
	s.Bullets = append(s.Bullets, shots...)
	return shots
}
