package game

import (
	"math"
	"time"
)

// StepResult describes what one step did.
type StepResult struct {
	Events       []Event
	ScoreChanged bool
	GameOver     bool
}

// Step advances the session by one frame. The phases run in a fixed order:
// player, bullets, enemies, power-ups, explosions, then collisions.
// Movement is a fixed distance per step; only timers use delta.
// A negative delta is treated as zero. Stepping a finished session does nothing.
func (s *Session) Step(delta time.Duration) StepResult {
	var res StepResult
	if s.Over {
		return res
	}
	if delta < 0 {
		delta = 0
	}
	s.Elapsed += delta

	s.updatePlayer(&res)
	s.updateBullets()
	s.updateEnemies()
	s.updatePowerUps(&res)
	s.updateExplosions(delta)
	s.resolveCollisions(&res)

	return res
}

func (s *Session) emit(res *StepResult, kind EventKind, x, y float64) {
	res.Events = append(res.Events, Event{
		Kind:    kind,
		X:       x,
		Y:       y,
		Score:   s.Score,
		Elapsed: s.Elapsed,
	})
}

func (s *Session) updatePlayer(res *StepResult) {
	p := &s.Player
	speed := s.cfg.Player.Speed

	if p.MovingLeft {
		p.X = math.Max(0, p.X-speed)
	}
	if p.MovingRight {
		p.X = math.Min(s.cfg.Arena.Width-p.W, p.X+speed)
	}

	if p.PowerUp && s.Elapsed > p.PowerUpEnd {
		p.PowerUp = false
		cx, cy := p.Bounds().Center()
		s.emit(res, EventPowerUpExpired, cx, cy)
	}
}

// updateBullets keeps a bullet while any part of it is inside the arena.
func (s *Session) updateBullets() {
	kept := s.Bullets[:0]
	for _, b := range s.Bullets {
		b.Y -= s.cfg.Bullet.Speed
		if b.Y > -b.H {
			kept = append(kept, b)
		}
	}
	s.Bullets = kept
}

// updateEnemies recycles an enemy once its top edge passes the bottom.
func (s *Session) updateEnemies() {
	for i := range s.Enemies {
		e := &s.Enemies[i]
		e.Y += e.Speed
		if e.Y > s.cfg.Arena.Height {
			s.recycle(e)
		}
	}
}

// updatePowerUps spawns at most one power-up per step, then moves all of
// them (the new one included) and drops those below the arena.
func (s *Session) updatePowerUps(res *StepResult) {
	if s.Elapsed-s.LastPowerUpSpawn > s.cfg.PowerUp.SpawnInterval {
		p := s.spawnPowerUp()
		s.emit(res, EventPowerUpSpawned, p.X, p.Y)
	}

	kept := s.PowerUps[:0]
	for _, p := range s.PowerUps {
		p.Y += s.cfg.PowerUp.Speed
		if p.Y < s.cfg.Arena.Height {
			kept = append(kept, p)
		}
	}
	s.PowerUps = kept
}

func (s *Session) updateExplosions(delta time.Duration) {
	kept := s.Explosions[:0]
	for _, e := range s.Explosions {
		e.Remaining -= delta
		if e.Remaining > 0 {
			kept = append(kept, e)
		}
	}
	s.Explosions = kept
}

// resolveCollisions runs bullet-enemy, then player-enemy, then
// player-power-up. A player hit ends the session and skips the rest.
func (s *Session) resolveCollisions(res *StepResult) {
	// Each bullet kills at most the first enemy it overlaps.
	kept := s.Bullets[:0]
	for _, b := range s.Bullets {
		hit := false
		for i := range s.Enemies {
			e := &s.Enemies[i]
			if !Overlaps(b, *e) {
				continue
			}
			cx, cy := e.Bounds().Center()
			s.explode(cx, cy, s.cfg.Explosion.EnemyColor)
			s.recycle(e)
			s.Score++
			res.ScoreChanged = true
			s.emit(res, EventEnemyDestroyed, cx, cy)
			hit = true
			break
		}
		if !hit {
			kept = append(kept, b)
		}
	}
	s.Bullets = kept

	for _, e := range s.Enemies {
		if Overlaps(s.Player, e) {
			cx, cy := s.Player.Bounds().Center()
			s.explode(cx, cy, s.cfg.Explosion.PlayerColor)
			s.Over = true
			res.GameOver = true
			s.emit(res, EventPlayerHit, cx, cy)
			return
		}
	}

	// Every overlapping power-up is collected; each sets the same expiry.
	remaining := s.PowerUps[:0]
	for _, p := range s.PowerUps {
		if !Overlaps(s.Player, p) {
			remaining = append(remaining, p)
			continue
		}
		s.Player.PowerUp = true
		s.Player.PowerUpEnd = s.Elapsed + s.cfg.PowerUp.Duration
		cx, cy := p.Bounds().Center()
		s.emit(res, EventPowerUpCollected, cx, cy)
	}
	s.PowerUps = remaining
}
