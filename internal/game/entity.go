package game

import (
	"time"

	"github.com/vovakirdan/starblaster/internal/core"
)

// Body is anything the collision checks can test: it occupies a rectangle
// of the arena.
type Body interface {
	Bounds() core.Rect
}

// Overlaps reports whether two bodies collide. Touching edges do not count.
func Overlaps(a, b Body) bool {
	return a.Bounds().Overlaps(b.Bounds())
}

// Player is the ship. X stays within [0, arena width - W].
type Player struct {
	X, Y float64
	W, H float64

	// Movement intent, set by press and cleared by release.
	MovingLeft  bool
	MovingRight bool
	Shooting    bool

	PowerUp    bool
	PowerUpEnd time.Duration // Elapsed game time at which the power-up lapses
}

// Bounds implements Body.
func (p Player) Bounds() core.Rect { return core.NewRect(p.X, p.Y, p.W, p.H) }

// Bullet is a player projectile moving straight up.
type Bullet struct {
	X, Y float64
	W, H float64
}

// Bounds implements Body.
func (b Bullet) Bounds() core.Rect { return core.NewRect(b.X, b.Y, b.W, b.H) }

// Enemy descends at its own speed, drawn once when the wave is created.
// Enemies are never removed, only recycled to the top of the arena.
type Enemy struct {
	X, Y  float64
	W, H  float64
	Speed float64
}

// Bounds implements Body.
func (e Enemy) Bounds() core.Rect { return core.NewRect(e.X, e.Y, e.W, e.H) }

// PowerUpKind identifies what a power-up grants.
type PowerUpKind int

const (
	PowerUpDoubleShot PowerUpKind = iota
)

// String returns the kind name.
func (k PowerUpKind) String() string {
	switch k {
	case PowerUpDoubleShot:
		return "double-shot"
	default:
		return "unknown"
	}
}

// PowerUp falls from the top of the arena until picked up or lost.
type PowerUp struct {
	X, Y float64
	W, H float64
	Kind PowerUpKind
}

// Bounds implements Body.
func (p PowerUp) Bounds() core.Rect { return core.NewRect(p.X, p.Y, p.W, p.H) }

// Explosion is a short-lived visual effect centered on (X, Y).
type Explosion struct {
	X, Y      float64
	Radius    float64
	Color     string // Hex color, e.g. "#FFAA00"
	Remaining time.Duration
	Lifetime  time.Duration
}

// Progress returns how far the explosion has burned out, from 0 to 1.
func (e Explosion) Progress() float64 {
	if e.Lifetime <= 0 {
		return 1
	}
	return core.ClampF(1-float64(e.Remaining)/float64(e.Lifetime), 0, 1)
}
