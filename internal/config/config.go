// Package config provides YAML-based gameplay configuration loading for
// StarBlaster. Every tunable constant of the simulation lives here.
package config

import "time"

// StarBlasterConfig contains all configuration for the game.
type StarBlasterConfig struct {
	Arena     ArenaConfig     `yaml:"arena"`
	Player    PlayerConfig    `yaml:"player"`
	Bullet    BulletConfig    `yaml:"bullet"`
	Enemy     EnemyConfig     `yaml:"enemy"`
	PowerUp   PowerUpConfig   `yaml:"powerup"`
	Explosion ExplosionConfig `yaml:"explosion"`
	Session   SessionConfig   `yaml:"session"`
	Input     InputConfig     `yaml:"input"`
	Audio     AudioConfig     `yaml:"audio"`
}

// ArenaConfig defines the play field size in arena units.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig defines the player ship.
type PlayerConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Speed        float64 `yaml:"speed"`         // Units per step, not scaled by delta
	BottomMargin float64 `yaml:"bottom_margin"` // Gap between ship and arena bottom
}

// BulletConfig defines player projectiles.
type BulletConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"` // Units per step, upward

	// Offsets are relative to the ship's horizontal center.
	SingleOffset float64    `yaml:"single_offset"`
	DoubleOffset [2]float64 `yaml:"double_offset"`
}

// EnemyConfig defines the descending enemy wave.
type EnemyConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	MinCount int     `yaml:"min_count"`
	MaxCount int     `yaml:"max_count"` // Inclusive
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"` // Exclusive
	Stagger  float64 `yaml:"stagger"`   // Initial spread above the arena
}

// PowerUpConfig defines power-up spawning and the double-shot window.
type PowerUpConfig struct {
	Width         float64       `yaml:"width"`
	Height        float64       `yaml:"height"`
	Speed         float64       `yaml:"speed"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	Duration      time.Duration `yaml:"duration"`
}

// ExplosionConfig defines explosion effects.
type ExplosionConfig struct {
	Radius      float64       `yaml:"radius"`
	Lifetime    time.Duration `yaml:"lifetime"`
	EnemyColor  string        `yaml:"enemy_color"`
	PlayerColor string        `yaml:"player_color"`
}

// SessionConfig defines per-session aggregate values.
type SessionConfig struct {
	Lives int `yaml:"lives"`
}

// InputConfig tunes how terminal key repeats are turned into press/release
// pairs. A held key is released once no repeat arrives within the window.
// MoveHold and FireHold apply after the first press and must outlast the
// terminal's initial repeat delay; RepeatHold applies once repeats arrive.
type InputConfig struct {
	MoveHold   time.Duration `yaml:"move_hold"`
	FireHold   time.Duration `yaml:"fire_hold"`
	RepeatHold time.Duration `yaml:"repeat_hold"`
}

// AudioConfig defines sound playback.
type AudioConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Volume    float64 `yaml:"volume"`     // 0.0 to 1.0
	SoundsDir string  `yaml:"sounds_dir"` // Empty means synthesized sounds
}
