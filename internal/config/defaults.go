package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/starblaster.yaml
var defaultStarBlasterYAML []byte

// DefaultStarBlasterConfig returns the hardcoded default configuration.
// It mirrors defaults/starblaster.yaml and is used when the embedded
// document cannot be parsed.
func DefaultStarBlasterConfig() StarBlasterConfig {
	return StarBlasterConfig{
		Arena: ArenaConfig{
			Width:  600,
			Height: 800,
		},
		Player: PlayerConfig{
			Width:        50,
			Height:       50,
			Speed:        5,
			BottomMargin: 20,
		},
		Bullet: BulletConfig{
			Width:        4,
			Height:       15,
			Speed:        7,
			SingleOffset: -2,
			DoubleOffset: [2]float64{-10, 6},
		},
		Enemy: EnemyConfig{
			Width:    40,
			Height:   40,
			MinCount: 10,
			MaxCount: 15,
			MinSpeed: 1,
			MaxSpeed: 3,
			Stagger:  300,
		},
		PowerUp: PowerUpConfig{
			Width:         30,
			Height:        30,
			Speed:         3,
			SpawnInterval: 30 * time.Second,
			Duration:      5 * time.Second,
		},
		Explosion: ExplosionConfig{
			Radius:      30,
			Lifetime:    500 * time.Millisecond,
			EnemyColor:  "#FFAA00",
			PlayerColor: "#FF0000",
		},
		Session: SessionConfig{
			Lives: 3,
		},
		Input: InputConfig{
			MoveHold:   700 * time.Millisecond,
			FireHold:   700 * time.Millisecond,
			RepeatHold: 150 * time.Millisecond,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultStarBlasterYAML
}
