package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Load loads the game configuration.
// Search order: customPath -> ~/.starblaster/configs/starblaster.yaml ->
// ./configs/starblaster.yaml -> embedded default.
// Files are overlaid on the defaults, so a file may set only the keys it changes.
func Load(customPath string) (StarBlasterConfig, error) {
	cfg := base()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	candidates := []string{userConfigPath("starblaster.yaml"), filepath.Join("configs", "starblaster.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fileCfg := base()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			continue
		}
		if err := fileCfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		return fileCfg, nil
	}

	return cfg, nil
}

// base returns the embedded default, or the hardcoded one if the embedded
// document does not parse.
func base() StarBlasterConfig {
	var cfg StarBlasterConfig
	if err := yaml.Unmarshal(defaultStarBlasterYAML, &cfg); err != nil {
		return DefaultStarBlasterConfig()
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".starblaster", "configs", filename)
}

// Marshal renders the configuration as YAML.
func Marshal(cfg StarBlasterConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks that the configuration describes a playable arena.
func (c StarBlasterConfig) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"arena.width", c.Arena.Width},
		{"arena.height", c.Arena.Height},
		{"player.width", c.Player.Width},
		{"player.height", c.Player.Height},
		{"player.speed", c.Player.Speed},
		{"bullet.width", c.Bullet.Width},
		{"bullet.height", c.Bullet.Height},
		{"bullet.speed", c.Bullet.Speed},
		{"enemy.width", c.Enemy.Width},
		{"enemy.height", c.Enemy.Height},
		{"enemy.min_speed", c.Enemy.MinSpeed},
		{"powerup.width", c.PowerUp.Width},
		{"powerup.height", c.PowerUp.Height},
		{"powerup.speed", c.PowerUp.Speed},
		{"explosion.radius", c.Explosion.Radius},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.value)
		}
	}

	switch {
	case c.Player.Width > c.Arena.Width || c.Player.Height+c.Player.BottomMargin > c.Arena.Height:
		return fmt.Errorf("%w: player does not fit in the arena", ErrInvalid)
	case c.Enemy.Width > c.Arena.Width:
		return fmt.Errorf("%w: enemy wider than the arena", ErrInvalid)
	case c.PowerUp.Width > c.Arena.Width:
		return fmt.Errorf("%w: power-up wider than the arena", ErrInvalid)
	case c.Enemy.MinCount < 1 || c.Enemy.MaxCount < c.Enemy.MinCount:
		return fmt.Errorf("%w: enemy count range [%d, %d]", ErrInvalid, c.Enemy.MinCount, c.Enemy.MaxCount)
	case c.Enemy.MaxSpeed < c.Enemy.MinSpeed:
		return fmt.Errorf("%w: enemy speed range [%v, %v)", ErrInvalid, c.Enemy.MinSpeed, c.Enemy.MaxSpeed)
	case c.Enemy.Stagger < 0:
		return fmt.Errorf("%w: enemy.stagger must not be negative", ErrInvalid)
	case c.PowerUp.SpawnInterval <= 0 || c.PowerUp.Duration <= 0:
		return fmt.Errorf("%w: power-up spawn_interval and duration must be positive", ErrInvalid)
	case c.Explosion.Lifetime <= 0:
		return fmt.Errorf("%w: explosion.lifetime must be positive", ErrInvalid)
	case c.Session.Lives < 1:
		return fmt.Errorf("%w: session.lives must be at least 1", ErrInvalid)
	case c.Input.MoveHold <= 0 || c.Input.FireHold <= 0 || c.Input.RepeatHold <= 0:
		return fmt.Errorf("%w: input hold windows must be positive", ErrInvalid)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: audio.volume must be within [0, 1]", ErrInvalid)
	}
	return nil
}
