package game

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/starblaster/internal/core"
)

func TestViewportKeepsAspect(t *testing.T) {
	v := NewViewport(80, 24, 600, 800)

	if v.H != 21 {
		t.Errorf("field height = %d, expected 21", v.H)
	}
	if v.W != 32 {
		t.Errorf("field width = %d, expected 32", v.W)
	}
	if v.Col(0) != v.X || v.Row(0) != v.Y {
		t.Error("arena origin should map to the field origin")
	}
	if x, y, w, h := v.Cells(core.NewRect(0, 0, 4, 15)); w != 1 || h != 1 || x != v.X || y != v.Y {
		t.Errorf("tiny rect maps to (%d, %d, %d, %d), expected one cell", x, y, w, h)
	}
}

func TestDrawPlayingFrame(t *testing.T) {
	g := started(t).game
	g.Frame(t0)
	s := g.Session()
	s.Score = 42
	s.Enemies = []Enemy{{X: 100, Y: 100, W: 40, H: 40, Speed: 1}}
	s.Player.PowerUp = true
	s.Player.PowerUpEnd = 2500 * time.Millisecond

	dst := core.NewScreen(80, 24)
	Draw(dst, g.Snapshot())
	out := dst.String()

	for _, want := range []string{"Score: 42", "Lives: 3", "POWER-UP", string(ShipChar), string(EnemyChar)} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q:\n%s", want, out)
		}
	}
}

func TestDrawOverlays(t *testing.T) {
	g := started(t).game
	g.Frame(t0)
	if err := g.TogglePause(); err != nil {
		t.Fatal(err)
	}

	dst := core.NewScreen(80, 24)
	Draw(dst, g.Snapshot())
	if !strings.Contains(dst.String(), "PAUSED") {
		t.Error("paused frame should show the pause box")
	}
}

func TestDrawTinyScreen(t *testing.T) {
	g := started(t).game
	g.Frame(t0)

	// Must clip rather than panic.
	for _, size := range [][2]int{{1, 1}, {5, 3}, {10, 4}} {
		Draw(core.NewScreen(size[0], size[1]), g.Snapshot())
	}
}

func TestPowerUpBar(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      string
	}{
		{5 * time.Second, "[" + strings.Repeat("█", 10) + "]"},
		{2500 * time.Millisecond, "[" + strings.Repeat("█", 5) + strings.Repeat(" ", 5) + "]"},
		{0, "[" + strings.Repeat(" ", 10) + "]"},
	}
	for _, tc := range tests {
		if got := PowerUpBar(tc.remaining, 5*time.Second, 10); got != tc.want {
			t.Errorf("PowerUpBar(%v) = %q, expected %q", tc.remaining, got, tc.want)
		}
	}
	if PowerUpBar(time.Second, 0, 10) != "" {
		t.Error("zero total should render nothing")
	}
}

func TestHexColor(t *testing.T) {
	tests := map[string]core.Color{
		"#FFAA00": core.ColorOrange,
		"#FF0000": core.ColorRed,
		"#FFFF00": core.ColorYellow,
		"#00FFFF": core.ColorCyan,
		"#FFFFFF": core.ColorBrightWhite,
		"bogus":   core.ColorYellow,
	}
	for hex, want := range tests {
		if got := HexColor(hex); got != want {
			t.Errorf("HexColor(%q) = %v, expected %v", hex, got, want)
		}
	}
}
