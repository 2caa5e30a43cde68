package canvas

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/starblaster/internal/game"
)

func testSnapshot() game.Snapshot {
	return game.Snapshot{
		Phase:   game.PhasePlaying,
		Running: true,
		ArenaW:  400,
		ArenaH:  300,
		Player:  game.Player{X: 200, Y: 200, W: 50, H: 50},
		Enemies: []game.Enemy{{X: 100, Y: 100, W: 40, H: 40, Speed: 2}},
	}
}

func rgba(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestDrawSize(t *testing.T) {
	tests := []struct {
		scale float64
		w, h  int
	}{
		{1, 400, 300},
		{0.5, 200, 150},
		{0, 400, 300}, // Non-positive scale falls back to 1
	}
	for _, tc := range tests {
		b := Draw(testSnapshot(), tc.scale).Bounds()
		if b.Dx() != tc.w || b.Dy() != tc.h {
			t.Errorf("scale %v: size = %dx%d, expected %dx%d", tc.scale, b.Dx(), b.Dy(), tc.w, tc.h)
		}
	}
}

func TestDrawEntities(t *testing.T) {
	img := Draw(testSnapshot(), 1)

	if got := rgba(img, 120, 104); got != enemyColor {
		t.Errorf("enemy pixel = %v, expected %v", got, enemyColor)
	}
	if got := rgba(img, 225, 242); got != shipColor {
		t.Errorf("ship pixel = %v, expected %v", got, shipColor)
	}
}

func TestDrawPoweredShip(t *testing.T) {
	snap := testSnapshot()
	snap.Player.PowerUp = true
	snap.PowerUpRemaining = 5 * time.Second
	snap.PowerUpDuration = 5 * time.Second

	img := Draw(snap, 1)
	if got := rgba(img, 225, 242); got != shipPowered {
		t.Errorf("powered ship pixel = %v, expected %v", got, shipPowered)
	}
	// Full bar spans the right edge of the arena.
	if got := rgba(img, 385, 15); got != barFill {
		t.Errorf("power-up bar pixel = %v, expected %v", got, barFill)
	}
}

func TestDrawHidesShipOnGameOver(t *testing.T) {
	snap := testSnapshot()
	snap.Phase = game.PhaseGameOver

	img := Draw(snap, 1)
	if got := rgba(img, 225, 242); got == shipColor {
		t.Error("ship should not be drawn after game over")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "frame.png")
	if err := SavePNG(path, testSnapshot(), 0.5); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 150 {
		t.Errorf("png size = %dx%d, expected 200x150", b.Dx(), b.Dy())
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#FFAA00", color.RGBA{255, 170, 0, 255}},
		{"#FF0000", color.RGBA{255, 0, 0, 255}},
		{"00ff00", color.RGBA{0, 255, 0, 255}},
		{"bogus", color.RGBA{255, 170, 0, 255}},
		{"#FFF", color.RGBA{255, 170, 0, 255}},
	}
	for _, tc := range tests {
		if got := parseHex(tc.in); got != tc.want {
			t.Errorf("parseHex(%q) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}
