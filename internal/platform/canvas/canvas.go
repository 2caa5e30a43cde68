// Package canvas renders game snapshots to raster images with fogleman/gg.
// It is used for PNG screenshots; the live game draws to the terminal.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/starblaster/internal/game"
)

var (
	background  = color.RGBA{0, 0, 51, 255}
	starColor   = color.White
	shipColor   = color.RGBA{0, 204, 255, 255}
	shipPowered = color.RGBA{0, 255, 255, 255}
	cockpit     = color.RGBA{0, 136, 255, 255}
	enemyColor  = color.RGBA{255, 0, 0, 255}
	enemyCore   = color.RGBA{136, 0, 0, 255}
	laserColor  = color.RGBA{255, 255, 0, 255}
	powerColor  = color.RGBA{255, 255, 0, 255}
	barBack     = color.RGBA{0, 0, 0, 128}
	barFill     = color.RGBA{0, 255, 255, 255}
)

// Draw renders snap at the arena's own resolution scaled by scale.
func Draw(snap game.Snapshot, scale float64) image.Image {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(snap.ArenaW * scale))
	h := int(math.Ceil(snap.ArenaH * scale))
	dc := gg.NewContext(atLeastOne(w), atLeastOne(h))
	dc.Scale(scale, scale)

	dc.SetColor(background)
	dc.DrawRectangle(0, 0, snap.ArenaW, snap.ArenaH)
	dc.Fill()

	drawStars(dc, snap)

	for _, p := range snap.PowerUps {
		drawPowerUp(dc, p)
	}
	for _, e := range snap.Enemies {
		drawEnemy(dc, e)
	}

	if snap.Player.PowerUp {
		dc.SetColor(color.White)
	} else {
		dc.SetColor(laserColor)
	}
	for _, b := range snap.Bullets {
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.Fill()
	}

	if snap.Phase != game.PhaseGameOver {
		drawShip(dc, snap.Player)
	}
	for _, e := range snap.Explosions {
		drawExplosion(dc, e)
	}
	if snap.PowerUpRemaining > 0 && snap.PowerUpDuration > 0 {
		drawPowerUpBar(dc, snap)
	}
	return dc.Image()
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// SavePNG writes snap to path, creating parent directories.
func SavePNG(path string, snap game.Snapshot, scale float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("canvas: create dir: %w", err)
	}
	if err := gg.SavePNG(path, Draw(snap, scale)); err != nil {
		return fmt.Errorf("canvas: save png: %w", err)
	}
	return nil
}

func drawStars(dc *gg.Context, snap game.Snapshot) {
	ms := float64(snap.Elapsed.Milliseconds())
	dc.SetColor(starColor)
	for i := range 100 {
		x := math.Mod(float64(i*17), snap.ArenaW)
		y := math.Mod(float64(i*19)+ms*0.01, snap.ArenaH)
		size := (math.Sin(float64(i)+ms*0.001) + 1) * 1.5
		dc.DrawCircle(x, y, size)
		dc.Fill()
	}
}

func drawShip(dc *gg.Context, p game.Player) {
	if p.W <= 0 || p.H <= 0 {
		return
	}
	if p.PowerUp {
		dc.SetColor(shipPowered)
	} else {
		dc.SetColor(shipColor)
	}
	dc.MoveTo(p.X+p.W/2, p.Y)
	dc.LineTo(p.X+p.W, p.Y+p.H)
	dc.LineTo(p.X, p.Y+p.H)
	dc.ClosePath()
	dc.Fill()

	if p.PowerUp {
		dc.SetColor(shipPowered)
	} else {
		dc.SetColor(cockpit)
	}
	dc.DrawCircle(p.X+p.W/2, p.Y+p.H*0.6, p.W/6)
	dc.Fill()
}

func drawEnemy(dc *gg.Context, e game.Enemy) {
	dc.SetColor(enemyColor)
	dc.MoveTo(e.X+e.W/2, e.Y+e.H)
	dc.LineTo(e.X+e.W, e.Y)
	dc.LineTo(e.X, e.Y)
	dc.ClosePath()
	dc.Fill()

	dc.SetColor(enemyCore)
	dc.DrawCircle(e.X+e.W/2, e.Y+e.H*0.4, e.W/6)
	dc.Fill()
}

func drawPowerUp(dc *gg.Context, p game.PowerUp) {
	cx, cy := p.X+p.W/2, p.Y+p.H/2
	outer := p.W / 2
	inner := outer * 0.4

	dc.SetColor(powerColor)
	dc.MoveTo(cx+outer, cy)
	for i := 1; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := float64(i) * math.Pi / 5
		dc.LineTo(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	dc.ClosePath()
	dc.FillPreserve()
	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.Stroke()
}

func drawExplosion(dc *gg.Context, e game.Explosion) {
	progress := e.Progress()
	radius := e.Radius * (1 - progress*0.5)
	c := parseHex(e.Color)
	c.A = uint8((1 - progress) * 255)

	grad := gg.NewRadialGradient(e.X, e.Y, 0, e.X, e.Y, radius)
	grad.AddColorStop(0, color.RGBA{255, 255, 255, c.A})
	grad.AddColorStop(0.4, c)
	grad.AddColorStop(1, color.RGBA{c.R, c.G, c.B, 0})
	dc.SetFillStyle(grad)
	dc.DrawCircle(e.X, e.Y, radius)
	dc.Fill()
}

func drawPowerUpBar(dc *gg.Context, snap game.Snapshot) {
	const maxWidth, height = 100.0, 10.0
	x, y := snap.ArenaW-maxWidth-10, 10.0
	frac := float64(snap.PowerUpRemaining) / float64(snap.PowerUpDuration)

	dc.SetColor(barBack)
	dc.DrawRectangle(x, y, maxWidth, height)
	dc.Fill()
	dc.SetColor(barFill)
	dc.DrawRectangle(x, y, maxWidth*math.Min(frac, 1), height)
	dc.Fill()
}

// parseHex converts "#RRGGBB" to an opaque color. Malformed input is orange.
func parseHex(hex string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return color.RGBA{255, 170, 0, 255}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
