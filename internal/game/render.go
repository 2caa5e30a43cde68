package game

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vovakirdan/starblaster/internal/core"
)

// Glyphs used by the terminal renderer.
const (
	ShipChar      = '▲'
	EnemyChar     = '▼'
	BulletChar    = '|'
	PowerUpChar   = '★'
	StarFaint     = '.'
	StarBright    = '+'
	ExplosionHot  = '@'
	ExplosionWarm = '*'
	ExplosionCool = '·'
)

// starCount is the number of background stars.
const starCount = 100

// hudRows is the number of rows above the playfield.
const hudRows = 1

// Viewport maps arena units onto a block of terminal cells.
// Terminal cells are roughly twice as tall as they are wide, so the
// playfield keeps the arena's aspect ratio at two columns per row unit.
type Viewport struct {
	X, Y int // Top-left cell of the playfield (inside the border)
	W, H int // Playfield size in cells

	arenaW, arenaH float64
}

// NewViewport fits an arenaW x arenaH arena below the HUD of a w x h screen.
func NewViewport(w, h int, arenaW, arenaH float64) Viewport {
	fieldH := core.Max(h-hudRows-2, 1)
	fieldW := int(math.Round(float64(fieldH) * arenaW / arenaH * 2))
	fieldW = core.Clamp(fieldW, 1, core.Max(w-2, 1))

	return Viewport{
		X:      (w - fieldW) / 2,
		Y:      hudRows + 1,
		W:      fieldW,
		H:      fieldH,
		arenaW: arenaW,
		arenaH: arenaH,
	}
}

// Col converts an arena x coordinate to a screen column.
func (v Viewport) Col(x float64) int {
	return v.X + int(math.Floor(x/v.arenaW*float64(v.W)))
}

// Row converts an arena y coordinate to a screen row.
func (v Viewport) Row(y float64) int {
	return v.Y + int(math.Floor(y/v.arenaH*float64(v.H)))
}

// Cells returns the cell span covered by r, at least one cell each way.
func (v Viewport) Cells(r core.Rect) (x, y, w, h int) {
	x, y = v.Col(r.X), v.Row(r.Y)
	w = core.Max(v.Col(r.Right())-x, 1)
	h = core.Max(v.Row(r.Bottom())-y, 1)
	return x, y, w, h
}

// inside reports whether a cell lies in the playfield.
func (v Viewport) inside(x, y int) bool {
	return x >= v.X && x < v.X+v.W && y >= v.Y && y < v.Y+v.H
}

// Draw renders a snapshot into dst: HUD, border, starfield, entities and
// any pause or failure overlay.
func Draw(dst *core.Screen, snap Snapshot) {
	dst.Clear()
	v := NewViewport(dst.Width(), dst.Height(), snap.ArenaW, snap.ArenaH)

	dst.DrawBox(v.X-1, v.Y-1, v.W+2, v.H+2)
	drawStarfield(dst, v, snap.Elapsed)

	for _, p := range snap.PowerUps {
		fill(dst, v, p.Bounds(), PowerUpChar, core.ColorYellow)
	}
	for _, e := range snap.Enemies {
		drawEnemy(dst, v, e)
	}

	bulletColor := core.ColorYellow
	if snap.Player.PowerUp {
		bulletColor = core.ColorBrightWhite
	}
	for _, b := range snap.Bullets {
		fill(dst, v, b.Bounds(), BulletChar, bulletColor)
	}

	if snap.Phase != PhaseGameOver {
		shipColor := core.ColorCyan
		if snap.Player.PowerUp {
			shipColor = core.ColorBrightCyan
		}
		fill(dst, v, snap.Player.Bounds(), ShipChar, shipColor)
	}

	for _, e := range snap.Explosions {
		drawExplosion(dst, v, e)
	}

	drawHUD(dst, snap)

	switch {
	case snap.Err != nil:
		drawCenteredMessage(dst, v, "GAME HALTED", "An error occurred. Press R to restart")
	case snap.Paused:
		drawCenteredMessage(dst, v, "PAUSED", "Press P to resume")
	}
}

// fill paints the cells under r, clipped to the playfield.
func fill(dst *core.Screen, v Viewport, r core.Rect, ch rune, c core.Color) {
	x, y, w, h := v.Cells(r)
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if v.inside(col, row) {
				dst.SetColored(col, row, ch, c)
			}
		}
	}
}

func drawEnemy(dst *core.Screen, v Viewport, e Enemy) {
	fill(dst, v, e.Bounds(), EnemyChar, core.ColorRed)
	cx, cy := e.Bounds().Center()
	if col, row := v.Col(cx), v.Row(cy); v.inside(col, row) {
		dst.SetColored(col, row, EnemyChar, core.ColorDarkRed)
	}
}

// drawStarfield scrolls stars downward with game time.
func drawStarfield(dst *core.Screen, v Viewport, elapsed time.Duration) {
	ms := float64(elapsed.Milliseconds())
	for i := range starCount {
		x := math.Mod(float64(i*17), v.arenaW)
		y := math.Mod(float64(i*19)+ms*0.01, v.arenaH)
		size := (math.Sin(float64(i)+ms*0.001) + 1) * 1.5

		col, row := v.Col(x), v.Row(y)
		if !v.inside(col, row) || dst.Get(col, row) != ' ' {
			continue
		}
		if size > 2 {
			dst.SetColored(col, row, StarBright, core.ColorWhite)
		} else {
			dst.SetColored(col, row, StarFaint, core.ColorGray)
		}
	}
}

// drawExplosion shrinks and cools as the explosion burns out.
func drawExplosion(dst *core.Screen, v Viewport, e Explosion) {
	progress := e.Progress()
	radius := e.Radius * (1 - progress*0.5)

	glyph := ExplosionHot
	switch {
	case progress > 0.66:
		glyph = ExplosionCool
	case progress > 0.33:
		glyph = ExplosionWarm
	}

	fill(dst, v, core.NewRect(e.X-radius, e.Y-radius, radius*2, radius*2), glyph, HexColor(e.Color))
}

func drawHUD(dst *core.Screen, snap Snapshot) {
	left := fmt.Sprintf("Score: %d", snap.Score)
	if snap.Phase == PhasePlaying {
		left += fmt.Sprintf("  Lives: %d", snap.Lives)
	}
	dst.DrawTextColored(1, 0, left, core.ColorBrightWhite)

	if snap.PowerUpRemaining > 0 {
		bar := PowerUpBar(snap.PowerUpRemaining, snap.PowerUpDuration, 10)
		text := "POWER-UP " + bar
		dst.DrawTextColored(dst.Width()-1-len([]rune(text)), 0, text, core.ColorBrightCyan)
	}
}

// PowerUpBar renders the remaining power-up time as a bar of the given width.
func PowerUpBar(remaining, total time.Duration, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := int(math.Ceil(float64(remaining) / float64(total) * float64(width)))
	filled = core.Clamp(filled, 0, width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat(" ", width-filled) + "]"
}

// drawCenteredMessage draws a message box in the center of the playfield.
func drawCenteredMessage(dst *core.Screen, v Viewport, title, subtitle string) {
	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := v.X + (v.W-boxW)/2
	boxY := v.Y + (v.H-boxH)/2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)

	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorBrightWhite)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}

// HexColor maps a "#RRGGBB" color to the nearest terminal palette entry
// used by the game.
func HexColor(hex string) core.Color {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return core.ColorYellow
	}

	switch {
	case r > 200 && g > 200 && b > 200:
		return core.ColorBrightWhite
	case r > 200 && g > 200:
		return core.ColorYellow
	case r > 200 && g > 100:
		return core.ColorOrange
	case r > 200:
		return core.ColorRed
	case g > 200 && b > 200:
		return core.ColorCyan
	case g > 200:
		return core.ColorGreen
	case b > 200:
		return core.ColorBlue
	default:
		return core.ColorGray
	}
}
