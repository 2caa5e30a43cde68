package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/starblaster/internal/game"
)

// note is one segment of a synthesized cue.
type note struct {
	freq   float64
	length time.Duration
	square bool
}

// cues describes the built-in sounds used when no WAV files are given.
var cues = map[game.Sound][]note{
	game.SoundLaser:    {{1200, 40 * time.Millisecond, true}, {900, 40 * time.Millisecond, true}, {600, 40 * time.Millisecond, true}},
	game.SoundPowerUp:  {{523, 70 * time.Millisecond, false}, {659, 70 * time.Millisecond, false}, {784, 70 * time.Millisecond, false}, {1047, 120 * time.Millisecond, false}},
	game.SoundGameOver: {{440, 200 * time.Millisecond, true}, {349, 200 * time.Millisecond, true}, {262, 400 * time.Millisecond, true}},
}

// explosionLength is the duration of the noise burst.
const explosionLength = 400 * time.Millisecond

func synthesize(s game.Sound) (*beep.Buffer, error) {
	var streamer beep.Streamer
	if s == game.SoundExplosion {
		streamer = newNoiseBurst(sampleRate.N(explosionLength))
	} else {
		notes, ok := cues[s]
		if !ok {
			return nil, fmt.Errorf("audio: no synthesized cue for %q", s)
		}
		parts := make([]beep.Streamer, 0, len(notes))
		for _, n := range notes {
			tone, err := toneFor(n)
			if err != nil {
				return nil, fmt.Errorf("audio: cannot synthesize %q: %w", s, err)
			}
			parts = append(parts, newFade(beep.Take(sampleRate.N(n.length), tone), sampleRate.N(n.length)))
		}
		streamer = beep.Seq(parts...)
	}

	buf := beep.NewBuffer(format)
	buf.Append(withVolume(streamer, 0.4))
	return buf, nil
}

func toneFor(n note) (beep.Streamer, error) {
	if n.square {
		return generators.SquareTone(sampleRate, n.freq)
	}
	return generators.SineTone(sampleRate, n.freq)
}

// fade linearly releases a streamer over its last quarter.
type fade struct {
	s     beep.Streamer
	pos   int
	total int
}

func newFade(s beep.Streamer, total int) *fade {
	return &fade{s: s, total: total}
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.s.Stream(samples)
	release := f.total / 4
	for i := 0; i < n; i++ {
		left := f.total - f.pos
		if release > 0 && left < release {
			vol := float64(left) / float64(release)
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.s.Err() }

// noiseBurst is decaying white noise over a low rumble.
type noiseBurst struct {
	pos   int
	total int
	seed  uint32
}

func newNoiseBurst(total int) *noiseBurst {
	return &noiseBurst{total: total, seed: 2463534242}
}

func (g *noiseBurst) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(sampleRate)

		// xorshift32
		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		rumble := 0.4 * math.Sin(2*math.Pi*70*t)
		v := math.Exp(-t*9) * (0.6*noise + rumble)

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *noiseBurst) Err() error { return nil }
