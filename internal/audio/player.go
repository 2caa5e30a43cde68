// Package audio plays the game's sound cues through gopxl/beep.
// Cues are decoded (or synthesized) once into memory buffers; every trigger
// adds a fresh streamer over that buffer to a shared mixer, so overlapping
// triggers of the same cue all play.
package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/starblaster/internal/config"
	"github.com/vovakirdan/starblaster/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// format is the in-memory format of every cue.
var format = beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}

// Nop is the audio sink used when sound cannot be played.
var Nop game.Audio = game.SilentAudio{}

// Player implements game.Audio.
type Player struct {
	locker  sync.Locker // Guards the mixer against the output goroutine
	mixer   *beep.Mixer
	buffers map[game.Sound]*beep.Buffer
	volume  float64
	logger  *log.Logger
}

var _ game.Audio = (*Player)(nil)

// speakerLock adapts the speaker's package lock to sync.Locker.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// Open loads the cues and starts the speaker. Any failure is returned and
// the caller should fall back to Nop. cfg.Enabled is not consulted here: it
// only sets whether the game starts with sound on.
func Open(cfg config.AudioConfig, logger *log.Logger) (*Player, error) {
	buffers, err := LoadSounds(cfg.SoundsDir)
	if err != nil {
		return nil, err
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: cannot init speaker: %w", err)
	}

	p := newPlayer(buffers, cfg.Volume, speakerLock{}, logger)
	speaker.Play(p.mixer)
	return p, nil
}

func newPlayer(buffers map[game.Sound]*beep.Buffer, volume float64, locker sync.Locker, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		locker:  locker,
		mixer:   &beep.Mixer{},
		buffers: buffers,
		volume:  volume,
		logger:  logger,
	}
}

// Available reports true: a Player only exists once every cue loaded.
func (p *Player) Available() bool { return true }

// Trigger starts a cue. Unknown cues are ignored.
func (p *Player) Trigger(s game.Sound) {
	buf, ok := p.buffers[s]
	if !ok {
		p.logger.Debug("unknown sound", "sound", s)
		return
	}

	p.locker.Lock()
	defer p.locker.Unlock()
	p.mixer.Add(withVolume(buf.Streamer(0, buf.Len()), p.volume))
}

// Playing returns the number of cues currently in the mixer.
func (p *Player) Playing() int {
	p.locker.Lock()
	defer p.locker.Unlock()
	return p.mixer.Len()
}

// Close stops every playing cue.
func (p *Player) Close() {
	p.locker.Lock()
	defer p.locker.Unlock()
	p.mixer.Clear()
}

// withVolume scales a streamer linearly; 0 silences it.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// LoadSounds returns a buffer for every game cue. With an empty dir the
// cues are synthesized; otherwise each is read from <dir>/<cue>.wav.
func LoadSounds(dir string) (map[game.Sound]*beep.Buffer, error) {
	buffers := make(map[game.Sound]*beep.Buffer, len(game.Sounds))
	for _, s := range game.Sounds {
		var (
			buf *beep.Buffer
			err error
		)
		if dir == "" {
			buf, err = synthesize(s)
		} else {
			buf, err = decodeFile(filepath.Join(dir, string(s)+".wav"))
		}
		if err != nil {
			return nil, err
		}
		buffers[s] = buf
	}
	return buffers, nil
}

// decodeFile reads a WAV file into a buffer, resampling to the mixer rate.
func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: cannot open %s: %w", path, err)
	}

	streamer, fileFormat, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: cannot decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if fileFormat.SampleRate != sampleRate {
		s = beep.Resample(4, fileFormat.SampleRate, sampleRate, s)
	}

	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("audio: cannot read %s: %w", path, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("audio: %s is empty", path)
	}
	return buf, nil
}
