// Package audio plays the one-shot cues of the portal gun.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/smasonuk/portalgun"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SampleRate = 44100

	// Decoded cues are 16 bit stereo.
	bytesPerFrame = 4
)

var ErrUnknownCue = errors.New("unknown cue")

// Bank holds decoded cues and plays them on an audio context. A bank without
// a context stays silent but still reports durations.
type Bank struct {
	ctx    *audio.Context
	rate   int
	logger *zap.Logger

	mu      sync.Mutex
	cues    map[string][]byte
	playing []*audio.Player
}

func NewBank(ctx *audio.Context, logger *zap.Logger) *Bank {
	if logger == nil {
		logger = zap.NewNop()
	}
	rate := SampleRate
	if ctx != nil {
		rate = ctx.SampleRate()
	}
	return &Bank{
		ctx:    ctx,
		rate:   rate,
		logger: logger.Named("audio"),
		cues:   make(map[string][]byte),
	}
}

// LoadBank decodes <name>.wav from fsys for every name. Cues are decoded
// concurrently. Missing files are logged and skipped; a file that fails to
// decode is an error.
func LoadBank(ctx *audio.Context, fsys fs.FS, names []string, logger *zap.Logger) (*Bank, error) {
	b := NewBank(ctx, logger)
	if err := b.load(fsys, names); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bank) load(fsys fs.FS, names []string) error {
	var g errgroup.Group
	for _, name := range names {
		g.Go(func() error {
			data, err := fs.ReadFile(fsys, name+".wav")
			if errors.Is(err, fs.ErrNotExist) {
				b.logger.Warn("cue missing", zap.String("cue", name))
				return nil
			}
			if err != nil {
				return fmt.Errorf("read cue %q: %w", name, err)
			}
			pcm, err := decodeWav(b.rate, data)
			if err != nil {
				return fmt.Errorf("decode cue %q: %w", name, err)
			}
			b.Add(name, pcm)
			return nil
		})
	}
	return g.Wait()
}

// LoadDir is LoadBank over a directory on disk.
func LoadDir(ctx *audio.Context, dir string, logger *zap.Logger) (*Bank, error) {
	return LoadBank(ctx, os.DirFS(dir), portalgun.CueNames(), logger)
}

func decodeWav(rate int, data []byte) ([]byte, error) {
	stream, err := wav.DecodeWithSampleRate(rate, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(stream)
}

// Add registers already decoded 16 bit stereo PCM under name.
func (b *Bank) Add(name string, pcm []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cues[name] = pcm
	b.logger.Debug("cue loaded",
		zap.String("cue", name),
		zap.Duration("duration", b.duration(pcm)),
	)
}

// Cue returns the decoded PCM of a cue.
func (b *Bank) Cue(name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pcm, ok := b.cues[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCue, name)
	}
	return pcm, nil
}

// PlayCue starts a fresh player for the cue so overlapping plays mix.
// Unknown cues are ignored.
func (b *Bank) PlayCue(name string, volume float64) {
	pcm, err := b.Cue(name)
	if err != nil {
		b.logger.Debug("cue not played", zap.Error(err))
		return
	}
	if b.ctx == nil {
		return
	}

	p := b.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(volume)
	p.Play()

	b.mu.Lock()
	defer b.mu.Unlock()
	live := b.playing[:0]
	for _, old := range b.playing {
		if old.IsPlaying() {
			live = append(live, old)
		}
	}
	b.playing = append(live, p)
}

// CueDuration is zero for unknown cues.
func (b *Bank) CueDuration(name string) time.Duration {
	pcm, err := b.Cue(name)
	if err != nil {
		return 0
	}
	return b.duration(pcm)
}

func (b *Bank) duration(pcm []byte) time.Duration {
	frames := len(pcm) / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(b.rate)
}

var _ portalgun.CuePlayer = (*Bank)(nil)
