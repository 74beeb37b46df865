// Package pcm measures the audio level of a raw signed 16-bit little-endian
// PCM stream.
//
// Interleaved frames are mixed down to mono and the level is the RMS of a
// window of mono samples normalized by 32768, clamped to 1.0. Consecutive
// windows overlap by half.
package pcm

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

const (
	DefaultChannels = 2
	DefaultWindow   = 512
)

const bytesPerSample = 2

// Level returns the clamped RMS of samples; an empty window is silent
func Level(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		v := float64(s) / 32768
		sum += v * v
	}

	return math.Min(math.Sqrt(sum/float64(len(samples))), 1)
}

// MixDown averages each frame of interleaved samples into one mono sample.
// A trailing partial frame is dropped.
func MixDown(interleaved []int16, channels int) []int16 {
	if channels <= 1 {
		out := make([]int16, len(interleaved))
		copy(out, interleaved)
		return out
	}

	frames := len(interleaved) / channels
	out := make([]int16, frames)
	for i := 0; i < frames; i++ {
		var sum int32
		for c := 0; c < channels; c++ {
			sum += int32(interleaved[i*channels+c])
		}
		out[i] = int16(sum / int32(channels))
	}
	return out
}

// Meter implements ports.AudioSource over a PCM stream
type Meter struct {
	mu       sync.Mutex
	r        io.Reader
	closer   io.Closer
	channels int
	window   int
	mono     []int16
	raw      []byte
}

// NewMeter reads frames of channels interleaved samples from r. Non-positive
// arguments use the defaults; the window is rounded up to an even length.
func NewMeter(r io.Reader, channels, window int) *Meter {
	if channels <= 0 {
		channels = DefaultChannels
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if window%2 != 0 {
		window++
	}

	m := &Meter{r: r, channels: channels, window: window}
	if c, ok := r.(io.Closer); ok {
		m.closer = c
	}
	return m
}

// Open meters the file at path, or standard input for "-"
func Open(path string, channels, window int) (*Meter, error) {
	if path == "-" {
		return NewMeter(io.NopCloser(os.Stdin), channels, window), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pcm stream: %w", err)
	}
	return NewMeter(f, channels, window), nil
}

// ReadLevel blocks until enough frames arrive to complete the next window.
// The first window needs a full window of frames, later ones half a window.
func (m *Meter) ReadLevel(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	need := m.window - len(m.mono)
	size := need * m.channels * bytesPerSample
	if cap(m.raw) < size {
		m.raw = make([]byte, size)
	}
	raw := m.raw[:size]

	if _, err := io.ReadFull(m.r, raw); err != nil {
		return 0, fmt.Errorf("%w: read pcm: %w", domain.ErrSourceUnavailable, err)
	}

	interleaved := make([]int16, need*m.channels)
	for i := range interleaved {
		interleaved[i] = int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:]))
	}
	m.mono = append(m.mono, MixDown(interleaved, m.channels)...)

	level := Level(m.mono[:m.window])

	// keep the second half for the next, overlapping window
	m.mono = append(m.mono[:0], m.mono[m.window/2:]...)

	return level, nil
}

// Close closes the underlying stream when it is closable
func (m *Meter) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}
