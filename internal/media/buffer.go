// Package media implements the backing/guide audio buffers and their
// playback cursors: per-channel PCM storage, load-time resampling to
// the device rate, and loop/clamp-at-end cursor advance.
package media

import (
	"math"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

// Buffer is a loaded (or empty) per-channel PCM track tagged with its
// sample rate. An empty Buffer means "no track loaded": next_sample
// always returns 0.
type Buffer struct {
	channels   [][]float32
	sampleRate int
	empty      bool
}

// EmptyBuffer returns a Buffer in the "no track loaded" state.
func EmptyBuffer() Buffer {
	return Buffer{empty: true}
}

// NewBuffer loads decoded per-channel PCM at rate r, resampling to fs
// when they differ by more than a 1e-3 Hz tolerance.
func NewBuffer(decoded [][]float32, r, fs int) (Buffer, error) {
	if len(decoded) == 0 || len(decoded[0]) == 0 {
		return EmptyBuffer(), nil
	}
	if len(decoded) > 2 {
		return Buffer{}, errors.Newf("media: unsupported channel count %d", len(decoded)).
			Component("media").
			Category(errors.CategoryValidation).
			Build()
	}

	channels := decoded
	if math.Abs(float64(r-fs)) >= 1e-3 {
		channels = make([][]float32, len(decoded))
		for i, ch := range decoded {
			channels[i] = resampleChannel(ch, r, fs)
		}
	}

	return Buffer{channels: channels, sampleRate: fs}, nil
}

func (b Buffer) IsEmpty() bool { return b.empty || len(b.channels) == 0 }

func (b Buffer) Channels() int { return len(b.channels) }

func (b Buffer) Length() int {
	if b.IsEmpty() {
		return 0
	}
	return len(b.channels[0])
}

func (b Buffer) SampleRate() int { return b.sampleRate }

// Sample returns the sample at cursor for channel, clamping channel to
// the buffer's channel count (mono buffers feed both output channels).
func (b Buffer) Sample(cursor, channel int) float32 {
	if b.IsEmpty() {
		return 0
	}
	ch := channel
	if ch >= len(b.channels) {
		ch = len(b.channels) - 1
	}
	chSamples := b.channels[ch]
	if cursor < 0 || cursor >= len(chSamples) {
		return 0
	}
	return chSamples[cursor]
}
