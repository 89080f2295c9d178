// SPDX-License-Identifier: EPL-2.0

package track

import (
	"fmt"
	"math"
	"time"

	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/fade"
)

// Decoder is the stream a Track pulls PCM frames from.
//
// DecodeFrames writes up to frames interleaved frames of Channels() samples
// into dst and returns how many it wrote. A short count means the stream
// ended or the read came up short; it is never an error code.
type Decoder interface {
	Open(handle any, mode audio.Mode) bool
	Close()
	Rewind()
	Channels() int
	SampleRate() int
	DecodeFrames(dst []int16, frames int) int
}

// Option configures a Track at construction.
type Option func(*Track)

// WithCosine enables the cosine-family fade shapes.
func WithCosine(c fade.Cosine) Option {
	return func(t *Track) {
		t.engine = fade.NewEngine(c)
	}
}

// Track plays one stream at a time with a fade-controlled gain, converting
// the stream to the track's channel count.
//
// The zero value is an unbound track: it never plays and Start fails with
// ErrNotBound. A Track must not be used from more than one goroutine.
type Track struct {
	bound    bool
	channels int

	dec    Decoder
	engine fade.Engine

	gain int32

	shape        fade.Shape
	fadeLength   uint32
	fadeProgress uint32
	fadeStart    int32
	fadeEnd      int32

	handle   any
	running  bool
	stopping bool

	frame [audio.MaxChannels]int16
}

// New binds a Track producing channels-wide frames (1 or 2) to dec.
// Without WithCosine only the linear fade shapes change the gain.
func New(dec Decoder, channels int, opts ...Option) (*Track, error) {
	if dec == nil {
		return nil, ErrNoDecoder
	}
	if channels < 1 || channels > audio.MaxChannels {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	t := &Track{
		bound:     true,
		channels:  channels,
		dec:       dec,
		gain:      audio.UnitGain,
		fadeStart: audio.UnitGain,
		fadeEnd:   audio.UnitGain,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Start opens handle and begins playback. The gain starts at silence and
// moves to gain following shape over length frames; fade.None jumps there
// on the first frame.
//
// On any error the track is left idle.
func (t *Track) Start(handle any, mode audio.Mode, gain int32, shape fade.Shape, length uint32) error {
	if !t.bound {
		return ErrNotBound
	}

	t.running = false
	t.stopping = false

	if !t.dec.Open(handle, mode) {
		return fmt.Errorf("%w: %v", ErrOpen, handle)
	}

	t.handle = handle

	srcChannels := t.dec.Channels()
	if srcChannels > audio.MaxChannels {
		t.dec.Close()
		return fmt.Errorf("%w: source has %d", ErrTooManyChannels, srcChannels)
	}
	if !audio.CanRemix(t.channels, srcChannels) {
		t.dec.Close()
		return fmt.Errorf("%w: source %d, track %d", ErrChannelMismatch, srcChannels, t.channels)
	}

	t.applyFade(0, fade.None, 0)
	t.running = true

	t.Fade(gain, shape, length)

	return nil
}

// Fade moves the gain to target following shape over length frames,
// starting from wherever the gain is now. fade.None applies target at once.
// Fades on a track that is not running are ignored. A fade issued while a
// Stop is fading out cancels the stop.
func (t *Track) Fade(target int32, shape fade.Shape, length uint32) {
	if !t.bound || !t.running {
		return
	}

	t.stopping = false
	t.applyFade(min(max(target, 0), audio.MaxGain), shape, length)
}

// applyFade is the only writer of the gain.
func (t *Track) applyFade(target int32, shape fade.Shape, length uint32) {
	t.shape = shape

	if shape != fade.None {
		t.fadeLength = length
		t.fadeProgress = 0
		t.fadeStart = t.gain
		t.fadeEnd = target
		return
	}

	t.fadeLength = 0
	t.fadeProgress = 0
	t.fadeStart = target
	t.gain = target
	t.fadeEnd = target
}

// Stop fades the gain to silence and then closes the source. With
// fade.None the source is closed immediately.
func (t *Track) Stop(shape fade.Shape, length uint32) {
	if !t.bound {
		return
	}

	t.Fade(0, shape, length)

	if t.running && t.shape != fade.None {
		t.stopping = true
		return
	}

	t.closeNow()
}

func (t *Track) closeNow() {
	if t.running {
		t.dec.Close()
	}
	t.running = false
	t.stopping = false
}

// Rewind restarts the open source from its beginning. The gain and any
// fade in flight are not affected.
func (t *Track) Rewind() {
	if !t.bound || !t.running {
		return
	}

	t.dec.Rewind()
}

// Play writes up to frames frames into buf and returns how many it wrote.
//
// A short count means the source ran out, or a fade-out begun by Stop
// completed and closed it during this call. If a source frame cannot be
// converted to the track's channel count the whole call fails and 0 is
// returned, even if earlier frames were already written to buf.
//
// frames is capped at len(buf)/Channels(); a non-positive count plays
// nothing. Play does not allocate.
func (t *Track) Play(buf []int16, frames int) int {
	if !t.bound || !t.running {
		return 0
	}

	frames = min(frames, len(buf)/t.channels)
	if frames <= 0 {
		return 0
	}

	for i := range frames {
		// A completed fade-out closed the source on the previous frame.
		if !t.running {
			return i
		}

		srcChannels := t.dec.Channels()
		if srcChannels < 1 || srcChannels > audio.MaxChannels {
			return 0
		}
		src := t.frame[:srcChannels]

		if t.dec.DecodeFrames(src, 1) < 1 {
			return i
		}

		out := buf[i*t.channels : (i+1)*t.channels]
		if !audio.RemixFrame(out, src) {
			return 0
		}

		audio.ScaleFrame(out, t.gain)

		t.advance()
	}

	return frames
}

// advance moves the fade one frame forward: a fade whose progress reached
// its length resolves first (closing the source when stopping), otherwise
// progress steps and the gain follows the curve.
func (t *Track) advance() {
	if t.shape == fade.None {
		return
	}

	if t.fadeProgress >= t.fadeLength {
		if t.stopping {
			t.Stop(fade.None, 0)
		} else {
			t.applyFade(t.fadeEnd, fade.None, 0)
		}
		return
	}

	t.fadeProgress++

	if g, ok := t.engine.Level(t.fadeProgress, t.fadeLength, t.fadeStart, t.fadeEnd, t.shape); ok {
		t.gain = g
	}
}

// Running reports whether a source is open and playing.
func (t *Track) Running() bool {
	return t.running
}

// PlayingNow returns the handle passed to the Start that opened the current
// source, or nil when nothing is playing.
func (t *Track) PlayingNow() any {
	if !t.running {
		return nil
	}
	return t.handle
}

// Channels is the number of channels per output frame.
func (t *Track) Channels() int {
	return t.channels
}

// SampleRate of the open source in Hz, or 0 on an unbound track.
func (t *Track) SampleRate() int {
	if !t.bound {
		return 0
	}
	return t.dec.SampleRate()
}

// Gain is the current gain over audio.UnitGain.
func (t *Track) Gain() int32 {
	return t.gain
}

// Shape of the fade in flight, or fade.None.
func (t *Track) Shape() fade.Shape {
	return t.shape
}

// FadeProgress returns how many frames of the current fade have elapsed
// and its total length.
func (t *Track) FadeProgress() (progress, length uint32) {
	return t.fadeProgress, t.fadeLength
}

// Stopping reports whether a fade-out begun by Stop is in flight.
func (t *Track) Stopping() bool {
	return t.stopping
}

// Frames converts d to a frame count at the open source's sample rate,
// for use as a fade length. Negative durations yield 0.
func (t *Track) Frames(d time.Duration) uint32 {
	rate := t.SampleRate()
	if d <= 0 || rate <= 0 {
		return 0
	}

	secs, rem := uint64(d/time.Second), uint64(d%time.Second)
	n := secs*uint64(rate) + rem*uint64(rate)/uint64(time.Second)
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
