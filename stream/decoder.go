// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtrack/audio"
	"go.uber.org/zap"
)

// DefaultBufferFrames is the size of the decode buffer in frames.
const DefaultBufferFrames = 1024

// Option configures a Decoder at construction.
type Option func(*Decoder)

// WithLogger sets the logger used for open and decode failures.
func WithLogger(log *zap.Logger) Option {
	return func(d *Decoder) {
		if log != nil {
			d.log = log
		}
	}
}

// WithBufferFrames sets how many frames are decoded per refill.
func WithBufferFrames(frames int) Option {
	return func(d *Decoder) {
		if frames > 0 {
			d.bufFrames = frames
		}
	}
}

// Decoder feeds a track from container files. It sniffs the container,
// picks a format decoder from the registry and serves whole frames from
// a buffer it refills as the track plays.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	open      Opener
	reg       *audio.Registry
	log       *zap.Logger
	bufFrames int

	rc     io.ReadSeekCloser
	codec  audio.Decoder
	src    audio.Source
	format string
	mode   audio.Mode

	buf      []int16
	pos, end int // sample offsets into buf
	eof      bool
	err      error
}

// New returns a Decoder that opens handles with open and picks format
// decoders from reg. It logs nowhere unless WithLogger is given.
func New(open Opener, reg *audio.Registry, opts ...Option) *Decoder {
	d := &Decoder{
		open:      open,
		reg:       reg,
		log:       zap.NewNop(),
		bufFrames: DefaultBufferFrames,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open closes any open source and opens handle. It reports false on
// failure; the cause is available from Err.
func (d *Decoder) Open(handle any, mode audio.Mode) bool {
	d.Close()
	d.err = nil
	d.mode = mode

	log := d.log.With(zap.Any("handle", handle), zap.Stringer("mode", mode))

	if err := d.openSource(handle); err != nil {
		d.err = err
		log.Warn("open failed", zap.Error(err))
		d.Close()
		return false
	}

	log.Debug("opened",
		zap.String("format", d.format),
		zap.Int("channels", d.src.Channels()),
		zap.Int("sample_rate", d.src.SampleRate()),
	)
	return true
}

func (d *Decoder) openSource(handle any) error {
	if d.open == nil || d.reg == nil {
		return fmt.Errorf("%w: decoder not configured", audio.ErrUnknownFormat)
	}

	rc, err := d.open(handle)
	if err != nil {
		return fmt.Errorf("opening: %w", err)
	}
	d.rc = rc

	header := make([]byte, SniffLen)
	n, err := io.ReadFull(rc, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading header: %w", err)
	}

	d.format = Sniff(header[:n])
	if d.format == "" {
		return ErrUnknownContainer
	}

	codec, ok := d.reg.Get(d.format)
	if !ok {
		return fmt.Errorf("%w: %s", audio.ErrUnknownFormat, d.format)
	}
	d.codec = codec

	if err := d.decode(); err != nil {
		return err
	}

	d.buf = make([]int16, d.bufFrames*d.src.Channels())
	return nil
}

// decode seeks the reader to the start and builds a fresh source.
func (d *Decoder) decode() error {
	if _, err := d.rc.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seeking: %w", err)
	}

	src, err := d.codec.Decode(d.rc)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", d.format, err)
	}
	if src.Channels() <= 0 {
		src.Close()
		return ErrNoChannels
	}

	if d.src != nil {
		d.src.Close()
	}
	d.src = src
	d.pos, d.end = 0, 0
	d.eof = false
	return nil
}

// Close releases the source and reader. Calling it again is a no-op.
func (d *Decoder) Close() {
	if d.src != nil {
		d.src.Close()
		d.src = nil
	}
	if d.rc != nil {
		d.rc.Close()
		d.rc = nil
	}
	d.codec = nil
	d.buf = nil
	d.pos, d.end = 0, 0
	d.eof = false
}

// Rewind restarts the open source from its first frame.
func (d *Decoder) Rewind() {
	if d.src == nil {
		return
	}
	if err := d.restart(); err != nil {
		d.log.Warn("rewind failed", zap.String("format", d.format), zap.Error(err))
	}
}

func (d *Decoder) restart() error {
	channels := d.src.Channels()
	if err := d.decode(); err != nil {
		d.err = err
		return err
	}
	if d.src.Channels() != channels {
		d.buf = make([]int16, d.bufFrames*d.src.Channels())
	}
	d.err = nil
	return nil
}

func (d *Decoder) Channels() int {
	if d.src == nil {
		return 0
	}
	return d.src.Channels()
}

func (d *Decoder) SampleRate() int {
	if d.src == nil {
		return 0
	}
	return d.src.SampleRate()
}

// Format is the sniffed container of the open source.
func (d *Decoder) Format() string {
	if d.src == nil {
		return ""
	}
	return d.format
}

// Err returns the last open or decode failure.
func (d *Decoder) Err() error { return d.err }

// DecodeFrames copies up to frames whole frames into dst and returns how
// many were written. A short count means the stream ended; in loop mode
// the stream restarts instead, unless it produced nothing since the last
// restart.
func (d *Decoder) DecodeFrames(dst []int16, frames int) int {
	if d.src == nil || frames <= 0 {
		return 0
	}

	channels := d.src.Channels()
	frames = min(frames, len(dst)/channels)

	done := 0
	rewound := false
	for done < frames {
		if d.pos == d.end && !d.fill() {
			if d.mode != audio.ModeLoop || rewound || d.err != nil {
				break
			}
			if err := d.restart(); err != nil {
				d.log.Warn("loop restart failed", zap.String("format", d.format), zap.Error(err))
				break
			}
			channels = d.src.Channels()
			rewound = true
			continue
		}
		rewound = false

		n := min(frames-done, (d.end-d.pos)/channels)
		copy(dst[done*channels:], d.buf[d.pos:d.pos+n*channels])
		d.pos += n * channels
		done += n
	}

	return done
}

// fill refills buf from the source and reports whether any frames came in.
func (d *Decoder) fill() bool {
	if d.eof {
		return false
	}

	n, err := audio.ReadFrames(d.src, d.buf)
	d.pos, d.end = 0, n*d.src.Channels()

	if err != nil {
		d.eof = true
		if !errors.Is(err, io.EOF) {
			d.err = err
			d.log.Warn("decode failed", zap.String("format", d.format), zap.Error(err))
		}
	}

	return n > 0
}
