// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audtrack/audio"
)

// MockSource is a test helper that generates 16-bit audio data.
// It implements audio.Source.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int // Total frames to generate
	generated   int // Frames generated so far
	waveform    func(frame int, channel int) int16
	closed      bool
}

// NewMockSource creates a new mock audio source.
// totalFrames is the total number of frames to generate.
// waveform is a function that generates sample values given frame index and channel.
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) int16) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalFrames int, value int16) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) int16 {
		return value
	})
}

// NewRampSource creates a source whose sample equals its frame index plus
// 1000 times the channel, handy for checking ordering.
func NewRampSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, channel int) int16 {
		return int16(frame + 1000*channel)
	})
}

// NewSineSource creates a mock source that generates a full-scale sine wave.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, channel int) int16 {
		t := float64(frame) / float64(sampleRate)
		return int16(math.Sin(2*math.Pi*frequency*t) * math.MaxInt16)
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { m.closed = true; return nil }

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset resets the generated frame counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []int16) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalFrames-m.generated)

	for frame := range framesToWrite {
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(m.generated+frame, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalFrames {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// MockDecoder is a scripted track decoder serving frames from a MockSource.
// Sources are looked up by handle; an unknown handle fails to open.
type MockDecoder struct {
	Sources map[any]*MockSource

	current *MockSource
	mode    audio.Mode

	Opens   int
	Closes  int
	Rewinds int
	Decoded int
}

// NewMockDecoder returns a decoder that opens the given sources by handle.
func NewMockDecoder(sources map[any]*MockSource) *MockDecoder {
	return &MockDecoder{Sources: sources}
}

func (d *MockDecoder) Open(handle any, mode audio.Mode) bool {
	src, ok := d.Sources[handle]
	if !ok {
		return false
	}
	src.Reset()
	d.current = src
	d.mode = mode
	d.Opens++
	return true
}

func (d *MockDecoder) Close() {
	if d.current != nil {
		d.Closes++
	}
	d.current = nil
}

func (d *MockDecoder) Rewind() {
	if d.current != nil {
		d.current.Reset()
		d.Rewinds++
	}
}

// IsOpen reports whether a source is open.
func (d *MockDecoder) IsOpen() bool { return d.current != nil }

func (d *MockDecoder) Channels() int {
	if d.current == nil {
		return 0
	}
	return d.current.Channels()
}

func (d *MockDecoder) SampleRate() int {
	if d.current == nil {
		return 0
	}
	return d.current.SampleRate()
}

func (d *MockDecoder) DecodeFrames(dst []int16, frames int) int {
	if d.current == nil {
		return 0
	}

	ch := d.current.Channels()
	want := min(frames, len(dst)/ch)
	done := 0
	for done < want {
		n, err := d.current.ReadSamples(dst[done*ch : want*ch])
		done += n / ch
		if err == io.EOF && done < want {
			if d.mode != audio.ModeLoop || d.current.totalFrames == 0 {
				break
			}
			d.current.Reset()
		}
	}
	d.Decoded += done
	return done
}
