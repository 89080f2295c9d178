// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
)

// mockSource is a test helper that generates 16-bit audio data for testing.
// It implements the Source interface.
type mockSource struct {
	sampleRate  int
	channels    int
	totalFrames int // Total frames to generate
	generated   int // Frames generated so far
	chunk       int // Max frames per ReadSamples call, 0 for unlimited
	waveform    func(frame int, channel int) int16
}

// newMockSource creates a new mock audio source.
func newMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) int16) *mockSource {
	return &mockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// newConstantSource creates a mock source with constant value.
func newConstantSource(sampleRate, channels, totalFrames int, value int16) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(int, int) int16 {
		return value
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error    { return nil }

func (m *mockSource) ReadSamples(dst []int16) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalFrames-m.generated)
	if m.chunk > 0 {
		framesToWrite = min(framesToWrite, m.chunk)
	}

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
