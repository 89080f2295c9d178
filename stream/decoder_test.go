// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audtrack/audio"
	"github.com/ik5/audtrack/formats/wav"
	"github.com/ik5/audtrack/internal/audiotest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memFile struct {
	*bytes.Reader
	closed bool
}

func (m *memFile) Close() error {
	m.closed = true
	return nil
}

// memFS opens named in-memory files.
type memFS struct {
	files  map[string][]byte
	opened []*memFile
}

func (fs *memFS) open(handle any) (io.ReadSeekCloser, error) {
	name, _ := handle.(string)
	data, ok := fs.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	f := &memFile{Reader: bytes.NewReader(data)}
	fs.opened = append(fs.opened, f)
	return f, nil
}

// rampWAV encodes frames where sample = frame*10 + channel.
func rampWAV(t testing.TB, rate, channels, frames int) []byte {
	t.Helper()

	samples := make([]int16, frames*channels)
	for i := range frames {
		for ch := range channels {
			samples[i*channels+ch] = int16(i*10 + ch)
		}
	}

	buf := new(bytes.Buffer)
	if err := wav.WriteWAV16(buf, rate, channels, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	return buf.Bytes()
}

func wavRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	return reg
}

func newTestDecoder(t testing.TB, files map[string][]byte, opts ...Option) (*Decoder, *memFS) {
	t.Helper()
	fs := &memFS{files: files}
	return New(fs.open, wavRegistry(), opts...), fs
}

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []byte
		want   string
	}{
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), "wav"},
		{"aiff", []byte("FORM\x00\x00\x00\x20AIFFCOMM"), "aiff"},
		{"ogg", []byte("OggS\x00\x02"), "ogg"},
		{"mp3 id3", []byte("ID3\x04\x00"), "mp3"},
		{"mp3 sync", []byte{0xFF, 0xFB, 0x90, 0x00}, "mp3"},
		{"riff not wave", []byte("RIFF\x24\x00\x00\x00AVI LIST"), ""},
		{"form not aiff", []byte("FORM\x00\x00\x00\x20AIFC"), ""},
		{"short riff", []byte("RIFF"), ""},
		{"empty", nil, ""},
		{"text", []byte("hello world!"), ""},
		{"lone 0xff", []byte{0xFF}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Sniff(tt.header); got != tt.want {
				t.Errorf("Sniff(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestDecoder_OpenOnce(t *testing.T) {
	t.Parallel()

	d, fs := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 22050, 2, 5)})

	if !d.Open("a.wav", audio.ModeOnce) {
		t.Fatalf("Open() = false, err = %v", d.Err())
	}
	if d.Channels() != 2 || d.SampleRate() != 22050 || d.Format() != "wav" {
		t.Errorf("geometry = %d ch, %d Hz, %q", d.Channels(), d.SampleRate(), d.Format())
	}

	dst := make([]int16, 2*4)
	if n := d.DecodeFrames(dst, 4); n != 4 {
		t.Fatalf("first DecodeFrames() = %d, want 4", n)
	}
	want := []int16{0, 1, 10, 11, 20, 21, 30, 31}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}

	if n := d.DecodeFrames(dst, 4); n != 1 {
		t.Errorf("second DecodeFrames() = %d, want 1 (short at end)", n)
	}
	if dst[0] != 40 || dst[1] != 41 {
		t.Errorf("last frame = %v, want [40 41]", dst[:2])
	}
	if n := d.DecodeFrames(dst, 4); n != 0 {
		t.Errorf("DecodeFrames() after end = %d, want 0", n)
	}
	if d.Err() != nil {
		t.Errorf("Err() = %v, want nil at clean end", d.Err())
	}

	d.Close()
	if !fs.opened[0].closed {
		t.Error("reader not closed")
	}
}

func TestDecoder_SmallBufferRefills(t *testing.T) {
	t.Parallel()

	d, _ := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 8000, 1, 50)}, WithBufferFrames(3))
	if !d.Open("a.wav", audio.ModeOnce) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	dst := make([]int16, 64)
	if n := d.DecodeFrames(dst, 64); n != 50 {
		t.Fatalf("DecodeFrames() = %d, want 50", n)
	}
	for i := range 50 {
		if dst[i] != int16(i*10) {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], i*10)
		}
	}
}

func TestDecoder_Loop(t *testing.T) {
	t.Parallel()

	d, _ := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 8000, 1, 3)}, WithBufferFrames(2))
	if !d.Open("a.wav", audio.ModeLoop) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	dst := make([]int16, 8)
	if n := d.DecodeFrames(dst, 8); n != 8 {
		t.Fatalf("DecodeFrames() = %d, want 8", n)
	}

	want := []int16{0, 10, 20, 0, 10, 20, 0, 10}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestDecoder_LoopEmptyDoesNotSpin(t *testing.T) {
	t.Parallel()

	d, _ := newTestDecoder(t, map[string][]byte{"empty.wav": rampWAV(t, 8000, 2, 0)})
	if !d.Open("empty.wav", audio.ModeLoop) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	if n := d.DecodeFrames(make([]int16, 8), 4); n != 0 {
		t.Errorf("DecodeFrames() = %d, want 0", n)
	}
}

func TestDecoder_Rewind(t *testing.T) {
	t.Parallel()

	d, _ := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 8000, 1, 4)})
	if !d.Open("a.wav", audio.ModeOnce) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	dst := make([]int16, 4)
	d.DecodeFrames(dst, 4)
	if n := d.DecodeFrames(dst, 4); n != 0 {
		t.Fatalf("DecodeFrames() at end = %d, want 0", n)
	}

	d.Rewind()
	if n := d.DecodeFrames(dst, 2); n != 2 || dst[0] != 0 || dst[1] != 10 {
		t.Errorf("after Rewind: n = %d, dst = %v; want 2, [0 10]", n, dst[:2])
	}

	// mid-stream rewind drops buffered frames
	d.Rewind()
	if n := d.DecodeFrames(dst, 1); n != 1 || dst[0] != 0 {
		t.Errorf("mid-stream Rewind: n = %d, dst[0] = %d; want 1, 0", n, dst[0])
	}
}

func TestDecoder_CapsToDst(t *testing.T) {
	t.Parallel()

	d, _ := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 8000, 2, 10)})
	if !d.Open("a.wav", audio.ModeOnce) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	// room for 2 frames and a half
	if n := d.DecodeFrames(make([]int16, 5), 10); n != 2 {
		t.Errorf("DecodeFrames() = %d, want 2", n)
	}
	if n := d.DecodeFrames(make([]int16, 4), 0); n != 0 {
		t.Errorf("DecodeFrames(frames=0) = %d, want 0", n)
	}
}

func TestDecoder_Close(t *testing.T) {
	t.Parallel()

	d, fs := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 8000, 1, 4)})

	// closing a decoder that never opened is fine
	d.Close()

	if !d.Open("a.wav", audio.ModeOnce) {
		t.Fatalf("Open() error = %v", d.Err())
	}
	d.Close()
	d.Close()

	if !fs.opened[0].closed {
		t.Error("reader not closed")
	}
	if d.Channels() != 0 || d.SampleRate() != 0 || d.Format() != "" {
		t.Errorf("closed geometry = %d ch, %d Hz, %q", d.Channels(), d.SampleRate(), d.Format())
	}
	if n := d.DecodeFrames(make([]int16, 4), 4); n != 0 {
		t.Errorf("DecodeFrames() after Close = %d, want 0", n)
	}

	// Rewind on a closed decoder is a no-op
	d.Rewind()
}

func TestDecoder_ReopenClosesPrevious(t *testing.T) {
	t.Parallel()

	d, fs := newTestDecoder(t, map[string][]byte{
		"a.wav": rampWAV(t, 8000, 1, 4),
		"b.wav": rampWAV(t, 16000, 2, 4),
	})

	if !d.Open("a.wav", audio.ModeOnce) || !d.Open("b.wav", audio.ModeOnce) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	if !fs.opened[0].closed {
		t.Error("first reader still open")
	}
	if fs.opened[1].closed {
		t.Error("second reader closed")
	}
	if d.Channels() != 2 || d.SampleRate() != 16000 {
		t.Errorf("geometry = %d ch, %d Hz", d.Channels(), d.SampleRate())
	}
}

func TestDecoder_OpenFailures(t *testing.T) {
	t.Parallel()

	eightBit := rampWAV(t, 8000, 1, 4)
	eightBit[34] = 8 // bits per sample

	aiffHeader := []byte("FORM\x00\x00\x00\x20AIFFCOMM\x00\x00\x00\x12")

	tests := []struct {
		name   string
		handle any
		want   error
	}{
		{"missing file", "nope.wav", os.ErrNotExist},
		{"unknown container", "notes.txt", ErrUnknownContainer},
		{"unregistered format", "a.aiff", audio.ErrUnknownFormat},
		{"codec rejects", "8bit.wav", wav.ErrOnlyPCM16bitSupported},
		{"empty file", "zero.wav", ErrUnknownContainer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			d, fs := newTestDecoder(t, map[string][]byte{
				"notes.txt": []byte("just some text, not audio"),
				"a.aiff":    aiffHeader,
				"8bit.wav":  eightBit,
				"zero.wav":  nil,
			}, WithLogger(zap.New(core)))

			if d.Open(tt.handle, audio.ModeOnce) {
				t.Fatal("Open() = true, want false")
			}
			if !errors.Is(d.Err(), tt.want) {
				t.Errorf("Err() = %v, want %v", d.Err(), tt.want)
			}
			if d.Channels() != 0 {
				t.Errorf("Channels() = %d after failed open", d.Channels())
			}
			for _, f := range fs.opened {
				if !f.closed {
					t.Error("reader left open after failed Open")
				}
			}

			entries := logs.FilterMessage("open failed").All()
			if len(entries) != 1 {
				t.Fatalf("logged %d open failures, want 1", len(entries))
			}
			if entries[0].Level != zapcore.WarnLevel {
				t.Errorf("log level = %v, want warn", entries[0].Level)
			}
		})
	}
}

func TestDecoder_OpenClearsError(t *testing.T) {
	t.Parallel()

	d, _ := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 8000, 1, 2)})

	if d.Open("missing.wav", audio.ModeOnce) {
		t.Fatal("Open(missing) = true")
	}
	if !d.Open("a.wav", audio.ModeOnce) {
		t.Fatalf("Open() error = %v", d.Err())
	}
	if d.Err() != nil {
		t.Errorf("Err() = %v after successful open", d.Err())
	}
}

func TestDecoder_Unconfigured(t *testing.T) {
	t.Parallel()

	d := New(nil, nil)
	if d.Open("a.wav", audio.ModeOnce) {
		t.Error("Open() = true without opener or registry")
	}
	if !errors.Is(d.Err(), audio.ErrUnknownFormat) {
		t.Errorf("Err() = %v", d.Err())
	}
}

// brokenCodec yields a few samples and then fails.
type brokenCodec struct{ err error }

func (c brokenCodec) Decode(io.Reader) (audio.Source, error) {
	return &brokenSource{MockSource: audiotest.NewRampSource(8000, 1, 3), err: c.err}, nil
}

type brokenSource struct {
	*audiotest.MockSource
	err error
}

func (s *brokenSource) ReadSamples(dst []int16) (int, error) {
	n, err := s.MockSource.ReadSamples(dst)
	if errors.Is(err, io.EOF) {
		return n, s.err
	}
	return n, err
}

func TestDecoder_DecodeErrorIsLoggedAndKept(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	core, logs := observer.New(zapcore.DebugLevel)

	reg := audio.NewRegistry()
	reg.Register("wav", brokenCodec{err: boom})
	fs := &memFS{files: map[string][]byte{"a.wav": rampWAV(t, 8000, 1, 3)}}
	d := New(fs.open, reg, WithLogger(zap.New(core)))

	// loop mode must not retry after a decode error
	if !d.Open("a.wav", audio.ModeLoop) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	if n := d.DecodeFrames(make([]int16, 10), 10); n != 3 {
		t.Errorf("DecodeFrames() = %d, want 3", n)
	}
	if !errors.Is(d.Err(), boom) {
		t.Errorf("Err() = %v, want %v", d.Err(), boom)
	}
	if logs.FilterMessage("decode failed").Len() != 1 {
		t.Errorf("decode failure not logged: %v", logs.All())
	}

	// Rewind recovers and clears the error
	d.Rewind()
	if d.Err() != nil {
		t.Errorf("Err() after Rewind = %v", d.Err())
	}
	if n := d.DecodeFrames(make([]int16, 2), 2); n != 2 {
		t.Errorf("DecodeFrames() after Rewind = %d, want 2", n)
	}
}

func TestDecoder_OpenLogsDebug(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	d, _ := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 8000, 2, 2)}, WithLogger(zap.New(core)))

	if !d.Open("a.wav", audio.ModeLoop) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	entries := logs.FilterMessage("opened").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d opens, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["format"] != "wav" || fields["mode"] != "loop" || fields["channels"] != int64(2) {
		t.Errorf("fields = %v", fields)
	}
}

func TestFileOpener(t *testing.T) {
	t.Parallel()

	if _, err := FileOpener(42); !errors.Is(err, ErrBadHandle) {
		t.Errorf("FileOpener(42) error = %v, want %v", err, ErrBadHandle)
	}

	if _, err := FileOpener(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("FileOpener(missing) error = %v, want %v", err, os.ErrNotExist)
	}

	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, rampWAV(t, 8000, 1, 6), 0o600); err != nil {
		t.Fatal(err)
	}

	d := New(FileOpener, wavRegistry())
	if !d.Open(path, audio.ModeOnce) {
		t.Fatalf("Open() error = %v", d.Err())
	}
	defer d.Close()

	if n := d.DecodeFrames(make([]int16, 10), 10); n != 6 {
		t.Errorf("DecodeFrames() = %d, want 6", n)
	}
}

func TestDecoder_DecodeFramesAllocs(t *testing.T) {
	d, _ := newTestDecoder(t, map[string][]byte{"a.wav": rampWAV(t, 8000, 2, 100000)})
	if !d.Open("a.wav", audio.ModeOnce) {
		t.Fatalf("Open() error = %v", d.Err())
	}

	dst := make([]int16, 2)
	// prime the go-audio read path
	d.DecodeFrames(dst, 1)

	allocs := testing.AllocsPerRun(100, func() {
		d.DecodeFrames(dst, 1)
	})
	// refills go through go-audio, which allocates per read; serving from
	// the buffer does not
	if allocs > 1 {
		t.Errorf("DecodeFrames() allocs = %v, want <= 1", allocs)
	}
}

func BenchmarkDecoder_DecodeFrames(b *testing.B) {
	data := rampWAV(b, 44100, 2, 44100)
	d, _ := newTestDecoder(b, map[string][]byte{"a.wav": data})
	if !d.Open("a.wav", audio.ModeLoop) {
		b.Fatalf("Open() error = %v", d.Err())
	}
	dst := make([]int16, 2*256)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		d.DecodeFrames(dst, 256)
	}
}
