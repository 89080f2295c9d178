// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level 16-bit PCM primitives.
//
// This package contains the building blocks shared by the decoders and the
// track:
//   - Source interface for decoded PCM input
//   - Registry of format decoders
//   - Mode, the open mode handed to track decoders
//   - fixed-point gain (UnitGain, ScaleSample)
//   - frame channel conversion (RemixFrame)
//
// # Source Interface
//
// The Source interface is the foundation of decoding:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []int16) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples counts int16 values, not frames. ReadFrames wraps it to fill
// a buffer with whole frames:
//
//	buf := make([]int16, 2*480)
//	frames, err := audio.ReadFrames(src, buf)
//
// # Gain
//
// Gains are integers over UnitGain (65536). ScaleSample multiplies in 64
// bits, truncates toward zero and saturates to int16:
//
//	audio.ScaleSample(10000, audio.UnitGain/2) // 5000
//
// # Channel Conversion
//
// RemixFrame converts one frame between channel counts. Equal counts copy,
// a mono source is duplicated, and a mono destination receives the integer
// mean of the source channels:
//
//	mono := make([]int16, 1)
//	audio.RemixFrame(mono, []int16{100, 300}) // mono[0] == 200
//
// Any other combination is reported as unsupported.
//
// # Format Registry
//
// The registry allows dynamic decoder registration:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, _ := registry.Get("wav")
//
// # Error Handling
//
// Sources return io.EOF when no more data is available.
// Other errors indicate problems with the source:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Decoding error
//	    }
//	    // Process n samples from buf
//	}
package audio
