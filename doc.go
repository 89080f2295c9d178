// SPDX-License-Identifier: EPL-2.0

// Package audtrack plays a single audio track with fixed-point fades.
//
// The engine lives in subpackages:
//   - track: the controller (Start, Fade, Stop, Play)
//   - fade: gain curves over a fade window
//   - cosine: the table backing the cosine and S-curve shapes
//   - stream: the file-backed decoder a track reads from
//   - audio: 16-bit PCM primitives, gain and channel conversion
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: containers
//
// This package wires them together for the common case of playing files.
//
// # Supported Formats
//
// The registry from NewRegistry decodes:
//   - WAV (PCM 16-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16-bit) via formats/aiff
//
// The container is sniffed from the first bytes of the file, so the file
// name does not matter.
//
// # Quick Start
//
//	t, err := audtrack.NewFileTrack(2, logger)
//	if err != nil {
//	    return err
//	}
//
//	// start silent, then fade in over half a second of the file's rate
//	if err := t.Start("music.ogg", audio.ModeLoop, 0, fade.None, 0); err != nil {
//	    return err
//	}
//	t.Fade(audio.UnitGain, fade.SCurveIn, t.Frames(500*time.Millisecond))
//
//	buf := make([]int16, 2*480)
//	for t.Running() {
//	    n := t.Play(buf, 480)
//	    // hand buf[:2*n] to the output device
//	}
//
// Play is meant for an audio callback: it never allocates and never
// blocks on anything but the decoder.
//
// # Gain
//
// Gains are integers over audio.UnitGain (65536 = unity). Targets are
// clamped to [0, audio.MaxGain]; samples that overflow int16 saturate.
//
// # Offline Rendering
//
// Render collects a track's output into a slice, which is how the
// audtrack command writes WAV files:
//
//	pcm := audtrack.Render(t, 1024, 0)
//	wav.WriteWAV16(out, t.SampleRate(), t.Channels(), pcm)
package audtrack
